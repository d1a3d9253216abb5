package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coin-trading-bot/internal/logger"
	"coin-trading-bot/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = trace.Shutdown(context.Background()) }()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}
	compressOldLogs(ctx, cfg)

	ex, err := initializeExchange(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize exchange", err)
		os.Exit(1)
	}

	led, err := initializeLedger(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize ledger", err)
		os.Exit(1)
	}
	defer led.Close()

	snaps := initializeSnapshots(ctx, cfg)
	defer snaps.Close()

	eng := buildEngine(cfg, ex, led)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer tick.Stop()

	logger.Info(ctx, "Bot started", "market", cfg.Market(), "mode", cfg.Mode, "poll_seconds", cfg.PollSeconds)
	for {
		select {
		case <-tick.C:
			res, err := eng.Step(ctx)
			if err != nil {
				// cycle isolation: log and wait for the next tick
				logger.ErrorWithErr(ctx, "Cycle aborted", err, "market", cfg.Market())
				continue
			}
			if res != nil {
				if err := snaps.Save(ctx, res); err != nil {
					logger.Warn(ctx, "Failed to save snapshot", "error", err)
				}
			}
		case <-sigc:
			logger.Info(ctx, "Shutting down")
			return
		case <-ctx.Done():
			return
		}
	}
}
