package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"coin-trading-bot/internal/engine"
	"coin-trading-bot/internal/engine/engineobs"
	"coin-trading-bot/internal/exchange"
	"coin-trading-bot/internal/exchange/bithumb"
	"coin-trading-bot/internal/exchange/upbit"
	"coin-trading-bot/internal/interfaces"
	"coin-trading-bot/internal/ledger"
	"coin-trading-bot/internal/llm/advisorobs"
	"coin-trading-bot/internal/llm/noop"
	"coin-trading-bot/internal/logger"
	"coin-trading-bot/internal/position"
	"coin-trading-bot/internal/reaper"
	"coin-trading-bot/internal/sizing"
	"coin-trading-bot/internal/snapshot"
	"coin-trading-bot/internal/store"
	"coin-trading-bot/internal/trace"
	"coin-trading-bot/internal/tradelog"
)

func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("BOT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

func compressOldLogs(ctx context.Context, cfg *store.Config) {
	if err := tradelog.CompressOlder(cfg.Journal.RetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old journal files", "error", err)
	}
}

// requireCreds fails fast in LIVE mode; DRY_RUN runs keyless.
func requireCreds(cfg *store.Config, vars ...string) error {
	if cfg.Mode != "LIVE" {
		return nil
	}
	for _, v := range vars {
		if os.Getenv(v) == "" {
			return fmt.Errorf("LIVE mode requires %s to be set", v)
		}
	}
	return nil
}

func initializeExchange(ctx context.Context, cfg *store.Config) (interfaces.Exchange, error) {
	var ex interfaces.Exchange
	switch cfg.Exchange {
	case "upbit":
		if err := requireCreds(cfg, "UPBIT_ACCESS_KEY", "UPBIT_SECRET_KEY"); err != nil {
			return nil, err
		}
		ex = upbit.New(upbit.Params{
			AccessKey: os.Getenv("UPBIT_ACCESS_KEY"),
			SecretKey: os.Getenv("UPBIT_SECRET_KEY"),
			Asset:     cfg.Asset,
			Quote:     cfg.Quote,
		})
	case "bithumb":
		if err := requireCreds(cfg, "BITHUMB_API_KEY", "BITHUMB_API_SECRET"); err != nil {
			return nil, err
		}
		ex = bithumb.New(bithumb.Params{
			APIKey:    os.Getenv("BITHUMB_API_KEY"),
			APISecret: os.Getenv("BITHUMB_API_SECRET"),
			Asset:     cfg.Asset,
			Quote:     cfg.Quote,
		})
	default:
		return nil, fmt.Errorf("unknown exchange %q", cfg.Exchange)
	}

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
		ex = exchange.DryRun(ex)
	}
	logger.Info(ctx, "Exchange initialized", "exchange", cfg.Exchange, "market", cfg.Market())
	return ex, nil
}

func initializeLedger(ctx context.Context, cfg *store.Config) (interfaces.Ledger, error) {
	if cfg.Ledger.Driver == "postgres" {
		pg, err := ledger.NewPostgres(cfg.Ledger.PostgresURL)
		if err != nil {
			return nil, err
		}
		if err := pg.InitSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to init ledger schema: %w", err)
		}
		logger.Info(ctx, "Using postgres fill ledger")
		return pg, nil
	}
	logger.Info(ctx, "Using file fill ledger")
	return ledger.NewFile(), nil
}

func initializeTracker(ex interfaces.Exchange, led interfaces.Ledger, cfg *store.Config) position.Tracker {
	if ex.AvgBuyPriceSupported() {
		return position.NewAccountTracker()
	}
	return position.NewLedgerTracker(led, cfg.Market())
}

func initializeAdvisor(ctx context.Context, cfg *store.Config) interfaces.Advisor {
	// noop is the only wired provider; an LLM backend slots in here
	if cfg.LLM.Provider != "noop" {
		logger.Warn(ctx, "Unknown LLM provider, falling back to noop", "provider", cfg.LLM.Provider)
	}
	return advisorobs.Wrap(noop.NewAdvisor())
}

func initializeSnapshots(ctx context.Context, cfg *store.Config) interfaces.SnapshotStore {
	if !cfg.Snapshot.Enabled {
		return snapshot.Noop{}
	}
	st, err := snapshot.NewRedisStore(
		cfg.Snapshot.RedisAddr,
		os.Getenv("REDIS_PASSWORD"),
		cfg.Snapshot.RedisDB,
		cfg.Exchange,
		time.Duration(cfg.Snapshot.TTLSeconds)*time.Second,
	)
	if err != nil {
		logger.Warn(ctx, "Snapshot store unavailable, continuing without it", "error", err)
		return snapshot.Noop{}
	}
	logger.Info(ctx, "Snapshot store connected", "addr", cfg.Snapshot.RedisAddr)
	return st
}

func buildEngine(cfg *store.Config, ex interfaces.Exchange, led interfaces.Ledger) interfaces.Engine {
	tracker := initializeTracker(ex, led, cfg)
	sizer := sizing.New(
		cfg.Asset,
		decimal.NewFromFloat(cfg.Trading.MaxInvestment),
		decimal.NewFromFloat(cfg.Trading.MinOrderNotional),
		minTradeTable(cfg),
	)
	rp := reaper.New(ex, time.Duration(cfg.Risk.StaleOrderTimeoutSeconds)*time.Second, logger.Logger())
	adv := initializeAdvisor(context.Background(), cfg)
	return engineobs.Wrap(engine.New(cfg, ex, adv, led, tracker, sizer, rp))
}

func minTradeTable(cfg *store.Config) *sizing.MinTradeTable {
	if len(cfg.Trading.MinTradeAmounts) == 0 {
		return sizing.DefaultMinTradeTable()
	}
	amounts := make(map[string]decimal.Decimal, len(cfg.Trading.MinTradeAmounts))
	for asset, v := range cfg.Trading.MinTradeAmounts {
		amounts[asset] = decimal.NewFromFloat(v)
	}
	return sizing.NewMinTradeTable(amounts, decimal.RequireFromString("0.0001"))
}
