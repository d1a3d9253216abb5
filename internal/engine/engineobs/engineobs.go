package engineobs

import (
	"context"
	"time"

	"coin-trading-bot/internal/interfaces"
	"coin-trading-bot/internal/logger"
	"coin-trading-bot/internal/trace"
	"coin-trading-bot/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{engine: eng}
}

func (oe *observableEngine) Step(ctx context.Context) (*types.CycleResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Step")
	defer span.End()

	start := time.Now()
	logger.InfoSkip(ctx, 1, "Starting trading cycle")

	result, err := oe.engine.Step(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Trading cycle failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Trading cycle completed",
		"market", result.Market,
		"action", result.Decision.Action,
		"percentage", result.Decision.Percentage,
		"forced", result.Forced,
		"reaped", result.Reaped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}
