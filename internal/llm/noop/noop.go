package noop

import (
	"context"

	"coin-trading-bot/internal/logger"
	"coin-trading-bot/internal/types"
)

// Advisor is the fallback used when no LLM backend is configured. It always
// advises HOLD, so the engine's risk paths (forced exits, reaping) keep
// running without ever opening a position.
type Advisor struct{}

func NewAdvisor() *Advisor {
	return &Advisor{}
}

func (a *Advisor) Advise(ctx context.Context, market string, latest types.Candle, inds *types.IndicatorSet, position types.Position) (types.RawDecision, error) {
	logger.Debug(ctx, "Noop advisor called - always returns HOLD", "market", market)
	return types.RawDecision{
		Action:    string(types.Hold),
		Rationale: "noop_advisor_fallback",
	}, nil
}
