package interfaces

import (
	"context"

	"coin-trading-bot/internal/types"
)

// Advisor produces the raw trading call for one cycle. Implementations may
// return structured fields or only FreeText; the decision package handles
// both.
type Advisor interface {
	Advise(ctx context.Context, market string, latest types.Candle, inds *types.IndicatorSet, position types.Position) (types.RawDecision, error)
}
