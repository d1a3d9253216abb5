package advisorobs

import (
	"context"

	"coin-trading-bot/internal/interfaces"
	"coin-trading-bot/internal/logger"
	"coin-trading-bot/internal/trace"
	"coin-trading-bot/internal/types"
)

// observableAdvisor wraps an Advisor with logging and tracing.
type observableAdvisor struct {
	advisor interfaces.Advisor
}

var _ interfaces.Advisor = (*observableAdvisor)(nil)

func Wrap(advisor interfaces.Advisor) interfaces.Advisor {
	return &observableAdvisor{advisor: advisor}
}

func (oa *observableAdvisor) Advise(
	ctx context.Context,
	market string,
	latest types.Candle,
	inds *types.IndicatorSet,
	position types.Position,
) (types.RawDecision, error) {
	ctx, span := trace.StartSpan(ctx, "advisor.Advise")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting trading advice",
		"market", market,
		"price", latest.Close,
	)

	raw, err := oa.advisor.Advise(ctx, market, latest, inds, position)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to get trading advice", err,
			"market", market,
			"price", latest.Close,
		)
		return types.RawDecision{}, err
	}

	logger.InfoSkip(ctx, 1, "Trading advice received",
		"market", market,
		"action", raw.Action,
		"percentage", raw.Percentage,
	)
	return raw, nil
}
