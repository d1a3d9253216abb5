package interfaces

import (
	"context"

	"coin-trading-bot/internal/types"
)

type Engine interface {
	Step(ctx context.Context) (*types.CycleResult, error)
}
