package interfaces

import (
	"context"

	"coin-trading-bot/internal/types"
)

// SnapshotStore keeps the last cycle result per market so dashboards and
// restarts can read the bot's most recent state.
type SnapshotStore interface {
	Save(ctx context.Context, res *types.CycleResult) error
	Load(ctx context.Context, market string) (*types.CycleResult, error)
	Close() error
}
