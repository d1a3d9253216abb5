package interfaces

import (
	"context"

	"coin-trading-bot/internal/types"
)

// Ledger records executed fills and serves them back for position
// reconciliation on exchanges that do not report an average entry price.
type Ledger interface {
	RecordFill(ctx context.Context, f types.Fill) error
	// RecentFills returns up to limit fills for the market, newest first.
	RecentFills(ctx context.Context, market string, limit int) ([]types.Fill, error)
	Close() error
}
