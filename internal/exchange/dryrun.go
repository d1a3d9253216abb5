package exchange

import (
	"context"
	"fmt"
	"time"

	"coin-trading-bot/internal/interfaces"
	"coin-trading-bot/internal/types"
)

// dryRun passes reads through to the real integration and simulates writes.
// Wrapping here keeps every integration honest in DRY_RUN without each
// client re-implementing the simulation.
type dryRun struct {
	interfaces.Exchange
}

// DryRun wraps an exchange so PlaceOrder and CancelOrder never hit the
// venue. Simulated orders fill immediately.
func DryRun(ex interfaces.Exchange) interfaces.Exchange {
	return &dryRun{Exchange: ex}
}

func (d *dryRun) PlaceOrder(_ context.Context, o types.SizedOrder) (types.Order, error) {
	return types.Order{
		ID:        fmt.Sprintf("SIM-%d", time.Now().UnixNano()),
		Side:      o.Side,
		Quantity:  o.Quantity,
		Price:     o.Price,
		Status:    types.OrderFilled,
		CreatedAt: time.Now(),
	}, nil
}

func (d *dryRun) CancelOrder(context.Context, types.Order) error { return nil }
