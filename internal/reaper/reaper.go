// Package reaper cancels orders that have sat unfilled past the timeout so
// a stuck limit order cannot pin the balance forever.
package reaper

import (
	"context"
	"log/slog"
	"time"

	"coin-trading-bot/internal/interfaces"
)

type Reaper struct {
	ex      interfaces.Exchange
	timeout time.Duration
	log     *slog.Logger
	now     func() time.Time
}

func New(ex interfaces.Exchange, timeout time.Duration, log *slog.Logger) *Reaper {
	if timeout <= 0 {
		timeout = 600 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Reaper{ex: ex, timeout: timeout, log: log, now: time.Now}
}

// Reap cancels every open order older than the timeout and returns how many
// were cancelled. A failed cancel is logged and skipped; the next run picks
// the order up again, and cancelling an order that meanwhile filled or was
// cancelled is harmless.
func (r *Reaper) Reap(ctx context.Context) (int, error) {
	orders, err := r.ex.ListOpenOrders(ctx)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	now := r.now()
	for _, o := range orders {
		if o.CreatedAt.IsZero() {
			r.log.Warn("open order has no parseable timestamp, skipping", "order_id", o.ID)
			continue
		}
		age := now.Sub(o.CreatedAt)
		if age <= r.timeout {
			continue
		}
		if err := r.ex.CancelOrder(ctx, o); err != nil {
			r.log.Error("cancel stale order failed", "order_id", o.ID, "age", age, "err", err)
			continue
		}
		r.log.Info("cancelled stale order", "order_id", o.ID, "side", o.Side, "age", age)
		cancelled++
	}
	return cancelled, nil
}
