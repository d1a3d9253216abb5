// Package position derives the account's live position each cycle. Nothing
// here is persisted; the tracker recomputes from the freshest balance (and,
// where the exchange reports no entry price, from the fill ledger).
package position

import (
	"context"

	"github.com/shopspring/decimal"

	"coin-trading-bot/internal/interfaces"
	"coin-trading-bot/internal/types"
)

// Tracker reconciles the current position from exchange state.
type Tracker interface {
	Position(ctx context.Context, bal types.Balance) (types.Position, error)
}

// AccountTracker reads the entry price straight off the account. Usable only
// on exchanges whose balance endpoint reports avg_buy_price.
type AccountTracker struct{}

func NewAccountTracker() *AccountTracker { return &AccountTracker{} }

func (t *AccountTracker) Position(_ context.Context, bal types.Balance) (types.Position, error) {
	qty := bal.BaseTotal
	if qty.IsZero() {
		return types.Position{}, nil
	}
	invested := bal.AvgBuyPrice.Mul(qty)
	return types.Position{
		AvgEntryPrice:   bal.AvgBuyPrice,
		Quantity:        qty,
		InvestedCapital: invested,
		InvestmentRatio: ratio(invested, bal.QuoteTotal),
	}, nil
}

// LedgerTracker reconstructs the average entry price from recorded buy
// fills. Quantity still comes from the exchange balance, which is the
// authority on what the account actually holds.
type LedgerTracker struct {
	ledger interfaces.Ledger
	market string
	limit  int
}

func NewLedgerTracker(ledger interfaces.Ledger, market string) *LedgerTracker {
	return &LedgerTracker{ledger: ledger, market: market, limit: 500}
}

func (t *LedgerTracker) Position(ctx context.Context, bal types.Balance) (types.Position, error) {
	qty := bal.BaseTotal
	if qty.IsZero() {
		return types.Position{}, nil
	}

	fills, err := t.ledger.RecentFills(ctx, t.market, t.limit)
	if err != nil {
		return types.Position{}, err
	}

	var spent, bought decimal.Decimal
	for _, f := range fills {
		if f.Side != types.Buy {
			continue
		}
		spent = spent.Add(f.Price.Mul(f.Quantity))
		bought = bought.Add(f.Quantity)
	}

	var avg decimal.Decimal
	if bought.IsPositive() {
		avg = spent.Div(bought)
	}
	invested := avg.Mul(qty)
	return types.Position{
		AvgEntryPrice:   avg,
		Quantity:        qty,
		InvestedCapital: invested,
		InvestmentRatio: ratio(invested, bal.QuoteTotal),
	}, nil
}

func ratio(invested, quote decimal.Decimal) float64 {
	total := invested.Add(quote)
	if !total.IsPositive() {
		return 0
	}
	r, _ := invested.Div(total).Float64()
	return r
}

// ProfitRate is the signed percentage move from the entry price. An unknown
// entry price yields 0 so a ledgerless position can never trip a forced exit.
func ProfitRate(pos types.Position, price decimal.Decimal) float64 {
	if pos.AvgEntryPrice.IsZero() {
		return 0
	}
	r, _ := price.Sub(pos.AvgEntryPrice).Div(pos.AvgEntryPrice).Mul(decimal.NewFromInt(100)).Float64()
	return r
}

// ForcedExit returns a full liquidation decision when the position has moved
// more than thresholdPct in either direction.
func ForcedExit(pos types.Position, price decimal.Decimal, thresholdPct float64) (types.Decision, bool) {
	if pos.Zero() {
		return types.Decision{}, false
	}
	rate := ProfitRate(pos, price)
	if rate > thresholdPct || rate < -thresholdPct {
		reason := "stop loss"
		if rate > 0 {
			reason = "take profit"
		}
		return types.Decision{
			Action:     types.Sell,
			Percentage: 100,
			Rationale:  reason,
		}, true
	}
	return types.Decision{}, false
}
