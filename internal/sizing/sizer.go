// Package sizing turns a validated decision plus a fresh balance into an
// exchange-safe order quantity. All arithmetic is decimal so a float rounding
// artifact can never flip a quantity across a minimum-step boundary.
package sizing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"coin-trading-bot/internal/types"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds for minimum order")
	ErrNothingToSize     = errors.New("decision does not place an order")
)

// SizingError wraps a sizing failure with the context needed to reconstruct
// intent from logs.
type SizingError struct {
	Side   types.Action
	Reason string
	Err    error
}

func (e *SizingError) Error() string {
	return fmt.Sprintf("sizing %s: %s: %v", e.Side, e.Reason, e.Err)
}

func (e *SizingError) Unwrap() error { return e.Err }

// MinTradeTable maps asset symbol to the exchange's minimum order quantity.
// The minimum also fixes the quantity step: quantities are truncated to the
// minimum's decimal exponent.
type MinTradeTable struct {
	amounts  map[string]decimal.Decimal
	fallback decimal.Decimal
}

func NewMinTradeTable(amounts map[string]decimal.Decimal, fallback decimal.Decimal) *MinTradeTable {
	if amounts == nil {
		amounts = map[string]decimal.Decimal{}
	}
	return &MinTradeTable{amounts: amounts, fallback: fallback}
}

// DefaultMinTradeTable carries the exchange-published minimums for the listed
// assets and a conservative fallback for everything else.
func DefaultMinTradeTable() *MinTradeTable {
	return NewMinTradeTable(map[string]decimal.Decimal{
		"BTC": decimal.RequireFromString("0.0001"),
		"ETH": decimal.RequireFromString("0.001"),
		"XRP": decimal.RequireFromString("1"),
	}, decimal.RequireFromString("0.0001"))
}

func (t *MinTradeTable) Min(asset string) decimal.Decimal {
	if v, ok := t.amounts[asset]; ok {
		return v
	}
	return t.fallback
}

// Sizer converts decisions into orders for one asset.
type Sizer struct {
	Asset         string
	MaxInvestment decimal.Decimal // quote-currency ceiling for a 100% BUY
	MinNotional   decimal.Decimal // absolute quote floor below which no order is placed
	Table         *MinTradeTable
}

func New(asset string, maxInvestment, minNotional decimal.Decimal, table *MinTradeTable) *Sizer {
	if table == nil {
		table = DefaultMinTradeTable()
	}
	return &Sizer{Asset: asset, MaxInvestment: maxInvestment, MinNotional: minNotional, Table: table}
}

// truncToStep truncates q down to the decimal places of the minimum amount,
// the quantize(min, ROUND_DOWN) semantics the exchanges expect.
func truncToStep(q, min decimal.Decimal) decimal.Decimal {
	return q.Truncate(-min.Exponent())
}

// Size computes the order for a decision. HOLD returns ErrNothingToSize.
// The balance must have been fetched in the same cycle.
func (s *Sizer) Size(d types.Decision, bal types.Balance, price decimal.Decimal) (types.SizedOrder, error) {
	if d.Action == types.Hold || d.Percentage == 0 {
		return types.SizedOrder{}, &SizingError{Side: d.Action, Reason: "hold decision", Err: ErrNothingToSize}
	}
	if price.Sign() <= 0 {
		return types.SizedOrder{}, &SizingError{Side: d.Action, Reason: "non-positive price", Err: ErrNothingToSize}
	}
	pct := decimal.NewFromInt(int64(d.Percentage)).Div(decimal.NewFromInt(100))
	min := s.Table.Min(s.Asset)

	switch d.Action {
	case types.Buy:
		return s.sizeBuy(pct, bal, price, min)
	case types.Sell:
		return s.sizeSell(pct, bal, price, min)
	default:
		return types.SizedOrder{}, &SizingError{Side: d.Action, Reason: "unknown side", Err: ErrNothingToSize}
	}
}

func (s *Sizer) sizeBuy(pct decimal.Decimal, bal types.Balance, price, min decimal.Decimal) (types.SizedOrder, error) {
	target := s.MaxInvestment.Mul(pct)
	if target.GreaterThan(bal.QuoteAvailable) {
		target = bal.QuoteAvailable
	}
	if target.LessThan(s.MinNotional) {
		return types.SizedOrder{}, &SizingError{
			Side:   types.Buy,
			Reason: fmt.Sprintf("target amount %s below notional floor %s", target, s.MinNotional),
			Err:    ErrInsufficientFunds,
		}
	}
	qty := truncToStep(target.Div(price), min)
	if qty.LessThan(min) {
		return types.SizedOrder{}, &SizingError{
			Side:   types.Buy,
			Reason: fmt.Sprintf("quantity %s below minimum %s", qty, min),
			Err:    ErrInsufficientFunds,
		}
	}
	return types.SizedOrder{Side: types.Buy, Quantity: qty, Price: price, QuoteAmount: qty.Mul(price)}, nil
}

func (s *Sizer) sizeSell(pct decimal.Decimal, bal types.Balance, price, min decimal.Decimal) (types.SizedOrder, error) {
	qty := truncToStep(bal.BaseAvailable.Mul(pct), min)
	if qty.LessThan(min) {
		// A sub-minimum slice is still sellable as exactly the minimum when
		// the full balance covers it; otherwise the position is too small.
		if bal.BaseAvailable.GreaterThanOrEqual(min) {
			qty = min
		} else {
			return types.SizedOrder{}, &SizingError{
				Side:   types.Sell,
				Reason: fmt.Sprintf("quantity %s below minimum %s with balance %s", qty, min, bal.BaseAvailable),
				Err:    ErrInsufficientFunds,
			}
		}
	}
	if qty.GreaterThan(bal.BaseAvailable) {
		qty = truncToStep(bal.BaseAvailable, min)
	}
	return types.SizedOrder{Side: types.Sell, Quantity: qty, Price: price, QuoteAmount: qty.Mul(price)}, nil
}
