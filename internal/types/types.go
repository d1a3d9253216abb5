package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle is a single OHLCV bar. Immutable once appended to a window.
type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// PriceWindow holds the bars for one timeframe, index 0 = most recent.
// All indicator math slices the leading `period` bars of this ordering, so
// any producer must sort newest-first before filling a window.
type PriceWindow struct {
	Unit  int // timeframe in minutes
	Bars  []Candle
	limit int
}

func NewPriceWindow(unit, capacity int) *PriceWindow {
	return &PriceWindow{Unit: unit, Bars: make([]Candle, 0, capacity), limit: capacity}
}

// Fill replaces the window contents wholesale. Bars must already be newest-first.
func (w *PriceWindow) Fill(bars []Candle) {
	if w.limit > 0 && len(bars) > w.limit {
		bars = bars[:w.limit]
	}
	w.Bars = bars
}

func (w *PriceWindow) Len() int { return len(w.Bars) }

// Latest returns the most recent bar.
func (w *PriceWindow) Latest() (Candle, bool) {
	if len(w.Bars) == 0 {
		return Candle{}, false
	}
	return w.Bars[0], true
}

type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
	Hold Action = "HOLD"
)

// RawDecision is what the advisor collaborator hands back before validation.
// FreeText carries the whole response when the advisor only emits prose; the
// decision package's edge adapter extracts Action/Percentage from it.
type RawDecision struct {
	Action     string `json:"action"`
	Percentage int    `json:"percentage"`
	Rationale  string `json:"rationale,omitempty"`
	FreeText   string `json:"free_text,omitempty"`
}

// Decision is the canonical, validated form. HOLD always carries Percentage 0.
type Decision struct {
	Action     Action `json:"action"`
	Percentage int    `json:"percentage"`
	Rationale  string `json:"rationale,omitempty"`
}

// Balance is the pair's account state at one instant. Fetched fresh before
// every sizing step; fills outside this process invalidate any cached copy.
type Balance struct {
	QuoteAvailable decimal.Decimal
	QuoteTotal     decimal.Decimal
	BaseAvailable  decimal.Decimal
	BaseTotal      decimal.Decimal
	// AvgBuyPrice is the exchange-reported average entry price when the
	// integration exposes one (upbit does, bithumb does not).
	AvgBuyPrice decimal.Decimal
}

// Position is derived every cycle, never stored.
type Position struct {
	AvgEntryPrice   decimal.Decimal
	Quantity        decimal.Decimal
	InvestedCapital decimal.Decimal
	InvestmentRatio float64
}

func (p Position) Zero() bool { return p.Quantity.IsZero() }

type OrderStatus string

const (
	OrderWait      OrderStatus = "WAIT"
	OrderFilled    OrderStatus = "FILLED"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderRejected  OrderStatus = "REJECTED"
)

// Order as reported by an exchange.
type Order struct {
	ID        string
	Side      Action
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Status    OrderStatus
	CreatedAt time.Time
}

// SizedOrder is the sizer's output: a quantity safe to submit.
type SizedOrder struct {
	Side        Action
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	QuoteAmount decimal.Decimal
}

// Fill is one executed trade as the ledger records it.
type Fill struct {
	Ts          time.Time
	Market      string
	Side        Action
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	TotalAmount decimal.Decimal
	OrderID     string
}

// CycleResult summarizes one pass of the trading loop.
type CycleResult struct {
	Market     string        `json:"market"`
	Price      float64       `json:"price"`
	Time       int64         `json:"time"`
	Decision   Decision      `json:"decision"`
	OrderID    string        `json:"order_id,omitempty"`
	Forced     bool          `json:"forced,omitempty"`
	Reaped     int           `json:"reaped,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	Position   Position      `json:"-"`
	Indicators *IndicatorSet `json:"-"`
}
