package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"coin-trading-bot/internal/tradelog"
	"coin-trading-bot/internal/types"
)

// File serves fills from the daily trade journal. It reads back a bounded
// number of days, which is plenty for average-entry reconciliation.
type File struct {
	days int
}

func NewFile() *File { return &File{days: 90} }

func (l *File) RecordFill(_ context.Context, f types.Fill) error {
	return tradelog.AppendFill(tradelog.FillEntry{
		Time:        f.Ts.Format("2006-01-02 15:04:05"),
		Market:      f.Market,
		Side:        string(f.Side),
		OrderID:     f.OrderID,
		Quantity:    f.Quantity.String(),
		Price:       f.Price.String(),
		TotalAmount: f.TotalAmount.String(),
	})
}

func (l *File) RecentFills(_ context.Context, market string, limit int) ([]types.Fill, error) {
	entries, err := tradelog.ReadFills(l.days)
	if err != nil {
		return nil, err
	}
	// entries are oldest first; walk backwards so the newest come out first
	fills := make([]types.Fill, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(fills) < limit; i-- {
		e := entries[i]
		if e.Market != market {
			continue
		}
		f := types.Fill{
			Market:  e.Market,
			Side:    types.Action(e.Side),
			OrderID: e.OrderID,
		}
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", e.Time, time.Local); err == nil {
			f.Ts = t
		}
		f.Quantity = parseDec(e.Quantity)
		f.Price = parseDec(e.Price)
		f.TotalAmount = parseDec(e.TotalAmount)
		fills = append(fills, f)
	}
	return fills, nil
}

func (l *File) Close() error { return nil }

func parseDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
