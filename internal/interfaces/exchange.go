package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"coin-trading-bot/internal/types"
)

type Exchange interface {
	Name() string
	// AvgBuyPriceSupported reports whether GetBalance fills AvgBuyPrice.
	AvgBuyPriceSupported() bool
	Ticker(ctx context.Context) (decimal.Decimal, error)
	Candles(ctx context.Context, unit, count int) ([]types.Candle, error)
	GetBalance(ctx context.Context) (types.Balance, error)
	PlaceOrder(ctx context.Context, o types.SizedOrder) (types.Order, error)
	ListOpenOrders(ctx context.Context) ([]types.Order, error)
	CancelOrder(ctx context.Context, order types.Order) error
}
