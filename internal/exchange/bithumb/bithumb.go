// Package bithumb implements the HMAC-signed integration. Private endpoints
// answer {"status": "...", "data": ...} where "0000" is success; anything
// else is an exchange-level failure even on HTTP 200, and the 5100 family
// means bad credentials.
package bithumb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"coin-trading-bot/internal/exchange"
	"coin-trading-bot/internal/types"
)

const (
	statusOK   = "0000"
	statusAuth = "5100"
)

type Params struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Asset     string // e.g. "BTC"
	Quote     string // e.g. "KRW"
	Timeout   time.Duration
}

type Client struct {
	p    Params
	http *http.Client
	now  func() time.Time
}

func New(p Params) *Client {
	if p.BaseURL == "" {
		p.BaseURL = "https://api.bithumb.com"
	}
	if p.Quote == "" {
		p.Quote = "KRW"
	}
	return &Client{p: p, http: exchange.NewHTTPClient(p.Timeout), now: time.Now}
}

func (c *Client) Name() string { return "bithumb" }

// AvgBuyPriceSupported reports whether the account endpoint exposes an
// average entry price. Bithumb does not; position reconciliation must use
// the fill ledger.
func (c *Client) AvgBuyPriceSupported() bool { return false }

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) checkEnvelope(op string, env envelope) error {
	switch {
	case env.Status == statusOK:
		return nil
	case strings.HasPrefix(env.Status, "51"):
		return exchange.NewAuthError(op, env.Status, env.Message)
	default:
		return exchange.NewApplicationError(op, env.Status, env.Message)
	}
}

func (c *Client) private(ctx context.Context, op, endpoint string, params url.Values, target any) error {
	if c.p.APIKey == "" || c.p.APISecret == "" {
		return exchange.NewAuthError(op, "", "missing API credentials")
	}
	nonce := strconv.FormatInt(c.now().UnixMilli(), 10)
	params.Set("nonce", nonce)
	headers := sign(c.p.APIKey, c.p.APISecret, endpoint, params, nonce)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.p.BaseURL+endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return exchange.NewTransientError(op, err)
	}
	req.Header = headers
	return exchange.Do(c.http, op, req, target)
}

// Candles fetches up to count minute bars, newest-first.
func (c *Client) Candles(ctx context.Context, unit, count int) ([]types.Candle, error) {
	const op = "candles"
	u := fmt.Sprintf("%s/v1/candles/minutes/%d?market=%s-%s&count=%d", c.p.BaseURL, unit, c.p.Quote, c.p.Asset, count)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, exchange.NewTransientError(op, err)
	}
	req.Header.Set("accept", "application/json")

	var rows []struct {
		TradePrice   float64 `json:"trade_price"`
		OpeningPrice float64 `json:"opening_price"`
		HighPrice    float64 `json:"high_price"`
		LowPrice     float64 `json:"low_price"`
		Volume       float64 `json:"candle_acc_trade_volume"`
		Timestamp    int64   `json:"timestamp"`
	}
	if err := exchange.Do(c.http, op, req, &rows); err != nil {
		return nil, err
	}
	bars := make([]types.Candle, 0, len(rows))
	for _, r := range rows {
		bars = append(bars, types.Candle{
			Ts:    r.Timestamp,
			Open:  r.OpeningPrice,
			High:  r.HighPrice,
			Low:   r.LowPrice,
			Close: r.TradePrice,
			Vol:   r.Volume,
		})
	}
	exchange.SortBarsNewestFirst(bars)
	return bars, nil
}

// Ticker returns the latest traded price.
func (c *Client) Ticker(ctx context.Context) (decimal.Decimal, error) {
	const op = "ticker"
	u := fmt.Sprintf("%s/public/ticker/%s_%s", c.p.BaseURL, c.p.Asset, c.p.Quote)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, exchange.NewTransientError(op, err)
	}
	req.Header.Set("accept", "application/json")

	var out struct {
		envelope
		Data struct {
			ClosingPrice string `json:"closing_price"`
		} `json:"data"`
	}
	if err := exchange.Do(c.http, op, req, &out); err != nil {
		return decimal.Zero, err
	}
	if err := c.checkEnvelope(op, out.envelope); err != nil {
		return decimal.Zero, err
	}
	price, err := decimal.NewFromString(out.Data.ClosingPrice)
	if err != nil {
		return decimal.Zero, exchange.NewApplicationError(op, "parse", "bad closing_price: "+out.Data.ClosingPrice)
	}
	return price, nil
}

// GetBalance fetches the pair's available and in-use amounts.
func (c *Client) GetBalance(ctx context.Context) (types.Balance, error) {
	const op = "getBalance"
	params := url.Values{}
	params.Set("currency", c.p.Asset)

	var out struct {
		envelope
		Data map[string]string `json:"data"`
	}
	if err := c.private(ctx, op, "/info/balance", params, &out); err != nil {
		return types.Balance{}, err
	}
	if err := c.checkEnvelope(op, out.envelope); err != nil {
		return types.Balance{}, err
	}

	asset := strings.ToLower(c.p.Asset)
	quote := strings.ToLower(c.p.Quote)
	bal := types.Balance{
		QuoteAvailable: field(out.Data, "available_"+quote),
		QuoteTotal:     field(out.Data, "total_"+quote),
		BaseAvailable:  field(out.Data, "available_"+asset),
		BaseTotal:      field(out.Data, "total_"+asset),
	}
	return bal, nil
}

func field(data map[string]string, key string) decimal.Decimal {
	if v, ok := data[key]; ok {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// PlaceOrder submits a limit order. The side maps to the exchange's bid/ask
// vocabulary.
func (c *Client) PlaceOrder(ctx context.Context, o types.SizedOrder) (types.Order, error) {
	const op = "placeOrder"
	orderType := "bid"
	if o.Side == types.Sell {
		orderType = "ask"
	}
	params := url.Values{}
	params.Set("order_currency", c.p.Asset)
	params.Set("payment_currency", c.p.Quote)
	params.Set("units", o.Quantity.String())
	params.Set("price", o.Price.String())
	params.Set("type", orderType)

	var out struct {
		envelope
		OrderID string `json:"order_id"`
	}
	if err := c.private(ctx, op, "/trade/place", params, &out); err != nil {
		return types.Order{}, err
	}
	if err := c.checkEnvelope(op, out.envelope); err != nil {
		return types.Order{}, err
	}
	return types.Order{
		ID:        out.OrderID,
		Side:      o.Side,
		Quantity:  o.Quantity,
		Price:     o.Price,
		Status:    types.OrderWait,
		CreatedAt: c.now(),
	}, nil
}

// ListOpenOrders returns the market's unfilled orders.
func (c *Client) ListOpenOrders(ctx context.Context) ([]types.Order, error) {
	const op = "listOpenOrders"
	params := url.Values{}
	params.Set("order_currency", c.p.Asset)
	params.Set("payment_currency", c.p.Quote)

	var out struct {
		envelope
		Data []struct {
			OrderID   string `json:"order_id"`
			Type      string `json:"type"`
			Units     string `json:"units_remaining"`
			Price     string `json:"price"`
			OrderDate string `json:"order_date"`
		} `json:"data"`
	}
	if err := c.private(ctx, op, "/info/orders", params, &out); err != nil {
		// An empty order book is reported as an application error by this
		// exchange; treat it as no open orders.
		if exchange.IsApplication(err) {
			return nil, nil
		}
		return nil, err
	}
	if err := c.checkEnvelope(op, out.envelope); err != nil {
		if exchange.IsApplication(err) {
			return nil, nil
		}
		return nil, err
	}

	orders := make([]types.Order, 0, len(out.Data))
	for _, row := range out.Data {
		side := types.Buy
		if row.Type == "ask" {
			side = types.Sell
		}
		created := parseOrderDate(row.OrderDate)
		orders = append(orders, types.Order{
			ID:        row.OrderID,
			Side:      side,
			Quantity:  mustDec(row.Units),
			Price:     mustDec(row.Price),
			Status:    types.OrderWait,
			CreatedAt: created,
		})
	}
	return orders, nil
}

// parseOrderDate handles the microsecond epoch this endpoint returns, plus
// the textual formats.
func parseOrderDate(s string) time.Time {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMicro(n)
	}
	if t, ok := exchange.ParseOrderTime(s); ok {
		return t
	}
	return time.Time{}
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CancelOrder cancels one open order by id.
func (c *Client) CancelOrder(ctx context.Context, order types.Order) error {
	const op = "cancelOrder"
	orderType := "bid"
	if order.Side == types.Sell {
		orderType = "ask"
	}
	params := url.Values{}
	params.Set("type", orderType)
	params.Set("order_id", order.ID)
	params.Set("order_currency", c.p.Asset)
	params.Set("payment_currency", c.p.Quote)

	var out envelope
	if err := c.private(ctx, op, "/trade/cancel", params, &out); err != nil {
		return err
	}
	return c.checkEnvelope(op, out)
}
