// Package upbit implements the JWT-signed integration. Every private call
// carries a Bearer token whose claims are re-signed per request; the account
// endpoint reports an average entry price, so position reconciliation can
// work straight off the account instead of a fill ledger.
package upbit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"coin-trading-bot/internal/exchange"
	"coin-trading-bot/internal/types"
)

type Params struct {
	BaseURL   string
	AccessKey string
	SecretKey string
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
		p.BaseURL = "https://api.upbit.com"
	}
	if p.Quote == "" {
		p.Quote = "KRW"
	}
	return &Client{p: p, http: exchange.NewHTTPClient(p.Timeout), now: time.Now}
}

func (c *Client) Name() string { return "upbit" }

func (c *Client) AvgBuyPriceSupported() bool { return true }

// market is the pair in the exchange's notation, e.g. "KRW-BTC".
func (c *Client) market() string { return c.p.Quote + "-" + c.p.Asset }

func (c *Client) private(ctx context.Context, op, method, path string, params url.Values, target any) error {
	if c.p.AccessKey == "" || c.p.SecretKey == "" {
		return exchange.NewAuthError(op, "", "missing API credentials")
	}
	token, err := authToken(c.p.AccessKey, c.p.SecretKey, params, c.now())
	if err != nil {
		return exchange.NewAuthError(op, "", "signing failed: "+err.Error())
	}

	u := c.p.BaseURL + path
	var body *strings.Reader
	if method == http.MethodPost {
		body = strings.NewReader(params.Encode())
	} else {
		if len(params) > 0 {
			u += "?" + params.Encode()
		}
		body = strings.NewReader("")
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return exchange.NewTransientError(op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("accept", "application/json")
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return exchange.Do(c.http, op, req, target)
}

// Candles fetches up to count minute bars, newest-first.
func (c *Client) Candles(ctx context.Context, unit, count int) ([]types.Candle, error) {
	const op = "candles"
	u := fmt.Sprintf("%s/v1/candles/minutes/%d?market=%s&count=%d", c.p.BaseURL, unit, c.market(), count)
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
	u := c.p.BaseURL + "/v1/ticker?markets=" + c.market()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, exchange.NewTransientError(op, err)
	}
	req.Header.Set("accept", "application/json")

	var rows []struct {
		TradePrice float64 `json:"trade_price"`
	}
	if err := exchange.Do(c.http, op, req, &rows); err != nil {
		return decimal.Zero, err
	}
	if len(rows) == 0 {
		return decimal.Zero, exchange.NewApplicationError(op, "", "empty ticker for "+c.market())
	}
	return decimal.NewFromFloat(rows[0].TradePrice), nil
}

type account struct {
	Currency    string `json:"currency"`
	Balance     string `json:"balance"`
	Locked      string `json:"locked"`
	AvgBuyPrice string `json:"avg_buy_price"`
}

// GetBalance fetches every account row and picks out the pair.
func (c *Client) GetBalance(ctx context.Context) (types.Balance, error) {
	const op = "getBalance"
	var rows []account
	if err := c.private(ctx, op, http.MethodGet, "/v1/accounts", url.Values{}, &rows); err != nil {
		return types.Balance{}, err
	}

	var bal types.Balance
	for _, row := range rows {
		switch row.Currency {
		case c.p.Quote:
			bal.QuoteAvailable = mustDec(row.Balance)
			bal.QuoteTotal = bal.QuoteAvailable.Add(mustDec(row.Locked))
		case c.p.Asset:
			bal.BaseAvailable = mustDec(row.Balance)
			bal.BaseTotal = bal.BaseAvailable.Add(mustDec(row.Locked))
			bal.AvgBuyPrice = mustDec(row.AvgBuyPrice)
		}
	}
	return bal, nil
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// PlaceOrder submits a limit order. The side maps to the exchange's bid/ask
// vocabulary.
func (c *Client) PlaceOrder(ctx context.Context, o types.SizedOrder) (types.Order, error) {
	const op = "placeOrder"
	side := "bid"
	if o.Side == types.Sell {
		side = "ask"
	}
	params := url.Values{}
	params.Set("market", c.market())
	params.Set("side", side)
	params.Set("volume", o.Quantity.String())
	params.Set("price", o.Price.String())
	params.Set("ord_type", "limit")

	var out struct {
		UUID      string `json:"uuid"`
		State     string `json:"state"`
		CreatedAt string `json:"created_at"`
	}
	if err := c.private(ctx, op, http.MethodPost, "/v1/orders", params, &out); err != nil {
		return types.Order{}, err
	}
	created := c.now()
	if t, ok := exchange.ParseOrderTime(out.CreatedAt); ok {
		created = t
	}
	return types.Order{
		ID:        out.UUID,
		Side:      o.Side,
		Quantity:  o.Quantity,
		Price:     o.Price,
		Status:    types.OrderWait,
		CreatedAt: created,
	}, nil
}

// ListOpenOrders returns the market's unfilled orders.
func (c *Client) ListOpenOrders(ctx context.Context) ([]types.Order, error) {
	const op = "listOpenOrders"
	params := url.Values{}
	params.Set("market", c.market())
	params.Set("state", "wait")

	var rows []struct {
		UUID            string `json:"uuid"`
		Side            string `json:"side"`
		Price           string `json:"price"`
		RemainingVolume string `json:"remaining_volume"`
		CreatedAt       string `json:"created_at"`
	}
	if err := c.private(ctx, op, http.MethodGet, "/v1/orders", params, &rows); err != nil {
		return nil, err
	}

	orders := make([]types.Order, 0, len(rows))
	for _, row := range rows {
		side := types.Buy
		if row.Side == "ask" {
			side = types.Sell
		}
		var created time.Time
		if t, ok := exchange.ParseOrderTime(row.CreatedAt); ok {
			created = t
		}
		orders = append(orders, types.Order{
			ID:        row.UUID,
			Side:      side,
			Quantity:  mustDec(row.RemainingVolume),
			Price:     mustDec(row.Price),
			Status:    types.OrderWait,
			CreatedAt: created,
		})
	}
	return orders, nil
}

// CancelOrder cancels one open order by uuid.
func (c *Client) CancelOrder(ctx context.Context, order types.Order) error {
	const op = "cancelOrder"
	params := url.Values{}
	params.Set("uuid", order.ID)

	var out struct {
		UUID string `json:"uuid"`
	}
	return c.private(ctx, op, http.MethodDelete, "/v1/order", params, &out)
}
