// Package exchange holds what the two REST integrations share: the HTTP
// plumbing, the error taxonomy, and the candle-window helpers. The signed
// clients live in the bithumb and upbit subpackages.
package exchange

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"coin-trading-bot/internal/types"
)

// NewHTTPClient builds the client both integrations use: bounded total
// timeout so a hung exchange call cannot stall the trading loop past its tick.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 15 * time.Second}).DialContext,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}
}

// Do runs the request and decodes the body into target, classifying failures.
// A nil target discards the body after the status check.
func Do(client *http.Client, op string, req *http.Request, target any) error {
	resp, err := client.Do(req)
	if err != nil {
		return NewTransientError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return NewTransientError(op, err)
	}
	if resp.StatusCode >= 300 {
		return classifyStatus(op, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return NewApplicationError(op, "decode", err.Error()+": "+truncate(string(body), 256))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// SortBarsNewestFirst enforces the window ordering convention regardless of
// how the exchange happens to return candles.
func SortBarsNewestFirst(bars []types.Candle) {
	sort.Slice(bars, func(i, j int) bool { return bars[i].Ts > bars[j].Ts })
}

// ParseOrderTime accepts the two createdAt formats seen in the wild:
// RFC3339 with a zone offset, and a plain local timestamp.
func ParseOrderTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// The plain format carries no zone; it is the host's local time.
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// WithTimeout bounds one exchange call without touching the parent context.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}
