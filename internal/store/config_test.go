package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	p := writeConfig(t, `
mode: DRY_RUN
exchange: bithumb
asset: BTC
trading:
  max_investment: 100000
`)
	c, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, "KRW", c.Quote)
	assert.Equal(t, "KRW-BTC", c.Market())
	assert.Equal(t, 60, c.PollSeconds)
	assert.Equal(t, 60, c.Candles.Unit)
	assert.Equal(t, 200, c.Candles.Count)
	assert.Equal(t, 70, c.Trading.PercentageCap)
	assert.Equal(t, 5000.0, c.Trading.MinOrderNotional)
	assert.Equal(t, 1.0, c.Risk.ForcedExitPct)
	assert.Equal(t, 600, c.Risk.StaleOrderTimeoutSeconds)
	assert.Equal(t, "file", c.Ledger.Driver)
	assert.Equal(t, "noop", c.LLM.Provider)
}

func TestLoadConfigFull(t *testing.T) {
	p := writeConfig(t, `
mode: LIVE
exchange: upbit
asset: ETH
quote: KRW
poll_seconds: 30
candles:
  unit: 15
  count: 100
trading:
  max_investment: 500000
  percentage_cap: 50
  min_order_notional: 5000
  min_trade_amounts:
    ETH: 0.001
risk:
  forced_exit_pct: 2.5
  stale_order_timeout_seconds: 300
ledger:
  driver: postgres
  postgres_url: postgres://bot@localhost/trades
`)
	c, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "LIVE", c.Mode)
	assert.Equal(t, "KRW-ETH", c.Market())
	assert.Equal(t, 50, c.Trading.PercentageCap)
	assert.Equal(t, 2.5, c.Risk.ForcedExitPct)
	assert.Equal(t, 0.001, c.Trading.MinTradeAmounts["ETH"])
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad mode", "mode: TEST\nexchange: bithumb\nasset: BTC\ntrading:\n  max_investment: 1000\n"},
		{"bad exchange", "mode: LIVE\nexchange: binance\nasset: BTC\ntrading:\n  max_investment: 1000\n"},
		{"missing asset", "mode: LIVE\nexchange: bithumb\ntrading:\n  max_investment: 1000\n"},
		{"no investment", "mode: LIVE\nexchange: bithumb\nasset: BTC\n"},
		{"cap too big", "mode: LIVE\nexchange: bithumb\nasset: BTC\ntrading:\n  max_investment: 1000\n  percentage_cap: 101\n"},
		{"postgres without url", "mode: LIVE\nexchange: bithumb\nasset: BTC\ntrading:\n  max_investment: 1000\nledger:\n  driver: postgres\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
