package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode        string `yaml:"mode"`     // DRY_RUN or LIVE
	Exchange    string `yaml:"exchange"` // bithumb or upbit
	Asset       string `yaml:"asset"`
	Quote       string `yaml:"quote"`
	PollSeconds int    `yaml:"poll_seconds"`
	Candles     struct {
		Unit  int `yaml:"unit"`
		Count int `yaml:"count"`
	} `yaml:"candles"`
	Trading struct {
		MaxInvestment    float64            `yaml:"max_investment"`
		PercentageCap    int                `yaml:"percentage_cap"`
		MinOrderNotional float64            `yaml:"min_order_notional"`
		MinTradeAmounts  map[string]float64 `yaml:"min_trade_amounts"`
	} `yaml:"trading"`
	Risk struct {
		ForcedExitPct            float64 `yaml:"forced_exit_pct"`
		StaleOrderTimeoutSeconds int     `yaml:"stale_order_timeout_seconds"`
	} `yaml:"risk"`
	Ledger struct {
		Driver      string `yaml:"driver"` // file or postgres
		PostgresURL string `yaml:"postgres_url"`
	} `yaml:"ledger"`
	Snapshot struct {
		Enabled    bool   `yaml:"enabled"`
		RedisAddr  string `yaml:"redis_addr"`
		RedisDB    int    `yaml:"redis_db"`
		TTLSeconds int    `yaml:"ttl_seconds"`
	} `yaml:"snapshot"`
	LLM struct {
		Provider string `yaml:"provider"` // noop for now
		Model    string `yaml:"model"`
	} `yaml:"llm"`
	Journal struct {
		RetentionDays int `yaml:"retention_days"`
	} `yaml:"journal"`
}

// Market is the pair in quote-asset notation, e.g. "KRW-BTC".
func (c *Config) Market() string { return c.Quote + "-" + c.Asset }

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Exchange != "bithumb" && c.Exchange != "upbit" {
		return fmt.Errorf("invalid exchange '%s': must be 'bithumb' or 'upbit'", c.Exchange)
	}
	if c.Asset == "" {
		return fmt.Errorf("asset cannot be empty")
	}
	if c.Trading.MaxInvestment <= 0 {
		return fmt.Errorf("trading.max_investment must be positive, got %.2f", c.Trading.MaxInvestment)
	}
	if c.Trading.PercentageCap < 1 || c.Trading.PercentageCap > 100 {
		return fmt.Errorf("trading.percentage_cap must be between 1-100, got %d", c.Trading.PercentageCap)
	}
	if c.Risk.ForcedExitPct <= 0 {
		return fmt.Errorf("risk.forced_exit_pct must be positive, got %.2f", c.Risk.ForcedExitPct)
	}
	if c.Ledger.Driver != "file" && c.Ledger.Driver != "postgres" {
		return fmt.Errorf("ledger.driver must be 'file' or 'postgres', got '%s'", c.Ledger.Driver)
	}
	if c.Ledger.Driver == "postgres" && c.Ledger.PostgresURL == "" {
		return fmt.Errorf("ledger.postgres_url required when ledger.driver is 'postgres'")
	}
	if c.Candles.Unit <= 0 {
		return fmt.Errorf("candles.unit must be positive, got %d", c.Candles.Unit)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Quote == "" {
		c.Quote = "KRW"
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 60
	}
	if c.Candles.Unit == 0 {
		c.Candles.Unit = 60
	}
	if c.Candles.Count == 0 {
		c.Candles.Count = 200
	}
	if c.Trading.PercentageCap == 0 {
		c.Trading.PercentageCap = 70
	}
	if c.Trading.MinOrderNotional == 0 {
		c.Trading.MinOrderNotional = 5000
	}
	if c.Risk.ForcedExitPct == 0 {
		c.Risk.ForcedExitPct = 1.0
	}
	if c.Risk.StaleOrderTimeoutSeconds == 0 {
		c.Risk.StaleOrderTimeoutSeconds = 600
	}
	if c.Ledger.Driver == "" {
		c.Ledger.Driver = "file"
	}
	if c.Snapshot.TTLSeconds == 0 {
		c.Snapshot.TTLSeconds = 3600
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "noop"
	}
	if c.Journal.RetentionDays == 0 {
		c.Journal.RetentionDays = 30
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
