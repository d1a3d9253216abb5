package types

// IndicatorSet is one cycle's indicator output. A nil pointer or a missing map
// key means the window was too short for that indicator; consumers substitute
// their own sentinel instead of reading a garbage number. Read-only once
// published to the advisor.
type IndicatorSet struct {
	MovingAverages map[int]float64 `json:"moving_averages,omitempty"`
	EMA            map[int]float64 `json:"ema,omitempty"`
	WMA            map[int]float64 `json:"wma,omitempty"`
	RSI            *float64        `json:"rsi,omitempty"`
	Bollinger      *Bands          `json:"bollinger,omitempty"`
	Stochastic     *Stochastic     `json:"stochastic,omitempty"`
	DMI            *DMI            `json:"dmi,omitempty"`
	ATR            *float64        `json:"atr,omitempty"`
	OBV            *float64        `json:"obv,omitempty"`
	VWAP           *float64        `json:"vwap,omitempty"`
	MFI            *float64        `json:"mfi,omitempty"`
	WilliamsR      *float64        `json:"williams_r,omitempty"`
	CCI            *float64        `json:"cci,omitempty"`
	ChangeRate     *float64        `json:"change_rate,omitempty"`
}

// Bands are Bollinger bands. All three are defined together or not at all.
type Bands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// Stochastic carries %K and the shifted-window %D approximation.
type Stochastic struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// DMI carries the directional indexes and ADX.
type DMI struct {
	PlusDI  float64 `json:"plus_di"`
	MinusDI float64 `json:"minus_di"`
	ADX     float64 `json:"adx"`
}
