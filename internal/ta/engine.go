package ta

import "coin-trading-bot/internal/types"

// Config fixes the periods the engine computes. Defaults mirror the values
// the advisor prompt is written against.
type Config struct {
	MAPeriods   []int
	EMAPeriods  []int
	WMAPeriods  []int
	RSIPeriod   int
	BBPeriod    int
	BBStdDev    float64
	StochK      int
	StochD      int
	DMIPeriod   int
	ATRPeriod   int
	VWAPPeriod  int
	MFIPeriod   int
	WRPeriod    int
	CCIPeriod   int
}

func DefaultConfig() Config {
	return Config{
		MAPeriods:  []int{5, 10, 20, 50, 200},
		EMAPeriods: []int{12, 26},
		WMAPeriods: []int{20},
		RSIPeriod:  14,
		BBPeriod:   20,
		BBStdDev:   2,
		StochK:     14,
		StochD:     3,
		DMIPeriod:  14,
		ATRPeriod:  14,
		VWAPPeriod: 20,
		MFIPeriod:  14,
		WRPeriod:   14,
		CCIPeriod:  20,
	}
}

// Compute derives the full indicator set from one window. Pure function of
// the window contents: no side effects, same input gives same output. Each
// indicator reports independently, so a short window yields a sparse set
// rather than an error.
func Compute(w *types.PriceWindow, cfg Config) *types.IndicatorSet {
	n := w.Len()
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	vols := make([]float64, n)
	for i, b := range w.Bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		vols[i] = b.Vol
	}

	set := &types.IndicatorSet{
		MovingAverages: MovingAverages(closes, cfg.MAPeriods),
		EMA:            map[int]float64{},
		WMA:            map[int]float64{},
	}
	for _, p := range cfg.EMAPeriods {
		if v, ok := EMA(closes, p); ok {
			set.EMA[p] = v
		}
	}
	for _, p := range cfg.WMAPeriods {
		if v, ok := WMA(closes, p); ok {
			set.WMA[p] = v
		}
	}
	if v, ok := RSI(closes, cfg.RSIPeriod); ok {
		set.RSI = &v
	}
	if up, mid, low, ok := Bollinger(closes, cfg.BBPeriod, cfg.BBStdDev); ok {
		set.Bollinger = &types.Bands{Upper: up, Middle: mid, Lower: low}
	}
	if k, d, ok := Stochastic(highs, lows, closes, cfg.StochK, cfg.StochD); ok {
		set.Stochastic = &types.Stochastic{K: k, D: d}
	}
	if pdi, mdi, adx, ok := DMI(highs, lows, closes, cfg.DMIPeriod); ok {
		set.DMI = &types.DMI{PlusDI: pdi, MinusDI: mdi, ADX: adx}
	}
	if v, ok := ATR(highs, lows, closes, cfg.ATRPeriod); ok {
		set.ATR = &v
	}
	if v, ok := OBV(closes, vols); ok {
		set.OBV = &v
	}
	if v, ok := VWAP(highs, lows, closes, vols, cfg.VWAPPeriod); ok {
		set.VWAP = &v
	}
	if v, ok := MFI(highs, lows, closes, vols, cfg.MFIPeriod); ok {
		set.MFI = &v
	}
	if v, ok := WilliamsR(highs, lows, closes, cfg.WRPeriod); ok {
		set.WilliamsR = &v
	}
	if v, ok := CCI(highs, lows, closes, cfg.CCIPeriod); ok {
		set.CCI = &v
	}
	if v, ok := ChangeRate(w); ok {
		set.ChangeRate = &v
	}
	return set
}

// ChangeRate compares the latest close against the opening price `unit` bars
// back (clamped to the window), as a percentage.
func ChangeRate(w *types.PriceWindow) (float64, bool) {
	if w.Len() == 0 {
		return 0, false
	}
	idx := w.Unit
	if idx > w.Len()-1 {
		idx = w.Len() - 1
	}
	prev := w.Bars[idx].Open
	if prev == 0 {
		return 0, false
	}
	now := w.Bars[0].Close
	return (now - prev) / prev * 100, true
}
