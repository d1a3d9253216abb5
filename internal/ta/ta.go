// Package ta computes technical indicators over newest-first price windows:
// index 0 is the most recent bar and every function reads the leading
// `period` elements. Several formulas (RSI, the moving averages, the EMA
// weight orientation) therefore differ from their oldest-first textbook
// forms; the windowing is intentional and changing it would shift every
// numeric output, so it must not be "fixed" locally in one indicator.
package ta

import "math"

// SMA is the arithmetic mean of the `n` most recent values.
func SMA(prices []float64, n int) (float64, bool) {
	if n <= 0 || len(prices) < n {
		return 0, false
	}
	sum := 0.0
	for _, p := range prices[:n] {
		sum += p
	}
	return sum / float64(n), true
}

// MovingAverages computes SMAs for each requested period, skipping the ones
// the window is too short for.
func MovingAverages(prices []float64, periods []int) map[int]float64 {
	mas := make(map[int]float64, len(periods))
	for _, n := range periods {
		if v, ok := SMA(prices, n); ok {
			mas[n] = v
		}
	}
	return mas
}

// EMA is a fixed-window weighted mean with weights exp(linspace(-1,0,n))
// normalized to sum 1, not the recursive filter. Weight i goes to prices[i],
// so the oldest bar of the slice carries the largest weight.
func EMA(prices []float64, n int) (float64, bool) {
	if n <= 0 || len(prices) < n {
		return 0, false
	}
	if n == 1 {
		return prices[0], true
	}
	weights := make([]float64, n)
	sum := 0.0
	for i := range weights {
		weights[i] = math.Exp(-1 + float64(i)/float64(n-1))
		sum += weights[i]
	}
	ema := 0.0
	for i, p := range prices[:n] {
		ema += p * weights[i] / sum
	}
	return ema, true
}

// WMA weights the most recent value n, down to 1 for the oldest of the slice.
func WMA(prices []float64, n int) (float64, bool) {
	if n <= 0 || len(prices) < n {
		return 0, false
	}
	num, den := 0.0, 0.0
	for i, p := range prices[:n] {
		w := float64(n - i)
		num += p * w
		den += w
	}
	return num / den, true
}

// RSI over the `period` most recent deltas. deltas[i] = prices[i]-prices[i+1]
// is the chronological change ending at bar i. Average loss of zero means 100.
// Each call is period-local; there is no Wilder smoothing across windows.
func RSI(prices []float64, period int) (float64, bool) {
	if period <= 0 || len(prices) < period+1 {
		return 0, false
	}
	gain, loss := 0.0, 0.0
	for i := 0; i < period; i++ {
		d := prices[i] - prices[i+1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100, true
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100 - (100 / (1 + rs)), true
}

// Bollinger returns upper, middle, lower as mean ± k·stddev (population
// stddev) over the `n` most recent values.
func Bollinger(prices []float64, n int, k float64) (upper, mid, lower float64, ok bool) {
	mid, ok = SMA(prices, n)
	if !ok {
		return 0, 0, 0, false
	}
	s := 0.0
	for _, p := range prices[:n] {
		d := p - mid
		s += d * d
	}
	sd := math.Sqrt(s / float64(n))
	return mid + k*sd, mid, mid - k*sd, true
}

// Stochastic computes %K from the most recent kPeriod window and %D as the
// mean of %K recomputed over dPeriod shifted windows. This is the shifted
// window approximation, not a true %K history. A zero high-low range yields 50.
func Stochastic(high, low, close []float64, kPeriod, dPeriod int) (k, d float64, ok bool) {
	if kPeriod <= 0 || dPeriod <= 0 {
		return 0, 0, false
	}
	if len(high) < kPeriod || len(low) < kPeriod || len(close) < dPeriod {
		return 0, 0, false
	}
	ks := make([]float64, dPeriod)
	for i := 0; i < dPeriod; i++ {
		// Shifted windows near the old end may truncate; that mirrors the
		// reference behavior rather than demanding kPeriod+dPeriod-1 bars.
		hh, ll := high[i], low[i]
		for j := i; j < kPeriod+i && j < len(high) && j < len(low); j++ {
			hh = math.Max(hh, high[j])
			ll = math.Min(ll, low[j])
		}
		if hh-ll == 0 {
			ks[i] = 50
		} else {
			ks[i] = 100 * (close[i] - ll) / (hh - ll)
		}
	}
	sum := 0.0
	for _, v := range ks {
		sum += v
	}
	return ks[0], sum / float64(dPeriod), true
}

// trueRanges returns the per-pair true range, newest pair first. tr[i] spans
// bar i against the chronologically previous bar i+1.
func trueRanges(high, low, close []float64) []float64 {
	trs := make([]float64, len(high)-1)
	for i := range trs {
		tr := high[i] - low[i]
		tr = math.Max(tr, math.Abs(high[i]-close[i+1]))
		tr = math.Max(tr, math.Abs(low[i]-close[i+1]))
		trs[i] = tr
	}
	return trs
}

// DMI returns +DI, -DI and ADX over the `period` most recent bar pairs.
// Every denominator is zero-guarded to 0.
func DMI(high, low, close []float64, period int) (plusDI, minusDI, adx float64, ok bool) {
	if period <= 0 || len(high) < period+1 {
		return 0, 0, 0, false
	}
	trs := trueRanges(high, low, close)
	atr, pdm, mdm := 0.0, 0.0, 0.0
	for i := 0; i < period; i++ {
		atr += trs[i]
		up := high[i] - high[i+1]
		down := low[i+1] - low[i]
		if up > down && up > 0 {
			pdm += up
		} else if down > up && down > 0 {
			mdm += down
		}
	}
	atr /= float64(period)
	if atr != 0 {
		plusDI = 100 * (pdm / float64(period)) / atr
		minusDI = 100 * (mdm / float64(period)) / atr
	}
	if plusDI+minusDI != 0 {
		adx = 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
	}
	return plusDI, minusDI, adx, true
}

// ATR is the mean true range over the `period` most recent bar pairs.
func ATR(high, low, close []float64, period int) (float64, bool) {
	if period <= 0 || len(high) < period+1 {
		return 0, false
	}
	trs := trueRanges(high, low, close)
	sum := 0.0
	for _, v := range trs[:period] {
		sum += v
	}
	return sum / float64(period), true
}

// OBV is window-local: volume added on each chronological price increase and
// subtracted on each decrease across the whole window, not a lifetime total.
func OBV(close, volume []float64) (float64, bool) {
	if len(close) < 2 || len(volume) < 2 {
		return 0, false
	}
	obv := 0.0
	for i := 0; i < len(close)-1 && i < len(volume); i++ {
		if close[i] > close[i+1] {
			obv += volume[i]
		} else if close[i] < close[i+1] {
			obv -= volume[i]
		}
	}
	return obv, true
}

// VWAP is the volume-weighted typical price (H+L+C)/3 over the `n` most
// recent bars. Zero summed volume reports insufficient data.
func VWAP(high, low, close, volume []float64, n int) (float64, bool) {
	if n <= 0 || len(high) < n || len(low) < n || len(close) < n || len(volume) < n {
		return 0, false
	}
	num, den := 0.0, 0.0
	for i := 0; i < n; i++ {
		tp := (high[i] + low[i] + close[i]) / 3
		num += tp * volume[i]
		den += volume[i]
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// MFI over typical-price direction changes in the window. Zero negative flow
// means 100.
func MFI(high, low, close, volume []float64, period int) (float64, bool) {
	if period <= 0 || len(high) < period+1 {
		return 0, false
	}
	n := len(high)
	if len(low) < n {
		n = len(low)
	}
	if len(close) < n {
		n = len(close)
	}
	if len(volume) < n {
		n = len(volume)
	}
	tp := make([]float64, n)
	for i := 0; i < n; i++ {
		tp[i] = (high[i] + low[i] + close[i]) / 3
	}
	posMF, negMF := 0.0, 0.0
	for i := 0; i < period && i < n-1; i++ {
		mf := tp[i] * volume[i]
		if tp[i] > tp[i+1] {
			posMF += mf
		} else {
			negMF += mf
		}
	}
	if negMF == 0 {
		return 100, true
	}
	mfr := posMF / negMF
	return 100 - (100 / (1 + mfr)), true
}

// WilliamsR over the `n` most recent bars. A degenerate zero range yields -50.
func WilliamsR(high, low, close []float64, n int) (float64, bool) {
	if n <= 0 || len(high) < n || len(low) < n || len(close) < 1 {
		return 0, false
	}
	hh, ll := high[0], low[0]
	for i := 1; i < n; i++ {
		hh = math.Max(hh, high[i])
		ll = math.Min(ll, low[i])
	}
	if hh-ll == 0 {
		return -50, true
	}
	return (hh - close[0]) / (hh - ll) * -100, true
}

// CCI over the `n` most recent bars; zero mean deviation yields 0.
func CCI(high, low, close []float64, n int) (float64, bool) {
	if n <= 0 || len(high) < n || len(low) < n || len(close) < n {
		return 0, false
	}
	tp := make([]float64, n)
	for i := 0; i < n; i++ {
		tp[i] = (high[i] + low[i] + close[i]) / 3
	}
	mean, _ := SMA(tp, n)
	md := 0.0
	for _, v := range tp {
		md += math.Abs(v - mean)
	}
	md /= float64(n)
	if md == 0 {
		return 0, true
	}
	return (tp[0] - mean) / (0.015 * md), true
}
