package ta

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coin-trading-bot/internal/types"
)

// ascending returns n closes strictly increasing in chronological order,
// laid out newest-first as the windows are.
func ascending(n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = 100 + float64(n-1-i)
	}
	return out
}

func TestSMA(t *testing.T) {
	prices := []float64{10, 20, 30, 40}

	v, ok := SMA(prices, 2)
	require.True(t, ok)
	assert.InDelta(t, 15.0, v, 1e-9)

	v, ok = SMA(prices, 4)
	require.True(t, ok)
	assert.InDelta(t, 25.0, v, 1e-9)

	_, ok = SMA(prices, 5)
	assert.False(t, ok, "window shorter than period must report insufficient data")

	_, ok = SMA(prices, 0)
	assert.False(t, ok)
}

func TestMovingAveragesSkipsShortPeriods(t *testing.T) {
	mas := MovingAverages([]float64{1, 2, 3}, []int{2, 3, 5})
	assert.Contains(t, mas, 2)
	assert.Contains(t, mas, 3)
	assert.NotContains(t, mas, 5)
}

func TestEMAConstantSeries(t *testing.T) {
	prices := make([]float64, 12)
	for i := range prices {
		prices[i] = 42
	}
	v, ok := EMA(prices, 12)
	require.True(t, ok)
	// Normalized weights sum to 1, so a constant series is a fixed point.
	assert.InDelta(t, 42.0, v, 1e-9)

	_, ok = EMA(prices[:11], 12)
	assert.False(t, ok)
}

func TestEMAWeightOrientation(t *testing.T) {
	// Oldest bar of the slice carries weight exp(0), newest exp(-1): the
	// result must sit closer to the oldest value than a plain mean would.
	v, ok := EMA([]float64{0, 100}, 2)
	require.True(t, ok)
	want := 100 * 1.0 / (1.0 + math.Exp(-1))
	assert.InDelta(t, want, v, 1e-9)
	assert.Greater(t, v, 50.0)
}

func TestWMA(t *testing.T) {
	// weights 3,2,1 over newest-first 30,20,10 -> (90+40+10)/6
	v, ok := WMA([]float64{30, 20, 10}, 3)
	require.True(t, ok)
	assert.InDelta(t, 140.0/6.0, v, 1e-9)
}

func TestRSIBounds(t *testing.T) {
	prices := []float64{105, 101, 108, 102, 104, 100, 103, 99, 101, 98, 100, 97, 99, 96, 98}
	v, ok := RSI(prices, 14)
	require.True(t, ok)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 100.0)
}

func TestRSIAllGains(t *testing.T) {
	v, ok := RSI(ascending(15), 14)
	require.True(t, ok)
	assert.Equal(t, 100.0, v, "zero average loss must pin RSI at 100")
}

func TestRSIInsufficient(t *testing.T) {
	_, ok := RSI(ascending(14), 14)
	assert.False(t, ok, "RSI(14) needs 15 bars")
}

func TestBollinger(t *testing.T) {
	prices := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	up, mid, low, ok := Bollinger(prices, 8, 2)
	require.True(t, ok)
	assert.InDelta(t, 5.0, mid, 1e-9)
	assert.InDelta(t, 9.0, up, 1e-9)  // population stddev of this set is 2
	assert.InDelta(t, 1.0, low, 1e-9)

	_, _, _, ok = Bollinger(prices, 9, 2)
	assert.False(t, ok)
}

func TestStochasticZeroRange(t *testing.T) {
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 7
	}
	k, d, ok := Stochastic(flat, flat, flat, 14, 3)
	require.True(t, ok)
	assert.Equal(t, 50.0, k)
	assert.Equal(t, 50.0, d)
}

func TestStochasticCloseAtHigh(t *testing.T) {
	high := ascending(20)
	low := make([]float64, 20)
	close := make([]float64, 20)
	for i := range high {
		low[i] = high[i] - 2
		close[i] = high[i]
	}
	k, d, ok := Stochastic(high, low, close, 14, 3)
	require.True(t, ok)
	assert.Equal(t, 100.0, k, "close at the window high pins %K at 100")
	assert.Equal(t, 100.0, d)
}

func TestDMIZeroGuards(t *testing.T) {
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 5
	}
	pdi, mdi, adx, ok := DMI(flat, flat, flat, 14)
	require.True(t, ok)
	assert.Zero(t, pdi)
	assert.Zero(t, mdi)
	assert.Zero(t, adx)
}

func TestDMITrendingUp(t *testing.T) {
	high := ascending(20)
	low := make([]float64, 20)
	close := make([]float64, 20)
	for i := range high {
		low[i] = high[i] - 1
		close[i] = high[i] - 0.5
	}
	pdi, mdi, adx, ok := DMI(high, low, close, 14)
	require.True(t, ok)
	assert.Greater(t, pdi, mdi)
	assert.Equal(t, 100.0, adx, "one-sided movement saturates ADX")
}

func TestATR(t *testing.T) {
	high := []float64{12, 11, 13}
	low := []float64{9, 8, 10}
	close := []float64{10, 10, 11}
	// tr[0]=max(3,|12-10|,|9-10|)=3, tr[1]=max(3,0,3)=3
	v, ok := ATR(high, low, close, 2)
	require.True(t, ok)
	assert.InDelta(t, 3.0, v, 1e-9)

	_, ok = ATR(high, low, close, 3)
	assert.False(t, ok)
}

func TestOBVWindowLocal(t *testing.T) {
	// newest-first closes 3,2,1: both steps are chronological rises.
	v, ok := OBV([]float64{3, 2, 1}, []float64{10, 20, 30})
	require.True(t, ok)
	assert.InDelta(t, 30.0, v, 1e-9)

	v, ok = OBV([]float64{1, 2, 3}, []float64{10, 20, 30})
	require.True(t, ok)
	assert.InDelta(t, -30.0, v, 1e-9)

	_, ok = OBV([]float64{1}, []float64{10})
	assert.False(t, ok)
}

func TestVWAP(t *testing.T) {
	high := []float64{11, 21}
	low := []float64{9, 19}
	close := []float64{10, 20}
	vol := []float64{1, 3}
	v, ok := VWAP(high, low, close, vol, 2)
	require.True(t, ok)
	assert.InDelta(t, (10.0*1+20.0*3)/4.0, v, 1e-9)

	_, ok = VWAP(high, low, close, []float64{0, 0}, 2)
	assert.False(t, ok, "zero traded volume has no defined VWAP")
}

func TestMFIZeroNegativeFlow(t *testing.T) {
	high := ascending(16)
	low := make([]float64, 16)
	close := make([]float64, 16)
	vol := make([]float64, 16)
	for i := range high {
		low[i] = high[i]
		close[i] = high[i]
		vol[i] = 5
	}
	v, ok := MFI(high, low, close, vol, 14)
	require.True(t, ok)
	assert.Equal(t, 100.0, v)
}

func TestMFIBounds(t *testing.T) {
	high := []float64{10, 12, 9, 13, 8, 14, 7, 15, 6, 16, 5, 17, 4, 18, 3, 19}
	low := make([]float64, len(high))
	close := make([]float64, len(high))
	vol := make([]float64, len(high))
	for i := range high {
		low[i] = high[i] - 1
		close[i] = high[i] - 0.5
		vol[i] = float64(i + 1)
	}
	v, ok := MFI(high, low, close, vol, 14)
	require.True(t, ok)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 100.0)
}

func TestWilliamsR(t *testing.T) {
	flat := make([]float64, 14)
	for i := range flat {
		flat[i] = 9
	}
	v, ok := WilliamsR(flat, flat, flat, 14)
	require.True(t, ok)
	assert.Equal(t, -50.0, v, "degenerate range yields -50")

	high := ascending(14)
	low := make([]float64, 14)
	close := make([]float64, 14)
	for i := range high {
		low[i] = high[i] - 2
		close[i] = high[i] - 0.1
	}
	v, ok = WilliamsR(high, low, close, 14)
	require.True(t, ok)
	assert.Less(t, v, 0.0)
	assert.Greater(t, v, -10.0, "close near the window high approaches 0")
}

func TestCCIZeroDeviation(t *testing.T) {
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 3
	}
	v, ok := CCI(flat, flat, flat, 20)
	require.True(t, ok)
	assert.Zero(t, v)
}

func newWindow(t *testing.T, n int) *types.PriceWindow {
	t.Helper()
	w := types.NewPriceWindow(1, 200)
	bars := make([]types.Candle, n)
	for i := 0; i < n; i++ {
		// strictly increasing closes in chronological order
		c := 100 + float64(n-1-i)
		bars[i] = types.Candle{
			Ts:    int64(1_700_000_000 + (n-1-i)*60),
			Open:  c - 0.5,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
			Vol:   10,
		}
	}
	w.Fill(bars)
	return w
}

func TestComputeFullWindow(t *testing.T) {
	set := Compute(newWindow(t, 200), DefaultConfig())

	require.NotNil(t, set.RSI)
	assert.Equal(t, 100.0, *set.RSI, "strictly increasing closes have zero average loss")

	require.NotNil(t, set.WilliamsR)
	assert.Less(t, *set.WilliamsR, 0.0)
	assert.Greater(t, *set.WilliamsR, -50.0)

	assert.Len(t, set.MovingAverages, 5)
	assert.Contains(t, set.EMA, 12)
	assert.Contains(t, set.EMA, 26)
	assert.Contains(t, set.WMA, 20)
	require.NotNil(t, set.Bollinger)
	assert.Greater(t, set.Bollinger.Upper, set.Bollinger.Middle)
	assert.Less(t, set.Bollinger.Lower, set.Bollinger.Middle)
	require.NotNil(t, set.Stochastic)
	require.NotNil(t, set.DMI)
	require.NotNil(t, set.ATR)
	require.NotNil(t, set.OBV)
	require.NotNil(t, set.VWAP)
	require.NotNil(t, set.MFI)
	require.NotNil(t, set.CCI)
	require.NotNil(t, set.ChangeRate)
}

func TestComputeShortWindowIsSparse(t *testing.T) {
	set := Compute(newWindow(t, 10), DefaultConfig())

	assert.Nil(t, set.RSI)
	assert.Nil(t, set.Bollinger)
	assert.Nil(t, set.Stochastic)
	assert.Nil(t, set.DMI)
	assert.Nil(t, set.ATR)
	assert.Nil(t, set.VWAP)
	assert.Nil(t, set.MFI)
	assert.Nil(t, set.WilliamsR)
	assert.Nil(t, set.CCI)
	assert.NotNil(t, set.OBV, "OBV only needs two bars")
	assert.Contains(t, set.MovingAverages, 5)
	assert.NotContains(t, set.MovingAverages, 20)
}

func TestComputeIsDeterministic(t *testing.T) {
	w := newWindow(t, 60)
	a := Compute(w, DefaultConfig())
	b := Compute(w, DefaultConfig())
	assert.Equal(t, a, b)
}

func TestChangeRate(t *testing.T) {
	w := types.NewPriceWindow(5, 200)
	bars := []types.Candle{
		{Open: 109, Close: 110},
		{Open: 108, Close: 109},
		{Open: 107, Close: 108},
		{Open: 106, Close: 107},
		{Open: 105, Close: 106},
		{Open: 100, Close: 105},
	}
	w.Fill(bars)
	v, ok := ChangeRate(w)
	require.True(t, ok)
	assert.InDelta(t, (110.0-100.0)/100.0*100.0, v, 1e-9)
}
