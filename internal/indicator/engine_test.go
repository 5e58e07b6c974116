package indicator

import (
	"math"
	"testing"
	"time"

	"FxPulse/internal/domain/models"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f", label, got, want)
	}
}

func seriesFromCloses(closes ...float64) models.Series {
	bars := make(models.Series, len(closes))
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = models.Candle{
			Time:  base.Add(time.Duration(i) * time.Hour),
			Open:  c,
			High:  c + 0.5,
			Low:   c - 0.5,
			Close: c,
		}
	}
	return bars
}

func TestSMASeriesHandComputed(t *testing.T) {
	// SMA(3) over 100,102,104,103,105: 102, 103, 104 from index 2.
	out := SMASeries([]float64{100, 102, 104, 103, 105}, 3)
	for i := 0; i < 2; i++ {
		if !math.IsNaN(out[i]) {
			t.Fatalf("index %d: expected undefined, got %v", i, out[i])
		}
	}
	want := []float64{102, 103, 104}
	for i, w := range want {
		assertClose(t, "sma", out[i+2], w, 1e-9)
	}
}

func TestEMASeriesSMASeedAndRecurrence(t *testing.T) {
	// EMA(3) over 1..5: seed (1+2+3)/3 = 2 at index 2, alpha = 0.5,
	// then 0.5*4+0.5*2 = 3 and 0.5*5+0.5*3 = 4.
	out := EMASeries([]float64{1, 2, 3, 4, 5}, 3)
	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Fatalf("warm-up entries must be undefined")
	}
	assertClose(t, "ema seed", out[2], 2, 1e-9)
	assertClose(t, "ema i3", out[3], 3, 1e-9)
	assertClose(t, "ema i4", out[4], 4, 1e-9)
}

func TestRSISeriesWarmupAndHandComputed(t *testing.T) {
	// RSI(3) over 10,11,12,11,12.
	// Seed deltas +1,+1,-1: avgGain=2/3 avgLoss=1/3, RS=2, RSI=66.667 at i=3.
	// Next delta +1: avgGain=7/9 avgLoss=2/9, RS=3.5, RSI=77.778 at i=4.
	out := RSISeries([]float64{10, 11, 12, 11, 12}, 3)
	for i := 0; i < 3; i++ {
		if !math.IsNaN(out[i]) {
			t.Fatalf("index %d: RSI defined during warm-up", i)
		}
	}
	assertClose(t, "rsi seed", out[3], 100-100.0/3, 1e-6)
	assertClose(t, "rsi next", out[4], 100-100.0/4.5, 1e-6)
}

func TestRSISeriesAllGainsIsHundred(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 1 + float64(i)
	}
	out := RSISeries(closes, 14)
	if got := out[len(out)-1]; got != 100 {
		t.Fatalf("monotonic gains: want RSI 100, got %v", got)
	}
}

func TestMACDSeriesAlignment(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.25
	}
	macd, sig, hist := MACDSeries(closes, 12, 26, 9)

	// MACD defined once the slow EMA is, signal 9 MACD points later.
	if !math.IsNaN(macd[24]) || math.IsNaN(macd[25]) {
		t.Fatalf("MACD must become defined at index 25")
	}
	if !math.IsNaN(sig[32]) || math.IsNaN(sig[33]) {
		t.Fatalf("signal must become defined at index 33")
	}
	for i := 33; i < len(closes); i++ {
		assertClose(t, "hist = macd - signal", hist[i], macd[i]-sig[i], 1e-12)
	}
}

func TestATRSeriesConstantRange(t *testing.T) {
	// Flat closes with a fixed 1.0 high-low range: every TR is 1, so the
	// Wilder average stays 1 once defined.
	bars := seriesFromCloses(5, 5, 5, 5, 5, 5, 5, 5)
	out := ATRSeries(bars, 3)
	for i := 0; i < 3; i++ {
		if !math.IsNaN(out[i]) {
			t.Fatalf("index %d: ATR defined during warm-up", i)
		}
	}
	for i := 3; i < len(bars); i++ {
		assertClose(t, "atr", out[i], 1, 1e-9)
	}
}

func TestATRSeriesUsesGaps(t *testing.T) {
	bars := seriesFromCloses(5, 5, 5, 5)
	// Insert a gap: the candle at index 2 opens far above prior close.
	bars[2].High = 8
	bars[2].Low = 7
	bars[2].Close = 7.5
	// TR at index 2 = max(1, |8-5|, |7-5|) = 3.
	if tr := trueRange(bars[2], bars[1].Close); tr != 3 {
		t.Fatalf("true range with gap: want 3, got %v", tr)
	}
}

func TestComputeEmptySeries(t *testing.T) {
	if _, err := Compute(nil, DefaultParams()); err == nil {
		t.Fatalf("expected error on empty series")
	}
}

func TestComputeShortSeriesAllUndefined(t *testing.T) {
	f, err := Compute(seriesFromCloses(1, 2, 3), DefaultParams())
	if err != nil {
		t.Fatalf("short series must not error: %v", err)
	}
	for _, name := range []string{RSI, MACD, MACDSignal, SMAFast, EMATrend, ATR} {
		if _, ok := f.Current(name); ok {
			t.Fatalf("%s: defined on a 3-bar series", name)
		}
	}
}

func TestComputeDefinedAfterWarmup(t *testing.T) {
	closes := make([]float64, 0, 210)
	for i := 0; i < 210; i++ {
		closes = append(closes, 100+math.Sin(float64(i)/7))
	}
	f, err := Compute(seriesFromCloses(closes...), DefaultParams())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	for _, name := range []string{RSI, MACD, MACDSignal, MACDHistogram, SMAFast, SMASlow, EMAFast, EMASlow, EMATrend, ATR} {
		v, ok := f.Current(name)
		if !ok {
			t.Fatalf("%s: undefined after warm-up", name)
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			t.Fatalf("%s: not finite: %v", name, v)
		}
	}
}

func TestFramePairNeedsBothPoints(t *testing.T) {
	// SMA(3) over 4 bars: defined at indexes 2 and 3, so the pair at the
	// last two bars is available; RSI(14) never is.
	f, err := Compute(seriesFromCloses(1, 2, 3, 4), Params{
		RSIPeriod: 14, MACDFast: 12, MACDSlow: 26, MACDSignal: 9,
		SMAFast: 3, SMASlow: 50, EMAFast: 12, EMASlow: 26, EMATrend: 200, ATRPeriod: 14,
	})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if _, _, ok := f.Pair(SMAFast); !ok {
		t.Fatalf("SMA pair should be defined")
	}
	if _, _, ok := f.Pair(RSI); ok {
		t.Fatalf("RSI pair must be undefined on 4 bars")
	}
}
