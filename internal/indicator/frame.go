// Package indicator computes technical indicators over OHLC candle
// series. All computations are pure functions of their input; warm-up
// values are NaN and must be read through the (value, ok) accessors.
package indicator

import "math"

// Series names exposed by a Frame.
const (
	RSI           = "RSI"
	MACD          = "MACD"
	MACDSignal    = "MACD_Signal"
	MACDHistogram = "MACD_Histogram"
	SMAFast       = "SMA_Fast"
	SMASlow       = "SMA_Slow"
	EMAFast       = "EMA_Fast"
	EMASlow       = "EMA_Slow"
	EMATrend      = "EMA_Trend"
	ATR           = "ATR"
)

// Frame maps indicator names to per-bar value series aligned
// index-for-index with the input candles. Undefined (warm-up) entries
// are NaN; they are only reachable through accessors that report
// definedness explicitly.
type Frame struct {
	n      int
	series map[string][]float64
}

// NewFrame builds a frame over n bars from precomputed series. Each
// series is copied and padded with NaN to length n; names not present
// read as undefined.
func NewFrame(n int, series map[string][]float64) *Frame {
	s := make(map[string][]float64, len(series))
	for name, vals := range series {
		padded := undefinedSeries(n)
		copy(padded, vals)
		s[name] = padded
	}
	return &Frame{n: n, series: s}
}

// Len returns the number of bars the frame covers.
func (f *Frame) Len() int { return f.n }

// At returns the value of the named series at index i and whether it is
// defined. Unknown names and out-of-range indexes read as undefined.
func (f *Frame) At(name string, i int) (float64, bool) {
	s, ok := f.series[name]
	if !ok || i < 0 || i >= len(s) {
		return 0, false
	}
	v := s[i]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Current returns the value at the last bar.
func (f *Frame) Current(name string) (float64, bool) {
	return f.At(name, f.n-1)
}

// Pair returns the values at the previous and last bar; ok is true only
// when both are defined.
func (f *Frame) Pair(name string) (prev, curr float64, ok bool) {
	prev, okPrev := f.At(name, f.n-2)
	curr, okCurr := f.At(name, f.n-1)
	return prev, curr, okPrev && okCurr
}

// Latest flattens the defined values at the last bar into a name→value
// map for display.
func (f *Frame) Latest() map[string]float64 {
	out := make(map[string]float64, len(f.series))
	for name := range f.series {
		if v, ok := f.Current(name); ok {
			out[name] = v
		}
	}
	return out
}

func undefinedSeries(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

func defined(v float64) bool { return !math.IsNaN(v) }
