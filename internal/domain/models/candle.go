package models

import "time"

// Candle represents a single OHLC price bar.
type Candle struct {
	Time  time.Time `json:"time"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// Series is an ordered candle sequence for one symbol.
// Timestamps are strictly increasing, no duplicates.
type Series []Candle

// Closes returns the close prices of the series.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

// Last returns the most recent candle and true, or false on an empty series.
func (s Series) Last() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}
	return s[len(s)-1], true
}
