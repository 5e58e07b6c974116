package indicator

import (
	"math"

	"FxPulse/internal/domain/models"
)

// ATRSeries computes the Wilder-smoothed Average True Range. True range
// needs a previous close, so TR starts at index 1 and the ATR becomes
// defined at index `period`.
func ATRSeries(bars models.Series, period int) []float64 {
	out := undefinedSeries(len(bars))
	if period <= 0 || len(bars) <= period {
		return out
	}

	var seed float64
	for i := 1; i <= period; i++ {
		seed += trueRange(bars[i], bars[i-1].Close)
	}
	prev := seed / float64(period)
	out[period] = prev

	p := float64(period)
	for i := period + 1; i < len(bars); i++ {
		tr := trueRange(bars[i], bars[i-1].Close)
		prev = (prev*(p-1) + tr) / p
		out[i] = prev
	}
	return out
}

func trueRange(c models.Candle, prevClose float64) float64 {
	hl := c.High - c.Low
	hc := math.Abs(c.High - prevClose)
	lc := math.Abs(c.Low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}
