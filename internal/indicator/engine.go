package indicator

import (
	"errors"

	"FxPulse/internal/domain/models"
)

// ErrEmptySeries is returned when Compute receives no bars. Short but
// non-empty series are tolerated and yield undefined values instead.
var ErrEmptySeries = errors.New("indicator: empty candle series")

// Params holds the periods for every computed indicator.
type Params struct {
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	SMAFast    int
	SMASlow    int
	EMAFast    int
	EMASlow    int
	EMATrend   int
	ATRPeriod  int
}

// DefaultParams returns the standard parameter set.
func DefaultParams() Params {
	return Params{
		RSIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		SMAFast:    20,
		SMASlow:    50,
		EMAFast:    12,
		EMASlow:    26,
		EMATrend:   200,
		ATRPeriod:  14,
	}
}

// Compute derives a Frame from the candle series. It is a pure function:
// no lookahead, no side effects. The only error condition is an empty
// series; insufficient history yields undefined values per indicator.
func Compute(bars models.Series, p Params) (*Frame, error) {
	if len(bars) == 0 {
		return nil, ErrEmptySeries
	}

	closes := bars.Closes()
	macd, sig, hist := MACDSeries(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)

	f := &Frame{
		n: len(bars),
		series: map[string][]float64{
			RSI:           RSISeries(closes, p.RSIPeriod),
			MACD:          macd,
			MACDSignal:    sig,
			MACDHistogram: hist,
			SMAFast:       SMASeries(closes, p.SMAFast),
			SMASlow:       SMASeries(closes, p.SMASlow),
			EMAFast:       EMASeries(closes, p.EMAFast),
			EMASlow:       EMASeries(closes, p.EMASlow),
			EMATrend:      EMASeries(closes, p.EMATrend),
			ATR:           ATRSeries(bars, p.ATRPeriod),
		},
	}
	return f, nil
}
