package detector

import "FxPulse/internal/domain/models"

// atrFallbackFraction sizes the risk envelope when ATR is still in its
// warm-up window: one tenth of a percent of the current price.
const atrFallbackFraction = 0.001

// atrOrFallback returns the ATR to size the envelope with. A signal is
// never emitted without risk levels, so an undefined ATR degrades to a
// price-proportional stand-in rather than suppressing the signal.
func atrOrFallback(atr float64, ok bool, price float64) float64 {
	if !ok {
		return price * atrFallbackFraction
	}
	return atr
}

// envelope places the stop-loss on the adverse side of price and the
// take-profit on the favorable side, each a configurable multiple of
// the ATR away.
func envelope(dir models.Direction, price, atr, stopMult, takeMult float64) (stopLoss, takeProfit float64) {
	if dir == models.DirectionBuy {
		return price - atr*stopMult, price + atr*takeMult
	}
	return price + atr*stopMult, price - atr*takeMult
}
