package indicator

// MACDSeries computes the MACD line, its signal line and the histogram.
// MACD = EMA(close, fast) - EMA(close, slow); the signal line is an EMA
// of the MACD over its defined range; histogram = MACD - signal.
func MACDSeries(closes []float64, fast, slow, signal int) (macd, sig, hist []float64) {
	n := len(closes)
	macd = undefinedSeries(n)
	sig = undefinedSeries(n)
	hist = undefinedSeries(n)

	emaFast := EMASeries(closes, fast)
	emaSlow := EMASeries(closes, slow)
	first := -1
	for i := 0; i < n; i++ {
		if defined(emaFast[i]) && defined(emaSlow[i]) {
			macd[i] = emaFast[i] - emaSlow[i]
			if first < 0 {
				first = i
			}
		}
	}
	if first < 0 {
		return macd, sig, hist
	}

	// Signal EMA runs over the defined MACD segment only.
	sigPart := EMASeries(macd[first:], signal)
	for i, v := range sigPart {
		if defined(v) {
			sig[first+i] = v
			hist[first+i] = macd[first+i] - v
		}
	}
	return macd, sig, hist
}
