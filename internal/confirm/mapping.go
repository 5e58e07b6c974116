// Package confirm asks an external consensus-analysis service for a
// second opinion on a symbol. Results are cached, fetches are paced, and
// 429 responses back the adapter off globally so every symbol respects
// the provider's rate limit.
package confirm

// Target identifies a symbol on the analysis service.
type Target struct {
	Symbol   string
	Screener string
	Exchange string
}

// symbolTargets maps chart-feed tickers to analysis-service targets.
// Only mapped symbols are ever confirmed; everything else skips the
// adapter entirely.
var symbolTargets = map[string]Target{
	"EURUSD=X": {Symbol: "EURUSD", Screener: "forex", Exchange: "FX_IDC"},
	"GBPUSD=X": {Symbol: "GBPUSD", Screener: "forex", Exchange: "FX_IDC"},
	"USDJPY=X": {Symbol: "USDJPY", Screener: "forex", Exchange: "FX_IDC"},
	"AUDUSD=X": {Symbol: "AUDUSD", Screener: "forex", Exchange: "FX_IDC"},
	"USDCAD=X": {Symbol: "USDCAD", Screener: "forex", Exchange: "FX_IDC"},
	"USDCHF=X": {Symbol: "USDCHF", Screener: "forex", Exchange: "FX_IDC"},
	"NZDUSD=X": {Symbol: "NZDUSD", Screener: "forex", Exchange: "FX_IDC"},
	"EURGBP=X": {Symbol: "EURGBP", Screener: "forex", Exchange: "FX_IDC"},
	"EURJPY=X": {Symbol: "EURJPY", Screener: "forex", Exchange: "FX_IDC"},
	"GBPJPY=X": {Symbol: "GBPJPY", Screener: "forex", Exchange: "FX_IDC"},
	"GC=F":     {Symbol: "XAUUSD", Screener: "cfd", Exchange: "OANDA"},
	"BTC-USD":  {Symbol: "BTCUSD", Screener: "crypto", Exchange: "BINANCE"},
}

// TargetFor resolves a chart ticker to its analysis-service target.
func TargetFor(symbol string) (Target, bool) {
	t, ok := symbolTargets[symbol]
	return t, ok
}
