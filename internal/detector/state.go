// Package detector turns indicator transitions into discrete,
// non-repeating trading signals. It is a pure step over externally
// supplied per-symbol state: the orchestration loop owns the state and
// is its single writer.
package detector

// relation is the latched outcome of one crossover-pair comparison.
type relation int8

const (
	relUnknown relation = iota
	relAbove
	relBelow
	relEqual
)

func relate(a, b float64) relation {
	switch {
	case a > b:
		return relAbove
	case a < b:
		return relBelow
	default:
		return relEqual
	}
}

// notAbove gates bullish crosses: a cross up requires the pair to have
// been below or touching on the prior reading.
func (r relation) notAbove() bool { return r == relBelow || r == relEqual }

// notBelow gates bearish crosses symmetrically.
func (r relation) notBelow() bool { return r == relAbove || r == relEqual }

// SymbolState holds the per-symbol latches that prevent a condition
// which stays true across cycles from refiring. It records what was
// observed on the previous evaluation, not the current one, and is
// resynced unconditionally at the end of every detection cycle.
type SymbolState struct {
	seen bool // at least one evaluation completed

	rsiOversold   bool // RSI was inside the oversold zone
	rsiOverbought bool // RSI was inside the overbought zone

	macdVsSignal relation
	emaFastSlow  relation
}

// NewSymbolState returns the initial OUTSIDE_ZONE state. The first
// evaluation seeds the latches from the previous bar, so a straddling
// bar pair can fire immediately.
func NewSymbolState() *SymbolState { return &SymbolState{} }

// Reset clears all latches back to the initial state.
func (s *SymbolState) Reset() { *s = SymbolState{} }
