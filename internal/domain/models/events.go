package models

import "time"

// IndicatorValues is the latest defined indicator readings for one symbol,
// flattened for dashboard display. Undefined warm-up values are omitted.
type IndicatorValues map[string]float64

// SymbolSnapshot is the per-symbol view published after every detection
// cycle and read by the dashboard.
type SymbolSnapshot struct {
	Symbol     string          `json:"symbol"`
	Price      float64         `json:"price"`
	Indicators IndicatorValues `json:"indicators"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PriceUpdate is the price tick event pushed to dashboard subscribers.
type PriceUpdate struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Time   time.Time `json:"time"`
}
