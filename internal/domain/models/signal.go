package models

import "time"

// Direction is the trade side of a signal.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// Strength is the qualitative tier of a signal.
type Strength string

const (
	StrengthModerate   Strength = "MODERATE"
	StrengthStrong     Strength = "STRONG"
	StrengthVeryStrong Strength = "VERY_STRONG"
)

// Indicator names used as the Signal trigger label.
const (
	IndicatorRSI          = "RSI"
	IndicatorMACD         = "MACD"
	IndicatorEMACross     = "EMA_CROSS"
	IndicatorProStrategy  = "PRO_STRATEGY"
	IndicatorConfirmation = "CONSENSUS"
)

// Signal is an immutable detection event. It is created by the detector
// and consumed by the notifier, event sinks, and the dashboard; it is
// never mutated after creation.
type Signal struct {
	Symbol     string    `json:"symbol"`
	Direction  Direction `json:"direction"`
	Indicator  string    `json:"indicator"`
	Reason     string    `json:"reason"`
	Strength   Strength  `json:"strength"`
	Price      float64   `json:"price"`
	StopLoss   float64   `json:"stop_loss"`
	TakeProfit float64   `json:"take_profit"`
	Time       time.Time `json:"time"`

	// Indicator context at detection time, for display.
	ATR      float64 `json:"atr"`
	RSI      float64 `json:"rsi"`
	MACDHist float64 `json:"macd_hist"`

	// External confirmation, nil when unavailable or disabled.
	Confirmation *SignalConfirmation `json:"confirmation,omitempty"`
}

// SignalConfirmation carries the consensus fields attached to a signal.
type SignalConfirmation struct {
	Recommendation Recommendation `json:"recommendation"`
	Confidence     Confidence     `json:"confidence"`
	BuyVotes       int            `json:"buy_votes"`
	SellVotes      int            `json:"sell_votes"`
}
