package models

import "time"

// Recommendation is the consensus recommendation of the external
// analysis service.
type Recommendation string

const (
	RecStrongBuy  Recommendation = "STRONG_BUY"
	RecBuy        Recommendation = "BUY"
	RecNeutral    Recommendation = "NEUTRAL"
	RecSell       Recommendation = "SELL"
	RecStrongSell Recommendation = "STRONG_SELL"
)

// AgreesWith reports whether the recommendation points the same way as
// the given signal direction.
func (r Recommendation) AgreesWith(d Direction) bool {
	switch d {
	case DirectionBuy:
		return r == RecStrongBuy || r == RecBuy
	case DirectionSell:
		return r == RecStrongSell || r == RecSell
	}
	return false
}

// Confidence is the consensus-ratio tier derived from vote counts.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// VoteCounts is one buy/sell/neutral tally.
type VoteCounts struct {
	Buy     int `json:"buy"`
	Sell    int `json:"sell"`
	Neutral int `json:"neutral"`
}

// Total returns the number of votes recorded.
func (v VoteCounts) Total() int { return v.Buy + v.Sell + v.Neutral }

// Confidence tier cutoffs on the dominant-vote ratio.
const (
	confidenceHighRatio   = 0.7
	confidenceMediumRatio = 0.5
)

// ConfidenceTier classifies the summary votes by how dominant the
// stronger side is: HIGH at 70% or more of the total, MEDIUM at 50%,
// LOW otherwise (including an empty tally).
func (c *Confirmation) ConfidenceTier() Confidence {
	total := c.Summary.Total()
	if total == 0 {
		return ConfidenceLow
	}
	dominant := c.Summary.Buy
	if c.Summary.Sell > dominant {
		dominant = c.Summary.Sell
	}
	ratio := float64(dominant) / float64(total)
	switch {
	case ratio >= confidenceHighRatio:
		return ConfidenceHigh
	case ratio >= confidenceMediumRatio:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Confirmation is the consensus analysis result for one (symbol, interval).
// Cached entries keep FetchedAt; a stale entry is treated as absent.
type Confirmation struct {
	Symbol         string         `json:"symbol"`
	Interval       string         `json:"interval"`
	Recommendation Recommendation `json:"recommendation"`
	Summary        VoteCounts     `json:"summary"`
	Oscillators    VoteCounts     `json:"oscillators"`
	MovingAverages VoteCounts     `json:"moving_averages"`

	// Raw indicator snapshot from the service, optional.
	Indicators map[string]float64 `json:"indicators,omitempty"`

	FetchedAt time.Time `json:"fetched_at"`
}
