package repository

// IsValidInterval returns true if iv is a supported candle interval.
func IsValidInterval(iv string) bool {
	switch iv {
	case "1m", "5m", "15m", "30m", "1h", "4h", "1d", "1wk", "1mo":
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default candle interval.
func DefaultInterval() string { return "1h" }

// NormalizeInterval converts a raw string to a valid interval (or default).
func NormalizeInterval(s string) string {
	if IsValidInterval(s) {
		return s
	}
	return DefaultInterval()
}
