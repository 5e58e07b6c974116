package usecase

import (
	"sync"

	"FxPulse/internal/domain/models"
)

// RecentSignals is a bounded, newest-first history of fired signals
// backing the dashboard's signal feed.
type RecentSignals struct {
	mu  sync.RWMutex
	buf []models.Signal
	max int
}

// NewRecentSignals returns a history holding at most max signals.
func NewRecentSignals(max int) *RecentSignals {
	if max <= 0 {
		max = 100
	}
	return &RecentSignals{max: max}
}

// Add records one signal, evicting the oldest past capacity.
func (r *RecentSignals) Add(sig models.Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = append(r.buf, sig)
	if len(r.buf) > r.max {
		r.buf = r.buf[len(r.buf)-r.max:]
	}
}

// List returns up to limit signals, newest first. limit <= 0 means all.
func (r *RecentSignals) List(limit int) []models.Signal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.buf)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]models.Signal, limit)
	for i := 0; i < limit; i++ {
		out[i] = r.buf[n-1-i]
	}
	return out
}
