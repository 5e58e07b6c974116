package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdhttp "net/http"
	"time"

	"FxPulse/internal/domain/models"
	"FxPulse/pkg/http"
)

// ErrThrottled is returned when the analysis service answers 429. The
// adapter treats it as a signal to back off; every other error fails the
// fetch immediately.
var ErrThrottled = errors.New("confirm: analysis service throttled")

// Fetcher retrieves one consensus analysis from the remote service.
type Fetcher interface {
	Fetch(ctx context.Context, target Target, interval string) (*models.Confirmation, error)
}

// analysisResponse is the service's wire format.
type analysisResponse struct {
	Recommendation string             `json:"recommendation"`
	Summary        models.VoteCounts  `json:"summary"`
	Oscillators    models.VoteCounts  `json:"oscillators"`
	MovingAverages models.VoteCounts  `json:"moving_averages"`
	Indicators     map[string]float64 `json:"indicators"`
}

// HTTPFetcher calls the analysis service over REST.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher builds a fetcher against the given base URL.
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: baseURL,
		client:  http.NewClient(http.WithTimeout(timeout)),
	}
}

// Fetch requests the analysis for one (target, interval). A 429 maps to
// ErrThrottled so the caller can distinguish pacing from hard failure.
func (f *HTTPFetcher) Fetch(ctx context.Context, target Target, interval string) (*models.Confirmation, error) {
	resp, err := f.client.SendRequest(ctx, &http.RequestOptions{
		Method: http.MethodGet,
		URL:    f.baseURL + "/analysis",
		QueryParams: map[string][]string{
			"symbol":   {target.Symbol},
			"screener": {target.Screener},
			"exchange": {target.Exchange},
			"interval": {interval},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == stdhttp.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrThrottled
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("analysis status %d: %s", resp.StatusCode, body)
	}

	var raw analysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}

	rec, err := parseRecommendation(raw.Recommendation)
	if err != nil {
		return nil, err
	}
	return &models.Confirmation{
		Symbol:         target.Symbol,
		Interval:       interval,
		Recommendation: rec,
		Summary:        raw.Summary,
		Oscillators:    raw.Oscillators,
		MovingAverages: raw.MovingAverages,
		Indicators:     raw.Indicators,
		FetchedAt:      time.Now(),
	}, nil
}

func parseRecommendation(s string) (models.Recommendation, error) {
	switch r := models.Recommendation(s); r {
	case models.RecStrongBuy, models.RecBuy, models.RecNeutral, models.RecSell, models.RecStrongSell:
		return r, nil
	}
	return "", fmt.Errorf("unknown recommendation %q", s)
}
