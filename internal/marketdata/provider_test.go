package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"FxPulse/pkg/cache"
	applogger "FxPulse/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	log, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// chartFixture answers the chart endpoint with three bars, the middle
// one null to mimic a gap in the venue's prints.
func chartFixture(hits *int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		fmt.Fprint(w, `{"chart":{"result":[{
			"timestamp":[1700000000,1700003600,1700007200],
			"indicators":{"quote":[{
				"open":[1.0990,null,1.1000],
				"high":[1.1005,null,1.1015],
				"low":[1.0980,null,1.0995],
				"close":[1.1000,null,1.1010]
			}]}
		}],"error":null}}`)
	}
}

func TestBarsFetchesAndCaches(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(chartFixture(&hits))
	defer srv.Close()

	p := New(Config{BaseURL: srv.URL, CacheTTL: time.Minute}, cache.NewMemoryCache(), testLogger(t))

	bars, ok := p.Bars(context.Background(), "EURUSD=X", "7d", "1h")
	if !ok {
		t.Fatal("expected bars")
	}
	if len(bars) != 2 {
		t.Fatalf("null bar should be dropped, got %d bars", len(bars))
	}
	if bars[0].Close != 1.1000 || bars[1].Close != 1.1010 {
		t.Fatalf("unexpected closes %v %v", bars[0].Close, bars[1].Close)
	}
	if !bars[0].Time.Equal(time.Unix(1700000000, 0).UTC()) {
		t.Fatalf("unexpected first timestamp %v", bars[0].Time)
	}

	// Second read within the TTL stays off the network.
	if _, ok := p.Bars(context.Background(), "EURUSD=X", "7d", "1h"); !ok {
		t.Fatal("cached read failed")
	}
	if atomic.LoadInt64(&hits) != 1 {
		t.Fatalf("expected one upstream hit, got %d", hits)
	}

	// A different interval is a different cache entry.
	p.Bars(context.Background(), "EURUSD=X", "7d", "15m")
	if atomic.LoadInt64(&hits) != 2 {
		t.Fatalf("expected a second upstream hit, got %d", hits)
	}
}

func TestBarsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	p := New(Config{BaseURL: srv.URL}, cache.NewMemoryCache(), testLogger(t))
	if _, ok := p.Bars(context.Background(), "NOPE=X", "7d", "1h"); ok {
		t.Fatal("API error must not yield bars")
	}
}

func TestBarsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := New(Config{BaseURL: srv.URL}, cache.NewMemoryCache(), testLogger(t))
	if _, ok := p.Bars(context.Background(), "EURUSD=X", "7d", "1h"); ok {
		t.Fatal("HTTP failure must not yield bars")
	}
}

func TestBarsEvictsCorruptCacheEntry(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(chartFixture(&hits))
	defer srv.Close()

	mc := cache.NewMemoryCache()
	p := New(Config{BaseURL: srv.URL, CacheTTL: time.Minute}, mc, testLogger(t))

	key := "bars:EURUSD=X:7d:1h"
	if err := mc.Set(context.Background(), key, "{not json", time.Minute); err != nil {
		t.Fatalf("seed: %v", err)
	}

	bars, ok := p.Bars(context.Background(), "EURUSD=X", "7d", "1h")
	if !ok || len(bars) != 2 {
		t.Fatalf("corrupt entry must not block the refetch: ok=%v bars=%d", ok, len(bars))
	}
	if atomic.LoadInt64(&hits) != 1 {
		t.Fatalf("expected one upstream hit, got %d", hits)
	}

	// The refetched series replaced the corrupt entry.
	if _, ok := p.Bars(context.Background(), "EURUSD=X", "7d", "1h"); !ok {
		t.Fatal("cached read failed")
	}
	if atomic.LoadInt64(&hits) != 1 {
		t.Fatalf("corrupt entry lingered, got %d hits", hits)
	}
}
