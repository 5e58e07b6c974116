package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestAlignFromTo(t *testing.T) {
	from := time.Date(2024, 10, 10, 10, 7, 42, 0, time.UTC)
	to := time.Date(2024, 10, 10, 14, 53, 9, 0, time.UTC)

	f, o := AlignFromTo(from, to, "15m")
	if f.Minute() != 0 || o.Minute() != 45 {
		t.Fatalf("15m alignment wrong: %v .. %v", f, o)
	}

	f, o = AlignFromTo(from, to, "1h")
	if f.Hour() != 10 || f.Minute() != 0 || o.Hour() != 14 || o.Minute() != 0 {
		t.Fatalf("1h alignment wrong: %v .. %v", f, o)
	}

	// Unknown intervals fall back to hourly boundaries.
	f, _ = AlignFromTo(from, to, "7x")
	if f.Minute() != 0 {
		t.Fatalf("fallback alignment wrong: %v", f)
	}
}
