package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGetDelete(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got string
	if err := mc.Get(ctx, "k", &got); err != nil || got != "v" {
		t.Fatalf("get: %v %q", err, got)
	}

	if err := mc.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := mc.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss after delete, got %v", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", -time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	// A non-positive TTL falls back to the long default.
	var got string
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("default TTL entry should live: %v", err)
	}

	mc.data["k"].ExpireAt = time.Now().Add(-time.Second)
	if err := mc.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss for expired entry, got %v", err)
	}
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	mc.Set(ctx, "a", "1", time.Minute)
	mc.Set(ctx, "b", "2", time.Minute)

	// Touch "a" so "b" becomes the oldest.
	var v string
	mc.Get(ctx, "a", &v)
	mc.access["b"] = mc.access["a"].Add(-time.Minute)

	mc.Set(ctx, "c", "3", time.Minute)
	if err := mc.Get(ctx, "b", &v); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected the least recently used key evicted, got %v", err)
	}
	if err := mc.Get(ctx, "a", &v); err != nil {
		t.Fatalf("recently used key must survive eviction: %v", err)
	}
}
