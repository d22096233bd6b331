package cache

import (
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	if _, ok := c.GetCatalog(); ok {
		t.Fatalf("expected empty cache to miss")
	}
	c.SetCatalog(c.Generation(), []byte("catalog"))
	got, ok := c.GetCatalog()
	if !ok || string(got) != "catalog" {
		t.Fatalf("GetCatalog = %q, %v, want %q, true", got, ok, "catalog")
	}
	c.Invalidate()
	if _, ok := c.GetCatalog(); ok {
		t.Fatalf("expected miss after Invalidate")
	}
}

func TestMemoryCacheExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &memoryCache{ttl: time.Second, now: func() time.Time { return now }}
	c.SetCatalog(0, []byte("catalog"))
	now = now.Add(2 * time.Second)
	if _, ok := c.GetCatalog(); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestMemoryCacheDisabled(t *testing.T) {
	c := NewMemoryCache(0)
	c.SetCatalog(c.Generation(), []byte("catalog"))
	if _, ok := c.GetCatalog(); ok {
		t.Fatalf("expected zero ttl to disable caching")
	}
}

func TestMemoryCacheDropsCatalogBuiltBeforeInvalidate(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	gen := c.Generation()
	c.Invalidate()
	c.SetCatalog(gen, []byte("stale"))
	if got, ok := c.GetCatalog(); ok {
		t.Fatalf("GetCatalog = %q, want miss for a catalog from generation %d", got, gen)
	}

	c.SetCatalog(c.Generation(), []byte("fresh"))
	if got, ok := c.GetCatalog(); !ok || string(got) != "fresh" {
		t.Fatalf("GetCatalog = %q, %v, want %q, true", got, ok, "fresh")
	}
}
