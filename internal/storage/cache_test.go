package storage

import (
	"context"
	"testing"
	"time"
)

func TestNewCacheDisabledWithoutAddr(t *testing.T) {
	if c := NewCache("", time.Minute); c != nil {
		t.Fatalf("empty addr should disable the cache, got %+v", c)
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache

	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Fatalf("nil cache must always miss")
	}
	// Must not panic.
	c.Set(context.Background(), "k", []byte("v"))

	if ttl := c.TTL(); ttl != 0 {
		t.Fatalf("nil cache TTL = %v, want 0", ttl)
	}
}
