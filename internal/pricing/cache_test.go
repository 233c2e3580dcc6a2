package pricing

import (
	"testing"
	"time"
)

func TestFileCacheSetAndGet(t *testing.T) {
	fc := newFileCache(t.TempDir(), time.Hour)

	if err := fc.set(cacheKey("m5.large", "us-east-1"), 0.096); err != nil {
		t.Fatalf("set: %v", err)
	}

	price, ok := fc.get(cacheKey("m5.large", "us-east-1"))
	if !ok {
		t.Fatal("get returned false for a freshly set entry")
	}
	if price != 0.096 {
		t.Errorf("price = %v, want 0.096", price)
	}
}

func TestFileCacheExpires(t *testing.T) {
	fc := newFileCache(t.TempDir(), 0)

	if err := fc.set(cacheKey("m5.large", "us-east-1"), 0.096); err != nil {
		t.Fatal(err)
	}

	if _, ok := fc.get(cacheKey("m5.large", "us-east-1")); ok {
		t.Error("expected a zero-TTL entry to be treated as expired")
	}
}

func TestFileCacheMiss(t *testing.T) {
	fc := newFileCache(t.TempDir(), time.Hour)

	if _, ok := fc.get(cacheKey("c5.xlarge", "eu-west-1")); ok {
		t.Error("expected a cache miss for a key never set")
	}
}
