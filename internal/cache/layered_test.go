package cache

import (
	"testing"
	"time"
)

func TestDiskCache_RoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	key := Key("embed:all-minilm:some claim text")
	if err := c.Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get(key)
	if !found {
		t.Fatal("Expected cached value, got miss")
	}
	if string(val) != "payload" {
		t.Errorf("Expected payload, got %q", val)
	}

	if _, found := c.Get(Key("other")); found {
		t.Error("Expected miss for unknown key")
	}
}

func TestDiskCache_ExpiredEntryIsMiss(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	key := Key("expired")
	if err := c.Set(key, []byte("stale"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, found := c.Get(key); found {
		t.Error("Expected expired entry to read as a miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// Seed the disk layer through one cache, read through a fresh one so the
	// first hit must come from disk
	seed := NewLayeredCache(time.Minute, dir, time.Minute)
	key := Key("promoted")
	if err := seed.Set(key, []byte("vector"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	c := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := c.Get(key)
	if !found {
		t.Fatal("Expected disk hit through a fresh layered cache")
	}
	if string(val) != "vector" {
		t.Errorf("Expected vector, got %q", val)
	}

	// Now in memory too
	if _, found := c.memory.Get(key); !found {
		t.Error("Expected disk hit promoted to the memory layer")
	}
}

func TestKey_Deterministic(t *testing.T) {
	if Key("a") != Key("a") {
		t.Error("Expected identical inputs to map to identical keys")
	}
	if Key("a") == Key("b") {
		t.Error("Expected distinct inputs to map to distinct keys")
	}
}
