package cache

import (
	"context"
	"testing"
	"time"
)

func TestTTLCache_GetSet(t *testing.T) {
	c := NewTTLCache[string](3, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on missing key should miss")
	}

	c.Set("a", "alpha")
	got, ok := c.Get("a")
	if !ok || got != "alpha" {
		t.Errorf("Get(a) = %q, %v", got, ok)
	}

	c.Set("a", "alpha2")
	if got, _ := c.Get("a"); got != "alpha2" {
		t.Errorf("Set should overwrite, got %q", got)
	}
	if c.Size() != 1 {
		t.Errorf("Size = %d, want 1", c.Size())
	}
}

func TestTTLCache_Expiry(t *testing.T) {
	c := NewTTLCache[int](3, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expired entry should miss")
	}
	if c.Size() != 0 {
		t.Errorf("expired entry should be dropped on read, size = %d", c.Size())
	}
}

func TestTTLCache_LRUEviction(t *testing.T) {
	c := NewTTLCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now most recently used
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry should be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry should survive eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("new entry should be present")
	}
}

func TestTTLCache_DeleteAndPurge(t *testing.T) {
	c := NewTTLCache[int](5, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted entry should miss")
	}

	c.Purge()
	if c.Size() != 0 {
		t.Errorf("Purge should empty the cache, size = %d", c.Size())
	}
	if _, ok := c.Get("b"); ok {
		t.Error("purged entry should miss")
	}

	// Cache keeps working after a purge.
	c.Set("d", 4)
	if got, ok := c.Get("d"); !ok || got != 4 {
		t.Errorf("Get(d) after purge = %d, %v", got, ok)
	}
}

func TestTTLCache_SweepExpired(t *testing.T) {
	c := NewTTLCache[int](5, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("c", 3)

	if swept := c.SweepExpired(); swept != 2 {
		t.Errorf("SweepExpired = %d, want 2", swept)
	}
	if c.Size() != 1 {
		t.Errorf("Size after sweep = %d, want 1", c.Size())
	}
}

func TestSweeper_Run(t *testing.T) {
	c := NewTTLCache[int](5, 5*time.Millisecond)
	c.Set("a", 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewSweeper(10*time.Millisecond, c).Run(ctx)
		close(done)
	}()

	time.Sleep(40 * time.Millisecond)
	if c.Size() != 0 {
		t.Errorf("sweeper should have dropped the expired entry, size = %d", c.Size())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
