package cache

import (
	"context"
	"testing"
	"time"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a=%v ok=%v", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("c=%v ok=%v", v, ok)
	}
	st := c.Stats()
	if st.Evictions != 1 || st.Size != 2 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if st.Hits != 3 || st.Misses != 1 {
		t.Fatalf("unexpected hit/miss: %+v", st)
	}
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	c.Set("j", "w")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("fresh entry missing")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expired entry returned")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("cleaned %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Fatalf("size=%d", c.Size())
	}
}

func TestLRUZeroTTLNeverExpires(t *testing.T) {
	c := NewLRUCache[int](1, 0)
	c.now = func() time.Time { return time.Now().Add(100 * time.Hour) }
	c.Set("x", 1)
	if _, ok := c.Get("x"); !ok {
		t.Fatalf("entry should not expire")
	}
	if c.CleanExpired() != 0 {
		t.Fatalf("nothing to clean")
	}
}

func TestLRUOverwriteAndDelete(t *testing.T) {
	c := NewLRUCache[int](0, time.Minute)
	c.Set("x", 1)
	c.Set("x", 2)
	if v, _ := c.Get("x"); v != 2 {
		t.Fatalf("x=%d", v)
	}
	c.Delete("x")
	if c.Size() != 0 {
		t.Fatalf("size=%d", c.Size())
	}
}

func TestManagerSweep(t *testing.T) {
	now := time.Now()
	c := NewLRUCache[int](4, time.Second)
	c.now = func() time.Time { return now }
	c.Set("a", 1)
	c.Set("b", 2)
	now = now.Add(time.Hour)

	m := NewManager()
	m.Register("views", c)
	if n := m.Sweep(context.Background()); n != 2 {
		t.Fatalf("swept %d, want 2", n)
	}

	m.StartCleanup(context.Background(), time.Hour)
	m.Stop()
	m.Stop()
}
