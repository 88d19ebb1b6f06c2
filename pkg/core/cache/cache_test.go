package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/msto63/vibescript/foundation/vibe/parser"
)

// fakeClock lets tests move time forward without sleeping
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache[V any](max int, ttl time.Duration) (*Cache[V], *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 9, 21, 12, 0, 0, 0, time.UTC)}
	c := New[V](Config{MaxItems: max, TTL: ttl, CleanupInterval: time.Hour})
	c.now = clock.now
	return c, clock
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache[int](10, time.Minute)
	defer c.Close()

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v, want 1, true", v, ok)
	}
	if v, ok := c.Get("missing"); ok || v != 0 {
		t.Errorf("Get(missing) = %v, %v, want 0, false", v, ok)
	}

	hits, misses, rate := c.Stats()
	if hits != 1 || misses != 1 || rate != 50 {
		t.Errorf("Stats() = %d, %d, %v", hits, misses, rate)
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted entry returned")
	}
}

func TestCache_Expiry(t *testing.T) {
	c, clock := newTestCache[string](10, time.Minute)
	defer c.Close()

	c.Set("default", "x")
	c.SetWithTTL("short", "y", time.Second)
	c.SetWithTTL("forever", "z", 0)

	clock.advance(2 * time.Second)
	if _, ok := c.Get("short"); ok {
		t.Error("expired entry returned")
	}
	if _, ok := c.Get("default"); !ok {
		t.Error("entry expired before its TTL")
	}

	clock.advance(time.Hour)
	if _, ok := c.Get("default"); ok {
		t.Error("entry outlived its TTL")
	}
	if _, ok := c.Get("forever"); !ok {
		t.Error("entry without TTL expired")
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, clock := newTestCache[int](2, 0)
	defer c.Close()

	c.Set("a", 1)
	clock.advance(time.Second)
	c.Set("b", 2)
	clock.advance(time.Second)
	c.Get("a")
	clock.advance(time.Second)
	c.Set("c", 3)

	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry kept")
	}
	for _, key := range []string{"a", "c"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("entry %q evicted", key)
		}
	}

	// Overwriting an existing key never evicts
	c.Set("a", 10)
	if c.Size() != 2 {
		t.Errorf("Size() after overwrite = %d, want 2", c.Size())
	}
}

func TestCache_EvictionPrefersExpired(t *testing.T) {
	c, clock := newTestCache[int](2, 0)
	defer c.Close()

	c.Set("keep", 1)
	c.SetWithTTL("stale", 2, time.Second)
	clock.advance(time.Minute)
	c.Set("new", 3)

	if _, ok := c.Get("keep"); !ok {
		t.Error("live entry evicted while an expired one existed")
	}
}

func TestCache_GetOrSet(t *testing.T) {
	c, _ := newTestCache[string](10, time.Minute)
	defer c.Close()

	calls := 0
	fn := func() (string, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		if v, err := c.GetOrSet("k", fn); err != nil || v != "value" {
			t.Fatalf("GetOrSet() = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}

	if _, err := c.GetOrSet("bad", func() (string, error) { return "", errors.New("boom") }); err == nil {
		t.Error("GetOrSet() should return fn error")
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed value was cached")
	}

	c.Clear()
	if c.Size() != 0 {
		t.Errorf("Size() after Clear = %d", c.Size())
	}
}

func TestSourceHash(t *testing.T) {
	a := SourceHash("spill_the_tea 1;")
	b := SourceHash("spill_the_tea 1;")
	c := SourceHash("spill_the_tea 2;")

	if a != b {
		t.Error("hash is not deterministic")
	}
	if a == c {
		t.Error("different sources share a hash")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
}

func TestProgramCache(t *testing.T) {
	pc := NewProgramCache(ProgramConfig{})
	defer pc.Close()

	src := "lit x = 1; spill_the_tea x;"
	program, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if _, ok := pc.Get(src); ok {
		t.Error("empty cache returned a program")
	}

	pc.Put(src, program)
	pc.Put("ignored", nil)

	got, ok := pc.Get(src)
	if !ok || got != program {
		t.Errorf("Get() = %p, %v, want %p", got, ok, program)
	}
	if pc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", pc.Len())
	}
}
