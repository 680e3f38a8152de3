package headlines

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/playperu/newsmap/internal/newsmap"
)

type fakeProvider struct {
	name      string
	headlines []newsmap.Headline
	err       error
	calls     atomic.Int32
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(_ context.Context, city, _ string) ([]newsmap.Headline, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.headlines, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func titles(n int, prefix string) []newsmap.Headline {
	hs := make([]newsmap.Headline, n)
	for i := range hs {
		hs[i] = newsmap.Headline{Title: fmt.Sprintf("%s %d", prefix, i+1), Source: prefix}
	}
	return hs
}

func newTestCache(ttl time.Duration, providers ...Provider) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	logger := discardLogger()
	return NewCache(logger, NewChain(logger, providers...), ttl, WithClock(clock.Now)), clock
}

func TestCacheHitWithinTTL(t *testing.T) {
	primary := &fakeProvider{name: "primary", headlines: titles(2, "p")}
	c, clock := newTestCache(time.Hour, primary)

	first, ok := c.Get(context.Background(), "nyc", "New York", "USA")
	if !ok || len(first) != 2 {
		t.Fatalf("first Get = %v, %v; want 2 headlines", first, ok)
	}

	clock.Advance(59 * time.Minute)
	second, ok := c.Get(context.Background(), "nyc", "New York", "USA")
	if !ok || len(second) != 2 {
		t.Fatalf("second Get = %v, %v; want 2 headlines", second, ok)
	}
	if got := primary.calls.Load(); got != 1 {
		t.Fatalf("upstream calls = %d, want 1", got)
	}
	if !second[0].CachedAt.Equal(first[0].CachedAt) {
		t.Errorf("cached_at changed on hit: %v vs %v", second[0].CachedAt, first[0].CachedAt)
	}
}

func TestCacheRefetchAfterTTL(t *testing.T) {
	primary := &fakeProvider{name: "primary", headlines: titles(1, "p")}
	c, clock := newTestCache(time.Hour, primary)

	c.Get(context.Background(), "nyc", "New York", "USA")
	clock.Advance(time.Hour)
	if _, ok := c.Get(context.Background(), "nyc", "New York", "USA"); !ok {
		t.Fatal("expected headlines after refetch")
	}
	if got := primary.calls.Load(); got != 2 {
		t.Fatalf("upstream calls = %d, want 2", got)
	}
}

func TestCacheFallback(t *testing.T) {
	tests := []struct {
		name        string
		primary     *fakeProvider
		fallbackLen int
		wantLen     int
	}{
		{"primary empty", &fakeProvider{name: "primary"}, 2, 2},
		{"primary error", &fakeProvider{name: "primary", err: errors.New("boom")}, 1, 1},
		{"fallback capped", &fakeProvider{name: "primary"}, 7, MaxPerLocation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fallback := &fakeProvider{name: "fallback", headlines: titles(tt.fallbackLen, "f")}
			c, _ := newTestCache(time.Hour, tt.primary, fallback)

			hs, ok := c.Get(context.Background(), "lon", "London", "UK")
			if !ok {
				t.Fatal("expected headlines from fallback")
			}
			if len(hs) != tt.wantLen {
				t.Fatalf("got %d headlines, want %d", len(hs), tt.wantLen)
			}
			for i, h := range hs {
				if want := fmt.Sprintf("f %d", i+1); h.Title != want {
					t.Errorf("headline %d = %q, want %q", i, h.Title, want)
				}
			}

			// Served from cache now.
			c.Get(context.Background(), "lon", "London", "UK")
			if got := tt.primary.calls.Load(); got != 1 {
				t.Errorf("primary calls = %d, want 1", got)
			}
			if got := fallback.calls.Load(); got != 1 {
				t.Errorf("fallback calls = %d, want 1", got)
			}
		})
	}
}

func TestCachePrimarySkipsFallback(t *testing.T) {
	primary := &fakeProvider{name: "primary", headlines: titles(5, "p")}
	fallback := &fakeProvider{name: "fallback", headlines: titles(1, "f")}
	c, _ := newTestCache(time.Hour, primary, fallback)

	hs, ok := c.Get(context.Background(), "tyo", "Tokyo", "Japan")
	if !ok || len(hs) != MaxPerLocation {
		t.Fatalf("Get = %d headlines, %v; want %d", len(hs), ok, MaxPerLocation)
	}
	if got := fallback.calls.Load(); got != 0 {
		t.Fatalf("fallback calls = %d, want 0", got)
	}
}

func TestCacheDoesNotCacheMisses(t *testing.T) {
	primary := &fakeProvider{name: "primary"}
	fallback := &fakeProvider{name: "fallback"}
	c, _ := newTestCache(time.Hour, primary, fallback)

	for i := 0; i < 2; i++ {
		if hs, ok := c.Get(context.Background(), "syd", "Sydney", "Australia"); ok || hs != nil {
			t.Fatalf("Get = %v, %v; want absent", hs, ok)
		}
	}
	if got := primary.calls.Load(); got != 2 {
		t.Errorf("primary calls = %d, want 2", got)
	}
	if got := fallback.calls.Load(); got != 2 {
		t.Errorf("fallback calls = %d, want 2", got)
	}
	if n := c.Len(); n != 0 {
		t.Errorf("Len = %d, want 0", n)
	}
}

func TestCacheExpiredEntryEvictedOnRead(t *testing.T) {
	primary := &fakeProvider{name: "primary", headlines: titles(1, "p")}
	c, clock := newTestCache(time.Minute, primary)

	c.Get(context.Background(), "nyc", "New York", "USA")
	clock.Advance(2 * time.Minute)
	primary.headlines = nil

	if _, ok := c.Get(context.Background(), "nyc", "New York", "USA"); ok {
		t.Fatal("expected miss after expiry with empty upstream")
	}
	if n := c.Len(); n != 0 {
		t.Fatalf("Len = %d, want expired entry evicted", n)
	}
}

func TestCachePurge(t *testing.T) {
	primary := &fakeProvider{name: "primary", headlines: titles(1, "p")}
	c, clock := newTestCache(time.Minute, primary)

	c.Get(context.Background(), "a", "A", "X")
	clock.Advance(30 * time.Second)
	c.Get(context.Background(), "b", "B", "X")
	clock.Advance(45 * time.Second)

	if n := c.Purge(); n != 1 {
		t.Fatalf("Purge = %d, want 1", n)
	}
	if n := c.Len(); n != 1 {
		t.Fatalf("Len = %d, want 1", n)
	}
}

func TestCacheReturnsCopies(t *testing.T) {
	primary := &fakeProvider{name: "primary", headlines: titles(1, "p")}
	c, _ := newTestCache(time.Hour, primary)

	hs, _ := c.Get(context.Background(), "nyc", "New York", "USA")
	hs[0].Title = "mutated"

	again, _ := c.Get(context.Background(), "nyc", "New York", "USA")
	if again[0].Title != "p 1" {
		t.Fatalf("cache entry mutated through returned slice: %q", again[0].Title)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	primary := &fakeProvider{name: "primary", headlines: titles(3, "p")}
	c, _ := newTestCache(time.Hour, primary)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("loc-%d", i%5)
			hs, ok := c.Get(context.Background(), key, key, "X")
			if !ok || len(hs) != 3 {
				t.Errorf("Get(%s) = %d headlines, %v", key, len(hs), ok)
			}
		}(i)
	}
	wg.Wait()

	if n := c.Len(); n != 5 {
		t.Fatalf("Len = %d, want 5", n)
	}
}

func TestCacheCheck(t *testing.T) {
	logger := discardLogger()

	ok := NewCache(logger, NewChain(logger, &fakeProvider{name: "p"}), time.Minute)
	if err := ok.Check(context.Background()); err != nil {
		t.Fatalf("Check with provider: %v", err)
	}

	empty := NewCache(logger, NewChain(logger), time.Minute)
	if err := empty.Check(context.Background()); err == nil {
		t.Fatal("Check without providers: expected error")
	}
}
