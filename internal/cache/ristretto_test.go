package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestRistrettoCache(t *testing.T) *ristrettoCache {
	t.Helper()
	nop := zerolog.Nop()
	return NewTestRistrettoCache(t, &nop)
}

func TestRistrettoCache_GetSet(t *testing.T) {
	t.Parallel()

	cache := newTestRistrettoCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "page:about", []byte("<p>about</p>")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	cache.cache.Wait()

	got, err := cache.Get(ctx, "page:about")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "<p>about</p>" {
		t.Errorf("Get returned %q, want %q", got, "<p>about</p>")
	}

	_, err = cache.Get(ctx, "page:missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing key returned %v, want ErrNotFound", err)
	}
}

func TestRistrettoCache_ReturnsCopies(t *testing.T) {
	t.Parallel()

	cache := newTestRistrettoCache(t)
	ctx := context.Background()

	value := []byte("original")
	if err := cache.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	cache.cache.Wait()

	value[0] = 'X'

	got, err := cache.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	got[1] = 'Y'

	again, err := cache.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(again) != "original" {
		t.Errorf("cached value was mutated: %q", again)
	}
}

func TestRistrettoCache_SetWithTTL_Expires(t *testing.T) {
	t.Parallel()

	cache := newTestRistrettoCache(t)
	ctx := context.Background()
	ttl := 100 * time.Millisecond

	if err := cache.SetWithTTL(ctx, "ttl-key", []byte("v"), ttl); err != nil {
		t.Fatalf("SetWithTTL failed: %v", err)
	}
	cache.cache.Wait()

	if _, err := cache.Get(ctx, "ttl-key"); err != nil {
		t.Fatalf("Get immediately after SetWithTTL failed: %v", err)
	}

	time.Sleep(ttl + 100*time.Millisecond)

	if _, err := cache.Get(ctx, "ttl-key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after TTL expired returned %v, want ErrNotFound", err)
	}
}

func TestRistrettoCache_DeleteAndExists(t *testing.T) {
	t.Parallel()

	cache := newTestRistrettoCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	cache.cache.Wait()

	exists, err := cache.Exists(ctx, "k")
	if err != nil || !exists {
		t.Fatalf("Exists = %v, %v; want true, nil", exists, err)
	}

	if err := cache.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := cache.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete missing key failed: %v", err)
	}

	exists, err = cache.Exists(ctx, "k")
	if err != nil || exists {
		t.Errorf("Exists after Delete = %v, %v; want false, nil", exists, err)
	}
}

func TestRistrettoCache_Clear(t *testing.T) {
	t.Parallel()

	cache := newTestRistrettoCache(t)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := cache.Set(ctx, key, []byte(key)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	cache.cache.Wait()

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	for _, key := range []string{"a", "b", "c"} {
		if _, err := cache.Get(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%s) after Clear returned %v, want ErrNotFound", key, err)
		}
	}
}

func TestRistrettoCache_ClosedOperations(t *testing.T) {
	t.Parallel()

	nop := zerolog.Nop()
	cache, err := newRistrettoCacheWithLog(SmallTestRistrettoConfig(), &nop)
	if err != nil {
		t.Fatalf("newRistrettoCacheWithLog failed: %v", err)
	}
	ctx := context.Background()

	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Errorf("second Close returned %v, want nil", err)
	}

	if _, err := cache.Get(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close returned %v, want ErrClosed", err)
	}
	if err := cache.Set(ctx, "k", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after Close returned %v, want ErrClosed", err)
	}
	if err := cache.Delete(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Delete after Close returned %v, want ErrClosed", err)
	}
	if _, err := cache.Exists(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Exists after Close returned %v, want ErrClosed", err)
	}
	if err := cache.Clear(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Clear after Close returned %v, want ErrClosed", err)
	}
	if stats := cache.Stats(); stats != (Stats{}) {
		t.Errorf("Stats after Close = %+v, want zero", stats)
	}
}

func TestRistrettoCache_CanceledContext(t *testing.T) {
	t.Parallel()

	cache := newTestRistrettoCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := cache.Get(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get with canceled context returned %v, want context.Canceled", err)
	}
}

func TestRistrettoCache_Stats(t *testing.T) {
	t.Parallel()

	cache := newTestRistrettoCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", []byte("value")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	cache.cache.Wait()

	_, _ = cache.Get(ctx, "k")
	_, _ = cache.Get(ctx, "missing")

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats hits=%d misses=%d, want 1 and 1", stats.Hits, stats.Misses)
	}
	if stats.KeyCount != 1 {
		t.Errorf("Stats key_count=%d, want 1", stats.KeyCount)
	}
}

func TestRistrettoCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	cache := newTestRistrettoCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%5))
			_ = cache.Set(ctx, key, []byte(key))
			_, _ = cache.Get(ctx, key)
			_, _ = cache.Exists(ctx, key)
		}(i)
	}
	wg.Wait()
}
