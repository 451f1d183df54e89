package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_SetGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)

	if _, ok := store.Get(ctx, "missing"); ok {
		t.Fatalf("did not expect a hit for a missing key")
	}

	store.Set(ctx, "k", "v")
	got, ok := store.Get(ctx, "k")
	if !ok || got != "v" {
		t.Fatalf("unexpected hit: got=%v ok=%v", got, ok)
	}

	store.Delete(ctx, "k")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("expected key to be gone after delete")
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(30 * time.Millisecond)

	store.Set(ctx, "k", "v")
	if _, ok := store.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	time.Sleep(50 * time.Millisecond)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after expiry")
	}
}

func TestStore_GetOrLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	var loads atomic.Int32

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		return "loaded", nil
	}

	for i := 0; i < 3; i++ {
		got, err := store.GetOrLoad(ctx, "k", loader)
		if err != nil {
			t.Fatalf("GetOrLoad error: %v", err)
		}
		if got != "loaded" {
			t.Fatalf("unexpected value: %v", got)
		}
	}

	if got := loads.Load(); got != 1 {
		t.Fatalf("expected one load, got %d", got)
	}
}

func TestStore_GetOrLoad_ErrorNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	wantErr := errors.New("upstream down")
	var loads atomic.Int32

	_, err := store.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
		loads.Add(1)
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected loader error, got %v", err)
	}

	got, err := store.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
		loads.Add(1)
		return "recovered", nil
	})
	if err != nil || got != "recovered" {
		t.Fatalf("expected recovery on next load: got=%v err=%v", got, err)
	}
	if loads.Load() != 2 {
		t.Fatalf("failed load must not be cached, loads=%d", loads.Load())
	}
}

func TestStore_GetOrLoad_ConcurrentSingleLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	var loads atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
				loads.Add(1)
				<-release
				return "shared", nil
			})
			if err != nil || got != "shared" {
				t.Errorf("unexpected result: got=%v err=%v", got, err)
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := loads.Load(); got != 1 {
		t.Fatalf("expected one shared load, got %d", got)
	}
}
