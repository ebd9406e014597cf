package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hazz-dev/svcdeck/internal/catalog"
)

func TestLoader_LoadNotReadyIsEmpty(t *testing.T) {
	l := catalog.NewLoader(func() (*catalog.Catalog, error) {
		return nil, catalog.ErrNotReady
	})
	c, err := l.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty catalog, got %d categories", c.Len())
	}
}

func TestLoader_LoadNilSource(t *testing.T) {
	c, err := catalog.NewLoader(nil).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty catalog, got %d categories", c.Len())
	}
}

func TestLoader_LoadPropagatesParseError(t *testing.T) {
	boom := errors.New("boom")
	_, err := catalog.NewLoader(func() (*catalog.Catalog, error) { return nil, boom }).Load()
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestLoader_AwaitPollsUntilReady(t *testing.T) {
	var calls int32
	l := catalog.NewLoader(func() (*catalog.Catalog, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return nil, catalog.ErrNotReady
		}
		return catalog.Default(), nil
	})
	l.PollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := l.Await(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ServiceCount() != 17 {
		t.Errorf("expected 17 services, got %d", c.ServiceCount())
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected 3 source calls, got %d", n)
	}
}

func TestLoader_AwaitFileAppearsLater(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yml")
	l := catalog.NewLoader(catalog.FileSource(path))
	l.PollInterval = 10 * time.Millisecond

	go func() {
		time.Sleep(50 * time.Millisecond)
		// Rename so the poller never sees a half-written file.
		tmp := path + ".tmp"
		os.WriteFile(tmp, []byte("- title: Late\n  services:\n    - { name: A, url: http://a }\n"), 0o644)
		os.Rename(tmp, path)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := l.Await(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ServiceCount() != 1 {
		t.Errorf("expected 1 service, got %d", c.ServiceCount())
	}
}

func TestLoader_AwaitContextCancelled(t *testing.T) {
	l := catalog.NewLoader(func() (*catalog.Catalog, error) {
		return nil, catalog.ErrNotReady
	})
	l.PollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c, err := l.Await(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
	if c == nil || c.Len() != 0 {
		t.Error("expected empty catalog on cancel")
	}
}
