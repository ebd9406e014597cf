package catalog

import (
	"context"
	"errors"
	"time"
)

// DefaultPollInterval is how often Await re-checks a source that is not
// ready yet.
const DefaultPollInterval = 100 * time.Millisecond

// Source produces a catalog, or ErrNotReady while it is unavailable.
type Source func() (*Catalog, error)

// FileSource reads the catalog from path on every call.
func FileSource(path string) Source {
	return func() (*Catalog, error) {
		return LoadFile(path)
	}
}

// Loader exposes a catalog from a Source.
type Loader struct {
	source       Source
	PollInterval time.Duration
}

// NewLoader creates a Loader for src.
func NewLoader(src Source) *Loader {
	return &Loader{source: src, PollInterval: DefaultPollInterval}
}

// Load returns the catalog if the source is ready and an empty catalog if it
// is not. Any other source error is returned.
func (l *Loader) Load() (*Catalog, error) {
	if l.source == nil {
		return Empty(), nil
	}
	c, err := l.source()
	if errors.Is(err, ErrNotReady) {
		return Empty(), nil
	}
	if err != nil {
		return nil, err
	}
	if c == nil {
		return Empty(), nil
	}
	return c, nil
}

// Await polls the source until it is ready or ctx ends. When ctx ends first
// it returns an empty catalog along with the context error.
func (l *Loader) Await(ctx context.Context) (*Catalog, error) {
	interval := l.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if l.source != nil {
			c, err := l.source()
			switch {
			case err == nil && c != nil:
				return c, nil
			case err != nil && !errors.Is(err, ErrNotReady):
				return nil, err
			}
		}

		select {
		case <-ctx.Done():
			return Empty(), ctx.Err()
		case <-ticker.C:
		}
	}
}
