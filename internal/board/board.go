package board

import (
	"sync"

	"github.com/hazz-dev/svcdeck/internal/catalog"
	"github.com/hazz-dev/svcdeck/internal/probe"
)

// Board holds the flattened catalog and the latest status of every row.
// Only status fields ever change. It is safe for concurrent use.
type Board struct {
	catalog *catalog.Catalog

	mu      sync.RWMutex
	entries []FlatService
	subs    map[chan FlatService]struct{}
}

// New builds a Board over c with every status unknown.
func New(c *catalog.Catalog) *Board {
	if c == nil {
		c = catalog.Empty()
	}
	return &Board{
		catalog: c,
		entries: Flatten(c),
		subs:    make(map[chan FlatService]struct{}),
	}
}

// Catalog returns the catalog the board was built from.
func (b *Board) Catalog() *catalog.Catalog {
	return b.catalog
}

// Len returns the number of rows.
func (b *Board) Len() int {
	return len(b.entries)
}

// URL returns the URL of row i.
func (b *Board) URL(i int) (string, bool) {
	if i < 0 || i >= len(b.entries) {
		return "", false
	}
	// URLs never change after construction, so no lock is needed.
	return b.entries[i].URL, true
}

// Set records r as the status of row i, replacing any previous result.
// Out of range indices are ignored.
func (b *Board) Set(i int, r probe.Result) {
	b.mu.Lock()
	if i < 0 || i >= len(b.entries) {
		b.mu.Unlock()
		return
	}
	e := &b.entries[i]
	e.Status = r.Status
	e.ResponseMs = r.Latency.Milliseconds()
	e.Error = r.Err
	checked := r.CheckedAt
	e.CheckedAt = &checked
	updated := *e
	b.mu.Unlock()

	b.publish(updated)
}

// Reset marks every row unknown again.
func (b *Board) Reset() {
	b.mu.Lock()
	for i := range b.entries {
		e := &b.entries[i]
		e.Status = probe.StatusUnknown
		e.ResponseMs = 0
		e.Error = ""
		e.CheckedAt = nil
	}
	reset := append([]FlatService(nil), b.entries...)
	b.mu.Unlock()

	for _, e := range reset {
		b.publish(e)
	}
}

// Snapshot returns a copy of all rows.
func (b *Board) Snapshot() []FlatService {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]FlatService(nil), b.entries...)
}

// Entry returns a copy of row i.
func (b *Board) Entry(i int) (FlatService, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.entries) {
		return FlatService{}, false
	}
	return b.entries[i], true
}

// Tally counts the current rows by status.
func (b *Board) Tally() Tally {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return TallyOf(b.entries)
}

// Subscribe returns a channel that receives every row change and a function
// that cancels the subscription. Changes are dropped for subscribers whose
// buffer is full.
func (b *Board) Subscribe(buffer int) (<-chan FlatService, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan FlatService, buffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (b *Board) publish(e FlatService) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
