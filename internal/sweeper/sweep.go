// Package sweeper drives probes over a board, either once or on a schedule.
package sweeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hazz-dev/svcdeck/internal/board"
	"github.com/hazz-dev/svcdeck/internal/probe"
)

// Mode selects how a sweep schedules its probes.
type Mode string

const (
	// ModeSequential probes one service at a time, in board order.
	ModeSequential Mode = "sequential"
	// ModeParallel probes services concurrently through a bounded pool.
	ModeParallel Mode = "parallel"
)

// ParseMode validates a mode name. The empty string means ModeParallel.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeParallel:
		return ModeParallel, nil
	case ModeSequential:
		return ModeSequential, nil
	default:
		return "", fmt.Errorf("unknown sweep mode %q", s)
	}
}

// Prober checks a single URL. *probe.Prober satisfies it.
type Prober interface {
	Check(ctx context.Context, url string, timeout time.Duration) probe.Result
}

// Options configures a sweep.
type Options struct {
	Mode Mode
	// Concurrency caps in-flight probes in ModeParallel. Zero means one
	// worker per service.
	Concurrency int
	// Timeout is the per-probe budget. Zero means probe.DefaultTimeout.
	Timeout time.Duration
	// OnResult, if set, is called after each probe result is stored.
	OnResult func(index int, r probe.Result)
}

// Sweep probes every row of b once and stores each result as it resolves.
// Rows not yet probed when ctx ends keep their previous status. It returns
// the board tally after the sweep.
func Sweep(ctx context.Context, b *board.Board, p Prober, opts Options) board.Tally {
	n := b.Len()
	run := func(i int) {
		url, _ := b.URL(i)
		r := p.Check(ctx, url, opts.Timeout)
		b.Set(i, r)
		if opts.OnResult != nil {
			opts.OnResult(i, r)
		}
	}

	if opts.Mode == ModeSequential {
		for i := 0; i < n; i++ {
			if ctx.Err() != nil {
				break
			}
			run(i)
		}
		return b.Tally()
	}

	workers := opts.Concurrency
	if workers <= 0 || workers > n {
		workers = n
	}
	if workers == 0 {
		return b.Tally()
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
loop:
	for i := 0; i < n; i++ {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break loop
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			run(i)
		}(i)
	}
	wg.Wait()

	return b.Tally()
}
