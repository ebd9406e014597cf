package sweeper

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hazz-dev/svcdeck/internal/board"
	"github.com/hazz-dev/svcdeck/internal/logger"
	"github.com/hazz-dev/svcdeck/internal/probe"
)

// DefaultInterval is the time between scheduled sweeps.
const DefaultInterval = 30 * time.Second

// Sweeper runs sweeps over a board on an interval and on demand. At most
// one sweep runs at a time.
type Sweeper struct {
	board    *board.Board
	prober   Prober
	opts     Options
	interval time.Duration
	logger   logger.Logger

	trigger chan struct{}
	onCycle func(board.Tally, time.Duration)
	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a Sweeper. Pass nil logger to discard logs.
func New(b *board.Board, p Prober, opts Options, interval time.Duration, log logger.Logger) *Sweeper {
	if log == nil {
		log = logger.Nop()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		board:    b,
		prober:   p,
		opts:     opts,
		interval: interval,
		logger:   log,
		trigger:  make(chan struct{}, 1),
	}
}

// SetOnResult sets a callback invoked after each probe result is stored.
// Call it before Start.
func (s *Sweeper) SetOnResult(fn func(int, probe.Result)) {
	s.opts.OnResult = fn
}

// SetOnCycle sets a callback invoked after each completed sweep. Call it
// before Start.
func (s *Sweeper) SetOnCycle(fn func(board.Tally, time.Duration)) {
	s.onCycle = fn
}

// Start runs a sweep immediately and then on every interval until ctx is
// cancelled. It is non-blocking.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.loop(ctx)
}

// Wait blocks until the sweep loop has exited.
func (s *Sweeper) Wait() {
	s.wg.Wait()
}

// Refresh requests a full re-probe. Requests made while a refresh is
// already pending are merged into it; it reports whether the request was
// queued as a new one.
func (s *Sweeper) Refresh() bool {
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Running reports whether a sweep is in progress.
func (s *Sweeper) Running() bool {
	return s.running.Load()
}

func (s *Sweeper) loop(ctx context.Context) {
	defer s.wg.Done()

	s.cycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cycle(ctx)
		case <-s.trigger:
			s.logger.Info("manual refresh triggered")
			s.board.Reset()
			s.cycle(ctx)
		}
		// Drop ticks that piled up while the sweep ran.
		ticker.Reset(s.interval)
	}
}

func (s *Sweeper) cycle(ctx context.Context) {
	s.running.Store(true)
	defer s.running.Store(false)

	opts := s.opts
	userHook := opts.OnResult
	opts.OnResult = func(i int, r probe.Result) {
		s.logger.Debug("probe result",
			logger.Int("index", i),
			logger.String("url", r.URL),
			logger.String("status", string(r.Status)),
			logger.Duration("latency", r.Latency),
			logger.String("error", r.Err),
		)
		if userHook != nil {
			userHook(i, r)
		}
	}

	start := time.Now()
	tally := Sweep(ctx, s.board, s.prober, opts)
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		return
	}

	s.logger.Info("sweep complete",
		logger.Int("total", tally.Total),
		logger.Int("online", tally.Online),
		logger.Int("offline", tally.Offline),
		logger.Float64("health", tally.Health()),
		logger.Duration("elapsed", elapsed),
	)
	if s.onCycle != nil {
		s.onCycle(tally, elapsed)
	}
}
