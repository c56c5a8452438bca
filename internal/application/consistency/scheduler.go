package consistency

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/pkg/errors"
)

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithOnResult registers a callback invoked after every published scan.
// It runs on the scanning goroutine.
func WithOnResult(fn func(*Result)) SchedulerOption {
	return func(s *Scheduler) { s.onResult = fn }
}

// WithOnError registers a callback for failed background scans.
func WithOnError(fn func(error)) SchedulerOption {
	return func(s *Scheduler) { s.onError = fn }
}

// WithSchedulerLogger sets the logger. nil is ignored.
func WithSchedulerLogger(l logging.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSchedulerRecorder sets the telemetry sink. nil is ignored.
func WithSchedulerRecorder(r Recorder) SchedulerOption {
	return func(s *Scheduler) {
		if r != nil {
			s.recorder = r
		}
	}
}

// Scheduler debounces edits into scans. Every submission bumps a
// generation counter; a scan that finishes after a newer submission is
// discarded. Only one scan runs at a time, and Latest never observes a
// partially built result.
type Scheduler struct {
	engine   *Engine
	logger   logging.Logger
	recorder Recorder
	onResult func(*Result)
	onError  func(error)

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	debounce time.Duration
	timer    *time.Timer
	text     string
	closed   bool

	scanMu     sync.Mutex
	generation atomic.Uint64
	latest     atomic.Pointer[Result]
}

// NewScheduler returns a scheduler driving engine.
func NewScheduler(engine *Engine, opts ...SchedulerOption) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		engine:   engine,
		logger:   logging.NewNopLogger(),
		recorder: nopRecorder{},
		debounce: DefaultDebounce,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, fn := range opts {
		fn(s)
	}
	s.logger = s.logger.Named("scheduler")
	return s
}

// SetDebounce changes the quiet period for subsequent submissions.
func (s *Scheduler) SetDebounce(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	s.debounce = d
	s.mu.Unlock()
}

// Submit records a new document version and (re)starts the debounce timer.
// It returns the generation assigned to text.
func (s *Scheduler) Submit(text string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	gen := s.generation.Add(1)
	if s.closed {
		return gen
	}
	s.text = text
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(text, gen) })
	return gen
}

func (s *Scheduler) fire(text string, gen uint64) {
	if _, err := s.run(s.ctx, text, gen); err != nil && !errors.IsConflict(err) {
		s.logger.Error("background scan failed", logging.Err(err), logging.Uint64("generation", gen))
		if s.onError != nil {
			s.onError(err)
		}
	}
}

// Flush cancels any pending timer and scans the last submitted text now.
// Used after override mutations.
func (s *Scheduler) Flush(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	text := s.text
	gen := s.generation.Add(1)
	s.mu.Unlock()
	return s.run(ctx, text, gen)
}

func (s *Scheduler) run(ctx context.Context, text string, gen uint64) (*Result, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	if s.stale(gen) {
		return nil, s.discard(gen)
	}
	res, err := s.engine.Scan(ctx, text)
	if err != nil {
		return nil, err
	}
	if s.stale(gen) {
		return nil, s.discard(gen)
	}
	res.Generation = gen
	s.latest.Store(res)
	s.logger.Info("scan published",
		logging.Uint64("generation", gen),
		logging.Int("errors", len(res.All)),
		logging.Duration("duration", res.Duration))
	if s.onResult != nil {
		s.onResult(res)
	}
	return res, nil
}

func (s *Scheduler) stale(gen uint64) bool { return gen != s.generation.Load() }

func (s *Scheduler) discard(gen uint64) error {
	s.recorder.IncDiscardedScans()
	s.logger.Warn("stale scan discarded",
		logging.Uint64("generation", gen),
		logging.Uint64("latest", s.generation.Load()))
	return errors.New(errors.ErrCodeScanSuperseded, "scan superseded by a newer edit")
}

// Latest returns the most recently published result, or nil.
func (s *Scheduler) Latest() *Result { return s.latest.Load() }

// Generation returns the number of the latest submission.
func (s *Scheduler) Generation() uint64 { return s.generation.Load() }

// Close stops the timer and cancels an in-flight background scan.
// Submissions after Close are ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.cancel()
}

//Personal.AI order the ending
