// Package consistency is the application layer of the reference-sign checker.
// It wires the ordinal detector, the scanner and the error detector into a
// scan pipeline, schedules debounced rescans, and exposes the per-session
// override operations used by the CLI and the HTTP API.
package consistency

import (
	"time"

	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/internal/intelligence/refsign"
)

// DefaultDebounce is the quiet period after the last edit before a scan runs.
const DefaultDebounce = 500 * time.Millisecond

// Recorder receives scan telemetry. Implementations must be safe for
// concurrent use. The prometheus AnalysisMetrics type satisfies it.
type Recorder interface {
	// ObserveScan records one published scan and its span counts by kind.
	ObserveScan(language string, d time.Duration, spans map[string]int)
	// AddStemCache adds stem cache hits and misses since the last call.
	AddStemCache(language string, hits, misses uint64)
	// IncDiscardedScans counts scans dropped because a newer edit arrived.
	IncDiscardedScans()
	// IncOverride counts one user override mutation.
	IncOverride(action string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveScan(string, time.Duration, map[string]int) {}
func (nopRecorder) AddStemCache(string, uint64, uint64)              {}
func (nopRecorder) IncDiscardedScans()                                {}
func (nopRecorder) IncOverride(string)                                {}

// NopRecorder returns a Recorder that drops everything.
func NopRecorder() Recorder { return nopRecorder{} }

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	logger      logging.Logger
	recorder    Recorder
	highlighter reference.Highlighter
	gap         int
	maxTextSize int
	context     *reference.AnalysisContext
	manual      []string
}

func applyEngineOptions(opts []EngineOption) engineOptions {
	o := engineOptions{
		logger:      logging.NewNopLogger(),
		recorder:    nopRecorder{},
		highlighter: reference.NopHighlighter{},
		gap:         refsign.DefaultMultiWordGap,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithLogger sets the engine logger. nil is ignored.
func WithLogger(l logging.Logger) EngineOption {
	return func(o *engineOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder sets the telemetry sink. nil is ignored.
func WithRecorder(r Recorder) EngineOption {
	return func(o *engineOptions) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithHighlighter forwards every reference and error span to h. nil is ignored.
func WithHighlighter(h reference.Highlighter) EngineOption {
	return func(o *engineOptions) {
		if h != nil {
			o.highlighter = h
		}
	}
}

// WithMultiWordGap sets the qualifier gap of the unnumbered-word check.
func WithMultiWordGap(n int) EngineOption {
	return func(o *engineOptions) {
		if n >= 0 {
			o.gap = n
		}
	}
}

// WithMaxTextSize rejects texts longer than n bytes. 0 disables the limit.
func WithMaxTextSize(n int) EngineOption {
	return func(o *engineOptions) {
		if n >= 0 {
			o.maxTextSize = n
		}
	}
}

// WithAnalysisContext makes the engine operate on an existing context, e.g.
// one restored from the override store.
func WithAnalysisContext(c *reference.AnalysisContext) EngineOption {
	return func(o *engineOptions) {
		if c != nil {
			o.context = c
		}
	}
}

// WithManualMultiWord pre-enables two-word matching for the given base stems.
func WithManualMultiWord(stems ...string) EngineOption {
	return func(o *engineOptions) {
		o.manual = append(o.manual, stems...)
	}
}

//Personal.AI order the ending
