// Package refsign implements the reference-sign consistency checks: ordinal
// auto-detection, the two-pass term/number scan and the four error checks.
package refsign

import (
	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
)

// DefaultMultiWordGap is the largest distance in code points between the
// end of a qualifier and the start of its base word for the pair to count
// as one unnumbered multi-word term. Calibrated on German and English text
// only.
const DefaultMultiWordGap = 10

// Option configures the scanner, the detector and the ordinal detector.
type Option func(*options)

type options struct {
	logger       logging.Logger
	highlighter  reference.Highlighter
	multiWordGap int
}

func defaultOptions() options {
	return options{
		logger:       logging.NewNopLogger(),
		highlighter:  reference.NopHighlighter{},
		multiWordGap: DefaultMultiWordGap,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithLogger sets the logger. nil is ignored.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHighlighter sets the span sink. nil is ignored.
func WithHighlighter(h reference.Highlighter) Option {
	return func(o *options) {
		if h != nil {
			o.highlighter = h
		}
	}
}

// WithMultiWordGap overrides DefaultMultiWordGap. Negative values are ignored.
func WithMultiWordGap(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.multiWordGap = n
		}
	}
}

//Personal.AI order the ending
