package refsign_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/intelligence/linguistics"
	"github.com/turtacn/refsign-check/internal/intelligence/refsign"
	"github.com/turtacn/refsign-check/internal/intelligence/textmatch"
)

var patterns = textmatch.MustCompilePatterns()

// fixture wires one analyzer into a scanner, a detector and an ordinal
// detector, with a fresh analysis context.
type fixture struct {
	analyzer linguistics.Analyzer
	scanner  *refsign.TextScanner
	detector *refsign.ErrorDetector
	ordinals *refsign.OrdinalDetector
	ctx      *reference.AnalysisContext
}

func newFixture(t *testing.T, lang linguistics.Language, opts ...refsign.Option) *fixture {
	t.Helper()
	a, err := linguistics.New(lang)
	require.NoError(t, err)
	return &fixture{
		analyzer: a,
		scanner:  refsign.NewTextScanner(a, patterns, opts...),
		detector: refsign.NewErrorDetector(a, patterns, opts...),
		ordinals: refsign.NewOrdinalDetector(a, patterns, opts...),
		ctx:      reference.NewAnalysisContext(),
	}
}

func (f *fixture) scan(text string) *reference.Database {
	db := f.scanner.Scan(text, f.ctx.ScanInput())
	f.ctx.Publish(db)
	return db
}

func (f *fixture) detect(text string) *refsign.Findings {
	return f.detector.Detect(text, f.scan(text), f.ctx.ScanInput())
}

//Personal.AI order the ending
