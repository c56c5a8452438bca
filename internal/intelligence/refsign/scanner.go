package refsign

import (
	"sort"

	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/internal/intelligence/linguistics"
	"github.com/turtacn/refsign-check/internal/intelligence/textmatch"
)

// TextScanner builds a reference.Database from a document.
type TextScanner struct {
	analyzer    linguistics.Analyzer
	patterns    *textmatch.Patterns
	logger      logging.Logger
	highlighter reference.Highlighter
}

// NewTextScanner returns a scanner for the analyzer's language.
func NewTextScanner(analyzer linguistics.Analyzer, patterns *textmatch.Patterns, opts ...Option) *TextScanner {
	o := applyOptions(opts)
	return &TextScanner{
		analyzer:    analyzer,
		patterns:    patterns,
		logger:      o.logger.Named("scanner"),
		highlighter: o.highlighter,
	}
}

// Scan runs the two-word pass and then the single-word pass over text and
// returns a fresh Database.
//
// A two-word match is recorded only when its base word is an active
// multi-word stem. Each pass skips spans that overlap an already recorded
// span or that the user cleared, so "erstes Lager 10" claims the span and
// the contained "Lager 10" is not counted again.
func (s *TextScanner) Scan(text string, in reference.ScanInput) *reference.Database {
	db := reference.NewDatabase()
	var claimed claimedSpans

	twoWord := 0
	if len(in.MultiWordBases) > 0 {
		m := textmatch.NewMatcher(text, s.patterns.TwoWord)
		for m.HasNext() {
			match := m.Next()
			w1, w2, bz := match.Group(1), match.Group(2), match.Group(3)
			if !s.analyzer.IsMultiWordBase(w2, in.MultiWordBases) {
				continue
			}
			span := reference.Span{Start: match.Position, End: match.End()}
			if claimed.overlaps(span) || in.ClearedPositions.Has(span) {
				continue
			}
			claimed.add(span)
			db.Record(bz, s.analyzer.MultiWordStemVector(w1, w2), w1+" "+w2,
				reference.Position{Start: match.Position, Length: match.Length})
			s.highlighter.Highlight(reference.KindReference, span)
			twoWord++
		}
	}

	single := 0
	m := textmatch.NewMatcher(text, s.patterns.Single)
	for m.HasNext() {
		match := m.Next()
		word, bz := match.Group(1), match.Group(2)
		if s.analyzer.IsIgnoredWord(word) {
			continue
		}
		span := reference.Span{Start: match.Position, End: match.End()}
		if claimed.overlaps(span) || in.ClearedPositions.Has(span) {
			continue
		}
		claimed.add(span)
		db.Record(bz, s.analyzer.StemVector(word), word,
			reference.Position{Start: match.Position, Length: match.Length})
		s.highlighter.Highlight(reference.KindReference, span)
		single++
	}

	s.logger.Debug("text scanned",
		logging.Int("two_word", twoWord),
		logging.Int("single_word", single),
		logging.Int("references", len(db.BZs())))
	return db
}

// claimedSpans holds the spans recorded so far in one scan, sorted by start.
// Claimed spans are pairwise disjoint, so they are sorted by end as well and
// an overlap lookup is a binary search. The answer is the same as testing
// every claimed span.
type claimedSpans []reference.Span

func (c *claimedSpans) add(s reference.Span) {
	spans := *c
	i := sort.Search(len(spans), func(i int) bool { return !spans[i].Less(s) })
	spans = append(spans, reference.Span{})
	copy(spans[i+1:], spans[i:])
	spans[i] = s
	*c = spans
}

func (c claimedSpans) overlaps(s reference.Span) bool {
	// first claimed span ending after s starts
	i := sort.Search(len(c), func(i int) bool { return c[i].End > s.Start })
	return i < len(c) && c[i].Overlaps(s)
}

//Personal.AI order the ending
