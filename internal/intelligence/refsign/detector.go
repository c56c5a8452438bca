package refsign

import (
	"unicode"

	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/internal/intelligence/linguistics"
	"github.com/turtacn/refsign-check/internal/intelligence/textmatch"
)

// Findings is the output of one full detection pass. Every list holds
// (start,end) spans in code points.
type Findings struct {
	Unnumbered    []reference.Span `json:"unnumbered"`
	WrongArticles []reference.Span `json:"wrong_articles"`
	Conflicts     []reference.Span `json:"conflicts"`
	Splits        []reference.Span `json:"splits"`

	// All is the sorted, duplicate-free union of the four lists.
	All []reference.Span `json:"all"`

	// Unique reports IsUniquelyAssigned for every reference number.
	Unique map[string]bool `json:"-"`
}

// Count returns the number of spans in All.
func (f *Findings) Count() int { return len(f.All) }

// ErrorDetector runs the four consistency checks over a Database. The
// checks only read the Database and the override snapshot.
type ErrorDetector struct {
	analyzer     linguistics.Analyzer
	patterns     *textmatch.Patterns
	logger       logging.Logger
	highlighter  reference.Highlighter
	multiWordGap int
}

// NewErrorDetector returns a detector for the analyzer's language.
func NewErrorDetector(analyzer linguistics.Analyzer, patterns *textmatch.Patterns, opts ...Option) *ErrorDetector {
	o := applyOptions(opts)
	return &ErrorDetector{
		analyzer:     analyzer,
		patterns:     patterns,
		logger:       o.logger.Named("detector"),
		highlighter:  o.highlighter,
		multiWordGap: o.multiWordGap,
	}
}

// Detect runs all four checks and merges their results.
func (d *ErrorDetector) Detect(text string, db *reference.Database, in reference.ScanInput) *Findings {
	runes := []rune(text)
	f := &Findings{
		Unnumbered:    d.findUnnumbered(text, runes, db, in),
		WrongArticles: d.checkArticles(runes, db, in),
	}

	check := &AssignmentCheck{}
	f.Unique = make(map[string]bool)
	for _, bz := range db.BZs() {
		f.Unique[bz] = d.IsUniquelyAssigned(bz, db, in, check)
	}
	f.Conflicts = check.Conflicts
	f.Splits = check.Splits

	all := make([]reference.Span, 0, len(f.Unnumbered)+len(f.WrongArticles)+len(f.Conflicts)+len(f.Splits))
	all = append(all, f.Unnumbered...)
	all = append(all, f.WrongArticles...)
	all = append(all, f.Conflicts...)
	all = append(all, f.Splits...)
	f.All = reference.SortedUniqueSpans(all)

	d.logger.Debug("errors detected",
		logging.Int("unnumbered", len(f.Unnumbered)),
		logging.Int("wrong_articles", len(f.WrongArticles)),
		logging.Int("conflicts", len(f.Conflicts)),
		logging.Int("splits", len(f.Splits)))
	return f
}

// ─────────────────────────────────────────────────────────────────────────────
// Unnumbered words
// ─────────────────────────────────────────────────────────────────────────────

// FindUnnumbered returns known terms that appear without a trailing number.
func (d *ErrorDetector) FindUnnumbered(text string, db *reference.Database, in reference.ScanInput) []reference.Span {
	return d.findUnnumbered(text, []rune(text), db, in)
}

type wordMatch struct {
	word  string
	start int
	end   int
}

func (d *ErrorDetector) findUnnumbered(text string, runes []rune, db *reference.Database, in reference.ScanInput) []reference.Span {
	out := []reference.Span{}
	if db.IsEmpty() {
		return out
	}
	validStarts := db.ValidStarts()

	var words []wordMatch
	m := textmatch.NewMatcher(text, d.patterns.Word)
	for m.HasNext() {
		match := m.Next()
		if _, ok := validStarts[match.Position]; ok {
			continue
		}
		if followedByNumber(runes, match.End()) {
			continue
		}
		words = append(words, wordMatch{word: match.Group(0), start: match.Position, end: match.End()})
	}

	flag := func(span reference.Span) {
		if in.ClearedPositions.Has(span) {
			return
		}
		out = append(out, span)
		d.highlighter.Highlight(reference.KindUnnumbered, span)
	}

	for i := 0; i+1 < len(words); i++ {
		w1, w2 := words[i], words[i+1]
		if w2.start-w1.end > d.multiWordGap {
			continue
		}
		if !d.analyzer.IsMultiWordBase(w2.word, in.MultiWordBases) {
			continue
		}
		if db.HasStem(d.analyzer.MultiWordStemVector(w1.word, w2.word)) {
			flag(reference.Span{Start: w1.start, End: w2.end})
		}
	}

	for _, w := range words {
		if db.HasStem(d.analyzer.StemVector(w.word)) {
			flag(reference.Span{Start: w.start, End: w.end})
		}
	}
	return out
}

// followedByNumber reports whether the first non-space rune at or after pos
// is a digit.
func followedByNumber(runes []rune, pos int) bool {
	for pos < len(runes) && unicode.IsSpace(runes[pos]) {
		pos++
	}
	return pos < len(runes) && unicode.IsDigit(runes[pos])
}

// ─────────────────────────────────────────────────────────────────────────────
// Articles
// ─────────────────────────────────────────────────────────────────────────────

// CheckArticles flags a definite article before the first mention of a term
// and an indefinite article before any later mention.
func (d *ErrorDetector) CheckArticles(text string, db *reference.Database, in reference.ScanInput) []reference.Span {
	return d.checkArticles([]rune(text), db, in)
}

func (d *ErrorDetector) checkArticles(runes []rune, db *reference.Database, in reference.ScanInput) []reference.Span {
	out := []reference.Span{}
	seen := make(map[reference.StemVector]struct{})

	// Document order across all terms; single- and two-word variants of
	// the same base are distinct terms with their own first mention.
	for _, occ := range db.Occurrences() {
		word, start := linguistics.FindPrecedingWord(runes, occ.Position.Start)
		if word == "" {
			seen[occ.Stem] = struct{}{}
			continue
		}
		_, repeat := seen[occ.Stem]
		seen[occ.Stem] = struct{}{}

		wrong := d.analyzer.IsDefiniteArticle(word)
		if repeat {
			wrong = d.analyzer.IsIndefiniteArticle(word)
		}
		if !wrong {
			continue
		}
		span := reference.Span{Start: start, End: start + len([]rune(word))}
		if in.ClearedPositions.Has(span) {
			continue
		}
		out = append(out, span)
		d.highlighter.Highlight(reference.KindWrongArticle, span)
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Assignment (conflicts and splits)
// ─────────────────────────────────────────────────────────────────────────────

// AssignmentCheck accumulates the spans flagged by IsUniquelyAssigned over
// one pass. The zero value is ready to use.
type AssignmentCheck struct {
	Conflicts []reference.Span
	Splits    []reference.Span

	flagged reference.SpanSet
}

func (c *AssignmentCheck) has(s reference.Span) bool { return c.flagged.Has(s) }

func (c *AssignmentCheck) mark(s reference.Span) {
	if c.flagged == nil {
		c.flagged = make(reference.SpanSet)
	}
	c.flagged[s] = struct{}{}
}

// IsUniquelyAssigned reports whether bz names exactly one term and that term
// uses no other number. On failure the offending spans are appended to out,
// which may be nil. A cleared bz, or one absent from db, counts as unique.
//
// A number with several terms flags every occurrence of the number. A term
// with several numbers flags every occurrence of the term, skipping spans
// already flagged in this pass.
func (d *ErrorDetector) IsUniquelyAssigned(bz string, db *reference.Database, in reference.ScanInput, out *AssignmentCheck) bool {
	if in.ClearedErrors.Has(bz) {
		return true
	}
	if out == nil {
		out = &AssignmentCheck{}
	}

	stems := db.StemsForBZ(bz)
	if len(stems) > 1 {
		for _, p := range db.BZPositions(bz) {
			span := p.Span()
			if in.ClearedPositions.Has(span) {
				continue
			}
			out.Conflicts = append(out.Conflicts, span)
			out.mark(span)
			d.highlighter.Highlight(reference.KindConflict, span)
		}
		return false
	}

	for _, stem := range stems {
		if db.BZCount(stem) <= 1 {
			continue
		}
		for _, p := range db.StemPositions(stem) {
			span := p.Span()
			if out.has(span) || in.ClearedPositions.Has(span) {
				continue
			}
			out.Splits = append(out.Splits, span)
			out.mark(span)
			d.highlighter.Highlight(reference.KindSplit, span)
		}
		return false
	}
	return true
}

// HasError reports whether bz has a conflict or split, ignoring whether the
// user cleared it. Nothing is highlighted.
func (d *ErrorDetector) HasError(bz string, db *reference.Database) bool {
	stems := db.StemsForBZ(bz)
	if len(stems) > 1 {
		return true
	}
	for _, stem := range stems {
		if db.BZCount(stem) > 1 {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
