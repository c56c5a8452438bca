package reference

import (
	"fmt"
	"sort"
)

// Position is a recorded match location: start offset and length, both in
// code points.
type Position struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// End returns the exclusive end offset.
func (p Position) End() int { return p.Start + p.Length }

// Span converts the position to a half-open [start, end) span.
func (p Position) Span() Span { return Span{Start: p.Start, End: p.End()} }

// Span is a half-open [Start, End) range of code-point offsets.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewSpan validates and returns a span.
func NewSpan(start, end int) (Span, error) {
	if start < 0 || end < start {
		return Span{}, fmt.Errorf("reference: invalid span [%d,%d)", start, end)
	}
	return Span{Start: start, End: end}, nil
}

// Len returns the number of code points covered.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether s and o share at least one code point.
func (s Span) Overlaps(o Span) bool {
	return !(s.End <= o.Start || s.Start >= o.End)
}

// Less orders by start, then end.
func (s Span) Less(o Span) bool {
	if s.Start != o.Start {
		return s.Start < o.Start
	}
	return s.End < o.End
}

// String renders the span as "[start,end)".
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// SortSpans sorts spans in place by start, then end.
func SortSpans(spans []Span) {
	sort.Slice(spans, func(i, j int) bool { return spans[i].Less(spans[j]) })
}

// SortedUniqueSpans returns a sorted copy of spans without duplicates.
func SortedUniqueSpans(spans []Span) []Span {
	out := make([]Span, len(spans))
	copy(out, spans)
	SortSpans(out)
	n := 0
	for i, s := range out {
		if i > 0 && s == out[n-1] {
			continue
		}
		out[n] = s
		n++
	}
	return out[:n]
}

// SpanSet is a set of exact spans.
type SpanSet map[Span]struct{}

// Has reports whether s is in the set. A nil set is empty.
func (ss SpanSet) Has(s Span) bool {
	_, ok := ss[s]
	return ok
}

// Sorted returns the members ordered by start, then end.
func (ss SpanSet) Sorted() []Span {
	out := make([]Span, 0, len(ss))
	for s := range ss {
		out = append(out, s)
	}
	SortSpans(out)
	return out
}

//Personal.AI order the ending
