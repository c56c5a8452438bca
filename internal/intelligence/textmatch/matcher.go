package textmatch

import (
	"regexp"
	"unicode/utf8"
)

// Match is one pattern match. Offsets are in code points of the scanned text.
type Match struct {
	// Groups holds the full match at index 0 followed by the capture groups.
	// A group that did not participate is "".
	Groups []string

	Position int
	Length   int
}

// Group returns capture group i, or "" when i is out of range.
func (m Match) Group(i int) string {
	if i < 0 || i >= len(m.Groups) {
		return ""
	}
	return m.Groups[i]
}

// End returns the code-point offset just past the match.
func (m Match) End() int { return m.Position + m.Length }

// Matcher yields the leftmost-first, non-overlapping matches of a pattern in
// document order. Matches are located on demand: each search resumes where
// the previous match ended, with the same empty-match rules as
// regexp.FindAllStringSubmatchIndex. It is single-use: create a new Matcher
// to scan again.
//
// The text before the resume point is not visible to the pattern, so a
// leading assertion such as ^ or \b treats it as the start of input. The
// reference patterns begin with a letter class and are unaffected.
//
//	m := textmatch.NewMatcher(text, patterns.Single)
//	for m.HasNext() {
//		match := m.Next()
//		...
//	}
type Matcher struct {
	text string
	re   *regexp.Regexp

	pos     int // byte offset the next search starts at
	prevEnd int // byte end of the last located match, -1 before the first
	done    bool

	queue    [][]int // located but not yet returned
	returned int

	// Code points before byte offset runeBase; advanced monotonically.
	runeBase, runeCount int
}

// NewMatcher prepares a scan of text with re. No matching happens until
// HasNext or Next is called.
func NewMatcher(text string, re *regexp.Regexp) *Matcher {
	return &Matcher{text: text, re: re, prevEnd: -1}
}

// HasNext reports whether another match is available.
func (m *Matcher) HasNext() bool {
	if len(m.queue) == 0 {
		m.locate()
	}
	return len(m.queue) > 0
}

// Next returns the next match. Once the sequence is exhausted it returns the
// zero Match.
func (m *Matcher) Next() Match {
	if !m.HasNext() {
		return Match{}
	}
	loc := m.queue[0]
	m.queue = m.queue[1:]
	m.returned++

	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = m.text[loc[2*i]:loc[2*i+1]]
		}
	}
	start := m.codePointAt(loc[0])
	return Match{
		Groups:   groups,
		Position: start,
		Length:   utf8.RuneCountInString(m.text[loc[0]:loc[1]]),
	}
}

// All drains the remaining matches.
func (m *Matcher) All() []Match {
	var out []Match
	for m.HasNext() {
		out = append(out, m.Next())
	}
	return out
}

// Count returns the total number of matches, consumed or not. It locates
// every remaining match.
func (m *Matcher) Count() int {
	for !m.done {
		m.locate()
	}
	return m.returned + len(m.queue)
}

// locate appends the next accepted match to the queue, or marks the scan
// done.
func (m *Matcher) locate() {
	for !m.done && m.pos <= len(m.text) {
		loc := m.re.FindStringSubmatchIndex(m.text[m.pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += m.pos
			}
		}

		accept := true
		if loc[1] == m.pos {
			// an empty match directly after the previous match is dropped
			if loc[0] == m.prevEnd {
				accept = false
			}
			if m.pos < len(m.text) {
				_, w := utf8.DecodeRuneInString(m.text[m.pos:])
				m.pos += w
			} else {
				m.pos++
			}
		} else {
			m.pos = loc[1]
		}
		m.prevEnd = loc[1]
		if accept {
			m.queue = append(m.queue, loc)
			return
		}
	}
	m.done = true
}

// codePointAt converts a byte offset to a code-point offset. Offsets must be
// requested in non-decreasing order. Invalid UTF-8 bytes count as one code
// point each, as range does.
func (m *Matcher) codePointAt(offset int) int {
	m.runeCount += utf8.RuneCountInString(m.text[m.runeBase:offset])
	m.runeBase = offset
	return m.runeCount
}

//Personal.AI order the ending
