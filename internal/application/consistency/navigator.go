package consistency

import (
	"sort"
	"strconv"
	"sync"

	"github.com/turtacn/refsign-check/internal/domain/reference"
)

// Navigator steps through one error list with wrap-around. A fresh
// navigator has no selection and labels itself "0/n".
type Navigator struct {
	spans   []reference.Span
	current int
}

// NewNavigator returns a navigator over spans. The slice is not copied.
func NewNavigator(spans []reference.Span) *Navigator {
	return &Navigator{spans: spans, current: -1}
}

// Len returns the number of spans.
func (n *Navigator) Len() int { return len(n.spans) }

// Next selects the following span, wrapping to the first after the last.
func (n *Navigator) Next() (reference.Span, bool) {
	n.current++
	if n.current >= len(n.spans) || n.current < 0 {
		n.current = 0
	}
	return n.selected()
}

// Previous selects the preceding span, wrapping to the last before the
// first. From the initial state it selects the last span.
func (n *Navigator) Previous() (reference.Span, bool) {
	n.current--
	if n.current >= len(n.spans) || n.current < 0 {
		n.current = len(n.spans) - 1
	}
	return n.selected()
}

func (n *Navigator) selected() (reference.Span, bool) {
	if n.current < 0 || n.current >= len(n.spans) {
		return reference.Span{}, false
	}
	return n.spans[n.current], true
}

// Label renders the position as "i/n", 1-based, or "0/n" before the first
// move and for an empty list.
func (n *Navigator) Label() string {
	i := 0
	if n.current >= 0 && n.current < len(n.spans) {
		i = n.current + 1
	}
	return strconv.Itoa(i) + "/" + strconv.Itoa(len(n.spans))
}

// Navigators holds one navigator per error list of a result.
type Navigators struct {
	All    *Navigator
	ByKind map[reference.Kind]*Navigator
}

// NewNavigators builds fresh navigators over every list of res.
func NewNavigators(res *Result) *Navigators {
	n := &Navigators{
		All:    NewNavigator(res.All),
		ByKind: make(map[reference.Kind]*Navigator, len(reference.ErrorKinds)),
	}
	for _, k := range reference.ErrorKinds {
		n.ByKind[k] = NewNavigator(res.Spans(k))
	}
	return n
}

// ─────────────────────────────────────────────────────────────────────────────
// OccurrenceCycler
// ─────────────────────────────────────────────────────────────────────────────

// OccurrenceCycler jumps through the occurrences of each reference number.
// The first activation of a number starts at the first occurrence at or
// after the cursor; later activations advance cyclically.
type OccurrenceCycler struct {
	mu      sync.Mutex
	db      *reference.Database
	current map[string]int
}

// NewOccurrenceCycler returns a cycler over db.
func NewOccurrenceCycler(db *reference.Database) *OccurrenceCycler {
	return &OccurrenceCycler{db: db, current: make(map[string]int)}
}

// Reset switches to a newly published database and forgets every index.
func (c *OccurrenceCycler) Reset(db *reference.Database) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.db = db
	c.current = make(map[string]int)
}

// Activate returns the occurrence of bz to select and advances the index.
// ok is false when bz has no occurrence.
func (c *OccurrenceCycler) Activate(bz string, cursor int) (reference.Position, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return reference.Position{}, false
	}
	positions := documentOrder(c.db.BZPositions(bz))
	if len(positions) == 0 {
		return reference.Position{}, false
	}

	idx, seen := c.current[bz]
	if !seen || idx >= len(positions) {
		idx = startIndex(positions, cursor)
	}
	pos := positions[idx]
	c.current[bz] = (idx + 1) % len(positions)
	return pos, true
}

// documentOrder returns a copy of positions sorted by start. Two-word
// matches are recorded before single-word ones, so insertion order is not
// document order.
func documentOrder(positions []reference.Position) []reference.Position {
	out := make([]reference.Position, len(positions))
	copy(out, positions)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// startIndex picks the first occurrence at or after cursor, or 0 when the
// cursor lies before or past every occurrence.
func startIndex(positions []reference.Position, cursor int) int {
	last := positions[len(positions)-1]
	if cursor > last.End() || cursor < positions[0].Start {
		return 0
	}
	for i, p := range positions {
		if p.Start >= cursor {
			return i
		}
	}
	return 0
}

//Personal.AI order the ending
