// Package reference holds the data model of the reference-sign consistency
// check: stem vectors, reference numbers (BZ) and their ordering, text spans,
// the per-scan Database and the session-level AnalysisContext.
package reference

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StemVector identifies a term by one stem ("bear") or by a qualifier and a
// base stem ("first", "bear"). The zero value is the empty vector.
//
// StemVector is comparable, so it is used directly as a map key. Two vectors
// are equal iff they have the same length and the same elements in order.
type StemVector struct {
	first  string
	second string
	size   uint8
}

// SingleStem returns a one-element vector.
func SingleStem(stem string) StemVector {
	return StemVector{first: stem, size: 1}
}

// PairStem returns a two-element vector, qualifier first and base second.
func PairStem(qualifier, base string) StemVector {
	return StemVector{first: qualifier, second: base, size: 2}
}

// NewStemVector builds a vector from one or two stems.
func NewStemVector(stems ...string) (StemVector, error) {
	switch len(stems) {
	case 1:
		return SingleStem(stems[0]), nil
	case 2:
		return PairStem(stems[0], stems[1]), nil
	default:
		return StemVector{}, fmt.Errorf("reference: stem vector needs 1 or 2 stems, got %d", len(stems))
	}
}

// Len returns the number of stems (0, 1 or 2).
func (v StemVector) Len() int { return int(v.size) }

// IsZero reports whether v is the empty vector.
func (v StemVector) IsZero() bool { return v.size == 0 }

// At returns the i-th stem. It panics when i is out of range.
func (v StemVector) At(i int) string {
	switch {
	case i == 0 && v.size >= 1:
		return v.first
	case i == 1 && v.size == 2:
		return v.second
	}
	panic(fmt.Sprintf("reference: stem index %d out of range for length %d", i, v.size))
}

// Base returns the last stem: the only stem of a single-word term, the base
// word of a multi-word term.
func (v StemVector) Base() string {
	if v.size == 2 {
		return v.second
	}
	return v.first
}

// IsMultiWord reports whether v has two elements.
func (v StemVector) IsMultiWord() bool { return v.size == 2 }

// Stems returns the elements as a new slice.
func (v StemVector) Stems() []string {
	switch v.size {
	case 1:
		return []string{v.first}
	case 2:
		return []string{v.first, v.second}
	}
	return nil
}

// String joins the stems with a single space.
func (v StemVector) String() string {
	return strings.Join(v.Stems(), " ")
}

// Less orders by length, then element-wise.
func (v StemVector) Less(o StemVector) bool {
	if v.size != o.size {
		return v.size < o.size
	}
	if v.first != o.first {
		return v.first < o.first
	}
	return v.second < o.second
}

// MarshalJSON encodes the vector as a JSON array of stems.
func (v StemVector) MarshalJSON() ([]byte, error) {
	stems := v.Stems()
	if stems == nil {
		stems = []string{}
	}
	return json.Marshal(stems)
}

// UnmarshalJSON decodes a JSON array of one or two stems.
func (v *StemVector) UnmarshalJSON(data []byte) error {
	var stems []string
	if err := json.Unmarshal(data, &stems); err != nil {
		return err
	}
	if len(stems) == 0 {
		*v = StemVector{}
		return nil
	}
	nv, err := NewStemVector(stems...)
	if err != nil {
		return err
	}
	*v = nv
	return nil
}

//Personal.AI order the ending
