package reference

import "sort"

// StringSet is a set of strings (stems or BZs).
type StringSet map[string]struct{}

// NewStringSet returns a set holding items.
func NewStringSet(items ...string) StringSet {
	s := make(StringSet, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// Has reports membership. A nil set is empty.
func (s StringSet) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Add inserts item.
func (s StringSet) Add(item string) { s[item] = struct{}{} }

// Clone returns an independent copy.
func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexicographic order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

//Personal.AI order the ending
