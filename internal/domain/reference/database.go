package reference

import "sort"

// Database holds the bidirectional mappings produced by one scan. A Database
// is built by a single goroutine and treated as read-only once published.
type Database struct {
	bzToStems         map[string]map[StemVector]struct{}
	stemToBz          map[StemVector]StringSet
	bzToOriginalWords map[string]StringSet
	bzToPositions     map[string][]Position
	stemToPositions   map[StemVector][]Position
	stemToFirstWord   map[StemVector]string
}

// NewDatabase returns an empty Database.
func NewDatabase() *Database {
	return &Database{
		bzToStems:         make(map[string]map[StemVector]struct{}),
		stemToBz:          make(map[StemVector]StringSet),
		bzToOriginalWords: make(map[string]StringSet),
		bzToPositions:     make(map[string][]Position),
		stemToPositions:   make(map[StemVector][]Position),
		stemToFirstWord:   make(map[StemVector]string),
	}
}

// Record stores one term/number occurrence in every mapping.
func (db *Database) Record(bz string, stem StemVector, original string, pos Position) {
	stems, ok := db.bzToStems[bz]
	if !ok {
		stems = make(map[StemVector]struct{})
		db.bzToStems[bz] = stems
	}
	stems[stem] = struct{}{}

	bzs, ok := db.stemToBz[stem]
	if !ok {
		bzs = make(StringSet)
		db.stemToBz[stem] = bzs
	}
	bzs.Add(bz)

	words, ok := db.bzToOriginalWords[bz]
	if !ok {
		words = make(StringSet)
		db.bzToOriginalWords[bz] = words
	}
	words.Add(original)

	db.bzToPositions[bz] = append(db.bzToPositions[bz], pos)
	db.stemToPositions[stem] = append(db.stemToPositions[stem], pos)

	if _, seen := db.stemToFirstWord[stem]; !seen {
		db.stemToFirstWord[stem] = original
	}
}

// IsEmpty reports whether nothing was recorded.
func (db *Database) IsEmpty() bool { return len(db.bzToStems) == 0 }

// BZs returns every reference number in BZ order.
func (db *Database) BZs() []string {
	out := make([]string, 0, len(db.bzToStems))
	for bz := range db.bzToStems {
		out = append(out, bz)
	}
	SortBZ(out)
	return out
}

// HasBZ reports whether bz was recorded.
func (db *Database) HasBZ(bz string) bool {
	_, ok := db.bzToStems[bz]
	return ok
}

// StemsForBZ returns the distinct stems recorded for bz in a stable order.
func (db *Database) StemsForBZ(bz string) []StemVector {
	set := db.bzToStems[bz]
	out := make([]StemVector, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// StemCount returns the number of distinct stems recorded for bz.
func (db *Database) StemCount(bz string) int { return len(db.bzToStems[bz]) }

// Stems returns every recorded stem in a stable order.
func (db *Database) Stems() []StemVector {
	out := make([]StemVector, 0, len(db.stemToBz))
	for s := range db.stemToBz {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// HasStem reports whether stem was recorded with any BZ.
func (db *Database) HasStem(stem StemVector) bool {
	_, ok := db.stemToBz[stem]
	return ok
}

// BZsForStem returns the reference numbers recorded for stem in BZ order.
func (db *Database) BZsForStem(stem StemVector) []string {
	out := db.stemToBz[stem].Sorted()
	SortBZ(out)
	return out
}

// BZCount returns the number of distinct reference numbers recorded for stem.
func (db *Database) BZCount(stem StemVector) int { return len(db.stemToBz[stem]) }

// OriginalWords returns the surface forms recorded for bz, sorted.
func (db *Database) OriginalWords(bz string) []string {
	return db.bzToOriginalWords[bz].Sorted()
}

// BZPositions returns the positions of bz in insertion order. The slice
// must not be modified.
func (db *Database) BZPositions(bz string) []Position { return db.bzToPositions[bz] }

// StemPositions returns the positions of stem in insertion order. The slice
// must not be modified.
func (db *Database) StemPositions(stem StemVector) []Position { return db.stemToPositions[stem] }

// FirstWord returns the first surface form seen for stem.
func (db *Database) FirstWord(stem StemVector) (string, bool) {
	w, ok := db.stemToFirstWord[stem]
	return w, ok
}

// ValidStarts returns the set of start offsets of every recorded occurrence.
func (db *Database) ValidStarts() map[int]struct{} {
	out := make(map[int]struct{})
	for _, positions := range db.stemToPositions {
		for _, p := range positions {
			out[p.Start] = struct{}{}
		}
	}
	return out
}

// Occurrence is one recorded position together with its stem.
type Occurrence struct {
	Stem     StemVector
	Position Position
}

// Occurrences returns every recorded occurrence in document order.
func (db *Database) Occurrences() []Occurrence {
	var out []Occurrence
	for _, stem := range db.Stems() {
		for _, p := range db.stemToPositions[stem] {
			out = append(out, Occurrence{Stem: stem, Position: p})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position.Start < out[j].Position.Start
	})
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Snapshot
// ─────────────────────────────────────────────────────────────────────────────

// Entry is the serialisable view of one reference number.
type Entry struct {
	BZ            string       `json:"bz"`
	Stems         []StemVector `json:"stems"`
	OriginalWords []string     `json:"original_words"`
	Positions     []Position   `json:"positions"`
}

// Snapshot returns every reference number with its stems, words and
// positions, in BZ order. Two databases built from the same input produce
// equal snapshots.
func (db *Database) Snapshot() []Entry {
	bzs := db.BZs()
	out := make([]Entry, 0, len(bzs))
	for _, bz := range bzs {
		positions := make([]Position, len(db.bzToPositions[bz]))
		copy(positions, db.bzToPositions[bz])
		out = append(out, Entry{
			BZ:            bz,
			Stems:         db.StemsForBZ(bz),
			OriginalWords: db.OriginalWords(bz),
			Positions:     positions,
		})
	}
	return out
}

//Personal.AI order the ending
