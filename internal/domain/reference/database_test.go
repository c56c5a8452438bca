package reference_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/refsign-check/internal/domain/reference"
)

func buildDB() *reference.Database {
	db := reference.NewDatabase()
	// "Lager 10 Motor 20 Lager 10 erstes Lager 30"
	db.Record("10", reference.SingleStem("lag"), "Lager", reference.Position{Start: 0, Length: 8})
	db.Record("20", reference.SingleStem("motor"), "Motor", reference.Position{Start: 9, Length: 8})
	db.Record("10", reference.SingleStem("lag"), "Lager", reference.Position{Start: 18, Length: 8})
	db.Record("30", reference.PairStem("erst", "lag"), "erstes Lager", reference.Position{Start: 27, Length: 15})
	return db
}

func TestDatabase_Record(t *testing.T) {
	t.Parallel()

	db := buildDB()

	assert.False(t, db.IsEmpty())
	assert.Equal(t, []string{"10", "20", "30"}, db.BZs())
	assert.Equal(t, 1, db.StemCount("10"))
	assert.Equal(t, []reference.StemVector{reference.SingleStem("lag")}, db.StemsForBZ("10"))
	assert.Equal(t, []string{"10"}, db.BZsForStem(reference.SingleStem("lag")))
	assert.Equal(t, []string{"erstes Lager"}, db.OriginalWords("30"))
	assert.Len(t, db.BZPositions("10"), 2)
	assert.Equal(t, reference.Position{Start: 18, Length: 8}, db.StemPositions(reference.SingleStem("lag"))[1])

	w, ok := db.FirstWord(reference.PairStem("erst", "lag"))
	require.True(t, ok)
	assert.Equal(t, "erstes Lager", w)
}

func TestDatabase_MissingKeysAreEmpty(t *testing.T) {
	t.Parallel()

	db := reference.NewDatabase()

	assert.True(t, db.IsEmpty())
	assert.False(t, db.HasBZ("10"))
	assert.Empty(t, db.StemsForBZ("10"))
	assert.Empty(t, db.BZsForStem(reference.SingleStem("x")))
	assert.Zero(t, db.BZCount(reference.SingleStem("x")))
	assert.Empty(t, db.OriginalWords("10"))
	assert.Empty(t, db.Occurrences())
	_, ok := db.FirstWord(reference.SingleStem("x"))
	assert.False(t, ok)
}

func TestDatabase_Occurrences_DocumentOrder(t *testing.T) {
	t.Parallel()

	occ := buildDB().Occurrences()
	require.Len(t, occ, 4)
	starts := []int{occ[0].Position.Start, occ[1].Position.Start, occ[2].Position.Start, occ[3].Position.Start}
	assert.Equal(t, []int{0, 9, 18, 27}, starts)
	assert.Equal(t, reference.PairStem("erst", "lag"), occ[3].Stem)
}

func TestDatabase_ValidStarts(t *testing.T) {
	t.Parallel()

	starts := buildDB().ValidStarts()
	assert.Len(t, starts, 4)
	assert.Contains(t, starts, 27)
}

func TestDatabase_SnapshotIsDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, buildDB().Snapshot(), buildDB().Snapshot())
}

//Personal.AI order the ending
