package refsign_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/intelligence/linguistics"
	"github.com/turtacn/refsign-check/internal/intelligence/refsign"
)

var (
	lag       = reference.SingleStem("lag")
	motor     = reference.SingleStem("motor")
	erstesLag = reference.PairStem("erst", "lag")
)

func TestTextScanner_SingleWord(t *testing.T) {
	t.Parallel()

	f := newFixture(t, linguistics.German)
	db := f.scan("Lager 10 Motor 20")

	assert.Equal(t, []string{"10", "20"}, db.BZs())
	assert.Equal(t, []reference.StemVector{lag}, db.StemsForBZ("10"))
	assert.Equal(t, []reference.StemVector{motor}, db.StemsForBZ("20"))
	assert.Equal(t, []string{"10"}, db.BZsForStem(lag))
	assert.Equal(t, []reference.Position{{Start: 0, Length: 8}}, db.BZPositions("10"))
	assert.Equal(t, []reference.Position{{Start: 9, Length: 8}}, db.BZPositions("20"))
}

func TestTextScanner_Mappings(t *testing.T) {
	t.Parallel()

	f := newFixture(t, linguistics.German)

	db := f.scan("Lager 10 Motor 10")
	assert.Equal(t, 2, db.StemCount("10"))
	assert.Equal(t, []string{"Lager", "Motor"}, db.OriginalWords("10"))

	db = f.scan("Lager 10 Lager 20")
	assert.Equal(t, []string{"10", "20"}, db.BZsForStem(lag))
}

func TestTextScanner_TwoWordPrecedence(t *testing.T) {
	t.Parallel()

	f := newFixture(t, linguistics.German)
	f.ctx.SetMultiWord("lag", true)
	db := f.scan("erstes Lager 10")

	require.Equal(t, []string{"10"}, db.BZs())
	assert.Equal(t, []reference.StemVector{erstesLag}, db.StemsForBZ("10"))
	assert.False(t, db.HasStem(lag))
	assert.Equal(t, []string{"erstes Lager"}, db.OriginalWords("10"))
	assert.Equal(t, []reference.Position{{Start: 0, Length: 15}}, db.BZPositions("10"))
}

func TestTextScanner_TwoWordRequiresActiveBase(t *testing.T) {
	t.Parallel()

	f := newFixture(t, linguistics.German)
	db := f.scan("erstes Lager 10")

	assert.Equal(t, []reference.StemVector{lag}, db.StemsForBZ("10"))
	assert.Equal(t, []reference.Position{{Start: 7, Length: 8}}, db.BZPositions("10"))
}

func TestTextScanner_MixedSingleAndTwoWord(t *testing.T) {
	t.Parallel()

	f := newFixture(t, linguistics.German)
	f.ctx.SetMultiWord("lag", true)
	db := f.scan("Lager 10 erstes Lager 20 zweites Lager 30")

	assert.Equal(t, []string{"10"}, db.BZsForStem(lag))
	assert.Equal(t, []string{"20"}, db.BZsForStem(erstesLag))
	assert.Equal(t, []string{"30"}, db.BZsForStem(reference.PairStem("zweit", "lag")))
}

func TestTextScanner_IgnoredWordsAndClearedSpans(t *testing.T) {
	t.Parallel()

	f := newFixture(t, linguistics.German)
	db := f.scan("siehe Figur 3 und Lager 10")
	assert.Equal(t, []string{"10"}, db.BZs())

	f.ctx.ClearTextPosition(reference.Span{Start: 18, End: 26})
	db = f.scan("siehe Figur 3 und Lager 10")
	assert.True(t, db.IsEmpty())
}

func TestTextScanner_DisjointSpansAndIdempotence(t *testing.T) {
	t.Parallel()

	text := "Das erste Lager 10 trägt eine Welle 12. Das zweite Lager 14 stützt die Welle 12, " +
		"der Motor 20 treibt die Welle 12 an. Figur 2 zeigt das erste Lager 10 und Lager 16."

	f := newFixture(t, linguistics.German)
	f.ctx.SetAutoDetected(f.ordinals.Detect(text))
	require.Equal(t, []string{"lag"}, f.ctx.AutoDetected())

	first := f.scan(text)
	second := f.scan(text)
	assert.Equal(t, first.Snapshot(), second.Snapshot())

	var spans []reference.Span
	for _, occ := range first.Occurrences() {
		spans = append(spans, occ.Position.Span())
	}
	require.NotEmpty(t, spans)
	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			assert.False(t, spans[i].Overlaps(spans[j]), "%v overlaps %v", spans[i], spans[j])
		}
	}
	assert.Equal(t, []string{"10", "12", "14", "16", "20"}, first.BZs())
}

func TestTextScanner_Highlights(t *testing.T) {
	t.Parallel()

	var got []reference.Span
	h := reference.HighlighterFunc(func(kind reference.Kind, span reference.Span) {
		assert.Equal(t, reference.KindReference, kind)
		got = append(got, span)
	})
	f := newFixture(t, linguistics.German, refsign.WithHighlighter(h))
	f.scan("Lager 10 Motor 20")

	assert.Equal(t, []reference.Span{{Start: 0, End: 8}, {Start: 9, End: 17}}, got)
}

func TestTextScanner_DegenerateInput(t *testing.T) {
	t.Parallel()

	f := newFixture(t, linguistics.English)
	for _, text := range []string{"", "   \n\t ", "no numbers at all"} {
		assert.True(t, f.scan(text).IsEmpty(), "%q", text)
	}
}

//Personal.AI order the ending
