package consistency

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/intelligence/linguistics"
	"github.com/turtacn/refsign-check/pkg/errors"
)

const mixedGermanText = "der Lager 10 und Motor 10 und Welle 20 und Welle 30 sowie ein Lager"

// recorderStub captures telemetry calls.
type recorderStub struct {
	mu        sync.Mutex
	scans     []map[string]int
	hits      []uint64
	misses    []uint64
	discarded int
	overrides []string
}

func (r *recorderStub) ObserveScan(_ string, _ time.Duration, spans map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scans = append(r.scans, spans)
}

func (r *recorderStub) AddStemCache(_ string, hits, misses uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits = append(r.hits, hits)
	r.misses = append(r.misses, misses)
}

func (r *recorderStub) IncDiscardedScans() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discarded++
}

func (r *recorderStub) IncOverride(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = append(r.overrides, action)
}

func newTestEngine(t *testing.T, lang linguistics.Language, opts ...EngineOption) *Engine {
	t.Helper()
	e, err := NewEngine(lang, opts...)
	require.NoError(t, err)
	return e
}

func TestNewEngine_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(linguistics.Language("fr"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLanguageUnsupported))
}

func TestEngine_Scan_AllKinds(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, linguistics.German)
	res, err := e.Scan(context.Background(), mixedGermanText)
	require.NoError(t, err)

	assert.Equal(t, linguistics.German, res.Language)
	assert.Equal(t, []reference.Span{{Start: 0, End: 3}}, res.WrongArticles)
	assert.Equal(t, []reference.Span{{Start: 62, End: 67}}, res.Unnumbered)
	assert.Equal(t, []reference.Span{{Start: 4, End: 12}, {Start: 17, End: 25}}, res.Conflicts)
	assert.Equal(t, []reference.Span{{Start: 30, End: 38}, {Start: 43, End: 51}}, res.Splits)
	assert.Len(t, res.All, 6)
	assert.Equal(t, map[string]int{"unnumbered": 1, "conflict": 2, "split": 2, "wrong_article": 1}, res.Counts())

	assert.Equal(t, []OverviewEntry{
		{BZ: "10", OK: false, Words: "Lager; Motor"},
		{BZ: "20", OK: false, Words: "Welle"},
		{BZ: "30", OK: false, Words: "Welle"},
	}, res.Overview)
	assert.Equal(t, []string{"10\tLager", "20\tWelle", "30\tWelle"}, res.ReferenceList)
	assert.Len(t, res.References, 3)
	assert.Empty(t, res.AutoMultiWord)

	assert.Same(t, e.Database(), e.Context().DB())
	assert.Equal(t, []string{"10", "20", "30"}, e.Database().BZs())
}

func TestEngine_Scan_AutoDetectedMultiWord(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, linguistics.German)
	res, err := e.Scan(context.Background(), "erste Lager 10 und zweite Lager 20")
	require.NoError(t, err)

	assert.Equal(t, []string{"lag"}, res.AutoMultiWord)
	assert.Equal(t, []string{"10\terste Lager", "20\tzweite Lager"}, res.ReferenceList)
	assert.Equal(t, []OverviewEntry{
		{BZ: "10", OK: true, Words: "erste Lager"},
		{BZ: "20", OK: true, Words: "zweite Lager"},
	}, res.Overview)
	assert.Empty(t, res.All)

	base, ok := e.BaseStem("10")
	require.True(t, ok)
	assert.Equal(t, "lag", base)
	_, ok = e.BaseStem("99")
	assert.False(t, ok)
}

func TestEngine_ReferenceListTrimsSeparator(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, linguistics.German)
	res, err := e.Scan(context.Background(), "Lager  10")
	require.NoError(t, err)
	assert.Equal(t, []string{"10\tLager"}, res.ReferenceList)
}

func TestEngine_ClearErrorAndHasError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rec := &recorderStub{}
	e := newTestEngine(t, linguistics.German, WithRecorder(rec))
	_, err := e.Scan(ctx, mixedGermanText)
	require.NoError(t, err)

	assert.True(t, e.ClearError("10"))
	res, err := e.Scan(ctx, mixedGermanText)
	require.NoError(t, err)

	assert.Empty(t, res.Conflicts)
	assert.Len(t, res.Splits, 2)
	assert.True(t, res.Overview[0].OK)
	assert.True(t, e.HasError("10"), "cleared errors still report HasError")
	assert.False(t, e.HasError("99"))

	assert.False(t, e.ClearError("10"))
	res, err = e.Scan(ctx, mixedGermanText)
	require.NoError(t, err)
	assert.Len(t, res.Conflicts, 2)
	assert.Equal(t, []string{"clear_error", "clear_error"}, rec.overrides)
}

func TestEngine_ClearTextPositionAndRestore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, linguistics.German)

	cleared, err := e.ClearTextPosition(62, 67)
	require.NoError(t, err)
	assert.True(t, cleared)
	res, err := e.Scan(ctx, mixedGermanText)
	require.NoError(t, err)
	assert.Empty(t, res.Unnumbered)

	e.RestoreAllErrors()
	res, err = e.Scan(ctx, mixedGermanText)
	require.NoError(t, err)
	assert.Len(t, res.Unnumbered, 1)

	_, err = e.ClearTextPosition(5, 2)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSpanInvalid))
}

func TestEngine_MultiWordOverrides(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, linguistics.German, WithManualMultiWord("lag"))
	res, err := e.Scan(ctx, "erstes Lager 10")
	require.NoError(t, err)
	assert.Equal(t, []string{"10\terstes Lager"}, res.ReferenceList)

	enabled, err := e.ToggleMultiWord("lag")
	require.NoError(t, err)
	assert.False(t, enabled)
	res, err = e.Scan(ctx, "erstes Lager 10")
	require.NoError(t, err)
	assert.Equal(t, []string{"10\tLager"}, res.ReferenceList)

	require.NoError(t, e.SetMultiWord("lag", true))
	assert.True(t, e.Context().IsMultiWordBase("lag"))

	_, err = e.ToggleMultiWord("")
	assert.True(t, errors.IsCode(err, errors.ErrCodeStemEmpty))
	assert.True(t, errors.IsCode(e.SetMultiWord("", true), errors.ErrCodeStemEmpty))
}

func TestEngine_SetLanguageKeepsOverrides(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, linguistics.German)
	_, err := e.Scan(ctx, "erste Lager 10 und zweite Lager 20")
	require.NoError(t, err)
	require.Equal(t, []string{"lag"}, e.Context().AutoDetected())
	e.ClearError("10")

	require.NoError(t, e.SetLanguage(linguistics.English))
	assert.Equal(t, linguistics.English, e.Language())
	assert.Empty(t, e.Context().AutoDetected())
	assert.True(t, e.Context().IsErrorCleared("10"))

	res, err := e.Scan(ctx, "The bearing 10 supports a shaft 12.")
	require.NoError(t, err)
	assert.Equal(t, linguistics.English, res.Language)
	assert.Equal(t, []string{"10\tbearing", "12\tshaft"}, res.ReferenceList)

	assert.Error(t, e.SetLanguage("xx"))
	assert.Equal(t, linguistics.English, e.Language())
}

func TestEngine_SetLanguageKeepsStemCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rec := &recorderStub{}
	e := newTestEngine(t, linguistics.German, WithRecorder(rec))
	_, err := e.Scan(ctx, mixedGermanText)
	require.NoError(t, err)
	german := e.analyzer
	warm := german.CacheSize()
	require.Positive(t, warm)

	require.NoError(t, e.SetLanguage(linguistics.English))
	_, err = e.Scan(ctx, "The bearing 10 supports a shaft 12.")
	require.NoError(t, err)
	require.NoError(t, e.SetLanguage(linguistics.German))

	assert.Same(t, german, e.analyzer)
	assert.Equal(t, warm, e.analyzer.CacheSize())

	_, err = e.Scan(ctx, mixedGermanText)
	require.NoError(t, err)
	require.Len(t, rec.misses, 3)
	assert.Equal(t, uint64(0), rec.misses[2])
	assert.Greater(t, rec.hits[2], uint64(0))
}

func TestEngine_InputLimits(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, linguistics.German, WithMaxTextSize(5))
	_, err := e.Scan(context.Background(), "Lager 10")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInputTooLarge))
	assert.True(t, errors.IsValidation(err))

	res, err := e.Scan(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, res.All)
	assert.Empty(t, res.Overview)
}

func TestEngine_CancelledScanKeepsPreviousDatabase(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, linguistics.German)
	_, err := e.Scan(context.Background(), "Lager 10")
	require.NoError(t, err)
	before := e.Database()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Scan(ctx, "Welle 20")
	require.Error(t, err)
	assert.Same(t, before, e.Database())
}

func TestEngine_RecordsTelemetry(t *testing.T) {
	t.Parallel()

	rec := &recorderStub{}
	e := newTestEngine(t, linguistics.German, WithRecorder(rec))
	for i := 0; i < 2; i++ {
		_, err := e.Scan(context.Background(), mixedGermanText)
		require.NoError(t, err)
	}

	require.Len(t, rec.scans, 2)
	assert.Equal(t, 2, rec.scans[0]["conflict"])
	require.Len(t, rec.misses, 2)
	assert.Greater(t, rec.misses[0], uint64(0))
	assert.Equal(t, uint64(0), rec.misses[1])
	assert.Greater(t, rec.hits[1], uint64(0))
}

func TestEngine_Highlighter(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	kinds := map[reference.Kind]int{}
	h := reference.HighlighterFunc(func(k reference.Kind, _ reference.Span) {
		mu.Lock()
		kinds[k]++
		mu.Unlock()
	})
	e := newTestEngine(t, linguistics.German, WithHighlighter(h))
	_, err := e.Scan(context.Background(), mixedGermanText)
	require.NoError(t, err)

	assert.Equal(t, 4, kinds[reference.KindReference])
	assert.Equal(t, 2, kinds[reference.KindConflict])
}

//Personal.AI order the ending
