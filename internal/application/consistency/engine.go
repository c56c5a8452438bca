package consistency

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/internal/intelligence/linguistics"
	"github.com/turtacn/refsign-check/internal/intelligence/refsign"
	"github.com/turtacn/refsign-check/internal/intelligence/textmatch"
	"github.com/turtacn/refsign-check/pkg/errors"
)

// OverviewEntry is one row of the reference-sign overview.
type OverviewEntry struct {
	BZ string `json:"bz"`
	// OK is true when the number is uniquely assigned or its error was cleared.
	OK    bool   `json:"ok"`
	Words string `json:"words"`
}

// Result is the outcome of one published scan.
type Result struct {
	Language      linguistics.Language `json:"language"`
	Generation    uint64               `json:"generation,omitempty"`
	Unnumbered    []reference.Span     `json:"unnumbered"`
	WrongArticles []reference.Span     `json:"wrong_articles"`
	Conflicts     []reference.Span     `json:"conflicts"`
	Splits        []reference.Span     `json:"splits"`
	All           []reference.Span     `json:"all"`
	Overview      []OverviewEntry      `json:"overview"`
	ReferenceList []string             `json:"reference_list"`
	AutoMultiWord []string             `json:"auto_multi_word"`
	References    []reference.Entry    `json:"references"`
	Duration      time.Duration        `json:"duration_ns"`
}

// Spans returns the span list of one error kind.
func (r *Result) Spans(kind reference.Kind) []reference.Span {
	switch kind {
	case reference.KindUnnumbered:
		return r.Unnumbered
	case reference.KindWrongArticle:
		return r.WrongArticles
	case reference.KindConflict:
		return r.Conflicts
	case reference.KindSplit:
		return r.Splits
	default:
		return nil
	}
}

// Counts returns the number of spans per error kind.
func (r *Result) Counts() map[string]int {
	out := make(map[string]int, len(reference.ErrorKinds))
	for _, k := range reference.ErrorKinds {
		out[string(k)] = len(r.Spans(k))
	}
	return out
}

// Engine runs the scan pipeline for one document. Scans and language
// switches are serialised; override mutations may happen at any time and
// take effect on the next scan.
type Engine struct {
	mu       sync.Mutex
	actx     *reference.AnalysisContext
	patterns *textmatch.Patterns
	analyzer linguistics.Analyzer
	ordinals *refsign.OrdinalDetector
	scanner  *refsign.TextScanner
	detector *refsign.ErrorDetector

	// One analyzer per language used so far; stem caches survive switches.
	analyzers map[linguistics.Language]linguistics.Analyzer

	logger      logging.Logger
	recorder    Recorder
	highlighter reference.Highlighter
	gap         int
	maxTextSize int

	cacheHits, cacheMisses uint64
}

// NewEngine builds an engine for lang. Pattern compilation and language
// resolution are the only failure modes.
func NewEngine(lang linguistics.Language, opts ...EngineOption) (*Engine, error) {
	o := applyEngineOptions(opts)
	patterns, err := textmatch.CompilePatterns()
	if err != nil {
		return nil, err
	}
	actx := o.context
	if actx == nil {
		actx = reference.NewAnalysisContext()
	}
	for _, stem := range o.manual {
		if stem != "" {
			actx.SetMultiWord(stem, true)
		}
	}
	e := &Engine{
		actx:        actx,
		patterns:    patterns,
		logger:      o.logger.Named("engine"),
		recorder:    o.recorder,
		highlighter: o.highlighter,
		gap:         o.gap,
		maxTextSize: o.maxTextSize,
		analyzers:   make(map[linguistics.Language]linguistics.Analyzer, 2),
	}
	if err := e.setLanguage(lang); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) setLanguage(lang linguistics.Language) error {
	analyzer, ok := e.analyzers[lang]
	if !ok {
		var err error
		if analyzer, err = linguistics.New(lang); err != nil {
			return err
		}
		e.analyzers[lang] = analyzer
	}
	opts := []refsign.Option{
		refsign.WithLogger(e.logger),
		refsign.WithHighlighter(e.highlighter),
		refsign.WithMultiWordGap(e.gap),
	}
	e.analyzer = analyzer
	e.ordinals = refsign.NewOrdinalDetector(analyzer, e.patterns, opts...)
	e.scanner = refsign.NewTextScanner(analyzer, e.patterns, opts...)
	e.detector = refsign.NewErrorDetector(analyzer, e.patterns, opts...)
	e.cacheHits, e.cacheMisses = analyzer.CacheStats()
	return nil
}

// Language returns the active analysis language.
func (e *Engine) Language() linguistics.Language {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.analyzer.Language()
}

// SetLanguage swaps the analyzer. Only the auto-detected multi-word set is
// reset; manual toggles and cleared errors survive the switch.
func (e *Engine) SetLanguage(lang linguistics.Language) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.analyzer.Language() == lang {
		return nil
	}
	if err := e.setLanguage(lang); err != nil {
		return err
	}
	e.actx.ResetAutoDetected()
	e.logger.Info("analysis language switched", logging.String("language", string(lang)))
	return nil
}

// Context returns the session state the engine operates on.
func (e *Engine) Context() *reference.AnalysisContext { return e.actx }

// Database returns the most recently published reference database.
func (e *Engine) Database() *reference.Database { return e.actx.DB() }

// ─────────────────────────────────────────────────────────────────────────────
// Scan
// ─────────────────────────────────────────────────────────────────────────────

// Scan analyses text against a fresh database and publishes it. A cancelled
// context aborts before publication; the previous database stays visible.
func (e *Engine) Scan(ctx context.Context, text string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "scan cancelled")
	}
	if e.maxTextSize > 0 && len(text) > e.maxTextSize {
		return nil, errors.New(errors.ErrCodeInputTooLarge, "text exceeds the configured size limit").
			WithDetail(fmt.Sprintf("size=%d limit=%d", len(text), e.maxTextSize))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	e.actx.SetAutoDetected(e.ordinals.Detect(text))
	in := e.actx.ScanInput()

	db := e.scanner.Scan(text, in)
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "scan cancelled")
	}
	findings := e.detector.Detect(text, db, in)
	e.actx.Publish(db)

	res := &Result{
		Language:      e.analyzer.Language(),
		Unnumbered:    findings.Unnumbered,
		WrongArticles: findings.WrongArticles,
		Conflicts:     findings.Conflicts,
		Splits:        findings.Splits,
		All:           findings.All,
		Overview:      buildOverview(db, findings),
		ReferenceList: buildReferenceList([]rune(text), db),
		AutoMultiWord: e.actx.AutoDetected(),
		References:    db.Snapshot(),
	}
	res.Duration = time.Since(start)

	e.record(res)
	logging.LogOperationDuration(e.logger, "scan", start,
		logging.String("language", string(res.Language)),
		logging.Int("references", len(res.Overview)),
		logging.Int("errors", len(res.All)))
	return res, nil
}

func (e *Engine) record(res *Result) {
	lang := string(res.Language)
	e.recorder.ObserveScan(lang, res.Duration, res.Counts())

	hits, misses := e.analyzer.CacheStats()
	e.recorder.AddStemCache(lang, hits-e.cacheHits, misses-e.cacheMisses)
	e.cacheHits, e.cacheMisses = hits, misses
}

// buildOverview lists every number in BZ order with its status and the
// original words joined by "; ".
func buildOverview(db *reference.Database, f *refsign.Findings) []OverviewEntry {
	bzs := db.BZs()
	out := make([]OverviewEntry, 0, len(bzs))
	for _, bz := range bzs {
		out = append(out, OverviewEntry{
			BZ:    bz,
			OK:    f.Unique[bz],
			Words: strings.Join(db.OriginalWords(bz), "; "),
		})
	}
	return out
}

// buildReferenceList renders "bz<TAB>term" per number, taking the term from
// the first recorded position of the number.
func buildReferenceList(runes []rune, db *reference.Database) []string {
	bzs := db.BZs()
	out := make([]string, 0, len(bzs))
	for _, bz := range bzs {
		positions := db.BZPositions(bz)
		if len(positions) == 0 {
			continue
		}
		p := positions[0]
		termLen := 0
		if n := len([]rune(bz)) + 1; p.Length > n {
			termLen = p.Length - n
		}
		end := p.Start + termLen
		if end > len(runes) {
			end = len(runes)
		}
		term := strings.TrimRightFunc(string(runes[p.Start:end]), unicode.IsSpace)
		out = append(out, bz+"\t"+term)
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Overrides
// ─────────────────────────────────────────────────────────────────────────────

// ToggleMultiWord flips two-word matching for a base stem and returns the
// new state.
func (e *Engine) ToggleMultiWord(stem string) (bool, error) {
	if stem == "" {
		return false, errors.New(errors.ErrCodeStemEmpty, "multi-word base stem is empty")
	}
	enabled := e.actx.ToggleMultiWord(stem)
	e.recorder.IncOverride("toggle_multi_word")
	e.logger.Info("multi-word base toggled", logging.String("stem", stem), logging.Bool("enabled", enabled))
	return enabled, nil
}

// SetMultiWord enables or disables two-word matching for a base stem.
func (e *Engine) SetMultiWord(stem string, enabled bool) error {
	if stem == "" {
		return errors.New(errors.ErrCodeStemEmpty, "multi-word base stem is empty")
	}
	e.actx.SetMultiWord(stem, enabled)
	e.recorder.IncOverride("set_multi_word")
	e.logger.Info("multi-word base set", logging.String("stem", stem), logging.Bool("enabled", enabled))
	return nil
}

// ClearError toggles bz between cleared and restored and returns whether it
// is now cleared.
func (e *Engine) ClearError(bz string) bool {
	cleared := e.actx.ClearError(bz)
	e.recorder.IncOverride("clear_error")
	e.logger.Info("reference error toggled", logging.String("bz", bz), logging.Bool("cleared", cleared))
	return cleared
}

// ClearTextPosition toggles an exact span between cleared and restored.
func (e *Engine) ClearTextPosition(start, end int) (bool, error) {
	span, err := reference.NewSpan(start, end)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeSpanInvalid, "invalid span")
	}
	cleared := e.actx.ClearTextPosition(span)
	e.recorder.IncOverride("clear_position")
	e.logger.Info("text position toggled", logging.String("span", span.String()), logging.Bool("cleared", cleared))
	return cleared, nil
}

// RestoreAllErrors drops every cleared error and cleared position.
func (e *Engine) RestoreAllErrors() {
	e.actx.RestoreAllErrors()
	e.recorder.IncOverride("restore_all")
	e.logger.Info("all errors restored")
}

// HasError reports whether bz has a conflict or split in the published
// database, ignoring the cleared flag.
func (e *Engine) HasError(bz string) bool {
	e.mu.Lock()
	detector := e.detector
	e.mu.Unlock()
	return detector.HasError(bz, e.actx.DB())
}

// BaseStem returns the stem a multi-word toggle on bz acts on: the last
// element of the first stem recorded for it.
func (e *Engine) BaseStem(bz string) (string, bool) {
	stems := e.actx.DB().StemsForBZ(bz)
	if len(stems) == 0 {
		return "", false
	}
	return stems[0].Base(), true
}

//Personal.AI order the ending
