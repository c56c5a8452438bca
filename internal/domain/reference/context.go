package reference

import (
	"sync"
	"sync/atomic"
)

// AnalysisContext is the state of one document-editing session: the most
// recently published Database and the user override sets. The Database is
// replaced wholesale on every scan; the override sets survive scans and are
// only reset by RestoreAllErrors (cleared sets) or a new session.
//
// AnalysisContext is safe for concurrent use. Readers of DB never observe a
// partially built Database.
type AnalysisContext struct {
	db atomic.Pointer[Database]

	mu               sync.RWMutex
	autoDetected     StringSet
	manualToggles    StringSet
	manuallyDisabled StringSet
	clearedErrors    StringSet
	clearedPositions SpanSet
}

// NewAnalysisContext returns a context holding an empty Database.
func NewAnalysisContext() *AnalysisContext {
	c := &AnalysisContext{
		autoDetected:     make(StringSet),
		manualToggles:    make(StringSet),
		manuallyDisabled: make(StringSet),
		clearedErrors:    make(StringSet),
		clearedPositions: make(SpanSet),
	}
	c.db.Store(NewDatabase())
	return c
}

// DB returns the most recently published Database.
func (c *AnalysisContext) DB() *Database { return c.db.Load() }

// Publish atomically replaces the Database. nil is ignored.
func (c *AnalysisContext) Publish(db *Database) {
	if db == nil {
		return
	}
	c.db.Store(db)
}

// ─────────────────────────────────────────────────────────────────────────────
// Multi-word bases
// ─────────────────────────────────────────────────────────────────────────────

// MultiWordBaseStems returns the active multi-word base stems: auto-detected
// plus manually enabled, minus manually disabled.
func (c *AnalysisContext) MultiWordBaseStems() StringSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.multiWordBaseStemsLocked()
}

func (c *AnalysisContext) multiWordBaseStemsLocked() StringSet {
	out := make(StringSet, len(c.autoDetected)+len(c.manualToggles))
	for s := range c.autoDetected {
		out.Add(s)
	}
	for s := range c.manualToggles {
		out.Add(s)
	}
	for s := range c.manuallyDisabled {
		delete(out, s)
	}
	return out
}

// IsMultiWordBase reports whether stem is currently active.
func (c *AnalysisContext) IsMultiWordBase(stem string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isMultiWordBaseLocked(stem)
}

func (c *AnalysisContext) isMultiWordBaseLocked(stem string) bool {
	if c.manuallyDisabled.Has(stem) {
		return false
	}
	return c.autoDetected.Has(stem) || c.manualToggles.Has(stem)
}

// SetAutoDetected replaces the auto-detected set.
func (c *AnalysisContext) SetAutoDetected(stems StringSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoDetected = stems.Clone()
}

// AutoDetected returns the auto-detected stems, sorted.
func (c *AnalysisContext) AutoDetected() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.autoDetected.Sorted()
}

// ResetAutoDetected wipes the auto-detected set. Called on language switch;
// manual toggles and cleared sets are kept.
func (c *AnalysisContext) ResetAutoDetected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoDetected = make(StringSet)
}

// SetMultiWord enables or disables two-word matching for a base stem,
// overriding auto-detection either way.
func (c *AnalysisContext) SetMultiWord(stem string, enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setMultiWordLocked(stem, enabled)
}

func (c *AnalysisContext) setMultiWordLocked(stem string, enabled bool) {
	if enabled {
		c.manualToggles.Add(stem)
		delete(c.manuallyDisabled, stem)
		return
	}
	c.manuallyDisabled.Add(stem)
	delete(c.manualToggles, stem)
}

// ToggleMultiWord flips stem between active and inactive and returns the
// new state.
func (c *AnalysisContext) ToggleMultiWord(stem string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	enabled := !c.isMultiWordBaseLocked(stem)
	c.setMultiWordLocked(stem, enabled)
	return enabled
}

// ─────────────────────────────────────────────────────────────────────────────
// Cleared errors and positions
// ─────────────────────────────────────────────────────────────────────────────

// ClearError toggles bz in the cleared set and reports whether it is now
// cleared.
func (c *AnalysisContext) ClearError(bz string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clearedErrors.Has(bz) {
		delete(c.clearedErrors, bz)
		return false
	}
	c.clearedErrors.Add(bz)
	return true
}

// IsErrorCleared reports whether the user dismissed bz's assignment error.
func (c *AnalysisContext) IsErrorCleared(bz string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clearedErrors.Has(bz)
}

// ClearTextPosition toggles an exact span in the cleared set and reports
// whether it is now cleared.
func (c *AnalysisContext) ClearTextPosition(span Span) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clearedPositions.Has(span) {
		delete(c.clearedPositions, span)
		return false
	}
	c.clearedPositions[span] = struct{}{}
	return true
}

// IsPositionCleared reports whether span was dismissed.
func (c *AnalysisContext) IsPositionCleared(span Span) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clearedPositions.Has(span)
}

// RestoreAllErrors empties the cleared errors and cleared positions.
// Multi-word toggles are kept.
func (c *AnalysisContext) RestoreAllErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearedErrors = make(StringSet)
	c.clearedPositions = make(SpanSet)
}

// ─────────────────────────────────────────────────────────────────────────────
// Snapshots
// ─────────────────────────────────────────────────────────────────────────────

// ScanInput is an immutable copy of the override state taken at the start of
// a scan.
type ScanInput struct {
	MultiWordBases   StringSet
	ClearedErrors    StringSet
	ClearedPositions SpanSet
}

// ScanInput snapshots the state a scan reads.
func (c *AnalysisContext) ScanInput() ScanInput {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cleared := make(SpanSet, len(c.clearedPositions))
	for s := range c.clearedPositions {
		cleared[s] = struct{}{}
	}
	return ScanInput{
		MultiWordBases:   c.multiWordBaseStemsLocked(),
		ClearedErrors:    c.clearedErrors.Clone(),
		ClearedPositions: cleared,
	}
}

// Overrides returns the persistent user override sets.
func (c *AnalysisContext) Overrides() Overrides {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Overrides{
		ManualMultiWord:   c.manualToggles.Sorted(),
		DisabledMultiWord: c.manuallyDisabled.Sorted(),
		ClearedErrors:     c.clearedErrors.Sorted(),
		ClearedPositions:  c.clearedPositions.Sorted(),
	}
}

// ApplyOverrides replaces the persistent user override sets with o. The
// auto-detected set is untouched.
func (c *AnalysisContext) ApplyOverrides(o Overrides) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.manualToggles = NewStringSet(o.ManualMultiWord...)
	c.manuallyDisabled = NewStringSet(o.DisabledMultiWord...)
	c.clearedErrors = NewStringSet(o.ClearedErrors...)
	c.clearedPositions = make(SpanSet, len(o.ClearedPositions))
	for _, s := range o.ClearedPositions {
		c.clearedPositions[s] = struct{}{}
	}
}

//Personal.AI order the ending
