package reference

import "context"

// Overrides is the persistent part of an AnalysisContext: everything the
// user decided, nothing the engine computed.
type Overrides struct {
	// Language is the session's analysis language. AnalysisContext does not
	// track it; the session service fills it in before saving.
	Language string `json:"language,omitempty"`

	ManualMultiWord   []string `json:"manual_multi_word"`
	DisabledMultiWord []string `json:"disabled_multi_word"`
	ClearedErrors     []string `json:"cleared_errors"`
	ClearedPositions  []Span   `json:"cleared_positions"`
}

// IsEmpty reports whether no override is set.
func (o Overrides) IsEmpty() bool {
	return len(o.ManualMultiWord) == 0 && len(o.DisabledMultiWord) == 0 &&
		len(o.ClearedErrors) == 0 && len(o.ClearedPositions) == 0
}

// OverrideRepository persists Overrides per session id.
type OverrideRepository interface {
	// Load returns the overrides of a session. A session never saved yields
	// an error satisfying errors.IsNotFound.
	Load(ctx context.Context, sessionID string) (Overrides, error)
	Save(ctx context.Context, sessionID string, o Overrides) error
	Delete(ctx context.Context, sessionID string) error
}

//Personal.AI order the ending
