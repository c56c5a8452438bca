package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/turtacn/refsign-check/pkg/errors"
)

// Span is a half-open [Start, End) range of code-point offsets.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// OverviewEntry summarises one reference number.
type OverviewEntry struct {
	BZ    string `json:"bz"`
	OK    bool   `json:"ok"`
	Words string `json:"words"`
}

// Position is one recorded occurrence: start offset and length in code
// points.
type Position struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Reference is one reference number with the stems, words and positions
// assigned to it. Each stem vector holds one stem, or a qualifier and a base.
type Reference struct {
	BZ            string     `json:"bz"`
	Stems         [][]string `json:"stems"`
	OriginalWords []string   `json:"original_words"`
	Positions     []Position `json:"positions"`
}

// Result is the outcome of one scan.
type Result struct {
	Language      string          `json:"language"`
	Generation    uint64          `json:"generation,omitempty"`
	Unnumbered    []Span          `json:"unnumbered"`
	WrongArticles []Span          `json:"wrong_articles"`
	Conflicts     []Span          `json:"conflicts"`
	Splits        []Span          `json:"splits"`
	All           []Span          `json:"all"`
	Overview      []OverviewEntry `json:"overview"`
	ReferenceList []string        `json:"reference_list"`
	AutoMultiWord []string        `json:"auto_multi_word"`
	References    []Reference     `json:"references"`
	Duration      time.Duration   `json:"duration_ns"`
}

// Overrides are the user decisions stored with a session.
type Overrides struct {
	Language          string   `json:"language,omitempty"`
	ManualMultiWord   []string `json:"manual_multi_word"`
	DisabledMultiWord []string `json:"disabled_multi_word"`
	ClearedErrors     []string `json:"cleared_errors"`
	ClearedPositions  []Span   `json:"cleared_positions"`
}

// Session is the server-side analysis session.
type Session struct {
	ID            string    `json:"id"`
	Language      string    `json:"language"`
	Overrides     Overrides `json:"overrides"`
	AutoMultiWord []string  `json:"auto_multi_word"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MutationResult carries the new override state and the rescan, if the
// session has analysed text before.
type MutationResult struct {
	State  bool    `json:"state"`
	Result *Result `json:"result,omitempty"`
}

// CheckRequest is a one-shot analysis.
type CheckRequest struct {
	Text      string   `json:"text"`
	Language  string   `json:"language,omitempty"`
	MultiWord []string `json:"multi_word,omitempty"`
}

// CreateSessionRequest configures a new session.
type CreateSessionRequest struct {
	Language  string   `json:"language,omitempty"`
	MultiWord []string `json:"multi_word,omitempty"`
}

// SessionsClient manages analysis sessions.
type SessionsClient struct {
	client *Client
}

func sessionPath(id string, suffix string) (string, error) {
	if id == "" {
		return "", errors.New(errors.ErrCodeSessionIDEmpty, "session id is required")
	}
	return "/api/v1/sessions/" + url.PathEscape(id) + suffix, nil
}

// Create opens a session. req may be nil.
func (sc *SessionsClient) Create(ctx context.Context, req *CreateSessionRequest) (*Session, error) {
	if req == nil {
		req = &CreateSessionRequest{}
	}
	var s Session
	if err := sc.client.post(ctx, "/api/v1/sessions", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Get returns the session's language and overrides.
func (sc *SessionsClient) Get(ctx context.Context, id string) (*Session, error) {
	path, err := sessionPath(id, "")
	if err != nil {
		return nil, err
	}
	var s Session
	if err := sc.client.get(ctx, path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete drops the session and its stored overrides.
func (sc *SessionsClient) Delete(ctx context.Context, id string) error {
	path, err := sessionPath(id, "")
	if err != nil {
		return err
	}
	return sc.client.delete(ctx, path, nil)
}

// Analyze scans text within the session.
func (sc *SessionsClient) Analyze(ctx context.Context, id, text string) (*Result, error) {
	path, err := sessionPath(id, "/analyze")
	if err != nil {
		return nil, err
	}
	var res Result
	if err := sc.client.post(ctx, path, map[string]string{"text": text}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SetMultiWord enables or disables two-word matching for stem. A nil
// enabled toggles it.
func (sc *SessionsClient) SetMultiWord(ctx context.Context, id, stem string, enabled *bool) (*MutationResult, error) {
	path, err := sessionPath(id, "/multi-word")
	if err != nil {
		return nil, err
	}
	body := struct {
		Stem    string `json:"stem"`
		Enabled *bool  `json:"enabled,omitempty"`
	}{stem, enabled}
	return sc.mutate(ctx, http.MethodPost, path, body)
}

// ToggleClearedError clears or restores the errors of one number.
func (sc *SessionsClient) ToggleClearedError(ctx context.Context, id, bz string) (*MutationResult, error) {
	path, err := sessionPath(id, "/cleared-errors/"+url.PathEscape(bz))
	if err != nil {
		return nil, err
	}
	return sc.mutate(ctx, http.MethodPost, path, nil)
}

// ToggleClearedPosition clears or restores one exact span.
func (sc *SessionsClient) ToggleClearedPosition(ctx context.Context, id string, span Span) (*MutationResult, error) {
	path, err := sessionPath(id, "/cleared-positions")
	if err != nil {
		return nil, err
	}
	return sc.mutate(ctx, http.MethodPost, path, span)
}

// RestoreAllErrors drops every cleared number and position.
func (sc *SessionsClient) RestoreAllErrors(ctx context.Context, id string) (*MutationResult, error) {
	path, err := sessionPath(id, "/cleared")
	if err != nil {
		return nil, err
	}
	return sc.mutate(ctx, http.MethodDelete, path, nil)
}

// SetLanguage switches the session's analysis language.
func (sc *SessionsClient) SetLanguage(ctx context.Context, id, lang string) (*MutationResult, error) {
	path, err := sessionPath(id, "/language")
	if err != nil {
		return nil, err
	}
	return sc.mutate(ctx, http.MethodPut, path, map[string]string{"language": lang})
}

func (sc *SessionsClient) mutate(ctx context.Context, method, path string, body interface{}) (*MutationResult, error) {
	var res MutationResult
	if err := sc.client.do(ctx, method, path, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

//Personal.AI order the ending
