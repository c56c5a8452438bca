package consistency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/internal/intelligence/linguistics"
	"github.com/turtacn/refsign-check/pkg/errors"
)

// Service defines the session-oriented analysis operations used by the
// HTTP API.
type Service interface {
	CreateSession(ctx context.Context, input *CreateSessionInput) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
	Analyze(ctx context.Context, id, text string) (*Result, error)
	SetMultiWord(ctx context.Context, input *MultiWordInput) (*MutationResult, error)
	ToggleClearedError(ctx context.Context, id, bz string) (*MutationResult, error)
	ToggleClearedPosition(ctx context.Context, input *PositionInput) (*MutationResult, error)
	RestoreAllErrors(ctx context.Context, id string) (*MutationResult, error)
	SetLanguage(ctx context.Context, id, lang string) (*MutationResult, error)
	Check(ctx context.Context, input *CheckInput) (*Result, error)
}

// ResultCache memoises stateless check results. The Redis cache satisfies it.
type ResultCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

// SessionLocker serialises override mutations of one session across
// processes sharing an OverrideRepository.
type SessionLocker interface {
	Acquire(ctx context.Context, sessionID string) (release func(context.Context) error, err error)
}

// CreateSessionInput contains input for creating a session.
type CreateSessionInput struct {
	Language  string   `json:"language"`
	MultiWord []string `json:"multi_word"`
}

// MultiWordInput enables or disables two-word matching for a base stem.
// When Enabled is nil the stem is toggled.
type MultiWordInput struct {
	SessionID string `json:"-"`
	Stem      string `json:"stem"`
	Enabled   *bool  `json:"enabled"`
}

// PositionInput toggles an exact span.
type PositionInput struct {
	SessionID string `json:"-"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
}

// CheckInput is a one-shot analysis without a session.
type CheckInput struct {
	Text      string   `json:"text"`
	Language  string   `json:"language"`
	MultiWord []string `json:"multi_word"`
}

// Session is the application-level view of an analysis session.
type Session struct {
	ID            string               `json:"id"`
	Language      linguistics.Language `json:"language"`
	Overrides     reference.Overrides  `json:"overrides"`
	AutoMultiWord []string             `json:"auto_multi_word"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// MutationResult is returned by override operations. State is the new
// enabled/cleared state; Result is the rescan of the last analysed text, nil
// when the session has not analysed anything yet.
type MutationResult struct {
	State  bool    `json:"state"`
	Result *Result `json:"result,omitempty"`
}

// ServiceOption configures the service.
type ServiceOption func(*serviceImpl)

// WithDefaultLanguage sets the language of sessions created without one.
func WithDefaultLanguage(lang linguistics.Language) ServiceOption {
	return func(s *serviceImpl) { s.defaultLang = lang }
}

// WithEngineOptions sets the options every session engine is built with.
func WithEngineOptions(opts ...EngineOption) ServiceOption {
	return func(s *serviceImpl) { s.engineOpts = append(s.engineOpts, opts...) }
}

// WithResultCache memoises Check results for ttl.
func WithResultCache(cache ResultCache, ttl time.Duration) ServiceOption {
	return func(s *serviceImpl) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithSessionLocker guards mutations with l and reloads the persisted
// overrides under the lock before applying a change.
func WithSessionLocker(l SessionLocker) ServiceOption {
	return func(s *serviceImpl) { s.locker = l }
}

type session struct {
	mu        sync.Mutex
	id        string
	engine    *Engine
	text      string
	hasText   bool
	createdAt time.Time
	updatedAt time.Time
}

// serviceImpl implements the Service interface.
type serviceImpl struct {
	repo        reference.OverrideRepository
	logger      logging.Logger
	defaultLang linguistics.Language
	engineOpts  []EngineOption
	cache       ResultCache
	cacheTTL    time.Duration
	locker      SessionLocker

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewService creates a new analysis session service. A nil repo keeps
// overrides in memory.
func NewService(repo reference.OverrideRepository, logger logging.Logger, opts ...ServiceOption) Service {
	if repo == nil {
		repo = NewMemoryOverrideRepository()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		repo:        repo,
		logger:      logger.Named("sessions"),
		defaultLang: linguistics.German,
		sessions:    make(map[string]*session),
	}
	for _, fn := range opts {
		fn(s)
	}
	return s
}

func (s *serviceImpl) CreateSession(ctx context.Context, input *CreateSessionInput) (*Session, error) {
	if input == nil {
		input = &CreateSessionInput{}
	}
	lang, err := s.resolveLanguage(input.Language)
	if err != nil {
		return nil, err
	}

	opts := append(append([]EngineOption(nil), s.engineOpts...), WithManualMultiWord(input.MultiWord...))
	engine, err := NewEngine(lang, opts...)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sess := &session{id: uuid.NewString(), engine: engine, createdAt: now, updatedAt: now}
	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("session created", logging.String("session_id", sess.id), logging.String("language", string(lang)))
	return sess.view(), nil
}

func (s *serviceImpl) GetSession(ctx context.Context, id string) (*Session, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

func (s *serviceImpl) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return errors.New(errors.ErrCodeSessionIDEmpty, "session id must not be empty")
	}
	s.forget(id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("session deleted", logging.String("session_id", id))
	return nil
}

func (s *serviceImpl) Analyze(ctx context.Context, id, text string) (*Result, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	res, err := sess.engine.Scan(ctx, text)
	if err != nil {
		return nil, err
	}
	sess.text, sess.hasText = text, true
	sess.updatedAt = time.Now().UTC()
	return res, nil
}

func (s *serviceImpl) SetMultiWord(ctx context.Context, input *MultiWordInput) (*MutationResult, error) {
	if input == nil {
		return nil, errors.New(errors.ErrCodeValidation, "multi-word input is required")
	}
	return s.mutate(ctx, input.SessionID, func(e *Engine) (bool, error) {
		if input.Enabled == nil {
			return e.ToggleMultiWord(input.Stem)
		}
		return *input.Enabled, e.SetMultiWord(input.Stem, *input.Enabled)
	})
}

func (s *serviceImpl) ToggleClearedError(ctx context.Context, id, bz string) (*MutationResult, error) {
	if bz == "" {
		return nil, errors.New(errors.ErrCodeValidation, "reference number must not be empty")
	}
	return s.mutate(ctx, id, func(e *Engine) (bool, error) {
		return e.ClearError(bz), nil
	})
}

func (s *serviceImpl) ToggleClearedPosition(ctx context.Context, input *PositionInput) (*MutationResult, error) {
	if input == nil {
		return nil, errors.New(errors.ErrCodeValidation, "position input is required")
	}
	return s.mutate(ctx, input.SessionID, func(e *Engine) (bool, error) {
		return e.ClearTextPosition(input.Start, input.End)
	})
}

func (s *serviceImpl) RestoreAllErrors(ctx context.Context, id string) (*MutationResult, error) {
	return s.mutate(ctx, id, func(e *Engine) (bool, error) {
		e.RestoreAllErrors()
		return false, nil
	})
}

func (s *serviceImpl) SetLanguage(ctx context.Context, id, lang string) (*MutationResult, error) {
	l, err := linguistics.ParseLanguage(lang)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(e *Engine) (bool, error) {
		return true, e.SetLanguage(l)
	})
}

// Check analyses text with a throwaway engine. Results are cached by text,
// language and multi-word stems when a cache is configured.
func (s *serviceImpl) Check(ctx context.Context, input *CheckInput) (*Result, error) {
	if input == nil {
		return nil, errors.New(errors.ErrCodeValidation, "check input is required")
	}
	lang, err := s.resolveLanguage(input.Language)
	if err != nil {
		return nil, err
	}
	run := func(ctx context.Context) (*Result, error) {
		opts := append(append([]EngineOption(nil), s.engineOpts...), WithManualMultiWord(input.MultiWord...))
		engine, err := NewEngine(lang, opts...)
		if err != nil {
			return nil, err
		}
		return engine.Scan(ctx, input.Text)
	}
	if s.cache == nil {
		return run(ctx)
	}

	var res Result
	key := checkKey(lang, input.MultiWord, input.Text)
	err = s.cache.GetOrSet(ctx, key, &res, s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		return run(ctx)
	})
	if errors.IsUnavailable(err) {
		// a cache outage must not fail stateless checks
		s.logger.Warn("result cache unavailable, scanning uncached", logging.Err(err))
		return run(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// checkKey hashes everything a stateless result depends on.
func checkKey(lang linguistics.Language, stems []string, text string) string {
	sorted := append([]string(nil), stems...)
	sort.Strings(sorted)
	h := sha256.New()
	h.Write([]byte(lang))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(sorted, "\x1f")))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(len(text))))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return "check:" + hex.EncodeToString(h.Sum(nil))
}

// ─────────────────────────────────────────────────────────────────────────────
// Internals
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) resolveLanguage(lang string) (linguistics.Language, error) {
	if lang == "" {
		return s.defaultLang, nil
	}
	return linguistics.ParseLanguage(lang)
}

// lookup finds a live session, or restores one whose overrides were
// persisted by another process.
func (s *serviceImpl) lookup(ctx context.Context, id string) (*session, error) {
	if id == "" {
		return nil, errors.New(errors.ErrCodeSessionIDEmpty, "session id must not be empty")
	}
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}

	o, err := s.repo.Load(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.New(errors.ErrCodeSessionNotFound, "analysis session not found").WithDetail("id=" + id)
		}
		return nil, err
	}
	lang := s.defaultLang
	if o.Language != "" {
		if l, err := linguistics.ParseLanguage(o.Language); err == nil {
			lang = l
		}
	}
	engine, err := NewEngine(lang, s.engineOpts...)
	if err != nil {
		return nil, err
	}
	engine.Context().ApplyOverrides(o)
	now := time.Now().UTC()
	restored := &session{id: id, engine: engine, createdAt: now, updatedAt: now}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		return existing, nil
	}
	s.sessions[id] = restored
	s.logger.Info("session restored", logging.String("session_id", id))
	return restored, nil
}

// mutate applies an override change, persists the overrides and rescans
// the last analysed text.
func (s *serviceImpl) mutate(ctx context.Context, id string, fn func(*Engine) (bool, error)) (*MutationResult, error) {
	if s.locker != nil && id != "" {
		release, err := s.locker.Acquire(ctx, id)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := release(context.Background()); err != nil {
				s.logger.Warn("failed to release session lock", logging.String("session_id", id), logging.Err(err))
			}
		}()
	}

	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if s.locker != nil {
		if err := s.refresh(ctx, sess); err != nil {
			return nil, err
		}
	}

	prev, prevLang, prevUpdated := sess.engine.Context().Overrides(), sess.engine.Language(), sess.updatedAt
	state, err := fn(sess.engine)
	if err != nil {
		return nil, err
	}
	sess.updatedAt = time.Now().UTC()
	if err := s.persist(ctx, sess); err != nil {
		s.rollback(sess, prev, prevLang, prevUpdated)
		return nil, err
	}

	out := &MutationResult{State: state}
	if sess.hasText {
		res, err := sess.engine.Scan(ctx, sess.text)
		if err != nil {
			return nil, err
		}
		out.Result = res
	}
	return out, nil
}

// refresh replaces the session's overrides with the persisted ones, which
// another process may have changed since this one last saw the session.
func (s *serviceImpl) refresh(ctx context.Context, sess *session) error {
	o, err := s.repo.Load(ctx, sess.id)
	if err != nil {
		if errors.IsNotFound(err) {
			s.forget(sess.id)
			return errors.New(errors.ErrCodeSessionNotFound, "analysis session not found").WithDetail("id=" + sess.id)
		}
		return err
	}
	if o.Language != "" && o.Language != string(sess.engine.Language()) {
		if l, err := linguistics.ParseLanguage(o.Language); err == nil {
			if err := sess.engine.SetLanguage(l); err != nil {
				return err
			}
		}
	}
	sess.engine.Context().ApplyOverrides(o)
	return nil
}

// rollback restores the in-memory overrides after a failed save so the
// live session keeps matching the store.
func (s *serviceImpl) rollback(sess *session, o reference.Overrides, lang linguistics.Language, updated time.Time) {
	if sess.engine.Language() != lang {
		if err := sess.engine.SetLanguage(lang); err != nil {
			s.logger.Error("failed to restore session language", logging.String("session_id", sess.id), logging.Err(err))
		}
	}
	sess.engine.Context().ApplyOverrides(o)
	sess.updatedAt = updated
}

func (s *serviceImpl) forget(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *serviceImpl) persist(ctx context.Context, sess *session) error {
	o := sess.engine.Context().Overrides()
	o.Language = string(sess.engine.Language())
	if err := s.repo.Save(ctx, sess.id, o); err != nil {
		s.logger.Error("failed to persist overrides", logging.String("session_id", sess.id), logging.Err(err))
		return err
	}
	return nil
}

func (sess *session) view() *Session {
	actx := sess.engine.Context()
	o := actx.Overrides()
	lang := sess.engine.Language()
	o.Language = string(lang)
	return &Session{
		ID:            sess.id,
		Language:      lang,
		Overrides:     o,
		AutoMultiWord: actx.AutoDetected(),
		CreatedAt:     sess.createdAt,
		UpdatedAt:     sess.updatedAt,
	}
}

//Personal.AI order the ending
