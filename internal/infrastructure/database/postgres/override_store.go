package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/pkg/errors"
)

const (
	loadOverridesSQL = `SELECT overrides FROM session_overrides
WHERE session_id = $1 AND (expires_at IS NULL OR expires_at > $2)`

	saveOverridesSQL = `INSERT INTO session_overrides (session_id, overrides, updated_at, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (session_id) DO UPDATE
SET overrides = EXCLUDED.overrides, updated_at = EXCLUDED.updated_at, expires_at = EXCLUDED.expires_at`

	deleteOverridesSQL = `DELETE FROM session_overrides WHERE session_id = $1`

	purgeOverridesSQL = `DELETE FROM session_overrides WHERE expires_at IS NOT NULL AND expires_at <= $1`
)

// OverrideStore keeps per-session overrides as one JSONB row each. Every
// save pushes expires_at forward by the ttl; expired rows read as missing
// until PurgeExpired removes them.
type OverrideStore struct {
	db     *sql.DB
	logger logging.Logger
	ttl    time.Duration
	now    func() time.Time
}

var _ reference.OverrideRepository = (*OverrideStore)(nil)

// NewOverrideStore creates the store. A zero ttl keeps rows forever.
func NewOverrideStore(conn *Connection, log logging.Logger, ttl time.Duration) *OverrideStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &OverrideStore{
		db:     conn.DB(),
		logger: log.Named("pg_override_store"),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *OverrideStore) Load(ctx context.Context, sessionID string) (reference.Overrides, error) {
	var o reference.Overrides
	if sessionID == "" {
		return o, errors.New(errors.ErrCodeSessionIDEmpty, "session id must not be empty")
	}

	var data []byte
	err := s.db.QueryRowContext(ctx, loadOverridesSQL, sessionID, s.now().UTC()).Scan(&data)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return o, errors.New(errors.ErrCodeSessionNotFound, "analysis session not found").WithDetail("id=" + sessionID)
		}
		return o, errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to load overrides")
	}
	if err := json.Unmarshal(data, &o); err != nil {
		s.logger.Error("corrupt override row", logging.String("session_id", sessionID), logging.Err(err))
		return reference.Overrides{}, errors.Wrap(err, errors.ErrCodeStoreCorrupt, "failed to decode overrides").WithDetail("id=" + sessionID)
	}
	return o, nil
}

func (s *OverrideStore) Save(ctx context.Context, sessionID string, o reference.Overrides) error {
	if sessionID == "" {
		return errors.New(errors.ErrCodeSessionIDEmpty, "session id must not be empty")
	}
	data, err := json.Marshal(o)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreCorrupt, "failed to encode overrides")
	}

	now := s.now().UTC()
	var expires sql.NullTime
	if s.ttl > 0 {
		expires = sql.NullTime{Time: now.Add(s.ttl), Valid: true}
	}
	if _, err := s.db.ExecContext(ctx, saveOverridesSQL, sessionID, data, now, expires); err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to save overrides")
	}
	s.logger.Debug("overrides saved", logging.String("session_id", sessionID), logging.Int("bytes", len(data)))
	return nil
}

// Delete is idempotent.
func (s *OverrideStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New(errors.ErrCodeSessionIDEmpty, "session id must not be empty")
	}
	if _, err := s.db.ExecContext(ctx, deleteOverridesSQL, sessionID); err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to delete overrides")
	}
	return nil
}

// PurgeExpired removes rows whose ttl has elapsed and returns their count.
func (s *OverrideStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, purgeOverridesSQL, s.now().UTC())
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to purge expired overrides")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to count purged overrides")
	}
	if n > 0 {
		s.logger.Info("purged expired session overrides", logging.Int64("rows", n))
	}
	return n, nil
}

// RunPurger calls PurgeExpired every interval until ctx ends.
func (s *OverrideStore) RunPurger(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.PurgeExpired(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("override purge failed", logging.Err(err))
			}
		}
	}
}

//Personal.AI order the ending
