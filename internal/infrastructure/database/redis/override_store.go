package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/pkg/errors"
)

// OverrideStore persists per-session overrides as one JSON document under
// <prefix>session:<id>:overrides. Every save refreshes the ttl, so idle
// sessions expire.
type OverrideStore struct {
	client *Client
	logger logging.Logger
	prefix string
	ttl    time.Duration
}

var _ reference.OverrideRepository = (*OverrideStore)(nil)

// NewOverrideStore creates the store. A zero ttl keeps entries forever.
func NewOverrideStore(client *Client, log logging.Logger, prefix string, ttl time.Duration) *OverrideStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &OverrideStore{client: client, logger: log.Named("override_store"), prefix: prefix, ttl: ttl}
}

func (s *OverrideStore) key(sessionID string) string {
	return s.prefix + "session:" + sessionID + ":overrides"
}

func (s *OverrideStore) Load(ctx context.Context, sessionID string) (reference.Overrides, error) {
	var o reference.Overrides
	if sessionID == "" {
		return o, errors.New(errors.ErrCodeSessionIDEmpty, "session id must not be empty")
	}
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return o, errors.New(errors.ErrCodeSessionNotFound, "analysis session not found").WithDetail("id=" + sessionID)
		}
		return o, errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to load overrides")
	}
	if err := json.Unmarshal(data, &o); err != nil {
		s.logger.Error("corrupt override entry", logging.String("session_id", sessionID), logging.Err(err))
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
	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
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
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to delete overrides")
	}
	return nil
}

//Personal.AI order the ending
