package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeConflict, "failed to acquire lock")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

// DistributedLock is a single-owner lock with a lease.
type DistributedLock interface {
	Lock(ctx context.Context) error
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
	Extend(ctx context.Context, ttl time.Duration) (bool, error)
	TTL(ctx context.Context) (time.Duration, error)
}

type LockOption func(*lockConfig)

func WithLockTTL(ttl time.Duration) LockOption {
	return func(c *lockConfig) { c.ttl = ttl }
}

func WithRetryDelay(delay time.Duration) LockOption {
	return func(c *lockConfig) { c.retryDelay = delay }
}

func WithRetryCount(count int) LockOption {
	return func(c *lockConfig) { c.retryCount = count }
}

type lockConfig struct {
	ttl        time.Duration
	retryDelay time.Duration
	retryCount int
}

func defaultLockConfig() lockConfig {
	return lockConfig{
		ttl:        10 * time.Second,
		retryDelay: 25 * time.Millisecond,
		retryCount: 200,
	}
}

// LockFactory hands out mutexes under <prefix>lock:<name>.
type LockFactory struct {
	client *Client
	prefix string
	log    logging.Logger
}

func NewLockFactory(client *Client, prefix string, log logging.Logger) *LockFactory {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &LockFactory{client: client, prefix: prefix, log: log.Named("lock")}
}

func (f *LockFactory) NewMutex(name string, opts ...LockOption) DistributedLock {
	cfg := defaultLockConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &redisMutex{
		client: f.client,
		key:    f.prefix + "lock:" + name,
		value:  uuid.NewString(),
		config: cfg,
		logger: f.log,
	}
}

type redisMutex struct {
	client *Client
	key    string
	value  string
	config lockConfig
	logger logging.Logger
}

var mutexUnlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

var mutexExtendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

func (m *redisMutex) Lock(ctx context.Context) error {
	for i := 0; i < m.config.retryCount; i++ {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "lock wait cancelled")
		}
		ok, err := m.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "lock wait cancelled")
		case <-time.After(m.config.retryDelay):
		}
	}
	m.logger.Warn("lock not acquired", logging.String("key", m.key), logging.Int("attempts", m.config.retryCount))
	return ErrLockNotAcquired.WithDetail("key=" + m.key)
}

func (m *redisMutex) TryLock(ctx context.Context) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.key, m.value, m.config.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to set lock")
	}
	return ok, nil
}

func (m *redisMutex) Unlock(ctx context.Context) error {
	res, err := mutexUnlockScript.Run(ctx, m.client.GetUnderlyingClient(), []string{m.key}, m.value).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to release lock")
	}
	if res == 0 {
		return ErrLockNotHeld.WithDetail("key=" + m.key)
	}
	return nil
}

func (m *redisMutex) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	res, err := mutexExtendScript.Run(ctx, m.client.GetUnderlyingClient(), []string{m.key}, m.value, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to extend lock")
	}
	return res == 1, nil
}

func (m *redisMutex) TTL(ctx context.Context) (time.Duration, error) {
	return m.client.GetUnderlyingClient().PTTL(ctx, m.key).Result()
}

// ─────────────────────────────────────────────────────────────────────────────
// Session locking
// ─────────────────────────────────────────────────────────────────────────────

// SessionLocker serialises override mutations of one session across
// replicas. It satisfies consistency.SessionLocker.
type SessionLocker struct {
	factory *LockFactory
	opts    []LockOption
}

func NewSessionLocker(factory *LockFactory, opts ...LockOption) *SessionLocker {
	return &SessionLocker{factory: factory, opts: opts}
}

// Acquire blocks until the session lock is held or ctx ends.
func (l *SessionLocker) Acquire(ctx context.Context, sessionID string) (func(context.Context) error, error) {
	m := l.factory.NewMutex("session:"+sessionID, l.opts...)
	if err := m.Lock(ctx); err != nil {
		return nil, err
	}
	return m.Unlock, nil
}

//Personal.AI order the ending
