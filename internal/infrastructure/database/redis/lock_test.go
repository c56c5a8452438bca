package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/pkg/errors"
)

func newTestFactory(t *testing.T) (*miniredis.Miniredis, *LockFactory) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(ClientConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewLockFactory(client, "refcheck:", logging.NewNopLogger())
}

func TestMutex_LockUnlock(t *testing.T) {
	mr, factory := newTestFactory(t)
	ctx := context.Background()

	lock := factory.NewMutex("doc", WithLockTTL(time.Second))
	require.NoError(t, lock.Lock(ctx))
	assert.True(t, mr.Exists("refcheck:lock:doc"))

	ttl, err := lock.TTL(ctx)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, lock.Unlock(ctx))
	assert.False(t, mr.Exists("refcheck:lock:doc"))
}

func TestMutex_Contention(t *testing.T) {
	_, factory := newTestFactory(t)
	ctx := context.Background()

	first := factory.NewMutex("doc")
	second := factory.NewMutex("doc", WithRetryCount(2), WithRetryDelay(5*time.Millisecond))

	require.NoError(t, first.Lock(ctx))
	err := second.Lock(ctx)
	assert.True(t, errors.IsConflict(err))

	ok, err := second.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, first.Unlock(ctx))
	ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMutex_UnlockByOtherOwner(t *testing.T) {
	_, factory := newTestFactory(t)
	ctx := context.Background()

	owner := factory.NewMutex("doc")
	other := factory.NewMutex("doc")
	require.NoError(t, owner.Lock(ctx))

	err := other.Unlock(ctx)
	assert.True(t, errors.IsConflict(err))
	require.NoError(t, owner.Unlock(ctx))
}

func TestMutex_Extend(t *testing.T) {
	mr, factory := newTestFactory(t)
	ctx := context.Background()

	lock := factory.NewMutex("doc", WithLockTTL(time.Second))
	require.NoError(t, lock.Lock(ctx))

	ok, err := lock.Extend(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("refcheck:lock:doc"))

	mr.FastForward(2 * time.Minute)
	ok, err = lock.Extend(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMutex_LockHonoursContext(t *testing.T) {
	_, factory := newTestFactory(t)
	holder := factory.NewMutex("doc")
	require.NoError(t, holder.Lock(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := factory.NewMutex("doc", WithRetryDelay(5*time.Millisecond)).Lock(ctx)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))
}

func TestSessionLocker_SerialisesSameSession(t *testing.T) {
	_, factory := newTestFactory(t)
	locker := NewSessionLocker(factory, WithRetryDelay(time.Millisecond))
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Acquire(ctx, "s1")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			assert.NoError(t, release(ctx))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestSessionLocker_IndependentSessions(t *testing.T) {
	_, factory := newTestFactory(t)
	locker := NewSessionLocker(factory, WithRetryCount(1))
	ctx := context.Background()

	releaseA, err := locker.Acquire(ctx, "a")
	require.NoError(t, err)
	releaseB, err := locker.Acquire(ctx, "b")
	require.NoError(t, err)

	require.NoError(t, releaseA(ctx))
	require.NoError(t, releaseB(ctx))
}

//Personal.AI order the ending
