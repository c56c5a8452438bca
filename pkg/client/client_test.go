package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/refsign-check/pkg/errors"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithRetryWait(time.Millisecond, 5*time.Millisecond)}, opts...)
	client, err := NewClient(server.URL, opts...)
	require.NoError(t, err)
	return client
}

type testLogger struct {
	mu      sync.Mutex
	lastMsg string
	count   int32
}

func (l *testLogger) Debugf(format string, args ...interface{}) { l.log(format, args...) }
func (l *testLogger) Infof(format string, args ...interface{})  { l.log(format, args...) }
func (l *testLogger) Errorf(format string, args ...interface{}) { l.log(format, args...) }
func (l *testLogger) log(format string, args ...interface{}) {
	atomic.AddInt32(&l.count, 1)
	l.mu.Lock()
	l.lastMsg = fmt.Sprintf(format, args...)
	l.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Constructor Tests
// ---------------------------------------------------------------------------

func TestNewClient_Success(t *testing.T) {
	c, err := NewClient("http://refcheck.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "http://refcheck.example.com", c.baseURL)
	assert.Equal(t, 3, c.retryMax)
	assert.Contains(t, c.userAgent, "refcheck-go-sdk/")
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, u := range []string{"", "ftp://invalid", "invalid-url", "http://[::1"} {
		_, err := NewClient(u)
		assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid), "url %q", u)
	}
}

func TestClient_Sessions_LazyInit(t *testing.T) {
	c, _ := NewClient("http://refcheck.example.com")
	assert.Nil(t, c.sessions)

	var wg sync.WaitGroup
	got := make([]*SessionsClient, 50)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = c.Sessions()
		}(i)
	}
	wg.Wait()
	for _, s := range got[1:] {
		assert.Same(t, got[0], s)
	}
}

// ---------------------------------------------------------------------------
// HTTP Execution Tests (do)
// ---------------------------------------------------------------------------

func TestClient_Do_RequestHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Contains(t, r.Header.Get("User-Agent"), "refcheck-go-sdk/")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.post(context.Background(), "/test", map[string]string{"a": "b"}, nil))
}

func TestClient_Do_4xxNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"ANA_004","message":"analysis session not found","detail":"id=x"}`))
	})

	err := c.get(context.Background(), "/test", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "ANA_004", apiErr.Code)
	assert.Equal(t, "id=x", apiErr.Detail)
	assert.Contains(t, apiErr.Error(), "HTTP 404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Do_5xxRetriedThenSucceeds(t *testing.T) {
	var calls int32
	logger := &testLogger{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"language":"de"}`))
	}, WithLogger(logger))

	var res Result
	require.NoError(t, c.get(context.Background(), "/test", &res))
	assert.Equal(t, "de", res.Language)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Greater(t, atomic.LoadInt32(&logger.count), int32(0))
}

func TestClient_Do_RetriesExhausted(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}, WithRetryMax(2))

	err := c.get(context.Background(), "/test", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsServerError())
	assert.Equal(t, "boom", apiErr.Message)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Do_RateLimitedHonoursRetryAfter(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.get(context.Background(), "/test", nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Do_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithRetryWait(time.Second, time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.get(ctx, "/test", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Do_BadResponseBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})
	var res Result
	err := c.get(context.Background(), "/test", &res)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSerialization))
}

func TestClient_CalculateBackoff(t *testing.T) {
	c, _ := NewClient("http://refcheck.example.com", WithRetryWait(100*time.Millisecond, 300*time.Millisecond))
	for attempt, base := range map[int]time.Duration{1: 100 * time.Millisecond, 2: 200 * time.Millisecond, 5: 300 * time.Millisecond} {
		d := c.calculateBackoff(attempt)
		assert.GreaterOrEqual(t, d, base)
		assert.Less(t, d, base+base/4+time.Nanosecond)
	}
}

//Personal.AI order the ending
