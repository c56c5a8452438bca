package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/refsign-check/internal/testutil"
)

type recordedRequest struct {
	method, route string
	status        int
}

type recorderStub struct {
	mu   sync.Mutex
	seen []recordedRequest
}

func (r *recorderStub) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, recordedRequest{method, route, status})
}

func newTestRouter(log *testutil.MockLogger, rec HTTPRecorder) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogging(log, DefaultLoggingConfig(), rec))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Post("/api/v1/sessions/{id}/analyze", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) })
	return r
}

func TestRequestLogging_RecordsRoutePattern(t *testing.T) {
	log := testutil.NewMockLogger()
	rec := &recorderStub{}
	h := newTestRouter(log, rec)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/analyze", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, rec.seen, 1)
	assert.Equal(t, recordedRequest{"POST", "/api/v1/sessions/{id}/analyze", 200}, rec.seen[0])
	assert.True(t, log.HasMessage("info", "HTTP request completed"))
	route, ok := log.FieldValue("HTTP request completed", "route")
	require.True(t, ok)
	assert.Equal(t, "/api/v1/sessions/{id}/analyze", route)
}

func TestRequestLogging_SkipsProbes(t *testing.T) {
	log := testutil.NewMockLogger()
	rec := &recorderStub{}
	h := newTestRouter(log, rec)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, rec.seen)
	assert.Empty(t, log.GetMessages())
}

func TestRequestLogging_LevelsByStatus(t *testing.T) {
	log := testutil.NewMockLogger()
	rec := &recorderStub{}
	h := newTestRouter(log, rec)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.True(t, log.HasMessage("error", "HTTP request completed with server error"))
	assert.True(t, log.HasMessage("warn", "HTTP request completed with client error"))
	require.Len(t, rec.seen, 2)
	assert.Equal(t, "unmatched", rec.seen[1].route)
	assert.Equal(t, http.StatusNotFound, rec.seen[1].status)
}

func TestRequestLogging_NilRecorder(t *testing.T) {
	log := testutil.NewMockLogger()
	h := newTestRouter(log, nil)
	assert.NotPanics(t, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	})
}

//Personal.AI order the ending
