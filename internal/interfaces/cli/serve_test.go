package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/refsign-check/internal/config"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/pkg/errors"
)

func request(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewApp_InMemory(t *testing.T) {
	cfg := config.Default()
	a, err := newApp(context.Background(), cfg, logging.NewNopLogger())
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.redis)

	h := a.server.Handler()
	w := request(t, h, http.MethodPost, "/api/v1/check", `{"text":"`+checkText+`"}`)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewApp_WithRedisAndMetrics(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()
	cfg.Metrics.Enabled = true

	a, err := newApp(context.Background(), cfg, logging.NewNopLogger())
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.redis)

	h := a.server.Handler()
	w := request(t, h, http.MethodPost, "/api/v1/sessions", `{"language":"de"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, mr.Keys())

	w = request(t, h, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "refcheck_")

	mr.Close()
	w = request(t, h, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "127.0.0.1:1"
	cfg.Redis.DialTimeout = 200 * time.Millisecond

	_, err := newApp(context.Background(), cfg, logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStoreUnavailable))
}

func TestNewApp_PostgresUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.Postgres.Enabled = true
	cfg.Postgres.Host = "127.0.0.1"
	cfg.Postgres.Port = 1

	_, err := newApp(context.Background(), cfg, logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseError))
}

func TestCheck_AgainstServer(t *testing.T) {
	a, err := newApp(context.Background(), config.Default(), logging.NewNopLogger())
	require.NoError(t, err)
	srv := httptest.NewServer(a.server.Handler())
	defer srv.Close()

	out, err := execute(t, "", "check", "-o", "json", "--server", srv.URL, writeText(t, checkText))
	require.NoError(t, err)

	var report CheckReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []string{"10\tLager", "20\tWelle", "30\tWelle"}, report.ReferenceList)
	assert.Len(t, report.Findings, 6)

	_, err = execute(t, "", "check", "--server", srv.URL, "--ignore", "10", writeText(t, checkText))
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestNewApp_InvalidLanguage(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.Language = "fr"
	_, err := newApp(context.Background(), cfg, logging.NewNopLogger())
	assert.True(t, errors.IsCode(err, errors.ErrCodeLanguageUnsupported))
}

//Personal.AI order the ending
