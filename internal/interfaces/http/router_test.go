package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/refsign-check/internal/application/consistency"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/refsign-check/internal/interfaces/http/handlers"
	"github.com/turtacn/refsign-check/internal/interfaces/http/middleware"
)

const routerText = "der Lager 10 und Motor 10 und Welle 20 und Welle 30 sowie ein Lager"

type testAPI struct {
	handler   http.Handler
	collector prometheus.MetricsCollector
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := logging.NewNopLogger()
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "test"}, log)
	require.NoError(t, err)
	metrics := prometheus.NewAnalysisMetrics(collector)

	svc := consistency.NewService(nil, log, consistency.WithEngineOptions(consistency.WithRecorder(metrics)))
	return &testAPI{
		collector: collector,
		handler: NewRouter(RouterConfig{
			AnalysisHandler:  handlers.NewAnalysisHandler(svc, log),
			HealthHandler:    handlers.NewHealthHandler("test"),
			Logger:           log,
			LoggingConfig:    middleware.DefaultLoggingConfig(),
			Metrics:          metrics,
			MetricsCollector: collector,
			AllowedOrigins:   []string{"https://editor.example.com"},
			MaxConcurrent:    4,
		}),
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func TestRouter_SessionFlow(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/sessions", map[string]string{"language": "de"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sess consistency.Session
	decodeBody(t, w, &sess)
	require.NotEmpty(t, sess.ID)
	base := "/api/v1/sessions/" + sess.ID

	w = api.do(t, http.MethodPost, base+"/analyze", map[string]string{"text": routerText})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res consistency.Result
	decodeBody(t, w, &res)
	assert.Len(t, res.Conflicts, 2)
	assert.Len(t, res.Splits, 2)
	assert.Equal(t, []string{"10\tLager", "20\tWelle", "30\tWelle"}, res.ReferenceList)

	w = api.do(t, http.MethodPost, base+"/cleared-errors/10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var mut consistency.MutationResult
	decodeBody(t, w, &mut)
	assert.True(t, mut.State)
	require.NotNil(t, mut.Result)
	assert.Empty(t, mut.Result.Conflicts)

	w = api.do(t, http.MethodPost, base+"/cleared-positions", map[string]int{"start": 62, "end": 67})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	mut = consistency.MutationResult{}
	decodeBody(t, w, &mut)
	assert.Empty(t, mut.Result.Unnumbered)

	w = api.do(t, http.MethodDelete, base+"/cleared", nil)
	require.Equal(t, http.StatusOK, w.Code)
	mut = consistency.MutationResult{}
	decodeBody(t, w, &mut)
	assert.Len(t, mut.Result.Conflicts, 2)

	w = api.do(t, http.MethodPost, base+"/multi-word", map[string]interface{}{"stem": "lag", "enabled": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sess = consistency.Session{}
	decodeBody(t, w, &sess)
	assert.Equal(t, []string{"lag"}, sess.Overrides.ManualMultiWord)

	w = api.do(t, http.MethodPut, base+"/language", map[string]string{"language": "en"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Check(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/check", map[string]string{"text": "a bearing 10 and a shaft 10", "language": "en"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res consistency.Result
	decodeBody(t, w, &res)
	assert.Equal(t, "en", string(res.Language))
	assert.Len(t, res.Conflicts, 2)
}

func TestRouter_ErrorMapping(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"unknown session", http.MethodGet, "/api/v1/sessions/missing", nil, http.StatusNotFound, "ANA_004"},
		{"unsupported language", http.MethodPost, "/api/v1/check", map[string]string{"text": "x", "language": "fr"}, http.StatusBadRequest, "ANA_002"},
		{"unknown field", http.MethodPost, "/api/v1/check", map[string]string{"txt": "x"}, http.StatusBadRequest, "COMMON_002"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := api.do(t, tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			var er handlers.ErrorResponse
			decodeBody(t, w, &er)
			assert.Equal(t, tc.code, er.Code)
		})
	}
}

func TestRouter_InvalidSpanOnSession(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var sess consistency.Session
	decodeBody(t, w, &sess)

	w = api.do(t, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/cleared-positions", map[string]int{"start": 5, "end": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = api.do(t, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	api.do(t, http.MethodPost, "/api/v1/check", map[string]string{"text": "Lager 10"})
	w = api.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `test_http_requests_total{method="POST",route="/api/v1/check",status_code="200"} 1`), body)
	assert.Contains(t, body, `test_scans_total{language="de"} 1`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/check", nil)
	req.Header.Set("Origin", "https://editor.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	api.handler.ServeHTTP(w, req)

	assert.Equal(t, "https://editor.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_NilHandlers(t *testing.T) {
	h := NewRouter(RouterConfig{})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/check", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

//Personal.AI order the ending
