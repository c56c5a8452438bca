package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/pkg/errors"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))
}

func TestNewMetricsCollector_WithRuntimeMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{
		Namespace:            "test",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logging.NewNopLogger())
	require.NoError(t, err)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "go_goroutines")
}

func TestRegisterCounter(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("events_total", "Events", "kind")
	vec.WithLabelValues("a").Inc()
	vec.WithLabelValues("a").Add(2)

	expected := `
# HELP test_events_total Events
# TYPE test_events_total counter
test_events_total{kind="a"} 3
`
	require.NoError(t, testutil.GatherAndCompare(c.Gatherer(), strings.NewReader(expected), "test_events_total"))
}

func TestRegisterCounter_DuplicateReturnsExisting(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dup_total", "Dup", "kind").WithLabelValues("a").Inc()
	c.RegisterCounter("dup_total", "Dup", "kind").WithLabelValues("a").Inc()

	n, err := testutil.GatherAndCount(c.Gatherer(), "test_dup_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, scrapeMetrics(t, c), `test_dup_total{kind="a"} 2`)
}

func TestRegister_TypeMismatchDegradesToNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("shared", "Shared")
	g := c.RegisterGauge("shared", "Shared")
	assert.NotPanics(t, func() { g.WithLabelValues().Set(4) })
}

func TestRegisterGaugeAndHistogram(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterGauge("depth", "Depth", "queue").WithLabelValues("q").Set(7)
	h := c.RegisterHistogram("latency_seconds", "Latency", nil, "op")
	timer := NewTimer(h.WithLabelValues("scan"))
	time.Sleep(time.Millisecond)
	timer.ObserveDuration()

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_depth{queue="q"} 7`)
	assert.Contains(t, output, `test_latency_seconds_count{op="scan"} 1`)
}

func TestNilTimer(t *testing.T) {
	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

func TestCollector_ConcurrentRegistration(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("concurrent_total", "Concurrent").WithLabelValues().Inc()
		}()
	}
	wg.Wait()
	assert.Contains(t, scrapeMetrics(t, c), "test_concurrent_total 16")
}

//Personal.AI order the ending
