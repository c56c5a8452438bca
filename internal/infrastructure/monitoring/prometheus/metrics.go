package prometheus

import (
	"strconv"
	"time"
)

// Duration buckets in seconds. Scans of a typical application text take a
// few milliseconds.
var (
	DefaultScanDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}
	DefaultHTTPDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
)

// AnalysisMetrics holds the checker's metrics. It satisfies the engine's
// telemetry Recorder.
type AnalysisMetrics struct {
	// Analysis
	ScansTotal      CounterVec
	ScanDuration    HistogramVec
	ErrorSpans      GaugeVec
	StemCacheHits   CounterVec
	StemCacheMisses CounterVec
	ScansDiscarded  CounterVec
	OverridesTotal  CounterVec

	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
}

// NewAnalysisMetrics registers every metric on collector.
func NewAnalysisMetrics(collector MetricsCollector) *AnalysisMetrics {
	return &AnalysisMetrics{
		ScansTotal:      collector.RegisterCounter("scans_total", "Published scans", "language"),
		ScanDuration:    collector.RegisterHistogram("scan_duration_seconds", "Scan pipeline duration", DefaultScanDurationBuckets, "language"),
		ErrorSpans:      collector.RegisterGauge("error_spans", "Error spans found by the last scan", "language", "kind"),
		StemCacheHits:   collector.RegisterCounter("stem_cache_hits_total", "Stem cache hits", "language"),
		StemCacheMisses: collector.RegisterCounter("stem_cache_misses_total", "Stem cache misses", "language"),
		ScansDiscarded:  collector.RegisterCounter("scans_discarded_total", "Scans dropped because a newer edit arrived"),
		OverridesTotal:  collector.RegisterCounter("overrides_total", "User override mutations", "action"),

		HTTPRequestsTotal:   collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code"),
		HTTPRequestDuration: collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route"),
	}
}

// ObserveScan records one published scan.
func (m *AnalysisMetrics) ObserveScan(language string, d time.Duration, spans map[string]int) {
	m.ScansTotal.WithLabelValues(language).Inc()
	m.ScanDuration.WithLabelValues(language).Observe(d.Seconds())
	for kind, n := range spans {
		m.ErrorSpans.WithLabelValues(language, kind).Set(float64(n))
	}
}

// AddStemCache adds stem cache deltas.
func (m *AnalysisMetrics) AddStemCache(language string, hits, misses uint64) {
	if hits > 0 {
		m.StemCacheHits.WithLabelValues(language).Add(float64(hits))
	}
	if misses > 0 {
		m.StemCacheMisses.WithLabelValues(language).Add(float64(misses))
	}
}

// IncDiscardedScans counts a stale scan.
func (m *AnalysisMetrics) IncDiscardedScans() {
	m.ScansDiscarded.WithLabelValues().Inc()
}

// IncOverride counts one override mutation.
func (m *AnalysisMetrics) IncOverride(action string) {
	m.OverridesTotal.WithLabelValues(action).Inc()
}

// RecordHTTPRequest records one served request. route is the route
// pattern, not the raw path, to bound label cardinality.
func (m *AnalysisMetrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

//Personal.AI order the ending
