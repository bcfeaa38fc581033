package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for replay and source fetch counters.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Replay
	replays        *prometheus.CounterVec
	replayDuration prometheus.Histogram
	replayGames    prometheus.Gauge
	replayPlayers  prometheus.Gauge
	replayLastUnix prometheus.Gauge
	whatIfReplays  prometheus.Counter
	throttledCalls *prometheus.CounterVec

	// Source
	sourceFetches       *prometheus.CounterVec
	sourceFetchDuration prometheus.Histogram
	sourceRows          prometheus.Gauge
	sourceCache         *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// Errors by component
	errorRateByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "riichi",
		subsystem:        "league",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	if buckets == nil {
		buckets = m.histogramBuckets
	}
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.replays = auto.NewCounterVec(
		m.counterOpts("replays_total", "Total number of full history replays by outcome"),
		[]string{"outcome"},
	)
	m.replayDuration = auto.NewHistogram(
		m.histogramOpts("replay_duration_milliseconds", "Duration of a full history replay in milliseconds", nil),
	)
	m.replayGames = auto.NewGauge(m.gaugeOpts("games", "Number of games in the published replay"))
	m.replayPlayers = auto.NewGauge(m.gaugeOpts("players", "Number of rated players in the published replay"))
	m.replayLastUnix = auto.NewGauge(m.gaugeOpts("replay_last_unix", "Unix timestamp of the last published replay"))
	m.whatIfReplays = auto.NewCounter(m.counterOpts("whatif_replays_total", "Total number of parameter override replays"))
	m.throttledCalls = auto.NewCounterVec(
		m.counterOpts("throttled_requests_total", "Requests rejected by the replay rate limiter"),
		[]string{"endpoint"},
	)

	m.sourceFetches = auto.NewCounterVec(
		m.counterOpts("source_fetches_total", "Total number of game log fetches by source kind and outcome"),
		[]string{"kind", "outcome"},
	)
	m.sourceFetchDuration = auto.NewHistogram(
		m.histogramOpts("source_fetch_duration_milliseconds", "Game log fetch latency in milliseconds", nil),
	)
	m.sourceRows = auto.NewGauge(m.gaugeOpts("source_rows", "Number of game rows in the last fetch"))
	m.sourceCache = auto.NewCounterVec(
		m.counterOpts("source_cache_total", "Game log cache lookups by result"),
		[]string{"result"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", nil),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

func checkOutcome(outcome string) error {
	switch outcome {
	case OutcomeSuccess, OutcomeError:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
	}
}

// RecordReplay counts a finished replay and observes its duration.
func (m *Manager) RecordReplay(outcome string, durationMs float64) error {
	if err := checkOutcome(outcome); err != nil {
		return err
	}
	m.replays.WithLabelValues(outcome).Inc()
	m.replayDuration.Observe(durationMs)
	return nil
}

// PublishReplay sets the gauges describing the live replay.
func (m *Manager) PublishReplay(games, players int, unix int64) {
	m.replayGames.Set(float64(games))
	m.replayPlayers.Set(float64(players))
	m.replayLastUnix.Set(float64(unix))
}

// RecordSourceFetch counts a game log fetch and observes its latency.
func (m *Manager) RecordSourceFetch(kind, outcome string, durationMs float64, rows int) error {
	if err := checkOutcome(outcome); err != nil {
		return err
	}
	m.sourceFetches.WithLabelValues(kind, outcome).Inc()
	m.sourceFetchDuration.Observe(durationMs)
	if outcome == OutcomeSuccess {
		m.sourceRows.Set(float64(rows))
	}
	return nil
}

// RecordReplay counts a replay on the global manager.
func RecordReplay(outcome string, durationMs float64) error {
	return globalManager.RecordReplay(outcome, durationMs)
}

// PublishReplay updates the live replay gauges on the global manager.
func PublishReplay(games, players int, unix int64) {
	globalManager.PublishReplay(games, players, unix)
}

// RecordWhatIfReplay increments the override replay counter.
func RecordWhatIfReplay() {
	globalManager.whatIfReplays.Inc()
}

// RecordThrottled counts a request rejected by the rate limiter.
func RecordThrottled(endpoint string) {
	globalManager.throttledCalls.WithLabelValues(endpoint).Inc()
}

// RecordSourceFetch counts a fetch on the global manager.
func RecordSourceFetch(kind, outcome string, durationMs float64, rows int) error {
	return globalManager.RecordSourceFetch(kind, outcome, durationMs, rows)
}

// RecordSourceCache counts a cache lookup; hit reports whether it was served from cache.
func RecordSourceCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	globalManager.sourceCache.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
