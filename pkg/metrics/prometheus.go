// Package metrics provides Prometheus metrics for the rating service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion
	gamesAccepted  prometheus.Counter
	gamesDuplicate prometheus.Counter
	gamesRejected  *prometheus.CounterVec

	// Rating periods
	periodCloses     prometheus.Counter
	periodDuration   prometheus.Histogram
	periodPlayers    prometheus.Gauge
	ratingUpdates    prometheus.Counter
	solverIterations prometheus.Histogram
	pendingGames     prometheus.Gauge
	totalPlayers     prometheus.Gauge
	currentPeriod    prometheus.Gauge
	repositoryUpdate prometheus.Histogram
	repositoryQuery  prometheus.Histogram

	// Queue and workers
	queueSize               prometheus.Gauge
	queueCapacity           prometheus.Gauge
	queueEnqueue            prometheus.Counter
	queueDequeue            prometheus.Counter
	queueEnqueueErrors      prometheus.Counter
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by package-level helpers

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry served at /metrics

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "glicko",
		subsystem:        "ratings",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.gamesAccepted = m.counter("games_accepted_total", "Total number of games accepted for the current period")
	m.gamesDuplicate = m.counter("games_duplicate_total", "Total number of games dropped as duplicates")
	m.gamesRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_rejected_total",
		Help:      "Total number of games rejected by reason",
	}, []string{"reason"})

	m.periodCloses = m.counter("period_closes_total", "Total number of closed rating periods")
	m.periodDuration = m.histogram("period_close_duration_milliseconds", "Duration of a rating period close in milliseconds", m.histogramBuckets)
	m.periodPlayers = m.gauge("period_players", "Number of players updated by the last period close")
	m.ratingUpdates = m.counter("rating_updates_total", "Total number of individual rating updates")
	m.solverIterations = m.histogram("solver_iterations", "Illinois iterations spent per volatility update",
		[]float64{0, 1, 2, 3, 4, 5, 6, 8, 10, 15, 20, 50, 100})
	m.pendingGames = m.gauge("pending_games", "Games recorded in the open rating period")
	m.totalPlayers = m.gauge("total_players", "Total number of rated players")
	m.currentPeriod = m.gauge("current_period", "Sequence number of the last closed period")
	m.repositoryUpdate = m.histogram("repository_update_latency_milliseconds", "Repository update latency in milliseconds", m.histogramBuckets)
	m.repositoryQuery = m.histogram("repository_query_latency_milliseconds", "Repository query latency in milliseconds", m.histogramBuckets)

	m.queueSize = m.gauge("queue_size", "Current size of the game queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity")
	m.queueEnqueue = m.counter("queue_enqueue_total", "Total number of games enqueued")
	m.queueDequeue = m.counter("queue_dequeue_total", "Total number of games dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of enqueue errors")
	m.workerCount = m.gauge("worker_count", "Current number of running workers")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Worker processing latency in milliseconds", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Total number of worker errors")

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Total number of errors by component",
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Current heap allocation in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Current number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds",
		[]float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50})
}

// RecordGameAccepted increments the accepted games counter.
func RecordGameAccepted() { globalManager.gamesAccepted.Inc() }

// RecordGameDuplicate increments the duplicate games counter.
func RecordGameDuplicate() { globalManager.gamesDuplicate.Inc() }

// RecordGameRejected counts a game rejected for reason.
func RecordGameRejected(reason string) { globalManager.gamesRejected.WithLabelValues(reason).Inc() }

// RecordPeriodClose records one closed period with its duration and the
// number of players it updated.
func RecordPeriodClose(durationMs float64, players int) {
	globalManager.periodCloses.Inc()
	globalManager.periodDuration.Observe(durationMs)
	globalManager.periodPlayers.Set(float64(players))
	globalManager.ratingUpdates.Add(float64(players))
}

// RecordSolverIterations observes the iteration count of one volatility solve.
func RecordSolverIterations(iterations int) {
	globalManager.solverIterations.Observe(float64(iterations))
}

// UpdatePendingGames sets the number of games waiting for the next close.
func UpdatePendingGames(count int) { globalManager.pendingGames.Set(float64(count)) }

// UpdateTotalPlayers sets the number of rated players.
func UpdateTotalPlayers(count int) { globalManager.totalPlayers.Set(float64(count)) }

// UpdateCurrentPeriod sets the last closed period number.
func UpdateCurrentPeriod(period int) { globalManager.currentPeriod.Set(float64(period)) }

// RecordRepositoryUpdateLatency records repository update latency.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	globalManager.repositoryUpdate.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records repository query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQuery.Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueue.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeue.Inc() }

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the current heap allocation.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records the average GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
