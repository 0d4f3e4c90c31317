// Package metrics provides Prometheus metrics for the careermap service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Recommendation service calls
	recommenderCalls   *prometheus.CounterVec
	recommenderLatency *prometheus.HistogramVec

	// Dashboard behaviour
	staleResponses       *prometheus.CounterVec
	notifications        *prometheus.CounterVec
	stepToggles          prometheus.Counter
	assessmentsSubmitted *prometheus.CounterVec

	// Sessions
	sessionsActive  prometheus.Gauge
	sessionsCreated prometheus.Counter
	sessionsEvicted prometheus.Counter

	// Fetch queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueued          prometheus.Counter
	queueDequeued          prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Workers
	workerActiveCount       prometheus.Gauge
	workerTasksPerSecond    prometheus.Gauge
	workerProcessingLatency *prometheus.HistogramVec
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// customRegistry keeps the default Go collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "careermap",
		subsystem:        "service",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// RefreshInterval reports how often gauge refreshers should run.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.recommenderCalls = auto.NewCounterVec(
		m.counterOpts("recommender_calls_total", "Recommendation service calls by operation and outcome"),
		[]string{"operation", "outcome"},
	)
	m.recommenderLatency = auto.NewHistogramVec(
		m.histogramOpts("recommender_latency_milliseconds", "Recommendation service call latency in milliseconds"),
		[]string{"operation"},
	)

	m.staleResponses = auto.NewCounterVec(
		m.counterOpts("dashboard_stale_responses_total", "Fetch results discarded because the selection moved on"),
		[]string{"kind"},
	)
	m.notifications = auto.NewCounterVec(
		m.counterOpts("dashboard_notifications_total", "Non-fatal notifications raised to users"),
		[]string{"kind"},
	)
	m.stepToggles = auto.NewCounter(m.counterOpts("roadmap_step_toggles_total", "Roadmap step completion toggles"))
	m.assessmentsSubmitted = auto.NewCounterVec(
		m.counterOpts("assessments_submitted_total", "Assessment submissions by outcome"),
		[]string{"outcome"},
	)

	m.sessionsActive = auto.NewGauge(m.gaugeOpts("sessions_active", "Sessions currently held in memory"))
	m.sessionsCreated = auto.NewCounter(m.counterOpts("sessions_created_total", "Sessions created"))
	m.sessionsEvicted = auto.NewCounter(m.counterOpts("sessions_evicted_total", "Sessions evicted to respect the session cap"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Fetch tasks waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (size / capacity)"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Fetch tasks enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Fetch tasks dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Rejected enqueue attempts"))
	m.queueProcessingLatency = auto.NewHistogram(m.histogramOpts("queue_processing_latency_milliseconds", "Enqueue latency in milliseconds"))

	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Number of running workers"))
	m.workerTasksPerSecond = auto.NewGauge(m.gaugeOpts("worker_tasks_per_second", "Average tasks completed per second"))
	m.workerProcessingLatency = auto.NewHistogramVec(
		m.histogramOpts("worker_processing_latency_milliseconds", "Task run time in milliseconds"),
		[]string{"kind"},
	)
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Tasks that panicked or failed"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that ended in an error"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Recommendation service.

// RecordRecommenderCall counts one call; outcome is "ok" or "error".
func RecordRecommenderCall(operation, outcome string) {
	globalManager.recommenderCalls.WithLabelValues(operation, outcome).Inc()
}

// RecordRecommenderLatency records call latency in milliseconds.
func RecordRecommenderLatency(operation string, latencyMs float64) {
	globalManager.recommenderLatency.WithLabelValues(operation).Observe(latencyMs)
}

// Dashboard.

// RecordStaleResponse counts a fetch result dropped for a stale selection.
func RecordStaleResponse(kind string) {
	globalManager.staleResponses.WithLabelValues(kind).Inc()
}

// RecordNotification counts a notification raised to the user.
func RecordNotification(kind string) {
	globalManager.notifications.WithLabelValues(kind).Inc()
}

// RecordStepToggle counts a roadmap step toggle.
func RecordStepToggle() {
	globalManager.stepToggles.Inc()
}

// RecordAssessmentSubmitted counts an assessment submission.
func RecordAssessmentSubmitted(outcome string) {
	globalManager.assessmentsSubmitted.WithLabelValues(outcome).Inc()
}

// Sessions.

// UpdateSessionsActive sets the number of live sessions.
func UpdateSessionsActive(count int) {
	globalManager.sessionsActive.Set(float64(count))
}

// RecordSessionCreated counts a new session.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

// RecordSessionEvicted counts a session dropped by the store cap.
func RecordSessionEvicted() {
	globalManager.sessionsEvicted.Inc()
}

// Queue.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records enqueue latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Workers.

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerTasksPerSecond sets the observed task throughput.
func UpdateWorkerTasksPerSecond(rate float64) {
	globalManager.workerTasksPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency records how long a task of kind ran.
func RecordWorkerProcessingLatency(kind string, latencyMs float64) {
	globalManager.workerProcessingLatency.WithLabelValues(kind).Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Errors.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System.

// UpdateSystemMemoryUsage sets the heap usage in bytes.
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

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}
