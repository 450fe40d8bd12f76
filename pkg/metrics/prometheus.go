// Package metrics provides Prometheus metrics for the NetNinja engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeCorrect = "correct"
	OutcomeWrong   = "wrong"
	OutcomeInvalid = "invalid"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace      string
	subsystem      string
	httpBuckets    []float64
	storageBuckets []float64
	enabled        bool
	constLabels    map[string]string
	registry       prometheus.Registerer

	// Gameplay
	puzzlesGenerated *prometheus.CounterVec
	puzzlesAnswered  *prometheus.CounterVec
	xpAwarded        *prometheus.CounterVec
	badgesUnlocked   *prometheus.CounterVec
	dailyCompletions prometheus.Counter
	activeRounds     *prometheus.GaugeVec
	firewallDamage   prometheus.Counter
	hintRequests     *prometheus.CounterVec

	// Player state
	playerXP     prometheus.Gauge
	playerLevel  prometheus.Gauge
	playerStreak prometheus.Gauge

	// Shop
	shopPurchases *prometheus.CounterVec
	shopEquips    *prometheus.CounterVec

	// Storage
	storageErrors  *prometheus.CounterVec
	storageLatency *prometheus.HistogramVec

	// Pending puzzle registry
	pendingPuzzles   prometheus.Gauge
	pendingEvictions prometheus.Counter

	// Reward queue and worker
	queueSize               prometheus.Gauge
	queueCapacity           prometheus.Gauge
	queueEnqueued           prometheus.Counter
	queueDequeued           prometheus.Counter
	queueEnqueueErrors      prometheus.Counter
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "netninja",
		subsystem:      "engine",
		httpBuckets:    []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		storageBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250},
		enabled:        true,
		constLabels:    map[string]string{},
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.puzzlesGenerated = m.counterVec("puzzles_generated_total", "Puzzles issued by kind", "kind")
	m.puzzlesAnswered = m.counterVec("puzzles_answered_total", "Answers checked by kind and outcome", "kind", "outcome")
	m.xpAwarded = m.counterVec("xp_awarded_total", "XP granted by source", "source")
	m.badgesUnlocked = m.counterVec("badges_unlocked_total", "Badges unlocked by id", "badge")
	m.dailyCompletions = m.counter("daily_completions_total", "Daily challenges completed")
	m.activeRounds = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "active_rounds",
		Help:        "Timer-driven rounds currently running by game",
		ConstLabels: m.constLabels,
	}, []string{"game"})
	m.firewallDamage = m.counter("firewall_damage_total", "Health lost in firewall rounds")
	m.hintRequests = m.counterVec("hint_requests_total", "Tutor requests by kind and outcome", "kind", "outcome")

	m.playerXP = m.gauge("player_xp", "Current player XP")
	m.playerLevel = m.gauge("player_level", "Current player level")
	m.playerStreak = m.gauge("player_streak", "Current daily streak")

	m.shopPurchases = m.counterVec("shop_purchases_total", "Purchase attempts by item and outcome", "item", "outcome")
	m.shopEquips = m.counterVec("shop_equips_total", "Equips by slot", "slot")

	m.storageErrors = m.counterVec("storage_errors_total", "Storage failures by operation", "op")
	m.storageLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "storage_latency_milliseconds",
		Help:        "Storage operation latency in milliseconds",
		Buckets:     m.storageBuckets,
		ConstLabels: m.constLabels,
	}, []string{"driver", "op"})

	m.pendingPuzzles = m.gauge("pending_puzzles", "Issued puzzles awaiting an answer")
	m.pendingEvictions = m.counter("pending_evictions_total", "Unanswered puzzles evicted by capacity")

	m.queueSize = m.gauge("reward_queue_size", "Current size of the reward queue")
	m.queueCapacity = m.gauge("reward_queue_capacity", "Maximum reward queue capacity")
	m.queueEnqueued = m.counter("reward_queue_enqueued_total", "Rewards enqueued")
	m.queueDequeued = m.counter("reward_queue_dequeued_total", "Rewards dequeued")
	m.queueEnqueueErrors = m.counter("reward_queue_enqueue_errors_total", "Rewards dropped on enqueue")
	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reward_worker_latency_milliseconds",
		Help:        "Time to apply one reward in milliseconds",
		Buckets:     m.storageBuckets,
		ConstLabels: m.constLabels,
	})
	m.workerErrors = m.counter("reward_worker_errors_total", "Rewards the worker failed to apply")

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.httpBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// Enabled reports whether recording is switched on.
func (m *Manager) Enabled() bool { return m.enabled }

func on() bool { return globalManager != nil && globalManager.enabled }

// RecordPuzzleGenerated counts an issued puzzle.
func RecordPuzzleGenerated(kind string) {
	if on() {
		globalManager.puzzlesGenerated.WithLabelValues(kind).Inc()
	}
}

// RecordPuzzleAnswered counts a checked answer.
func RecordPuzzleAnswered(kind, outcome string) {
	if on() {
		globalManager.puzzlesAnswered.WithLabelValues(kind, outcome).Inc()
	}
}

// RecordXPAwarded adds granted XP under source.
func RecordXPAwarded(source string, amount int) {
	if on() && amount > 0 {
		globalManager.xpAwarded.WithLabelValues(source).Add(float64(amount))
	}
}

// RecordBadgeUnlocked counts a newly earned badge.
func RecordBadgeUnlocked(badge string) {
	if on() {
		globalManager.badgesUnlocked.WithLabelValues(badge).Inc()
	}
}

// RecordDailyCompletion counts a completed daily challenge.
func RecordDailyCompletion() {
	if on() {
		globalManager.dailyCompletions.Inc()
	}
}

// UpdateActiveRounds moves the running round gauge of game by delta.
func UpdateActiveRounds(game string, delta int) {
	if on() {
		globalManager.activeRounds.WithLabelValues(game).Add(float64(delta))
	}
}

// RecordFirewallDamage adds health lost in a firewall round.
func RecordFirewallDamage(amount int) {
	if on() && amount > 0 {
		globalManager.firewallDamage.Add(float64(amount))
	}
}

// RecordHintRequest counts a tutor request.
func RecordHintRequest(kind, outcome string) {
	if on() {
		globalManager.hintRequests.WithLabelValues(kind, outcome).Inc()
	}
}

// UpdatePlayer sets the player state gauges.
func UpdatePlayer(xp, level, streak int) {
	if on() {
		globalManager.playerXP.Set(float64(xp))
		globalManager.playerLevel.Set(float64(level))
		globalManager.playerStreak.Set(float64(streak))
	}
}

// RecordPurchase counts a purchase attempt.
func RecordPurchase(item, outcome string) {
	if on() {
		globalManager.shopPurchases.WithLabelValues(item, outcome).Inc()
	}
}

// RecordEquip counts an equip into slot.
func RecordEquip(slot string) {
	if on() {
		globalManager.shopEquips.WithLabelValues(slot).Inc()
	}
}

// RecordStorageError counts a failed storage operation.
func RecordStorageError(op string) {
	if on() {
		globalManager.storageErrors.WithLabelValues(op).Inc()
	}
}

// RecordStorageLatency records a storage operation latency in milliseconds.
func RecordStorageLatency(driver, op string, latencyMs float64) {
	if on() {
		globalManager.storageLatency.WithLabelValues(driver, op).Observe(latencyMs)
	}
}

// UpdatePendingPuzzles sets the pending registry size.
func UpdatePendingPuzzles(n int) {
	if on() {
		globalManager.pendingPuzzles.Set(float64(n))
	}
}

// RecordPendingEviction counts a puzzle dropped for capacity.
func RecordPendingEviction() {
	if on() {
		globalManager.pendingEvictions.Inc()
	}
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	if on() {
		globalManager.queueSize.Set(float64(size))
	}
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	if on() {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	if on() {
		globalManager.queueEnqueued.Inc()
	}
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	if on() {
		globalManager.queueDequeued.Inc()
	}
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	if on() {
		globalManager.queueEnqueueErrors.Inc()
	}
}

// RecordWorkerProcessingLatency records reward application latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if on() {
		globalManager.workerProcessingLatency.Observe(latencyMs)
	}
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	if on() {
		globalManager.workerErrors.Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if on() {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if on() {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
