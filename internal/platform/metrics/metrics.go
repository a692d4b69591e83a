package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// Methods are nil-safe so tests can pass a nil *Metrics.
type Metrics struct {
	UsersRegistered prometheus.Counter
	Logins          *prometheus.CounterVec
	TaskOperations  *prometheus.CounterVec
	RequestLatency  *prometheus.HistogramVec
	CacheRequests   *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_users_registered_total",
			Help: "Total number of users registered",
		}),
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_logins_total",
			Help: "Total login attempts by outcome",
		}, []string{"outcome"}), // outcome: "success", "failure"
		TaskOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_task_operations_total",
			Help: "Total task store operations by kind",
		}, []string{"operation"}), // operation: "create", "list", "update", "delete"
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskboard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),
		CacheRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_task_cache_requests_total",
			Help: "Task list cache lookups by result",
		}, []string{"result"}), // result: "hit", "miss"
	}
}

// IncrementUsersRegistered increments the registration counter by 1.
func (m *Metrics) IncrementUsersRegistered() {
	if m != nil {
		m.UsersRegistered.Inc()
	}
}

// IncrementLogin records a login attempt outcome.
func (m *Metrics) IncrementLogin(outcome string) {
	if m != nil {
		m.Logins.WithLabelValues(outcome).Inc()
	}
}

// IncrementTaskOperation records a task store operation.
func (m *Metrics) IncrementTaskOperation(operation string) {
	if m != nil {
		m.TaskOperations.WithLabelValues(operation).Inc()
	}
}

// ObserveRequestLatency records the duration of an HTTP request.
func (m *Metrics) ObserveRequestLatency(route, status string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, status).Observe(d.Seconds())
	}
}

// IncrementCacheRequest records a task cache hit or miss.
func (m *Metrics) IncrementCacheRequest(result string) {
	if m != nil {
		m.CacheRequests.WithLabelValues(result).Inc()
	}
}
