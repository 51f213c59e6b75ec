package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campadmin_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campadmin_register_total",
			Help: "Total number of user registrations",
		},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campadmin_auth_errors_total",
			Help: "Total number of authentication and authorization errors",
		},
		[]string{"type"}, // "invalid_token", "unapproved", "page_denied", "db_error" etc.
	)

	// Permission decisions by outcome and reason
	PermissionDecisionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campadmin_permission_decisions_total",
			Help: "Total number of page permission decisions",
		},
		[]string{"decision", "page"}, // decision is "allow" or "deny"
	)

	// Company operation counter
	CompanyOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campadmin_company_operations_total",
			Help: "Total number of company operations",
		},
		[]string{"operation"}, // "load", "list", "switch", etc.
	)

	// Email operation counter
	EmailOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campadmin_email_operations_total",
			Help: "Total number of outbound email operations by status",
		},
		[]string{"status"}, // "sent", "logged", "failed"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campadmin_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campadmin_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campadmin_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active tokens
	ActiveTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "campadmin_active_tokens",
			Help: "Number of currently active authentication tokens",
		},
	)
)

// InitMetrics registers all metrics with the default registry.
func InitMetrics() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(PermissionDecisionCounter)
	prometheus.MustRegister(CompanyOperationCounter)
	prometheus.MustRegister(EmailOperationCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
	prometheus.MustRegister(ActiveTokensGauge)
}

// RecordAuthError increments the auth error counter for the given type
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// RecordPermissionDecision records an allow/deny page decision
func RecordPermissionDecision(allowed bool, page string) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	PermissionDecisionCounter.WithLabelValues(decision, page).Inc()
}

// RecordCompanyOperation increments the company operation counter
func RecordCompanyOperation(operation string) {
	CompanyOperationCounter.WithLabelValues(operation).Inc()
}

// RecordEmailOperation increments the email operation counter
func RecordEmailOperation(status string) {
	EmailOperationCounter.WithLabelValues(status).Inc()
}

// TrackDBOperation returns a function that records the duration of a
// database operation when called, for use with defer
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// IncreaseActiveTokens increments the active tokens gauge
func IncreaseActiveTokens() {
	ActiveTokensGauge.Inc()
}

// DecreaseActiveTokens decrements the active tokens gauge
func DecreaseActiveTokens() {
	ActiveTokensGauge.Dec()
}

// MetricsMiddleware records request counts and durations per endpoint.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			HTTPRequestCounter.WithLabelValues(endpoint, method, status).Inc()
			RequestDuration.WithLabelValues(endpoint, method, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// GetPrometheusHandler returns an HTTP handler for exposing metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
