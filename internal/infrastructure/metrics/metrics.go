package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	organizationEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "organization_events_total",
			Help: "Organization lifecycle and join request events.",
		},
		[]string{"event"},
	)

	registerOnce sync.Once
)

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpInFlight, httpRequestsTotal, httpRequestDuration, organizationEvents)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RequestStarted() {
	httpInFlight.Inc()
}

// RequestFinished records one completed request. route is the matched route pattern, not the raw path.
func RequestFinished(method, route string, status int, elapsed time.Duration) {
	httpInFlight.Dec()
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, code).Inc()
	httpRequestDuration.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
}

// Event names recorded by the organization services.
const (
	EventOrganizationCreated = "organization_created"
	EventFirmApproved        = "firm_approved"
	EventFirmRejected        = "firm_rejected"
	EventFirmSuspended       = "firm_suspended"
	EventFirmUnsuspended     = "firm_unsuspended"
	EventFirmDeleted         = "firm_deleted"
	EventJoinRequested       = "join_requested"
	EventJoinApproved        = "join_approved"
	EventJoinRejected        = "join_rejected"
	EventMemberRevoked       = "member_revoked"
)

// OrganizationEvent counts one lifecycle event.
func OrganizationEvent(event string) {
	organizationEvents.WithLabelValues(event).Inc()
}
