package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the volunteer
// matching store.
type MetricsRegistry struct {
	// Store Metrics
	StoreOpsTotal   prometheus.CounterVec
	StoreOpDuration prometheus.HistogramVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Business Metrics
	RequestsCreatedTotal  prometheus.Counter
	ViewsLoggedTotal      prometheus.Counter
	ShortlistsLoggedTotal prometheus.Counter
	MatchesDecidedTotal   prometheus.CounterVec
	ClaimsSettledTotal    prometheus.Counter
	DisputesFiledTotal    prometheus.Counter
	OTPIssuedTotal        prometheus.Counter
}

// NewMetricsRegistry initializes a MetricsRegistry against the given
// registerer. Tests pass prometheus.NewRegistry() so repeated setups
// never trip duplicate registration.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// Store Metrics
		StoreOpsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vms_store_ops_total",
				Help: "Total store operations by kind and outcome",
			},
			[]string{"operation", "outcome"},
		),
		StoreOpDuration: *factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vms_store_op_duration_seconds",
				Help:    "Store operation execution time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"operation"},
		),

		// Cache Metrics
		CacheHitsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vms_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vms_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		RequestsCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vms_requests_created_total",
				Help: "Total service requests filed",
			},
		),
		ViewsLoggedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vms_views_logged_total",
				Help: "Total request view events recorded",
			},
		),
		ShortlistsLoggedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vms_shortlists_logged_total",
				Help: "Total shortlist events recorded",
			},
		),
		MatchesDecidedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vms_matches_decided_total",
				Help: "Total match decisions by outcome",
			},
			[]string{"decision"},
		),
		ClaimsSettledTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vms_claims_settled_total",
				Help: "Total claims that reached both approvals",
			},
		),
		DisputesFiledTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vms_disputes_filed_total",
				Help: "Total disputes filed against claims",
			},
		),
		OTPIssuedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vms_otp_issued_total",
				Help: "Total one-time codes issued",
			},
		),
	}
}

// ObserveOp records one store operation's latency and outcome. Services
// call it with the time the operation started.
func (m *MetricsRegistry) ObserveOp(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.StoreOpsTotal.WithLabelValues(operation, outcome).Inc()
	m.StoreOpDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
