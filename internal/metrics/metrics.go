// Package metrics defines Prometheus metrics for the admin API.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "siteadmin_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteadmin_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	AccessDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteadmin_access_denied_total",
			Help: "Requests rejected by the permission gate",
		},
		[]string{"page", "level"},
	)

	AuditEntriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteadmin_audit_entries_total",
			Help: "Audit entries written, by action",
		},
		[]string{"action"},
	)

	AuditWriteFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteadmin_audit_write_failures_total",
			Help: "Audit entries that could not be persisted, by action",
		},
		[]string{"action"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteadmin_cache_lookups_total",
			Help: "Cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, AccessDenied,
		AuditEntriesTotal, AuditWriteFailures,
		CacheLookups,
	)
}
