// Package observability holds the Prometheus metrics exposed on /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPRequests counts API requests by route and status class.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kyatbook",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by route and status code.",
}, []string{"route", "status"})

// HTTPDuration tracks request latency per route.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "kyatbook",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route.",
	Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
}, []string{"route"})

// RecordsCreated counts transfer records saved, by payment channel.
var RecordsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kyatbook",
	Subsystem: "records",
	Name:      "created_total",
	Help:      "Total transfer records created by payment channel.",
}, []string{"pay"})

// FeeResolutions counts fee lookups by outcome (hit or miss).
var FeeResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kyatbook",
	Subsystem: "fees",
	Name:      "resolutions_total",
	Help:      "Total fee bracket resolutions by outcome.",
}, []string{"outcome"})

// ReportsGenerated counts date-range report queries.
var ReportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "kyatbook",
	Subsystem: "reports",
	Name:      "generated_total",
	Help:      "Total report queries served.",
})

// ExportsGenerated counts report exports by file type.
var ExportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kyatbook",
	Subsystem: "reports",
	Name:      "exports_total",
	Help:      "Total report exports by file type.",
}, []string{"format"})

// LedgerSyncs counts worker ledger writes by result.
var LedgerSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kyatbook",
	Subsystem: "sync",
	Name:      "ledger_writes_total",
	Help:      "Total external ledger writes by result.",
}, []string{"result"})
