// Package metrics exposes Prometheus instrumentation for the dashboard.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Section outcomes
const (
	OutcomeReady     = "ready"
	OutcomeError     = "error"
	OutcomeDiscarded = "discarded"
)

var (
	// SectionLoadsTotal counts completed section loads by outcome.
	SectionLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capdash_section_loads_total",
			Help: "Total number of section loads by outcome",
		},
		[]string{"section", "outcome"},
	)

	// SectionLoadDuration tracks fetch-and-derive time per section.
	SectionLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "capdash_section_load_duration_seconds",
			Help:    "Duration of section fetch-and-derive cycles in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"section"},
	)

	// APIRequestsTotal counts calls to the forecast service.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capdash_api_requests_total",
			Help: "Total number of forecast service requests",
		},
		[]string{"endpoint", "status"},
	)

	// NormalizationIssuesTotal counts audit findings at the normalization boundary.
	NormalizationIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capdash_normalization_issues_total",
			Help: "Shape problems found in forecast service responses",
		},
		[]string{"schema"},
	)

	// AppStartTime records when the application started
	AppStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "capdash_app_start_time_seconds",
			Help: "Unix timestamp of when the application started",
		},
	)
)

func init() {
	AppStartTime.SetToCurrentTime()
}

// RecordSection records the outcome of one section load.
func RecordSection(section, outcome string, duration time.Duration) {
	SectionLoadsTotal.WithLabelValues(section, outcome).Inc()
	if outcome != OutcomeDiscarded {
		SectionLoadDuration.WithLabelValues(section).Observe(duration.Seconds())
	}
}

// RecordRequest records a forecast service call.
func RecordRequest(endpoint string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	APIRequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordIssues adds normalization audit findings for a schema.
func RecordIssues(schema string, n int) {
	if n > 0 {
		NormalizationIssuesTotal.WithLabelValues(schema).Add(float64(n))
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
