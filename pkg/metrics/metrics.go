package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	cadConverter = "cad_converter"

	// Conversion metrics
	conversionsTotal   = "conversions_total"
	conversionDuration = "conversion_duration_seconds"

	// CAD service metrics
	cadRequestsTotal = "cad_requests_total"

	// Labels
	conversionStatusLabel = "status"
	cadStatusCodeLabel    = "code"
)

/**
* Metrics definition
**/
var conversionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: cadConverter,
		Name:      conversionsTotal,
		Help:      "number of conversion requests partitioned by terminal status",
	},
	[]string{conversionStatusLabel},
)

var conversionDurationMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: cadConverter,
		Name:      conversionDuration,
		Help:      "end to end duration of the conversion pipeline in seconds",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
	},
)

var cadRequestsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: cadConverter,
		Name:      cadRequestsTotal,
		Help:      "number of outbound CAD service requests partitioned by HTTP status code",
	},
	[]string{cadStatusCodeLabel},
)

func IncreaseConversionsTotalMetric(status string) {
	conversionsTotalMetric.With(prometheus.Labels{conversionStatusLabel: status}).Inc()
}

func ObserveConversionDurationMetric(d time.Duration) {
	conversionDurationMetric.Observe(d.Seconds())
}

func IncreaseCadRequestsTotalMetric(code string) {
	cadRequestsTotalMetric.With(prometheus.Labels{cadStatusCodeLabel: code}).Inc()
}

// NewPrometheusMetricsHandler exposes the default registry, which carries both
// the middleware collectors and the conversion metrics above.
func NewPrometheusMetricsHandler() http.Handler {
	return promhttp.Handler()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(conversionsTotalMetric)
	prometheus.MustRegister(conversionDurationMetric)
	prometheus.MustRegister(cadRequestsTotalMetric)
}
