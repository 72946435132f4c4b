package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess              = "success"
	OutcomeFallback             = "fallback"
	OutcomeConfigurationMissing = "configuration_missing"
	OutcomeServiceUnavailable   = "service_unavailable"
)

var (
	Generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spark_generations_total",
			Help: "Blueprint generations by outcome",
		},
		[]string{"outcome"}, // success|fallback|configuration_missing|service_unavailable
	)
	GenerationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spark_generation_duration_seconds",
			Help:    "Duration of upstream generation calls",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8), // 0.5s..64s
		},
	)
	InFlightRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "spark_in_flight_rejections_total",
			Help: "Requests rejected because the caller already had one in flight",
		},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spark_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		Generations,
		GenerationDurationSeconds,
		InFlightRejections,
		HTTPRequests,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveGeneration(outcome string, d time.Duration) {
	Generations.WithLabelValues(outcome).Inc()
	GenerationDurationSeconds.Observe(d.Seconds())
}

func IncInFlightRejection() {
	InFlightRejections.Inc()
}

func IncHTTPRequest(route string, status int) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
