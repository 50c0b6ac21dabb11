// Package metrics exposes Prometheus instrumentation for the application.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zipcode_api_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "zipcode_api_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	LookupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zipcode_api_lookups_total",
		Help: "Total zip code lookups",
	})
	LookupMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zipcode_api_lookup_misses_total",
		Help: "Total lookups for unknown zip codes",
	})
	ConversionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zipcode_api_conversions_total",
		Help: "Total planar to geodetic coordinate conversions",
	})
	DatasetRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "zipcode_api_dataset_records",
		Help: "Number of zip code records in the loaded dataset",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(LookupsTotal)
	prometheus.MustRegister(LookupMissesTotal)
	prometheus.MustRegister(ConversionsTotal)
	prometheus.MustRegister(DatasetRecords)
}

// Handler returns the Prometheus scrape handler, mounted at /metrics.
func Handler() http.Handler { return promhttp.Handler() }

// Middleware records request counts and durations per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	}
}
