// AngelaMos | 2026
// metrics.go

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ewastex",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ewastex",
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration)
}

// Metrics records request counts and latency labelled by chi route pattern
// so path parameters do not explode cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := wrapWriter(w)

		next.ServeHTTP(rec, r)

		route := routePattern(r)
		httpRequestsTotal.WithLabelValues(
			route,
			r.Method,
			strconv.Itoa(rec.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(route, r.Method).
			Observe(time.Since(start).Seconds())
	})
}
