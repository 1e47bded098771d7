package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "geoapi_http_duration_seconds",
	Help: "Duration of HTTP requests served by the relay.",
}, []string{"route", "status"})

// Metrics observes the latency of every request by route template, so
// /search/simple and /search/keyword_global share the "/search/:method"
// series.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			httpDuration.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Observe(v)
		}))
		defer timer.ObserveDuration()

		c.Next()
	}
}
