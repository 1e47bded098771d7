package whttp

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/manzanit0/geoapi/pkg/geoapi"
)

var upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "geoapi_upstream_duration_seconds",
	Help: "Duration of requests made to upstream services.",
}, []string{"host", "method", "status"})

// MetricsRoundTripper records the latency of every outbound request. Failed
// requests are recorded with status "error".
//
// Requests are labelled by GeoAPI method, never by path: entity searches
// carry a guid in the path.
type MetricsRoundTripper struct {
	Proxied http.RoundTripper
}

func (mrt MetricsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	status := "error"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		upstreamDuration.WithLabelValues(req.URL.Host, methodLabel(req), status).Observe(v)
	}))
	defer timer.ObserveDuration()

	res, err := mrt.Proxied.RoundTrip(req)
	if err == nil {
		status = strconv.Itoa(res.StatusCode)
	}

	return res, err
}

func methodLabel(req *http.Request) string {
	if m := geoapi.MethodFromContext(req.Context()); m != "" {
		return m
	}

	return "other"
}
