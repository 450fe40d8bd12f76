package api

import (
	"net/http"

	"github.com/okian/netninja/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HandleHealth serves the Prometheus metrics of the process at GET /healthz.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
