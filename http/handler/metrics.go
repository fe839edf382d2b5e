package handler

import (
	"net/http"

	"github.com/dpankratov/miniraw/metrics"
)

func (api *API) RegisterMetricsApi() {
	api.mux.HandleFunc("/api/metrics", api.handleMetrics)
}

func (a *API) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJson(w, metrics.GetCollector().Snapshot())
}
