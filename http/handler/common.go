package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dpankratov/miniraw/config"
	"github.com/dpankratov/miniraw/log"
	"github.com/dpankratov/miniraw/spool"
)

func NewAPIHandler(cfg *config.Config, policy *spool.Policy) *API {
	return &API{
		cfg:    cfg,
		policy: policy,
	}
}

func (api *API) RegisterEndpoints(mux *http.ServeMux) {
	api.mux = mux
	api.RegisterConfigApi()
	api.RegisterMetricsApi()
	api.RegisterVersionApi()
}

func setJsonHeader(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
}

func writeJson(w http.ResponseWriter, v any) {
	setJsonHeader(w)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}
