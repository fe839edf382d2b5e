package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dpankratov/miniraw/log"
	"github.com/dpankratov/miniraw/metrics"
)

func (api *API) RegisterConfigApi() {
	api.mux.HandleFunc("/api/config", api.handleConfig)
	api.mux.HandleFunc("/api/config/discard", api.handleDiscard)
}

func (a *API) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.getConfig(w)
	case http.MethodPut:
		a.updateConfig(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *API) getConfig(w http.ResponseWriter) {
	writeJson(w, ConfigResponse{
		Config:        a.cfg,
		DiscardActive: a.policy.Discard(),
	})
}

func (a *API) updateConfig(w http.ResponseWriter, r *http.Request) {
	updated := *a.cfg
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		http.Error(w, "invalid config payload", http.StatusBadRequest)
		return
	}
	if err := updated.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var warnings []string
	if updated.WebServer.Port != a.cfg.WebServer.Port {
		warnings = append(warnings, "web server port change takes effect after restart")
	}

	*a.cfg = updated
	a.applyRuntimeSettings()

	if err := a.cfg.SaveToFile(a.cfg.ConfigPath); err != nil {
		http.Error(w, "failed to persist config", http.StatusInternalServerError)
		return
	}

	metrics.GetCollector().RecordEvent("info", "Configuration updated via web UI")
	writeJson(w, ConfigUpdateResponse{
		Success:  true,
		Message:  "configuration saved",
		Warnings: warnings,
	})
}

// handleDiscard is the counterpart of the "Discard received files" menu item
// of the desktop build: flip the flag, persist it, report the new state.
func (a *API) handleDiscard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	flag := !a.policy.Discard()
	a.policy.SetDiscard(flag)
	a.cfg.Spool.Discard = flag
	log.Infof("Discard received files: %v", flag)

	if err := a.cfg.SaveToFile(a.cfg.ConfigPath); err != nil {
		http.Error(w, "failed to persist config", http.StatusInternalServerError)
		return
	}

	writeJson(w, map[string]bool{"discard": flag})
}

func (a *API) applyRuntimeSettings() {
	a.policy.SetDiscard(a.cfg.Spool.Discard)
	log.SetLevel(a.cfg.Logging.Level)
	log.SetInstaflush(a.cfg.Logging.Instaflush)
}
