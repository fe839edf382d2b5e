package handler

import (
	"net/http"

	"github.com/dpankratov/miniraw/config"
	"github.com/dpankratov/miniraw/spool"
)

type API struct {
	cfg    *config.Config
	policy *spool.Policy
	mux    *http.ServeMux
}

// ConfigResponse is the persisted config plus the live policy value; the two
// can diverge only between a toggle and the next save, but the UI renders
// the live one.
type ConfigResponse struct {
	*config.Config
	DiscardActive bool `json:"discard_active"`
}

type ConfigUpdateResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}

type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}
