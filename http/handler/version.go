package handler

import "net/http"

// Build identity, set from main at startup.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func SetBuildInfo(version, commit, date string) {
	Version, Commit, Date = version, commit, date
}

func (api *API) RegisterVersionApi() {
	api.mux.HandleFunc("/api/version", api.handleVersion)
}

func (a *API) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJson(w, VersionResponse{Version: Version, Commit: Commit, Date: Date})
}
