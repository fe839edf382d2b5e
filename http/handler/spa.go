package handler

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/dpankratov/miniraw/log"
)

// RegisterSpa serves the embedded status page at the root.
func RegisterSpa(mux *http.ServeMux, dist embed.FS) {
	sub, err := fs.Sub(dist, "ui/dist")
	if err != nil {
		log.Errorf("Failed to mount embedded UI: %v", err)
		return
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))
}
