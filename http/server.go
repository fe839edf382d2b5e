package http

import (
	"embed"
	"fmt"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/dpankratov/miniraw/config"
	"github.com/dpankratov/miniraw/http/handler"
	"github.com/dpankratov/miniraw/http/ws"
	"github.com/dpankratov/miniraw/log"
	"github.com/dpankratov/miniraw/metrics"
	"github.com/dpankratov/miniraw/spool"
)

//go:embed ui/dist/*
var uiDist embed.FS

// StartServer brings up the web UI: the status page, the REST API, and the
// websocket log/metrics streams. Returns nil when the web server is disabled.
func StartServer(cfg *config.Config, policy *spool.Policy) (*stdhttp.Server, error) {
	if cfg.WebServer.Port == 0 {
		log.Infof("Web server disabled (port 0)")
		return nil, nil
	}

	mux := stdhttp.NewServeMux()

	registerWebSocketEndpoints(mux)

	api := handler.NewAPIHandler(cfg, policy)
	api.RegisterEndpoints(mux)

	handler.RegisterSpa(mux, uiDist)

	var httpHandler stdhttp.Handler = mux
	httpHandler = cors(httpHandler)

	addr := fmt.Sprintf(":%d", cfg.WebServer.Port)
	log.Infof("Starting web server on %s", addr)
	metrics.GetCollector().RecordEvent("info", fmt.Sprintf("Web server started on port %d", cfg.WebServer.Port))

	srv := &stdhttp.Server{
		Addr:              addr,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			log.Errorf("Web server error: %v", err)
			metrics.GetCollector().RecordEvent("error", fmt.Sprintf("Web server error: %v", err))
		}
	}()

	return srv, nil
}

func registerWebSocketEndpoints(mux *stdhttp.ServeMux) {
	mux.HandleFunc("/api/ws/logs", ws.HandleLogsWebSocket)
	mux.HandleFunc("/api/ws/metrics", ws.HandleMetricsWebSocket)
}

func cors(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == stdhttp.MethodOptions {
			w.WriteHeader(stdhttp.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LogWriter exposes the websocket broadcast writer so main can attach it as
// a log sink.
func LogWriter() io.Writer {
	return ws.LogWriter()
}

func Shutdown() {
	ws.Shutdown()
}
