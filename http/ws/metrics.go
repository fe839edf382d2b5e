package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dpankratov/miniraw/log"
	"github.com/dpankratov/miniraw/metrics"
)

// HandleMetricsWebSocket pushes a metrics snapshot to the client once a
// second until the connection goes away.
func HandleMetricsWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade metrics websocket: %v", err)
		return
	}
	log.Tracef("Metrics websocket client connected: %s", r.RemoteAddr)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(1 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			snap := metrics.GetCollector().Snapshot()
			data, err := json.Marshal(snap)
			if err != nil {
				log.Errorf("Failed to marshal metrics snapshot: %v", err)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
