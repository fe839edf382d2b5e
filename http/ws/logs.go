package ws

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dpankratov/miniraw/log"
)

// The logs endpoint is the replacement for the log window of the original
// desktop build: every line the log package emits is fanned out to all
// connected clients.

type logClient struct {
	ws   *websocket.Conn
	send chan []byte
}

var (
	logHub    *LogHub
	logOnce   sync.Once
	logWriter *broadcastWriter
)

func newLogHub() *LogHub {
	return &LogHub{
		clients: map[*logClient]struct{}{},
		in:      make(chan []byte, 1024),
		reg:     make(chan *logClient),
		unreg:   make(chan *logClient),
		stop:    make(chan struct{}),
	}
}

// GetLogHub returns the singleton log hub.
func GetLogHub() *LogHub {
	logOnce.Do(func() {
		logHub = newLogHub()
		go logHub.run()
	})
	return logHub
}

func (h *LogHub) run() {
	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.reg:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()

		case c := <-h.unreg:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case msg := <-h.in:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Client's buffer is full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *LogHub) Stop() {
	select {
	case <-h.stop:
		return
	default:
		close(h.stop)
	}
}

// broadcastWriter adapts the hub to io.Writer so it can be attached as a log
// sink. Input is split into lines; a trailing partial line is held back until
// its newline arrives.
type broadcastWriter struct {
	h   *LogHub
	mu  sync.Mutex
	buf []byte
}

func (w *broadcastWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	w.buf = append(w.buf, p...)
	start := 0
	for {
		i := bytes.IndexByte(w.buf[start:], '\n')
		if i < 0 {
			break
		}
		end := start + i
		line := make([]byte, end-start)
		copy(line, w.buf[start:end])
		select {
		case w.h.in <- line:
		default:
			// Hub is backed up, drop the line rather than block logging
		}
		start = end + 1
	}
	if start > 0 {
		w.buf = append([]byte{}, w.buf[start:]...)
	}
	w.mu.Unlock()
	return len(p), nil
}

// LogWriter returns a writer that broadcasts to all connected clients.
func LogWriter() io.Writer {
	hub := GetLogHub()
	if logWriter == nil {
		logWriter = &broadcastWriter{h: hub}
	}
	return logWriter
}

// HandleLogsWebSocket streams log lines to a websocket client.
func HandleLogsWebSocket(w http.ResponseWriter, r *http.Request) {
	h := GetLogHub()
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade logs websocket: %v", err)
		return
	}

	c := &logClient{ws: conn, send: make(chan []byte, 256)}
	log.Tracef("Logs websocket client connected: %s", r.RemoteAddr)

	h.reg <- c
	go c.writePump()
	c.readPump(h)
}

// Shutdown stops the hub during application shutdown.
func Shutdown() {
	if logHub != nil {
		logHub.Stop()
	}
}

func (c *logClient) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *logClient) readPump(h *LogHub) {
	defer func() {
		h.unreg <- c
		c.ws.Close()
	}()

	c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Tracef("Websocket error: %v", err)
			}
			break
		}
	}
}
