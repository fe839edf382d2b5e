package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Upgrader is shared by all websocket endpoints. The UI is served from the
// same process, but the origin check stays open so the API can be used from
// dev servers too.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type LogHub struct {
	mu      sync.RWMutex
	clients map[*logClient]struct{}
	in      chan []byte
	reg     chan *logClient
	unreg   chan *logClient
	stop    chan struct{}
}
