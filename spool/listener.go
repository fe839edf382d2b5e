// Package spool implements the raw capture engine: a TCP listener on the
// standard raw printing port that writes each connection's payload to a
// uniquely named spool file, or discards it when the policy says so.
package spool

import (
	"errors"
	"fmt"
	"net"

	"github.com/dpankratov/miniraw/log"
	"github.com/dpankratov/miniraw/metrics"
)

// Port is the raw (JetDirect style) printing port. Not configurable.
const Port = 9100

// Listener owns the server socket. One goroutine per accepted connection; a
// stuck peer only ever pins its own session.
type Listener struct {
	policy *Policy
	dir    string
	addr   string
	ln     net.Listener
}

// NewListener returns a listener that spools into dir and consults policy on
// every dispatch.
func NewListener(policy *Policy, dir string) *Listener {
	return &Listener{
		policy: policy,
		dir:    dir,
		addr:   fmt.Sprintf(":%d", Port),
	}
}

// Start binds the capture port and begins accepting in the background. A
// bind failure is fatal for the caller: the port is fixed, so retrying
// cannot help.
func (l *Listener) Start() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("raw listener bind: %w", err)
	}
	l.ln = ln

	log.Infof("Started listener on port %d", Port)
	metrics.GetCollector().RecordEvent("info", fmt.Sprintf("Listener started on port %d", Port))

	go l.acceptLoop()
	return nil
}

// Stop closes the server socket, ending the accept loop. Running sessions
// finish on their own.
func (l *Listener) Stop() error {
	if l.ln == nil {
		return nil
	}
	return l.ln.Close()
}

func (l *Listener) acceptLoop() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Errorf("Accept failed: %v", err)
			continue
		}

		log.Infof("Incoming connection from %s", peerAddr(conn))
		metrics.GetCollector().RecordAccept()

		s := newSession(conn, l.policy.Discard(), l.dir)
		go s.run()
	}
}
