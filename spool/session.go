package spool

import (
	"errors"
	"io"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dpankratov/miniraw/log"
	"github.com/dpankratov/miniraw/metrics"
)

// Sessions copy in 32 KiB chunks, matching the original MiniRAW builds.
const copyBufSize = 32 * 1024

// session handles exactly one accepted connection. The discard value is the
// policy snapshot taken at dispatch; toggling the policy mid-copy does not
// affect a running session.
type session struct {
	id      string
	conn    net.Conn
	peer    string
	discard bool
	dir     string
}

func newSession(conn net.Conn, discard bool, dir string) *session {
	return &session{
		id:      uuid.New().String(),
		conn:    conn,
		peer:    peerAddr(conn),
		discard: discard,
		dir:     dir,
	}
}

func (s *session) run() {
	defer s.conn.Close()
	log.Tracef("Session %s from %s: discard=%v", s.id, s.peer, s.discard)
	if s.discard {
		s.drain()
		return
	}
	s.save()
}

// drain consumes the stream without touching the filesystem.
func (s *session) drain() {
	n, err := io.Copy(io.Discard, s.conn)
	if err != nil {
		log.Errorf("Error reading from %s: %v", s.peer, err)
		metrics.GetCollector().RecordError(s.id, s.peer, n)
		return
	}
	log.Infof("Discarded %d bytes", n)
	metrics.GetCollector().RecordDiscarded(s.id, s.peer, n)
}

// save streams the connection into a freshly allocated spool file and
// finalizes it: an empty file is removed, a partial file after a copy error
// stays on disk.
func (s *session) save() {
	f, name, err := createSpoolFile(s.dir, time.Now())
	if err != nil {
		log.Errorf("Failed to create spool file in %s: %v", s.dir, err)
		metrics.GetCollector().RecordError(s.id, s.peer, 0)
		return
	}

	buf := make([]byte, copyBufSize)
	n, copyErr := io.CopyBuffer(f, s.conn, buf)
	closeErr := f.Close()

	if copyErr != nil {
		// Whatever was written stays in place.
		log.Errorf("Error saving into %s: %v", name, copyErr)
		metrics.GetCollector().RecordError(s.id, s.peer, n)
		return
	}
	if closeErr != nil {
		log.Errorf("Error closing %s: %v", name, closeErr)
		metrics.GetCollector().RecordError(s.id, s.peer, n)
		return
	}

	if n == 0 {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Errorf("Failed to remove empty file %s: %v", name, err)
		}
		log.Warnf("Removed empty file %s", name)
		metrics.GetCollector().RecordEmpty(s.id, s.peer, name)
		return
	}

	log.Infof("Saved %d bytes into %s", n, name)
	metrics.GetCollector().RecordSaved(s.id, s.peer, name, n)
}

func peerAddr(c net.Conn) string {
	if a := c.RemoteAddr(); a != nil {
		return a.String()
	}
	return "unknown"
}
