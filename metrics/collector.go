package metrics

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

const (
	maxRecentSessions = 20
	maxRecentEvents   = 20
	maxRatePoints     = 60
)

// Collector aggregates spool activity for the web UI.
type Collector struct {
	TotalSessions     uint64 `json:"total_sessions"`
	ActiveSessions    uint64 `json:"active_sessions"`
	FilesSaved        uint64 `json:"files_saved"`
	BytesSaved        uint64 `json:"bytes_saved"`
	SessionsDiscarded uint64 `json:"sessions_discarded"`
	BytesDiscarded    uint64 `json:"bytes_discarded"`
	EmptyFilesRemoved uint64 `json:"empty_files_removed"`
	SessionErrors     uint64 `json:"session_errors"`

	CurrentSPS  float64           `json:"current_sps"`
	SessionRate []TimeSeriesPoint `json:"session_rate"`

	StartTime      time.Time     `json:"start_time"`
	Uptime         string        `json:"uptime"`
	MemoryUsage    MemoryStats   `json:"memory_usage"`
	RecentSessions []SessionLog  `json:"recent_sessions"`
	RecentEvents   []SystemEvent `json:"recent_events"`

	mu               sync.RWMutex
	lastUpdate       time.Time
	lastSessionCount uint64
}

type TimeSeriesPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

type MemoryStats struct {
	Allocated      uint64  `json:"allocated"`
	TotalAllocated uint64  `json:"total_allocated"`
	System         uint64  `json:"system"`
	Percent        float64 `json:"percent"`
	HeapAlloc      uint64  `json:"heap_alloc"`
	HeapInuse      uint64  `json:"heap_inuse"`
	NumGC          uint32  `json:"num_gc"`
}

// SessionLog is one finished capture session as shown in the UI.
type SessionLog struct {
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"id"`
	Peer      string    `json:"peer"`
	File      string    `json:"file,omitempty"`
	Bytes     int64     `json:"bytes"`
	Outcome   string    `json:"outcome"` // "saved", "discarded", "empty", "error"
}

type SystemEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

var (
	collector     *Collector
	collectorOnce sync.Once
)

// GetCollector returns the process-wide collector, starting its update loop
// on first use.
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = NewCollector()
		go collector.updateLoop()
	})
	return collector
}

// NewCollector returns a collector without the background rate loop. Callers
// other than tests should use GetCollector.
func NewCollector() *Collector {
	return &Collector{
		StartTime:      time.Now(),
		SessionRate:    make([]TimeSeriesPoint, 0, maxRatePoints),
		RecentSessions: make([]SessionLog, 0, maxRecentSessions),
		RecentEvents:   make([]SystemEvent, 0, maxRecentEvents),
		lastUpdate:     time.Now(),
	}
}

func (m *Collector) updateLoop() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.updateRates()
		m.updateSystemStats()
	}
}

func (m *Collector) updateRates() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	duration := now.Sub(m.lastUpdate).Seconds()
	if duration <= 0 {
		return
	}

	m.CurrentSPS = float64(m.TotalSessions-m.lastSessionCount) / duration

	m.SessionRate = append(m.SessionRate, TimeSeriesPoint{
		Timestamp: now.UnixMilli(),
		Value:     m.CurrentSPS,
	})
	if len(m.SessionRate) > maxRatePoints {
		m.SessionRate = m.SessionRate[len(m.SessionRate)-maxRatePoints:]
	}

	m.lastUpdate = now
	m.lastSessionCount = m.TotalSessions
	m.Uptime = formatDuration(now.Sub(m.StartTime))
}

func (m *Collector) updateSystemStats() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.MemoryUsage = MemoryStats{
		Allocated:      memStats.Alloc,
		TotalAllocated: memStats.TotalAlloc,
		System:         memStats.Sys,
		NumGC:          memStats.NumGC,
		HeapAlloc:      memStats.HeapAlloc,
		HeapInuse:      memStats.HeapInuse,
		Percent:        float64(memStats.Alloc) / float64(memStats.Sys) * 100,
	}
}

// RecordAccept marks a session as started.
func (m *Collector) RecordAccept() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalSessions++
	m.ActiveSessions++
}

// RecordSaved finishes a session that kept its spool file.
func (m *Collector) RecordSaved(id, peer, file string, bytes int64) {
	m.finishSession(SessionLog{ID: id, Peer: peer, File: file, Bytes: bytes, Outcome: "saved"}, func() {
		m.FilesSaved++
		m.BytesSaved += uint64(bytes)
	})
}

// RecordDiscarded finishes a session that ran with the discard policy on.
func (m *Collector) RecordDiscarded(id, peer string, bytes int64) {
	m.finishSession(SessionLog{ID: id, Peer: peer, Bytes: bytes, Outcome: "discarded"}, func() {
		m.SessionsDiscarded++
		m.BytesDiscarded += uint64(bytes)
	})
}

// RecordEmpty finishes a session whose spool file was removed for being empty.
func (m *Collector) RecordEmpty(id, peer, file string) {
	m.finishSession(SessionLog{ID: id, Peer: peer, File: file, Outcome: "empty"}, func() {
		m.EmptyFilesRemoved++
	})
}

// RecordError finishes a session abandoned on an I/O or allocation error.
func (m *Collector) RecordError(id, peer string, bytes int64) {
	m.finishSession(SessionLog{ID: id, Peer: peer, Bytes: bytes, Outcome: "error"}, func() {
		m.SessionErrors++
	})
}

func (m *Collector) finishSession(entry SessionLog, apply func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ActiveSessions > 0 {
		m.ActiveSessions--
	}
	apply()

	entry.Timestamp = time.Now()
	m.RecentSessions = append(m.RecentSessions, entry)
	if len(m.RecentSessions) > maxRecentSessions {
		m.RecentSessions = m.RecentSessions[len(m.RecentSessions)-maxRecentSessions:]
	}
}

// Snapshot is a copy of the collector state, safe to marshal while sessions
// keep recording.
type Snapshot struct {
	TotalSessions     uint64 `json:"total_sessions"`
	ActiveSessions    uint64 `json:"active_sessions"`
	FilesSaved        uint64 `json:"files_saved"`
	BytesSaved        uint64 `json:"bytes_saved"`
	SessionsDiscarded uint64 `json:"sessions_discarded"`
	BytesDiscarded    uint64 `json:"bytes_discarded"`
	EmptyFilesRemoved uint64 `json:"empty_files_removed"`
	SessionErrors     uint64 `json:"session_errors"`

	CurrentSPS  float64           `json:"current_sps"`
	SessionRate []TimeSeriesPoint `json:"session_rate"`

	StartTime      time.Time     `json:"start_time"`
	Uptime         string        `json:"uptime"`
	MemoryUsage    MemoryStats   `json:"memory_usage"`
	RecentSessions []SessionLog  `json:"recent_sessions"`
	RecentEvents   []SystemEvent `json:"recent_events"`
}

func (m *Collector) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		TotalSessions:     m.TotalSessions,
		ActiveSessions:    m.ActiveSessions,
		FilesSaved:        m.FilesSaved,
		BytesSaved:        m.BytesSaved,
		SessionsDiscarded: m.SessionsDiscarded,
		BytesDiscarded:    m.BytesDiscarded,
		EmptyFilesRemoved: m.EmptyFilesRemoved,
		SessionErrors:     m.SessionErrors,
		CurrentSPS:        m.CurrentSPS,
		SessionRate:       append([]TimeSeriesPoint(nil), m.SessionRate...),
		StartTime:         m.StartTime,
		Uptime:            m.Uptime,
		MemoryUsage:       m.MemoryUsage,
		RecentSessions:    append([]SessionLog(nil), m.RecentSessions...),
		RecentEvents:      append([]SystemEvent(nil), m.RecentEvents...),
	}
}

// RecordEvent appends a system event to the recent-events ring.
func (m *Collector) RecordEvent(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RecentEvents = append(m.RecentEvents, SystemEvent{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	})
	if len(m.RecentEvents) > maxRecentEvents {
		m.RecentEvents = m.RecentEvents[len(m.RecentEvents)-maxRecentEvents:]
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
