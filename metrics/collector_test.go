package metrics

import (
	"fmt"
	"testing"
	"time"
)

func TestSessionCounters(t *testing.T) {
	m := NewCollector()

	m.RecordAccept()
	m.RecordSaved("id-1", "127.0.0.1:5000", "1700000000.spl", 512)
	m.RecordAccept()
	m.RecordDiscarded("id-2", "127.0.0.1:5001", 1000)
	m.RecordAccept()
	m.RecordEmpty("id-3", "127.0.0.1:5002", "1700000001.spl")
	m.RecordAccept()
	m.RecordError("id-4", "127.0.0.1:5003", 7)

	snap := m.Snapshot()
	if snap.TotalSessions != 4 {
		t.Errorf("TotalSessions = %d, want 4", snap.TotalSessions)
	}
	if snap.ActiveSessions != 0 {
		t.Errorf("ActiveSessions = %d, want 0", snap.ActiveSessions)
	}
	if snap.FilesSaved != 1 || snap.BytesSaved != 512 {
		t.Errorf("saved = %d files / %d bytes, want 1 / 512", snap.FilesSaved, snap.BytesSaved)
	}
	if snap.SessionsDiscarded != 1 || snap.BytesDiscarded != 1000 {
		t.Errorf("discarded = %d sessions / %d bytes, want 1 / 1000", snap.SessionsDiscarded, snap.BytesDiscarded)
	}
	if snap.EmptyFilesRemoved != 1 {
		t.Errorf("EmptyFilesRemoved = %d, want 1", snap.EmptyFilesRemoved)
	}
	if snap.SessionErrors != 1 {
		t.Errorf("SessionErrors = %d, want 1", snap.SessionErrors)
	}
	if len(snap.RecentSessions) != 4 {
		t.Fatalf("RecentSessions = %d entries, want 4", len(snap.RecentSessions))
	}
	if snap.RecentSessions[0].Outcome != "saved" || snap.RecentSessions[0].File != "1700000000.spl" {
		t.Errorf("unexpected first session entry: %+v", snap.RecentSessions[0])
	}
}

func TestRecentRingsTrim(t *testing.T) {
	m := NewCollector()

	for i := 0; i < maxRecentSessions+10; i++ {
		m.RecordAccept()
		m.RecordSaved(fmt.Sprintf("id-%d", i), "peer", "file.spl", 1)
	}
	for i := 0; i < maxRecentEvents+10; i++ {
		m.RecordEvent("info", fmt.Sprintf("event %d", i))
	}

	snap := m.Snapshot()
	if len(snap.RecentSessions) != maxRecentSessions {
		t.Errorf("RecentSessions = %d entries, want %d", len(snap.RecentSessions), maxRecentSessions)
	}
	if len(snap.RecentEvents) != maxRecentEvents {
		t.Errorf("RecentEvents = %d entries, want %d", len(snap.RecentEvents), maxRecentEvents)
	}
	last := snap.RecentEvents[len(snap.RecentEvents)-1]
	if last.Message != fmt.Sprintf("event %d", maxRecentEvents+9) {
		t.Errorf("ring dropped the wrong end: %q", last.Message)
	}
}

func TestRateUpdate(t *testing.T) {
	m := NewCollector()
	m.lastUpdate = time.Now().Add(-1 * time.Second)
	for i := 0; i < 5; i++ {
		m.RecordAccept()
	}

	m.updateRates()

	snap := m.Snapshot()
	if snap.CurrentSPS <= 0 {
		t.Errorf("CurrentSPS = %f, want > 0", snap.CurrentSPS)
	}
	if len(snap.SessionRate) != 1 {
		t.Errorf("SessionRate = %d points, want 1", len(snap.SessionRate))
	}
	if snap.Uptime == "" {
		t.Error("Uptime not set by updateRates")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{90 * time.Second, "00:01:30"},
		{3*time.Hour + 4*time.Minute + 5*time.Second, "03:04:05"},
		{26*time.Hour + 30*time.Minute, "1d 02:30:00"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.in); got != tc.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
