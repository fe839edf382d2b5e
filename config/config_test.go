package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dpankratov/miniraw/log"
	"github.com/google/go-cmp/cmp"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Spool.Discard {
		t.Error("discard should default to off")
	}
	if cfg.Logging.Level != log.LevelInfo {
		t.Errorf("default log level = %d, want %d", cfg.Logging.Level, log.LevelInfo)
	}
	if cfg.WebServer.Port != 0 {
		t.Errorf("web server should default to disabled, got port %d", cfg.WebServer.Port)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miniraw.json")

	cfg := NewConfig()
	cfg.Spool.Discard = true
	cfg.Logging.Level = log.LevelTrace
	cfg.WebServer.Port = 8080

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := NewConfig()
	if err := loaded.LoadFromFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("config changed across save/load (-saved +loaded):\n%s", diff)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg := NewConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing config file should not be an error, got %v", err)
	}
	if diff := cmp.Diff(NewConfig(), cfg); diff != "" {
		t.Errorf("defaults changed by loading a missing file:\n%s", diff)
	}
}

func TestLoadRejectsDirectory(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.LoadFromFile(t.TempDir()); err == nil {
		t.Error("loading a directory should fail")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miniraw.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := NewConfig()
	if err := cfg.LoadFromFile(path); err == nil {
		t.Error("loading malformed json should fail")
	}
}

func TestValidate(t *testing.T) {
	cfg := NewConfig()
	cfg.WebServer.Port = 8080
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !cfg.WebServer.IsEnabled {
		t.Error("web server should be enabled for port 8080")
	}

	cfg.WebServer.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("out of range port should fail validation")
	}
}

func TestApplyLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.LevelDebug},
		{"trace", log.LevelTrace},
		{"info", log.LevelInfo},
		{"error", log.LevelError},
		{"silent", -1},
		{"bogus", log.LevelInfo},
	}
	for _, tc := range cases {
		cfg := NewConfig()
		cfg.ApplyLogLevel(tc.in)
		if cfg.Logging.Level != tc.want {
			t.Errorf("ApplyLogLevel(%q) = %d, want %d", tc.in, cfg.Logging.Level, tc.want)
		}
	}
}
