package config

import (
	"github.com/dpankratov/miniraw/log"
)

// Config is the persisted application state. It replaces the registry-backed
// settings of earlier MiniRAW builds with a JSON file next to the binary.
type Config struct {
	ConfigPath string `json:"-"`

	Spool     Spool     `json:"spool"`
	Logging   Logging   `json:"logging"`
	WebServer WebServer `json:"web_server"`
}

// Spool holds the runtime capture policy. The listening port, the spool file
// extension, and the destination directory are fixed constants of the spool
// engine and intentionally absent here.
type Spool struct {
	Discard bool `json:"discard"`
}

type Logging struct {
	Level      log.Level `json:"level"`
	Instaflush bool      `json:"instaflush"`
	Syslog     bool      `json:"syslog"`
}

type WebServer struct {
	Port      int  `json:"port"`
	IsEnabled bool `json:"-"`
}

var DefaultConfig = Config{
	Spool: Spool{
		Discard: false,
	},
	Logging: Logging{
		Level:      log.LevelInfo,
		Instaflush: true,
		Syslog:     false,
	},
	WebServer: WebServer{
		Port: 0,
	},
}

func NewConfig() Config {
	return DefaultConfig
}
