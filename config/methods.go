package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/dpankratov/miniraw/log"
)

func (c *Config) SaveToFile(path string) error {
	if path == "" {
		log.Tracef("config path is not defined")
		return nil
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return log.Errorf("failed to marshal config: %v", err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return log.Errorf("failed to create config file: %v", err)
	}
	defer file.Close()

	if _, err = file.Write(data); err != nil {
		return log.Errorf("failed to write config file: %v", err)
	}
	return nil
}

// LoadFromFile reads settings from path. A missing file is not an error; the
// defaults stay in effect and the file is written on the next save.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		log.Tracef("config path is not defined")
		return nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Tracef("config file %s does not exist, using defaults", path)
		return nil
	}
	if err != nil {
		return log.Errorf("failed to stat config file: %v", err)
	}
	if info.IsDir() {
		return log.Errorf("config path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return log.Errorf("failed to read config file: %v", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return log.Errorf("failed to parse config file: %v", err)
	}
	return nil
}

func (c *Config) ApplyLogLevel(level string) {
	switch level {
	case "debug":
		c.Logging.Level = log.LevelDebug
	case "trace":
		c.Logging.Level = log.LevelTrace
	case "info":
		c.Logging.Level = log.LevelInfo
	case "error":
		c.Logging.Level = log.LevelError
	case "silent":
		c.Logging.Level = -1
	default:
		c.Logging.Level = log.LevelInfo
	}
}

func (c *Config) Validate() error {
	if c.WebServer.Port < 0 || c.WebServer.Port > 65535 {
		return log.Errorf("invalid web server port: %d", c.WebServer.Port)
	}
	c.WebServer.IsEnabled = c.WebServer.Port > 0
	return nil
}
