package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// BindFlags registers flags for every persisted setting. Flag values act as
// overrides: whatever the user passes wins over the config file.
func (c *Config) BindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.ConfigPath, "config", c.ConfigPath, "Path to config file (default: miniraw.json next to the binary)")
	c.bindSpoolFlags(cmd.Flags())
	c.bindSystemFlags(cmd.Flags())
}

func (c *Config) bindSpoolFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.Spool.Discard, "discard", "d", c.Spool.Discard, "Discard received data instead of saving spool files")
}

func (c *Config) bindSystemFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.Logging.Instaflush, "instaflush", "i", c.Logging.Instaflush, "Flush logs immediately")
	fs.BoolVar(&c.Logging.Syslog, "syslog", c.Logging.Syslog, "Enable syslog output")
	fs.IntVar(&c.WebServer.Port, "web-port", c.WebServer.Port, "Port for internal web server (0 disables)")
}
