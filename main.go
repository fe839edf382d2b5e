package main

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dpankratov/miniraw/config"
	mrhttp "github.com/dpankratov/miniraw/http"
	"github.com/dpankratov/miniraw/http/handler"
	"github.com/dpankratov/miniraw/log"
	"github.com/dpankratov/miniraw/metrics"
	"github.com/dpankratov/miniraw/spool"
)

var (
	cfg         = config.NewConfig()
	verboseFlag string
	showVersion bool
	Version     = "dev"
	Commit      = "none"
	Date        = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "miniraw",
	Short: "Raw print job capture server",
	Long:  `MiniRAW listens on the raw printing port (9100) and saves every incoming job to a spool file next to the binary.`,
	RunE:  runMiniraw,
}

func init() {
	cfg.BindFlags(rootCmd)

	rootCmd.Flags().StringVar(&verboseFlag, "verbose", "info", "Set verbosity level (debug, trace, info, error, silent)")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMiniraw(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Printf("MiniRAW version: %s (%s) %s\n", Version, Commit, Date)
		return nil
	}

	exeDir, err := executableDir()
	if err != nil {
		return fmt.Errorf("cannot resolve executable directory: %w", err)
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = filepath.Join(exeDir, "miniraw.json")
	}

	cfg.ApplyLogLevel(verboseFlag)
	if err := initLogging(&cfg); err != nil {
		return fmt.Errorf("logging initialization failed: %w", err)
	}

	log.Infof(">>> MiniRAW %s", Version)

	// File settings first, then flags the user actually passed on top.
	cfg.LoadFromFile(cfg.ConfigPath)
	reapplyChangedFlags(cmd)
	cfg.SaveToFile(cfg.ConfigPath)

	if err := cfg.Validate(); err != nil {
		return log.Errorf("invalid configuration: %v", err)
	}

	log.SetLevel(cfg.Logging.Level)
	log.SetInstaflush(cfg.Logging.Instaflush)
	if cfg.WebServer.IsEnabled {
		// Mirror every log line into the web UI stream.
		log.AttachSink(mrhttp.LogWriter())
	}
	if cfg.Logging.Syslog {
		if err := log.EnableSyslog("miniraw"); err != nil {
			log.Warnf("Syslog unavailable: %v", err)
		}
	}

	handler.SetBuildInfo(Version, Commit, Date)
	metrics.GetCollector().RecordEvent("info", fmt.Sprintf("MiniRAW %s starting up", Version))

	policy := spool.NewPolicy(cfg.Spool.Discard)
	log.Infof("Discard received files: %v", cfg.Spool.Discard)

	srv := startWebServer(&cfg, policy)

	listener := spool.NewListener(policy, exeDir)
	if err := listener.Start(); err != nil {
		// Fatal: the capture port is fixed, retrying cannot free it.
		return log.Errorf("%v", err)
	}

	term := make(chan os.Signal, 1)
	signal.Notify(term, syscall.SIGINT, syscall.SIGTERM)
	<-term

	log.Infof("Shutting down")
	listener.Stop()
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
	mrhttp.Shutdown()
	log.Flush()
	return nil
}

func initLogging(cfg *config.Config) error {
	log.Init(os.Stderr, cfg.Logging.Level, cfg.Logging.Instaflush)
	return nil
}

func startWebServer(cfg *config.Config, policy *spool.Policy) *stdhttp.Server {
	srv, err := mrhttp.StartServer(cfg, policy)
	if err != nil {
		log.Errorf("Web server failed to start: %v", err)
		return nil
	}
	return srv
}

// reapplyChangedFlags restores flag overrides that LoadFromFile may have
// clobbered with file values.
func reapplyChangedFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("verbose") {
		cfg.ApplyLogLevel(verboseFlag)
		log.SetLevel(cfg.Logging.Level)
		log.Infof("Log level set to %s", verboseFlag)
	}
	if cmd.Flags().Changed("discard") {
		discard, _ := cmd.Flags().GetBool("discard")
		cfg.Spool.Discard = discard
	}
	if cmd.Flags().Changed("web-port") {
		port, _ := cmd.Flags().GetInt("web-port")
		cfg.WebServer.Port = port
	}
	if cmd.Flags().Changed("instaflush") {
		insta, _ := cmd.Flags().GetBool("instaflush")
		cfg.Logging.Instaflush = insta
	}
	if cmd.Flags().Changed("syslog") {
		syslogOn, _ := cmd.Flags().GetBool("syslog")
		cfg.Logging.Syslog = syslogOn
	}
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}
