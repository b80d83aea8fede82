package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/datallboy/gonntp/internal/infra/config"
	"github.com/datallboy/gonntp/internal/infra/logger"
	"github.com/datallboy/gonntp/internal/store"
	"github.com/datallboy/gonntp/nntp"
	"github.com/datallboy/gonntp/nntp/command"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string

	// Shared state set during PersistentPreRun
	cfg   *config.Config
	lg    *logger.Logger
	cache *store.ArticleCache
)

// rootCmd is the base command for gonntp.
var rootCmd = &cobra.Command{
	Use:           "gonntp",
	Short:         "Talk to an NNTP server: fetch articles, probe status, inspect groups",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		lg, err = logger.New(cfg.Log.Path, logger.ParseLevel(cfg.Log.Level), cfg.Log.IncludeStderr)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		if cfg.Cache.Enabled {
			cache, err = store.Open(cfg.Cache.SQLitePath)
			if err != nil {
				return fmt.Errorf("failed to open article cache: %w", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cache != nil {
			cache.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config.yaml")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(capsCmd)
}

func main() {
	// Cancel in-flight commands when the user hits Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// connectClient opens a session using the configured server, selecting
// initialGroup when non-empty.
func connectClient(ctx context.Context, initialGroup string) (*nntp.Client, error) {
	connCfg := nntp.ConnectionConfig{
		ConnectTimeout: cfg.Server.ConnectTimeout,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
	}
	if cfg.Server.TLS {
		connCfg.TLSConfig = &tls.Config{
			ServerName: cfg.Server.Host,
			MinVersion: tls.VersionTLS12,
		}
	}

	clientCfg := nntp.ClientConfig{
		Connection:   connCfg,
		InitialGroup: initialGroup,
	}
	if cfg.Server.Username != "" {
		clientCfg.Credentials = &nntp.Credentials{
			Username: cfg.Server.Username,
			Password: cfg.Server.Password,
		}
	}

	lg.Debug("Connecting to %s (tls=%v)", cfg.Server.Addr(), cfg.Server.TLS)
	return clientCfg.Connect(ctx, cfg.Server.Addr())
}

// parseRef turns a CLI argument into an article reference. All-digit
// arguments are article numbers; anything else is a message-id.
func parseRef(arg string) (command.ArticleRef, bool) {
	if n, err := strconv.ParseUint(arg, 10, 64); err == nil {
		return command.Number(n), false
	}
	return command.MessageID(arg), true
}

// canonicalMessageID matches the form servers echo back: always with
// angle brackets.
func canonicalMessageID(id string) string {
	if !strings.HasPrefix(id, "<") {
		id = "<" + id + ">"
	}
	return id
}
