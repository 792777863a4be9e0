package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/config"
	"github.com/pable/cricmetrics/internal/logging"
	"github.com/pable/cricmetrics/internal/storage"
)

// settings is built at package initialization so every command's init can bind flags to it.
var settings = config.New(mustUserHome())

var (
	cfg    *config.Config
	log    *logrus.Logger
	dbPath string
)

var rootCmd = &cobra.Command{
	Use:   "cricmetrics",
	Short: "T20 cricket match metrics tool",
	Long: `Ingest ball-by-ball IPL match records into a local SQLite fact store and
compute player, bowler and team metrics from it.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command. An interrupt cancels the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "path to SQLite database (default ~/.cricmetrics/cricket.db)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")
	_ = settings.BindPFlag("db", flags.Lookup("db"))
	_ = settings.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = settings.BindPFlag("log_format", flags.Lookup("log-format"))

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(matchupCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(leadersCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(settings)
	if err != nil {
		return err
	}
	cfg = c
	dbPath = c.DB
	log = logging.New(c.LogLevel, c.LogFormat, os.Stderr)
	return nil
}

// openDB opens the configured store, creating its directory first.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
