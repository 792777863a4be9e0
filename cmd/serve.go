package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/api"
	"github.com/pable/cricmetrics/internal/cache"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only JSON API",
	Long: `Serve the query surface as JSON under /api/v1 for the dashboard. When
redis_url is set, reads are cached in Redis under the current store generation,
so a committed ingest invalidates every cached response.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (default listen, :8080)")
	serveCmd.Flags().String("redis", "", "Redis URL for response caching (default redis_url)")
	serveCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		_ = settings.BindPFlag("listen", cmd.Flags().Lookup("listen"))
		_ = settings.BindPFlag("redis_url", cmd.Flags().Lookup("redis"))
		return loadConfig(cmd, args)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var c cache.Cache = cache.Nop{}
	if cfg.RedisURL != "" {
		rc, err := cache.Dial(ctx, cfg.RedisURL, cfg.CacheTTL, log)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rc.Close()
		c = rc
		log.WithField("ttl", cfg.CacheTTL.String()).Info("redis cache enabled")
	}

	srv := &http.Server{
		Addr: cfg.Listen,
		Handler: api.New(db, api.Options{
			Styles:      cfg.PlayerStyles,
			Cache:       c,
			CORSOrigins: cfg.CORSOrigins,
			Log:         log,
		}).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Listen).WithField("db", dbPath).Info("api listening")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
	}

	// Give outstanding requests a deadline for completion.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
		return srv.Close()
	}
	log.Info("shutdown complete")
	return nil
}
