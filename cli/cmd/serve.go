package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/salescope/salescope/internal/api"
	"github.com/salescope/salescope/internal/cache"
	"github.com/salescope/salescope/internal/config"
	"github.com/salescope/salescope/internal/database"
	"github.com/salescope/salescope/internal/observability"
	"github.com/salescope/salescope/internal/sales"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Run the HTTP API server.

Connects to PostgreSQL and Redis, then serves the sales endpoints until
SIGINT or SIGTERM, draining in-flight requests on shutdown.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb := connectRedis(cfg.Redis)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close failed")
			}
		}()
	}

	metrics := observability.New()
	svc := sales.New(db.Pool, cache.New(rdb, cfg.Redis.CacheTTL), metrics)
	server := api.NewServer(cfg, svc, db, metrics, Version)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.Server.Address).Str("version", Version).Msg("server listening")
		errCh <- server.Listen()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// connectRedis builds the cache client. Redis is optional: a missing or
// unreachable store only disables caching, it never blocks startup.
func connectRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.URL == "" {
		log.Warn().Msg("redis url empty, filter-options cache disabled")
		return nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		log.Warn().Err(err).Msg("invalid redis url, filter-options cache disabled")
		return nil
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// Keep the client; the cache fails open and recovers with the store.
		log.Warn().Err(err).Msg("redis unreachable, filter-options cache degraded")
	} else {
		log.Info().Msg("redis connected")
	}
	return rdb
}
