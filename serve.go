package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"redox_tutor/src/llm/oracle"
	"redox_tutor/src/logger"
	"redox_tutor/src/metrics"
	"redox_tutor/src/model"
	"redox_tutor/src/storage"
	"redox_tutor/src/telemetry"
	"redox_tutor/src/tutor"
	"redox_tutor/src/web"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const drainTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tutor web app",
	Long: `Serves the login, input and wizard screens on HTTP_ADDR and Prometheus
metrics on METRICS_ADDR. Sessions live in Redis when REDIS_URL is set and in
process memory otherwise.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	messages, err := tutor.LoadMessages(config.ServerConfig.MessagesPath)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, config.SessionConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close session store")
		}
	}()

	m := metrics.New()
	analyzer, err := oracle.New(ctx, config.OracleConfig, m)
	if err != nil {
		return fmt.Errorf("failed to create oracle: %w", err)
	}

	notifier := telemetry.New(config.TelemetryConfig, m)
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		if err := notifier.Close(drainCtx); err != nil {
			logger.Warn().Err(err).Msg("Telemetry queue not fully drained")
		}
	}()

	service := tutor.NewService(tutor.ServiceConfig{
		Store:           store,
		Oracle:          analyzer,
		Notifier:        notifier,
		Metrics:         m,
		Messages:        messages,
		DefaultEquation: config.ServerConfig.DefaultEquation,
	})
	server, err := web.NewServer(service, config.SessionConfig)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}
	metricsServer := metrics.NewServer(m, config.ServerConfig.MetricsAddr, config.ServerConfig.MetricsPath)

	logger.Info().
		Str("provider", config.OracleConfig.Provider).
		Str("addr", config.ServerConfig.Addr).
		Msg("Starting redox tutor")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return web.ListenAndServe(gctx, config.ServerConfig.Addr, server.Handler())
	})
	g.Go(metricsServer.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info().Msg("Redox tutor stopped")
	return err
}

func openStore(ctx context.Context, config model.SessionConfig) (storage.SessionStore[model.Session], error) {
	if config.RedisURL == "" {
		logger.Info().Msg("REDIS_URL not set, keeping sessions in memory")
		return storage.NewMemoryStorage[model.Session](config.TTL), nil
	}
	client, err := storage.ConnectRedis(ctx, config.RedisURL, config.RedisMaxRetries)
	if err != nil {
		return nil, err
	}
	return storage.NewRedisStorage[model.Session](client, config.TTL), nil
}
