package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"resort/config"
	"resort/di"
	"resort/infras/metrics"
	"resort/shared/logger"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const metricsReadHeaderTimeout = 5 * time.Second

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:              net.JoinHostPort("0.0.0.0", cfg.Kafka.Relay.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Kafka.Relay.MetricsPort).Msg("Starting relay metrics server.")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Relay metrics server stopped")
		}
	}()

	relay := di.InitializeRelay()

	if err := relay.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Outbox relay exited with error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsReadHeaderTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down relay metrics server")
	}
}
