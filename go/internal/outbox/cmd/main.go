package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/gridiron/go/internal/config"
	"github.com/mcdev12/gridiron/go/internal/dbconfig"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/mcdev12/gridiron/go/internal/logging"
	"github.com/mcdev12/gridiron/go/internal/outbox"
	outboxdb "github.com/mcdev12/gridiron/go/internal/outbox/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := dbconfig.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer database.Close()

	jsCfg := outbox.DefaultJetStreamConfig()
	jsCfg.URL = cfg.Events.NatsURL
	jsCfg.StreamName = cfg.Events.StreamName
	publisher, err := outbox.NewJetStreamPublisher(ctx, jsCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create JetStream publisher")
	}
	defer publisher.Close()

	notifier, err := outbox.NewPGNotifier(dbconfig.DSN(cfg.Database), outbox.NotifyChannel)
	if err != nil {
		log.Fatal().Err(err).Msg("create outbox listener")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	clock := clockwork.NewRealClock()
	store := outbox.NewRepository(outboxdb.New(database))
	relayCfg := outbox.DefaultRelayConfig()
	relayCfg.FallbackInterval = cfg.Events.RelayFallbackInterval
	relay := outbox.NewRelay(store, notifier, publisher, clock, outbox.NewMetrics(reg), relayCfg)
	health := outbox.NewHealthChecker(relay, store, publisher.Connected, clock, 2*relayCfg.FallbackInterval, httpx.NewRender())

	r := chi.NewRouter()
	r.Method(http.MethodGet, "/health", health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              ":" + cfg.Events.RelayHealthPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("relay health endpoint listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health server failed")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- relay.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
		if err := <-errCh; err != nil {
			log.Error().Err(err).Msg("relay stopped with error")
		}
	case err := <-errCh:
		log.Error().Err(err).Msg("relay exited unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server shutdown")
	}
	log.Info().Msg("graceful shutdown complete")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
