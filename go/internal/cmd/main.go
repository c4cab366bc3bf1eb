package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/gridiron/go/internal/config"
	"github.com/mcdev12/gridiron/go/internal/ratelimit"
	"github.com/mcdev12/gridiron/go/internal/realtime"
	"github.com/mcdev12/gridiron/go/internal/dbconfig"
	"github.com/mcdev12/gridiron/go/internal/scoring"
	"github.com/mcdev12/gridiron/go/internal/trades"
	"github.com/mcdev12/gridiron/go/internal/waivers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := dbconfig.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup database")
	}
	defer database.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	clock := clockwork.NewRealClock()
	services := setupServices(database, cfg, clock, reg)
	limits := ratelimit.NewSet(cfg.RateLimits, clock)

	var wg sync.WaitGroup
	startWorkers(ctx, &wg, cfg, clock, services, limits)

	server := setupServer(cfg, services, limits, reg)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Info().Msg("graceful shutdown complete")
	case <-shutdownCtx.Done():
		log.Warn().Msg("background workers did not stop before the shutdown timeout")
	}
}

// startWorkers launches the background loops. Each stops when ctx is cancelled.
func startWorkers(ctx context.Context, wg *sync.WaitGroup, cfg *config.Config, clock clockwork.Clock, services *Services, limits *ratelimit.Set) {
	run := func(name string, fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
			log.Debug().Str("worker", name).Msg("worker stopped")
		}()
	}

	run("realtime-hub", services.Hub.Run)
	run("rate-limit-sweeper", limits.Run)
	run("metrics-collector", func(ctx context.Context) { services.Collector.Run(ctx, cfg.Monitor.Interval) })
	if cfg.Monitor.Enabled {
		run("production-monitor", services.Monitor.Run)
	}

	run("pick-clock", func(ctx context.Context) {
		if err := services.PickClock.Run(ctx, services.Draft); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("pick clock stopped")
		}
	})
	if err := services.Draft.RestoreClocks(ctx); err != nil {
		log.Error().Err(err).Msg("failed to restore draft pick clocks")
	}

	run("waiver-scheduler", waivers.NewScheduler(services.Waivers, clock, cfg.Waivers.SchedulerInterval).Run)
	run("trade-sweeper", trades.NewSweeper(services.Trades, clock, cfg.Trades.SweepInterval).Run)
	run("session-cleanup", func(ctx context.Context) { cleanupSessions(ctx, clock, services) })

	if services.Feed != nil {
		run("score-poller", scoring.NewPoller(services.Scoring, clock, cfg.Scoring.PollInterval).Run)
		run("player-sync", func(ctx context.Context) {
			result, err := services.Players.SyncFromFeed(ctx)
			if err != nil {
				log.Error().Err(err).Msg("player sync failed")
				return
			}
			log.Info().
				Int("processed", result.TotalProcessed).
				Int("created", result.Created).
				Int("updated", result.Updated).
				Msg("player sync complete")
		})
	} else {
		log.Warn().Msg("no score feed configured, score poller disabled")
	}

	if cfg.Events.Mode == config.EventsOutbox {
		consumerCfg := realtime.DefaultConsumerConfig()
		consumerCfg.URL = cfg.Events.NatsURL
		consumerCfg.StreamName = cfg.Events.StreamName
		consumer, err := realtime.NewEventConsumer(ctx, services.Hub, consumerCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event consumer")
		}
		run("event-consumer", func(ctx context.Context) {
			defer consumer.Close()
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("event consumer stopped")
			}
		})
	}
}

func cleanupSessions(ctx context.Context, clock clockwork.Clock, services *Services) {
	ticker := clock.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			n, err := services.Users.CleanupSessions(ctx)
			if err != nil {
				log.Error().Err(err).Msg("failed to clean up sessions")
				continue
			}
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("expired sessions removed")
			}
		}
	}
}
