package main

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/gridiron/go/internal/config"
	"github.com/mcdev12/gridiron/go/internal/logging"
	"github.com/mcdev12/gridiron/go/internal/monitoring"
	"github.com/mcdev12/gridiron/go/internal/realtime"
	"github.com/mcdev12/gridiron/go/internal/users"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadConfig reads CONFIG_PATH (default config.yaml) and configures logging
func loadConfig() *config.Config {
	path := getEnv("CONFIG_PATH", "config.yaml")
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to load config")
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Pretty)

	log.Info().
		Str("path", path).
		Str("port", cfg.Server.Port).
		Str("events_mode", string(cfg.Events.Mode)).
		Bool("monitor", cfg.Monitor.Enabled).
		Msg("configuration loaded")
	return cfg
}

func usersConfig(cfg config.AuthConfig) users.Config {
	return users.Config{
		SessionTTL:    cfg.SessionTTL,
		RememberMeTTL: cfg.RememberMeTTL,
		BcryptCost:    cfg.BcryptCost,
		MaxAttempts:   cfg.MaxAttempts,
		LockDuration:  cfg.LockDuration,
	}
}

func realtimeConfig(cfg config.RealtimeConfig) realtime.Config {
	rc := realtime.DefaultConfig()
	if cfg.WriteTimeout > 0 {
		rc.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.ReadTimeout > 0 {
		rc.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.PingInterval > 0 {
		rc.PingInterval = cfg.PingInterval
	}
	if cfg.MaxMessageSize > 0 {
		rc.MaxMessageSize = cfg.MaxMessageSize
	}
	return rc
}

func monitorOptions(cfg *config.Config) monitoring.MonitorOptions {
	return monitoring.MonitorOptions{
		Interval:   cfg.Monitor.Interval,
		WindowSize: cfg.Monitor.WindowSize,
		SlowQuery:  cfg.Thresholds.SlowQuery,
		Rules: monitoring.DefaultRules(monitoring.Thresholds{
			MaxConnections: cfg.Thresholds.MaxConnections,
			APILatencyMs:   cfg.Thresholds.APILatencyMs,
			ErrorsPerHour:  cfg.Thresholds.ErrorsPerHour,
		}),
	}
}

// sessionCleanupInterval is how often expired sessions are purged
const sessionCleanupInterval = time.Hour
