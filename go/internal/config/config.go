package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EventsMode selects how domain events reach websocket clients
type EventsMode string

const (
	EventsDirect EventsMode = "direct"
	EventsOutbox EventsMode = "outbox"
)

// Config is the application configuration loaded from YAML
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	RateLimits RateLimitConfig  `yaml:"rate_limits"`
	Monitor    MonitorConfig    `yaml:"monitor"`
	Events     EventsConfig     `yaml:"events"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Draft      DraftConfig      `yaml:"draft"`
	Waivers    WaiversConfig    `yaml:"waivers"`
	Trades     TradesConfig     `yaml:"trades"`
	Auth       AuthConfig       `yaml:"auth"`
	Realtime   RealtimeConfig   `yaml:"realtime"`
	Admin      AdminConfig      `yaml:"admin"`
	CORS       CORSConfig       `yaml:"cors"`
	Logging    LoggingConfig    `yaml:"logging"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds Postgres connection and pool settings. DB_* env vars override it.
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RatePolicy allows Requests per Window for one key
type RatePolicy struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type RateLimitConfig struct {
	Auth      RatePolicy `yaml:"auth"`
	API       RatePolicy `yaml:"api"`
	Read      RatePolicy `yaml:"read"`
	Live      RatePolicy `yaml:"live"`
	WebSocket RatePolicy `yaml:"websocket"`
}

type MonitorConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Interval   time.Duration `yaml:"interval"`
	WindowSize int           `yaml:"window_size"`
}

type ThresholdsConfig struct {
	SlowQuery      time.Duration `yaml:"slow_query"`
	MaxConnections float64       `yaml:"max_connections"`
	APILatencyMs   float64       `yaml:"api_latency_ms"`
	ErrorsPerHour  float64       `yaml:"errors_per_hour"`
}

type EventsConfig struct {
	Mode       EventsMode `yaml:"mode"`
	NatsURL    string     `yaml:"nats_url"`
	StreamName string     `yaml:"stream_name"`

	// Relay settings are read by the outbox relay binary only.
	RelayFallbackInterval time.Duration `yaml:"relay_fallback_interval"`
	RelayHealthPort       string        `yaml:"relay_health_port"`
}

type ScoringConfig struct {
	FeedURL      string        `yaml:"feed_url"`
	FeedAPIKey   string        `yaml:"feed_api_key"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type DraftConfig struct {
	ClockWorkers int `yaml:"clock_workers"`
}

type WaiversConfig struct {
	SchedulerInterval time.Duration `yaml:"scheduler_interval"`
}

type TradesConfig struct {
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type AuthConfig struct {
	SessionTTL    time.Duration `yaml:"session_ttl"`
	RememberMeTTL time.Duration `yaml:"remember_me_ttl"`
	BcryptCost    int           `yaml:"bcrypt_cost"`
	MaxAttempts   int           `yaml:"max_attempts"`
	LockDuration  time.Duration `yaml:"lock_duration"`
}

type RealtimeConfig struct {
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	MaxMessageSize int64         `yaml:"max_message_size"`
}

type AdminConfig struct {
	Token string `yaml:"token"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used when no file is present
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			Name:            "gridiron",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		RateLimits: RateLimitConfig{
			Auth:      RatePolicy{Requests: 5, Window: time.Minute},
			API:       RatePolicy{Requests: 100, Window: time.Minute},
			Read:      RatePolicy{Requests: 1000, Window: time.Minute},
			Live:      RatePolicy{Requests: 50, Window: 10 * time.Second},
			WebSocket: RatePolicy{Requests: 10, Window: time.Minute},
		},
		Monitor: MonitorConfig{
			Enabled:    true,
			Interval:   30 * time.Second,
			WindowSize: 10,
		},
		Thresholds: ThresholdsConfig{
			SlowQuery:      time.Second,
			MaxConnections: 80,
			APILatencyMs:   1000,
			ErrorsPerHour:  50,
		},
		Events: EventsConfig{
			Mode:       EventsDirect,
			NatsURL:    "nats://localhost:4222",
			StreamName: "GRIDIRON_EVENTS",

			RelayFallbackInterval: 30 * time.Second,
			RelayHealthPort:       "8081",
		},
		Scoring: ScoringConfig{
			PollInterval: time.Minute,
		},
		Draft: DraftConfig{
			ClockWorkers: 4,
		},
		Waivers: WaiversConfig{
			SchedulerInterval: 5 * time.Minute,
		},
		Trades: TradesConfig{
			SweepInterval: 15 * time.Minute,
		},
		Auth: AuthConfig{
			SessionTTL:    24 * time.Hour,
			RememberMeTTL: 30 * 24 * time.Hour,
			BcryptCost:    12,
			MaxAttempts:   5,
			LockDuration:  15 * time.Minute,
		},
		Realtime: RealtimeConfig{
			WriteTimeout:   10 * time.Second,
			ReadTimeout:    60 * time.Second,
			PingInterval:   30 * time.Second,
			MaxMessageSize: 4096,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Events.NatsURL = getEnv("NATS_URL", c.Events.NatsURL)
	c.Events.Mode = EventsMode(getEnv("EVENTS_MODE", string(c.Events.Mode)))
	c.Scoring.FeedURL = getEnv("SCORE_FEED_URL", c.Scoring.FeedURL)
	c.Scoring.FeedAPIKey = getEnv("SCORE_FEED_API_KEY", c.Scoring.FeedAPIKey)
	c.Events.RelayHealthPort = getEnv("RELAY_HEALTH_PORT", c.Events.RelayHealthPort)
	if v := os.Getenv("FALLBACK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Events.RelayFallbackInterval = d
		}
	}
	c.Admin.Token = getEnv("ADMIN_TOKEN", c.Admin.Token)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.Pretty = b
		}
	}
}

func (c *Config) validate() error {
	switch c.Events.Mode {
	case EventsDirect, EventsOutbox:
	default:
		return fmt.Errorf("invalid events mode %q", c.Events.Mode)
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port %d", c.Database.Port)
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor interval must be positive")
	}
	if c.Draft.ClockWorkers <= 0 {
		return fmt.Errorf("draft clock workers must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
