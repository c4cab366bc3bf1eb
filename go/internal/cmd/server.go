package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcdev12/gridiron/go/internal/adminrpc"
	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/chat"
	"github.com/mcdev12/gridiron/go/internal/config"
	"github.com/mcdev12/gridiron/go/internal/draft"
	"github.com/mcdev12/gridiron/go/internal/fantasyteam"
	"github.com/mcdev12/gridiron/go/internal/httpapi"
	"github.com/mcdev12/gridiron/go/internal/httpx"
	"github.com/mcdev12/gridiron/go/internal/leagues"
	"github.com/mcdev12/gridiron/go/internal/monitoring"
	"github.com/mcdev12/gridiron/go/internal/notifications"
	"github.com/mcdev12/gridiron/go/internal/player"
	"github.com/mcdev12/gridiron/go/internal/ratelimit"
	"github.com/mcdev12/gridiron/go/internal/realtime"
	"github.com/mcdev12/gridiron/go/internal/reporting"
	"github.com/mcdev12/gridiron/go/internal/roster"
	"github.com/mcdev12/gridiron/go/internal/scoring"
	"github.com/mcdev12/gridiron/go/internal/trades"
	"github.com/mcdev12/gridiron/go/internal/users"
	"github.com/mcdev12/gridiron/go/internal/waivers"
)

func setupServer(cfg *config.Config, services *Services, limits *ratelimit.Set, reg *prometheus.Registry) *http.Server {
	rnd := httpx.NewRender()

	handlers := httpapi.Handlers{
		Users:         users.NewHandler(services.Users, rnd),
		Leagues:       leagues.NewHandler(services.League, rnd),
		Teams:         fantasyteam.NewHandler(services.FantasyTeam, rnd),
		Players:       player.NewHandler(services.Players, rnd),
		Roster:        roster.NewHandler(services.Roster, rnd),
		Draft:         draft.NewHandler(services.Draft, rnd),
		Waivers:       waivers.NewHandler(services.Waivers, rnd),
		Trades:        trades.NewHandler(services.Trades, rnd),
		Chat:          chat.NewHandler(services.Chat, rnd),
		Notifications: notifications.NewHandler(services.Notifications, rnd),
		Scoring:       scoring.NewHandler(services.Scoring, rnd),
		Reporting:     reporting.NewHandler(services.Reporting, rnd),
		Monitoring:    monitoring.NewHandler(services.Collector, services.Monitor, rnd),
		Realtime:      realtime.NewHandler(services.Hub, rnd),
	}

	adminPath, admin := adminrpc.NewHandler(
		adminrpc.NewService(services.Waivers, services.Trades, services.Users, services.Monitor),
		cfg.Admin.Token,
	)

	handler := httpapi.NewRouter(handlers, httpapi.Options{
		Auth:           auth.NewAuthenticator(services.Users, rnd),
		Limits:         limits,
		Collector:      services.Collector,
		ErrorLog:       services.MonitorRepo,
		Registry:       reg,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		AdminPath:      adminPath,
		Admin:          admin,
	}, rnd)

	// WriteTimeout stays zero: websocket connections manage their own deadlines
	return &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:     handler,
		ReadTimeout: cfg.Server.ReadTimeout,
	}
}
