package main

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/gridiron/go/clients/scorefeed"
	"github.com/mcdev12/gridiron/go/internal/chat"
	chatdb "github.com/mcdev12/gridiron/go/internal/chat/db"
	"github.com/mcdev12/gridiron/go/internal/config"
	"github.com/mcdev12/gridiron/go/internal/draft"
	draftdb "github.com/mcdev12/gridiron/go/internal/draft/db"
	"github.com/mcdev12/gridiron/go/internal/draft/orchestrator"
	"github.com/mcdev12/gridiron/go/internal/events"
	"github.com/mcdev12/gridiron/go/internal/fantasyteam"
	fantasyteamdb "github.com/mcdev12/gridiron/go/internal/fantasyteam/db"
	"github.com/mcdev12/gridiron/go/internal/leagues"
	leaguedb "github.com/mcdev12/gridiron/go/internal/leagues/db"
	"github.com/mcdev12/gridiron/go/internal/monitoring"
	monitoringdb "github.com/mcdev12/gridiron/go/internal/monitoring/db"
	"github.com/mcdev12/gridiron/go/internal/notifications"
	notificationsdb "github.com/mcdev12/gridiron/go/internal/notifications/db"
	"github.com/mcdev12/gridiron/go/internal/outbox"
	outboxdb "github.com/mcdev12/gridiron/go/internal/outbox/db"
	"github.com/mcdev12/gridiron/go/internal/player"
	playerdb "github.com/mcdev12/gridiron/go/internal/player/db"
	"github.com/mcdev12/gridiron/go/internal/realtime"
	"github.com/mcdev12/gridiron/go/internal/reporting"
	reportingdb "github.com/mcdev12/gridiron/go/internal/reporting/db"
	"github.com/mcdev12/gridiron/go/internal/roster"
	rosterdb "github.com/mcdev12/gridiron/go/internal/roster/db"
	"github.com/mcdev12/gridiron/go/internal/scoring"
	scoringdb "github.com/mcdev12/gridiron/go/internal/scoring/db"
	"github.com/mcdev12/gridiron/go/internal/trades"
	tradesdb "github.com/mcdev12/gridiron/go/internal/trades/db"
	"github.com/mcdev12/gridiron/go/internal/users"
	usersdb "github.com/mcdev12/gridiron/go/internal/users/db"
	"github.com/mcdev12/gridiron/go/internal/waivers"
	waiversdb "github.com/mcdev12/gridiron/go/internal/waivers/db"
)

type Services struct {
	Users         *users.App
	League        *leagues.App
	FantasyTeam   *fantasyteam.App
	Players       *player.App
	Roster        *roster.App
	Draft         *draft.App
	Waivers       *waivers.App
	Trades        *trades.App
	Chat          *chat.App
	Notifications *notifications.App
	Scoring       *scoring.App
	Reporting     *reporting.App

	Hub         *realtime.Hub
	PickClock   *orchestrator.Orchestrator
	Collector   *monitoring.Collector
	Monitor     *monitoring.Monitor
	MonitorRepo *monitoring.Repository
	Feed        *scorefeed.Client
}

// leagueMembership lets the hub check membership through the leagues app,
// which is built after the hub because it publishes through it.
type leagueMembership struct {
	mu  sync.RWMutex
	app *leagues.App
}

func (m *leagueMembership) set(app *leagues.App) {
	m.mu.Lock()
	m.app = app
	m.mu.Unlock()
}

func (m *leagueMembership) RequireMember(ctx context.Context, leagueID, userID uuid.UUID) error {
	m.mu.RLock()
	app := m.app
	m.mu.RUnlock()
	return app.RequireMember(ctx, leagueID, userID)
}

func setupServices(database *sql.DB, cfg *config.Config, clock clockwork.Clock, reg prometheus.Registerer) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer

	// Realtime hub and the event path domain apps publish through
	membership := &leagueMembership{}
	hub := realtime.NewHub(membership, realtimeConfig(cfg.Realtime))
	var publisher events.Publisher = hub
	if cfg.Events.Mode == config.EventsOutbox {
		publisher = outbox.NewWriter(outbox.NewRepository(outboxdb.New(database)))
	}
	log.Info().Str("mode", string(cfg.Events.Mode)).Msg("domain events configured")

	var feed *scorefeed.Client
	if cfg.Scoring.FeedURL != "" {
		feed = scorefeed.NewClient(cfg.Scoring.FeedURL, cfg.Scoring.FeedAPIKey)
	}

	// Users
	userQueries := usersdb.New(database)
	userRepo := users.NewRepository(userQueries)
	userApp := users.NewApp(userRepo, clock, usersConfig(cfg.Auth))

	// Notifications
	notificationQueries := notificationsdb.New(database)
	notificationRepo := notifications.NewRepository(notificationQueries)
	notificationApp := notifications.NewApp(notificationRepo, publisher, clock)

	// FantasyTeam
	fantasyTeamQueries := fantasyteamdb.New(database)
	fantasyTeamRepo := fantasyteam.NewRepository(fantasyTeamQueries)
	fantasyTeamApp := fantasyteam.NewApp(fantasyTeamRepo)

	// League
	leagueQueries := leaguedb.New(database)
	leagueRepo := leagues.NewRepository(leagueQueries)
	leagueApp := leagues.NewApp(leagueRepo, fantasyTeamApp, publisher)
	membership.set(leagueApp)

	// Players
	playerQueries := playerdb.New(database)
	playerRepo := player.NewRepository(playerQueries)
	var source player.PlayerSource
	if feed != nil {
		source = feed
	}
	playerApp := player.NewApp(playerRepo, source)

	// Roster
	rosterQueries := rosterdb.New(database)
	rosterRepo := roster.NewRepository(rosterQueries, database)
	rosterApp := roster.NewApp(rosterRepo, fantasyTeamApp, leagueApp, playerApp, publisher)

	// Draft
	pickClock := orchestrator.New(clock, cfg.Draft.ClockWorkers)
	draftQueries := draftdb.New(database)
	draftRepo := draft.NewRepository(draftQueries, database)
	draftApp := draft.NewApp(draftRepo, leagueApp, fantasyTeamApp, playerApp, pickClock, publisher, clock)

	// Waivers
	waiverQueries := waiversdb.New(database)
	waiverRepo := waivers.NewRepository(waiverQueries, database)
	waiverApp := waivers.NewApp(waiverRepo, leagueApp, fantasyTeamApp, playerApp, notificationApp, publisher, clock)

	// Trades
	tradeQueries := tradesdb.New(database)
	tradeRepo := trades.NewRepository(tradeQueries, database)
	tradeApp := trades.NewApp(tradeRepo, leagueApp, fantasyTeamApp, playerApp, notificationApp, publisher, clock)

	// Chat
	chatQueries := chatdb.New(database)
	chatRepo := chat.NewRepository(chatQueries)
	chatApp := chat.NewApp(chatRepo, leagueApp, notificationApp, publisher, clock)

	// Scoring
	scoreQueries := scoringdb.New(database)
	scoreRepo := scoring.NewRepository(scoreQueries)
	var stats scoring.StatsFeed
	if feed != nil {
		stats = feed
	}
	scoringApp := scoring.NewApp(scoreRepo, stats, leagueApp, fantasyTeamApp, publisher, clock)

	// Reporting
	reportQueries := reportingdb.New(database)
	reportRepo := reporting.NewRepository(reportQueries)
	reportingApp := reporting.NewApp(reportRepo, leagueApp, clock)

	// Monitoring
	metrics := monitoring.NewMetrics(reg)
	collector := monitoring.NewCollector(clock, metrics)
	collector.SetWebSocketStats(func() monitoring.WebSocketStats {
		s := hub.Stats()
		return monitoring.WebSocketStats{
			Connections:     s.Connections,
			Rooms:           s.Rooms,
			MessagesSent:    s.MessagesSent,
			MessagesDropped: s.MessagesDropped,
		}
	})
	monitorQueries := monitoringdb.New(database)
	monitorRepo := monitoring.NewRepository(monitorQueries, clock)
	monitor := monitoring.NewMonitor(monitorRepo, collector, clock, metrics, monitorOptions(cfg))

	return &Services{
		Users:         userApp,
		League:        leagueApp,
		FantasyTeam:   fantasyTeamApp,
		Players:       playerApp,
		Roster:        rosterApp,
		Draft:         draftApp,
		Waivers:       waiverApp,
		Trades:        tradeApp,
		Chat:          chatApp,
		Notifications: notificationApp,
		Scoring:       scoringApp,
		Reporting:     reportingApp,
		Hub:           hub,
		PickClock:     pickClock,
		Collector:     collector,
		Monitor:       monitor,
		MonitorRepo:   monitorRepo,
		Feed:          feed,
	}
}
