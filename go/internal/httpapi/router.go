package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/unrolled/render"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/gridiron/go/internal/auth"
	"github.com/mcdev12/gridiron/go/internal/chat"
	"github.com/mcdev12/gridiron/go/internal/draft"
	"github.com/mcdev12/gridiron/go/internal/fantasyteam"
	"github.com/mcdev12/gridiron/go/internal/leagues"
	"github.com/mcdev12/gridiron/go/internal/models"
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

// Handlers groups the per-domain HTTP handlers
type Handlers struct {
	Users         *users.Handler
	Leagues       *leagues.Handler
	Teams         *fantasyteam.Handler
	Players       *player.Handler
	Roster        *roster.Handler
	Draft         *draft.Handler
	Waivers       *waivers.Handler
	Trades        *trades.Handler
	Chat          *chat.Handler
	Notifications *notifications.Handler
	Scoring       *scoring.Handler
	Reporting     *reporting.Handler
	Monitoring    *monitoring.Handler
	Realtime      *realtime.Handler
}

// Options carries the cross-cutting pieces of the router
type Options struct {
	Auth           *auth.Authenticator
	Limits         *ratelimit.Set
	Collector      *monitoring.Collector
	ErrorLog       monitoring.ErrorLog
	Registry       *prometheus.Registry
	AllowedOrigins []string
	RequestTimeout time.Duration
	// AdminPath and Admin mount the admin RPC service when Admin is set
	AdminPath string
	Admin     http.Handler
}

// NewRouter builds the API router. The returned handler serves HTTP/2
// without TLS so Connect clients can use either protocol.
func NewRouter(h Handlers, opts Options, rnd *render.Render) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if opts.Collector != nil {
		r.Use(monitoring.Middleware(opts.Collector, opts.ErrorLog))
	}

	r.Get("/health", health)
	if opts.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{Registry: opts.Registry}))
	}
	if opts.Admin != nil {
		r.Mount(opts.AdminPath, opts.Admin)
	}

	// Websocket upgrades must not sit behind the request timeout
	r.With(limit(opts.Limits, ratelimit.ClientIP, rnd, func(s *ratelimit.Set) *ratelimit.Limiter { return s.WebSocket }),
		opts.Auth.RequireUser).
		Get("/ws", h.Realtime.Connect)

	r.Group(func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(middleware.Timeout(opts.RequestTimeout))
		}

		r.Route("/api/auth", func(r chi.Router) {
			r.With(limit(opts.Limits, ratelimit.ClientIP, rnd, func(s *ratelimit.Set) *ratelimit.Limiter { return s.Auth })).
				Group(func(r chi.Router) {
					r.Post("/signup", h.Users.Signup)
					r.Post("/login", h.Users.Login)
				})
			r.Group(func(r chi.Router) {
				r.Use(opts.Auth.RequireUser)
				r.Post("/logout", h.Users.Logout)
				r.Post("/refresh", h.Users.Refresh)
				r.Get("/me", h.Users.Me)
			})
		})

		// Public; signed-in callers get their own rate-limit bucket
		r.With(opts.Auth.OptionalUser, limit(opts.Limits, userOrIP, rnd, func(s *ratelimit.Set) *ratelimit.Limiter { return s.Live })).
			Get("/api/nfl/metrics", h.Monitoring.Metrics)

		r.Group(func(r chi.Router) {
			r.Use(opts.Auth.RequireUser)
			r.Use(byMethod(opts.Limits, rnd))

			r.Patch("/api/users/me", h.Users.UpdateMe)
			r.Delete("/api/users/me", h.Users.DeleteMe)

			r.Route("/api/monitoring", func(r chi.Router) {
				r.Use(opts.Auth.RequireRole(models.UserRoleAdmin))
				r.Get("/dashboard", h.Monitoring.Dashboard)
				r.Get("/health", h.Monitoring.Health)
			})

			r.Post("/api/leagues", h.Leagues.Create)
			r.Get("/api/leagues", h.Leagues.List)
			r.Route("/api/leagues/{leagueID}", func(r chi.Router) {
				r.Post("/join", h.Leagues.Join)
				r.Patch("/settings", h.Leagues.UpdateSettings)
				r.Put("/status", h.Leagues.UpdateStatus)

				r.Group(func(r chi.Router) {
					r.Use(h.Leagues.RequireMember)
					r.Get("/", h.Leagues.Get)
					r.Get("/teams", h.Teams.ListByLeague)
					r.Get("/standings", h.Teams.Standings)
					r.Get("/players/available", h.Players.Available)
				})

				r.Post("/draft", h.Draft.Create)
				r.Get("/draft", h.Draft.LeagueBoard)

				r.Post("/waivers", h.Waivers.Submit)
				r.Post("/waivers/batch", h.Waivers.SubmitBatch)
				r.Post("/waivers/process", h.Waivers.Process)
				r.Get("/waivers", h.Waivers.List)

				r.Post("/trades", h.Trades.Propose)
				r.Get("/trades", h.Trades.List)

				r.Get("/chat/rooms", h.Chat.ListRooms)
				r.Get("/chat/search", h.Chat.Search)
				r.Get("/chat/{room}/messages", h.Chat.History)
				r.Post("/chat/{room}/messages", h.Chat.Send)
				r.Post("/chat/{room}/typing", h.Chat.Typing)

				r.With(limit(opts.Limits, userOrIP, rnd, func(s *ratelimit.Set) *ratelimit.Limiter { return s.Live })).
					Get("/scores", h.Scoring.Scoreboard)
				r.Get("/reports/{kind}", h.Reporting.Report)
			})

			r.Route("/api/teams/{teamID}", func(r chi.Router) {
				r.Get("/", h.Teams.Get)
				r.Patch("/", h.Teams.Update)
				r.Get("/roster", h.Roster.Get)
				r.Post("/roster", h.Roster.Add)
				r.Delete("/roster/{playerID}", h.Roster.Drop)
				r.Patch("/roster/{playerID}", h.Roster.Move)
				r.Get("/scores", h.Scoring.TeamScores)
			})

			r.Get("/api/players", h.Players.Search)
			r.Get("/api/players/{playerID}", h.Players.Get)

			r.Route("/api/drafts/{draftID}", func(r chi.Router) {
				r.Get("/", h.Draft.Board)
				r.Post("/picks", h.Draft.Pick)
				r.Post("/start", h.Draft.Start)
				r.Post("/pause", h.Draft.Pause)
				r.Post("/resume", h.Draft.Resume)
				r.Post("/complete", h.Draft.Complete)
			})

			r.Delete("/api/waivers/{claimID}", h.Waivers.Cancel)

			r.Get("/api/trades/{tradeID}", h.Trades.Get)
			r.Post("/api/trades/{tradeID}/respond", h.Trades.Respond)
			r.Delete("/api/trades/{tradeID}", h.Trades.Cancel)

			r.Post("/api/chat/messages/{messageID}/reactions", h.Chat.React)
			r.Delete("/api/chat/messages/{messageID}/reactions/{emoji}", h.Chat.Unreact)
			r.Delete("/api/chat/messages/{messageID}", h.Chat.Moderate)

			r.Get("/api/notifications", h.Notifications.List)
			r.Get("/api/notifications/unread-count", h.Notifications.UnreadCount)
			r.Post("/api/notifications/read-all", h.Notifications.MarkAllRead)
			r.Post("/api/notifications/{notificationID}/read", h.Notifications.MarkRead)
			r.With(opts.Auth.RequireRole(models.UserRoleAdmin)).
				Post("/api/notifications", h.Notifications.Create)
		})
	})

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
	})
	return h2c.NewHandler(c.Handler(r), &http2.Server{})
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
