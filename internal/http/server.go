package http

import (
	"database/sql"
	"net/http"

	"github.com/tranmq/bida-club/internal/badges"
	"github.com/tranmq/bida-club/internal/club"
	"github.com/tranmq/bida-club/internal/config"
	"github.com/tranmq/bida-club/internal/ledger"
	"github.com/tranmq/bida-club/internal/metrics"
	"github.com/tranmq/bida-club/internal/processor"
	"github.com/tranmq/bida-club/internal/stats"
)

func NewServer(players club.ClubStore, matchLedger ledger.MatchLedger, aggregator stats.Aggregator, badgeStore badges.BadgeStore, proc *processor.Processor, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, db *sql.DB) *Server {
	server := &Server{
		Players:        players,
		Ledger:         matchLedger,
		Stats:          aggregator,
		Badges:         badgeStore,
		Processor:      proc,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		DB:             db,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(s.CreatePlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{id}", Chain(s.GetPlayerHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /players/{id}", Chain(s.DeletePlayerHandler(), paramsMiddleware))

	s.Router.Handle("GET /matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches", Chain(s.CreateMatchHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/recent", Chain(s.RecentMatchesHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/payer/next", Chain(s.NextPayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /matches/{id}", Chain(s.DeleteMatchHandler(), paramsMiddleware))

	s.Router.Handle("GET /stats", Chain(s.StatsHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats/expenses", Chain(s.ExpensesHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats/player/{id}", Chain(s.PlayerStatsHandler(), paramsMiddleware))

	s.Router.Handle("GET /badges", Chain(s.ListBadgesHandler(), paramsMiddleware))
	s.Router.Handle("GET /badges/player/{id}", Chain(s.PlayerBadgesHandler(), paramsMiddleware))
	s.Router.Handle("POST /badges/award", Chain(s.AwardBadgeHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
