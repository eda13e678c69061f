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

type Server struct {
	Players        club.ClubStore
	Ledger         ledger.MatchLedger
	Stats          stats.Aggregator
	Badges         badges.BadgeStore
	Processor      *processor.Processor
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	DB             *sql.DB
	Router         *http.ServeMux
}

// response is the envelope every JSON endpoint answers with.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
