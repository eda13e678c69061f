package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		PlayersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bida_players_created_total",
			Help: "The total number of players registered.",
		}),
		MatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bida_matches_recorded_total",
			Help: "The total number of matches recorded in the ledger.",
		}),
		BadgesAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bida_badges_awarded_total",
			Help: "The total number of badges awarded.",
		}),
		MatchCreateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bida_match_create_duration_seconds",
			Help:    "The duration of the match-creation transaction.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bida_notifications_sent_total",
			Help: "The total number of result notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bida_notifications_failed_total",
			Help: "The total number of result notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bida_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.PlayersCreated,
		s.MatchesRecorded,
		s.BadgesAwarded,
		s.MatchCreateDuration,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncPlayersCreated() {
	s.PlayersCreated.Inc()
}

func (s *Service) IncMatchesRecorded() {
	s.MatchesRecorded.Inc()
}

func (s *Service) IncBadgesAwarded() {
	s.BadgesAwarded.Inc()
}

func (s *Service) ObserveMatchCreateDuration(duration float64) {
	s.MatchCreateDuration.Observe(duration)
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
