package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service is the Prometheus-backed Metrics implementation.
type Service struct {
	PlayersCreated      prometheus.Counter
	MatchesRecorded     prometheus.Counter
	BadgesAwarded       prometheus.Counter
	MatchCreateDuration prometheus.Histogram
	NotifSent           prometheus.Counter
	NotifFailed         prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
