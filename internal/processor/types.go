package processor

import (
	"github.com/tranmq/bida-club/internal/badges"
	"github.com/tranmq/bida-club/internal/metrics"
)

// Processor handles the business logic of recording matches.
type Processor struct {
	players   PlayerStore
	ledger    Ledger
	evaluator badges.Evaluator
	notifier  Notifier
	metrics   metrics.Metrics
}

// RecordMatchParams is the name-based match submission. Names are resolved
// against the player roster before anything is written.
type RecordMatchParams struct {
	Winners      []string
	Loser        string
	Cost         float64
	Participants []string
	Details      []StatDetailParams
}

// StatDetailParams is an explicit per-player stat contribution, by name.
type StatDetailParams struct {
	Player string
	Wins   int
	Losses int
}
