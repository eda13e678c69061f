package processor

import (
	"github.com/tranmq/bida-club/internal/club"
	"github.com/tranmq/bida-club/internal/ledger"
	"github.com/tranmq/bida-club/internal/notifier"
)

// PlayerStore defines the roster and rotation operations required by the processor.
type PlayerStore interface {
	CreatePlayer(name string) (*club.Player, error)
	FindPlayerByName(name string) (*club.Player, error)
	NextPayer() (*club.PayerInfo, error)
}

// Ledger defines the match operations required by the processor.
type Ledger interface {
	CreateMatch(params ledger.CreateMatchParams) (*ledger.Match, error)
	GetMatchByID(id string) (*ledger.MatchWithNames, error)
}

// Notifier defines the notification operations required by the processor.
// This is an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
