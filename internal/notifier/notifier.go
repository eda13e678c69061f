package notifier

import (
	"github.com/tranmq/bida-club/internal/club"
	"github.com/tranmq/bida-club/internal/ledger"
)

// Notifier defines a high-level interface for announcing business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendMatchRecorded announces a recorded match result and who pays next.
	SendMatchRecorded(match *ledger.MatchWithNames, nextPayer *club.PayerInfo) error
	// SendBadgeAwarded announces a badge award.
	SendBadgeAwarded(playerName, badgeName, icon string) error
}

// Noop is a Notifier that does nothing, used when no provider is configured.
type Noop struct{}

var _ Notifier = Noop{}

func (Noop) SendMatchRecorded(*ledger.MatchWithNames, *club.PayerInfo) error { return nil }
func (Noop) SendBadgeAwarded(string, string, string) error                   { return nil }
