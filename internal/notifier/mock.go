package notifier

import (
	"sync"

	"github.com/tranmq/bida-club/internal/club"
	"github.com/tranmq/bida-club/internal/ledger"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	MatchRecordedCalls []struct {
		Match     *ledger.MatchWithNames
		NextPayer *club.PayerInfo
	}
	BadgeAwardedCalls []struct {
		PlayerName string
		BadgeName  string
	}

	// SendMatchRecordedErr, when set, is returned by SendMatchRecorded.
	SendMatchRecordedErr error
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendMatchRecorded(match *ledger.MatchWithNames, nextPayer *club.PayerInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchRecordedCalls = append(m.MatchRecordedCalls, struct {
		Match     *ledger.MatchWithNames
		NextPayer *club.PayerInfo
	}{match, nextPayer})
	return m.SendMatchRecordedErr
}

func (m *Mock) SendBadgeAwarded(playerName, badgeName, icon string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BadgeAwardedCalls = append(m.BadgeAwardedCalls, struct {
		PlayerName string
		BadgeName  string
	}{playerName, badgeName})
	return nil
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchRecordedCalls = nil
	m.BadgeAwardedCalls = nil
}
