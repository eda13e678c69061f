package metrics

import "sync"

// Mock is an in-memory Metrics implementation for tests.
type Mock struct {
	mu                  sync.Mutex
	PlayersCreated      int
	MatchesRecorded     int
	BadgesAwarded       int
	NotifSent           int
	NotifFailed         int
	Durations           []float64
	StartupTimeObserved float64
}

var _ Metrics = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncPlayersCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayersCreated++
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchesRecorded++
}

func (m *Mock) IncBadgesAwarded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BadgesAwarded++
}

func (m *Mock) ObserveMatchCreateDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Durations = append(m.Durations, duration)
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimeObserved = duration
}
