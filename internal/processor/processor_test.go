package processor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tranmq/bida-club/internal/apperr"
	"github.com/tranmq/bida-club/internal/badges"
	"github.com/tranmq/bida-club/internal/club"
	"github.com/tranmq/bida-club/internal/database"
	"github.com/tranmq/bida-club/internal/ledger"
	"github.com/tranmq/bida-club/internal/metrics"
	"github.com/tranmq/bida-club/internal/notifier"
	"github.com/tranmq/bida-club/internal/processor"
)

type fixture struct {
	proc     *processor.Processor
	players  club.ClubStore
	ledger   ledger.MatchLedger
	notifier *notifier.Mock
	metrics  *metrics.Mock
	teardown func()
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	players := club.New(db, nil)
	matchLedger := ledger.New(db, nil)
	badgeStore := badges.New(db)
	notifierMock := notifier.NewMock()
	metricsMock := metrics.NewMock()

	return &fixture{
		proc:     processor.New(players, matchLedger, badges.NewEvaluator(db, badgeStore), notifierMock, metricsMock),
		players:  players,
		ledger:   matchLedger,
		notifier: notifierMock,
		metrics:  metricsMock,
		teardown: dbTeardown,
	}
}

func (f *fixture) seed(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		_, err := f.players.CreatePlayer(name)
		require.NoError(t, err)
	}
}

func TestRecordMatch(t *testing.T) {
	f := setup(t)
	defer f.teardown()
	f.seed(t, "Minh", "Toàn", "Hải")

	match, err := f.proc.RecordMatch(processor.RecordMatchParams{
		Winners: []string{"Minh"},
		Loser:   "Toàn",
		Cost:    50,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Minh"}, match.Winners)
	assert.Equal(t, "Toàn", match.Loser)
	assert.Equal(t, "Minh", match.Payer, "the rotation opened on the first registered player")
	assert.Equal(t, ledger.ResultWin, match.Result)

	assert.Equal(t, 1, f.metrics.MatchesRecorded)
	require.Len(t, f.notifier.MatchRecordedCalls, 1)
	call := f.notifier.MatchRecordedCalls[0]
	assert.Equal(t, match.ID, call.Match.ID)
	require.NotNil(t, call.NextPayer)
	assert.Equal(t, "Toàn", call.NextPayer.Name)
}

func TestRecordMatchRotatesPayers(t *testing.T) {
	f := setup(t)
	defer f.teardown()
	f.seed(t, "Minh", "Toàn", "Hải")

	// Three matches walk the rotation through all three players.
	wantPayers := []string{"Minh", "Toàn", "Hải"}
	for i, want := range wantPayers {
		match, err := f.proc.RecordMatch(processor.RecordMatchParams{
			Winners: []string{"Minh"},
			Loser:   "Toàn",
		})
		require.NoError(t, err)
		assert.Equal(t, want, match.Payer, "match %d", i)
	}

	// The fourth match wraps around.
	match, err := f.proc.RecordMatch(processor.RecordMatchParams{
		Winners: []string{"Minh"},
		Loser:   "Toàn",
	})
	require.NoError(t, err)
	assert.Equal(t, "Minh", match.Payer)
}

func TestRecordMatchUnknownWinner(t *testing.T) {
	f := setup(t)
	defer f.teardown()
	f.seed(t, "Minh", "Toàn")

	_, err := f.proc.RecordMatch(processor.RecordMatchParams{
		Winners: []string{"Nobody"},
		Loser:   "Toàn",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	// Nothing was written and the rotation did not move.
	matches, err := f.ledger.GetAllMatches()
	require.NoError(t, err)
	assert.Empty(t, matches)

	payer, err := f.players.CurrentPayer()
	require.NoError(t, err)
	require.NotNil(t, payer)
	assert.Equal(t, "Minh", payer.Name)
	assert.Empty(t, f.notifier.MatchRecordedCalls)
}

func TestRecordMatchUnknownLoser(t *testing.T) {
	f := setup(t)
	defer f.teardown()
	f.seed(t, "Minh", "Toàn")

	_, err := f.proc.RecordMatch(processor.RecordMatchParams{
		Winners: []string{"Minh"},
		Loser:   "Nobody",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRecordMatchNoPlayers(t *testing.T) {
	f := setup(t)
	defer f.teardown()

	_, err := f.proc.RecordMatch(processor.RecordMatchParams{
		Winners: []string{"Minh"},
		Loser:   "Toàn",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRecordMatchDraw(t *testing.T) {
	f := setup(t)
	defer f.teardown()
	f.seed(t, "Minh", "Toàn", "Hải")

	match, err := f.proc.RecordMatch(processor.RecordMatchParams{
		Winners: []string{"Minh", "Toàn"},
		Loser:   "Hải",
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.ResultDraw, match.Result)
	assert.ElementsMatch(t, []string{"Minh", "Toàn"}, match.Winners)
}

func TestRecordMatchWithParticipantsAndDetails(t *testing.T) {
	f := setup(t)
	defer f.teardown()
	f.seed(t, "Minh", "Toàn", "Hải")

	match, err := f.proc.RecordMatch(processor.RecordMatchParams{
		Winners:      []string{"Minh"},
		Loser:        "Toàn",
		Participants: []string{"Minh", "Toàn", "Hải", "Guest"},
		Details: []processor.StatDetailParams{
			{Player: "Minh", Wins: 2, Losses: 0},
			{Player: "Toàn", Wins: 0, Losses: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Minh", "Toàn", "Hải", "Guest"}, match.Participants)
}

func TestRecordMatchUnknownDetailPlayer(t *testing.T) {
	f := setup(t)
	defer f.teardown()
	f.seed(t, "Minh", "Toàn")

	_, err := f.proc.RecordMatch(processor.RecordMatchParams{
		Winners: []string{"Minh"},
		Loser:   "Toàn",
		Details: []processor.StatDetailParams{{Player: "Nobody", Wins: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRecordMatchBadgeNotification(t *testing.T) {
	f := setup(t)
	defer f.teardown()
	f.seed(t, "Minh", "Toàn")

	// The fifth straight win earns the streak badge and a notification.
	for i := 0; i < 5; i++ {
		_, err := f.proc.RecordMatch(processor.RecordMatchParams{
			Winners: []string{"Minh"},
			Loser:   "Toàn",
		})
		require.NoError(t, err)
	}

	require.Len(t, f.notifier.BadgeAwardedCalls, 1)
	assert.Equal(t, "Minh", f.notifier.BadgeAwardedCalls[0].PlayerName)
	assert.Equal(t, 1, f.metrics.BadgesAwarded)
}

func TestSeedPlayers(t *testing.T) {
	f := setup(t)
	defer f.teardown()

	f.proc.SeedPlayers([]string{"Minh", "Toàn", "Hải"})
	players, err := f.players.GetAllPlayers()
	require.NoError(t, err)
	assert.Len(t, players, 3)

	// Seeding again is idempotent.
	f.proc.SeedPlayers([]string{"Minh", "Toàn", "Hải"})
	players, err = f.players.GetAllPlayers()
	require.NoError(t, err)
	assert.Len(t, players, 3)
}
