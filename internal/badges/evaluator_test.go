package badges_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tranmq/bida-club/internal/badges"
	"github.com/tranmq/bida-club/internal/club"
	"github.com/tranmq/bida-club/internal/database"
	"github.com/tranmq/bida-club/internal/ledger"
)

func setupEvaluator(t *testing.T) (badges.Evaluator, badges.BadgeStore, club.ClubStore, ledger.MatchLedger, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := badges.New(db)
	return badges.NewEvaluator(db, store), store, club.New(db, nil), ledger.New(db, nil), db, dbTeardown
}

// spreadMatchDates separates match dates by insertion order, so date ordering
// is deterministic even when matches were recorded within the same second.
func spreadMatchDates(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`
		UPDATE matches
		SET date = date + (SELECT COUNT(*) FROM matches m2 WHERE m2.rowid <= matches.rowid)
	`)
	require.NoError(t, err)
}

func playMatches(t *testing.T, matchLedger ledger.MatchLedger, winnerID, loserID int64, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		_, err := matchLedger.CreateMatch(ledger.CreateMatchParams{
			WinnerIDs: []int64{winnerID},
			LoserID:   loserID,
		})
		require.NoError(t, err)
	}
}

func TestAnnihilatorAfterFiveStraightWins(t *testing.T) {
	evaluator, store, players, matchLedger, _, teardown := setupEvaluator(t)
	defer teardown()

	minh, err := players.CreatePlayer("Minh")
	require.NoError(t, err)
	toan, err := players.CreatePlayer("Toàn")
	require.NoError(t, err)

	playMatches(t, matchLedger, minh.ID, toan.ID, 4)
	awarded := evaluator.CheckAfterMatch([]int64{minh.ID, toan.ID})
	assert.Empty(t, awarded, "four wins is not yet a streak")

	playMatches(t, matchLedger, minh.ID, toan.ID, 1)
	awarded = evaluator.CheckAfterMatch([]int64{minh.ID, toan.ID})
	require.Len(t, awarded, 1)
	assert.Equal(t, badges.BadgeAnnihilator, awarded[0].BadgeID)
	assert.Equal(t, minh.ID, awarded[0].PlayerID)

	has, err := store.HasBadge(minh.ID, badges.BadgeAnnihilator)
	require.NoError(t, err)
	assert.True(t, has)

	// Held badges are not re-awarded.
	awarded = evaluator.CheckAfterMatch([]int64{minh.ID})
	assert.Empty(t, awarded)
}

func TestAnnihilatorStreakBrokenByLoss(t *testing.T) {
	evaluator, store, players, matchLedger, db, teardown := setupEvaluator(t)
	defer teardown()

	minh, err := players.CreatePlayer("Minh")
	require.NoError(t, err)
	toan, err := players.CreatePlayer("Toàn")
	require.NoError(t, err)

	// Four wins, a loss, then four more wins: the most recent streak is four.
	playMatches(t, matchLedger, minh.ID, toan.ID, 4)
	playMatches(t, matchLedger, toan.ID, minh.ID, 1)
	playMatches(t, matchLedger, minh.ID, toan.ID, 4)
	spreadMatchDates(t, db)

	evaluator.CheckAfterMatch([]int64{minh.ID})
	has, err := store.HasBadge(minh.ID, badges.BadgeAnnihilator)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBulletWardenNeedsTenMatches(t *testing.T) {
	evaluator, store, players, matchLedger, _, teardown := setupEvaluator(t)
	defer teardown()

	minh, err := players.CreatePlayer("Minh")
	require.NoError(t, err)
	toan, err := players.CreatePlayer("Toàn")
	require.NoError(t, err)

	// A perfect record over nine matches is not enough volume. The annihilator
	// badge fires along the way, which is fine here.
	playMatches(t, matchLedger, minh.ID, toan.ID, 9)
	evaluator.CheckAfterMatch([]int64{minh.ID})
	has, err := store.HasBadge(minh.ID, badges.BadgeBulletWarden)
	require.NoError(t, err)
	assert.False(t, has)

	playMatches(t, matchLedger, minh.ID, toan.ID, 1)
	evaluator.CheckAfterMatch([]int64{minh.ID})
	has, err = store.HasBadge(minh.ID, badges.BadgeBulletWarden)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestBulletWardenNeedsSixtyPercent(t *testing.T) {
	evaluator, store, players, matchLedger, _, teardown := setupEvaluator(t)
	defer teardown()

	minh, err := players.CreatePlayer("Minh")
	require.NoError(t, err)
	toan, err := players.CreatePlayer("Toàn")
	require.NoError(t, err)

	// 5 wins and 5 losses over ten matches is a 50% rate.
	playMatches(t, matchLedger, minh.ID, toan.ID, 5)
	playMatches(t, matchLedger, toan.ID, minh.ID, 5)

	evaluator.CheckAfterMatch([]int64{minh.ID})
	has, err := store.HasBadge(minh.ID, badges.BadgeBulletWarden)
	require.NoError(t, err)
	assert.False(t, has)

	// Four more wins brings Minh to 9 of 14, clearing 60%.
	playMatches(t, matchLedger, minh.ID, toan.ID, 4)
	evaluator.CheckAfterMatch([]int64{minh.ID})
	has, err = store.HasBadge(minh.ID, badges.BadgeBulletWarden)
	require.NoError(t, err)
	assert.True(t, has)
}
