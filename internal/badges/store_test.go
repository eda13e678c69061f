package badges_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tranmq/bida-club/internal/apperr"
	"github.com/tranmq/bida-club/internal/badges"
	"github.com/tranmq/bida-club/internal/club"
	"github.com/tranmq/bida-club/internal/database"
)

func setupTestDB(t *testing.T) (badges.BadgeStore, club.ClubStore, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return badges.New(db), club.New(db, nil), dbTeardown
}

func TestGetAllBadges(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	catalog, err := store.GetAllBadges()
	require.NoError(t, err)
	require.Len(t, catalog, 3)

	ids := make([]string, 0, len(catalog))
	for _, b := range catalog {
		ids = append(ids, b.ID)
		assert.NotEmpty(t, b.Name)
		assert.NotEmpty(t, b.Icon)
	}
	assert.Contains(t, ids, badges.BadgeAnnihilator)
	assert.Contains(t, ids, badges.BadgeBulletWarden)
	assert.Contains(t, ids, badges.BadgeTurtleMiracle)
}

func TestAwardBadge(t *testing.T) {
	store, players, teardown := setupTestDB(t)
	defer teardown()

	player, err := players.CreatePlayer("Minh")
	require.NoError(t, err)

	awarded, err := store.AwardBadge(player.ID, badges.BadgeTurtleMiracle, nil)
	require.NoError(t, err)
	assert.Equal(t, badges.BadgeTurtleMiracle, awarded.BadgeID)
	assert.NotEmpty(t, awarded.Name)

	has, err := store.HasBadge(player.ID, badges.BadgeTurtleMiracle)
	require.NoError(t, err)
	assert.True(t, has)

	// Awarding again is a no-op, not an error.
	_, err = store.AwardBadge(player.ID, badges.BadgeTurtleMiracle, nil)
	require.NoError(t, err)

	playerBadges, err := store.GetPlayerBadges(player.ID)
	require.NoError(t, err)
	require.Len(t, playerBadges, 1)
	assert.Equal(t, badges.BadgeTurtleMiracle, playerBadges[0].BadgeID)
}

func TestAwardBadgeUnknownBadge(t *testing.T) {
	store, players, teardown := setupTestDB(t)
	defer teardown()

	player, err := players.CreatePlayer("Minh")
	require.NoError(t, err)

	_, err = store.AwardBadge(player.ID, "no-such-badge", nil)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAwardBadgeUnknownPlayer(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.AwardBadge(9999, badges.BadgeTurtleMiracle, nil)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRemoveBadge(t *testing.T) {
	store, players, teardown := setupTestDB(t)
	defer teardown()

	player, err := players.CreatePlayer("Minh")
	require.NoError(t, err)

	_, err = store.AwardBadge(player.ID, badges.BadgeTurtleMiracle, nil)
	require.NoError(t, err)

	err = store.RemoveBadge(player.ID, badges.BadgeTurtleMiracle)
	require.NoError(t, err)

	has, err := store.HasBadge(player.ID, badges.BadgeTurtleMiracle)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBadgesRemovedWithPlayer(t *testing.T) {
	store, players, teardown := setupTestDB(t)
	defer teardown()

	player, err := players.CreatePlayer("Minh")
	require.NoError(t, err)

	_, err = store.AwardBadge(player.ID, badges.BadgeTurtleMiracle, nil)
	require.NoError(t, err)

	deleted, err := players.DeletePlayer(player.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	playerBadges, err := store.GetPlayerBadges(player.ID)
	require.NoError(t, err)
	assert.Empty(t, playerBadges)
}
