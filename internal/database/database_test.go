package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {

	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "InitDB should not return an error")
	if teardown != nil {
		defer teardown()
	} else {
		defer db.Close()
	}

	for _, table := range []string{"players", "matches", "match_stats", "payer_rotation", "badges", "player_badges"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "Querying for %s table should not produce an error", table)
		assert.Equal(t, table, name, "The '%s' table should be created", table)
	}

	// Foreign keys must be enforced for the cascade deletes to work.
	var fkEnabled int
	err = db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled)
	require.NoError(t, err)
	assert.Equal(t, 1, fkEnabled)
}

func TestInitDB_SeedsBadgeCatalog(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM badges").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
