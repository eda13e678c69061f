package stats

// Aggregator defines the read-side statistics queries.
type Aggregator interface {
	// AllStats sums wins and losses from the match_stats rows and spend from
	// the matches each player paid, ordered by wins then win rate descending.
	AllStats(timeframe Timeframe) ([]PlayerStats, error)
	// DailyChampion is the alternate aggregation over today's matches, driven
	// entirely by each match's ordered participants list: the first listed
	// name counts as the winner, every other listed name as a loss. This is
	// intentionally a second, divergent definition of "win" used only here.
	DailyChampion() ([]PlayerStats, error)
	// PlayerStats returns one player's stats, zero-valued when the player has
	// no recorded matches, or nil when the player does not exist.
	PlayerStats(id int64) (*PlayerStats, error)
}
