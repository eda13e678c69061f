package stats

import (
	"database/sql"
	"sync"
)

// store computes aggregate statistics from the ledger tables.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Timeframe selects the window for aggregate stats.
type Timeframe string

const (
	TimeframeAll   Timeframe = "all"
	TimeframeToday Timeframe = "today"
)

// PlayerStats is the computed per-player view. It is never stored.
type PlayerStats struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	TotalSpent    float64 `json:"totalSpent"`
	MatchesPlayed int     `json:"matchesPlayed"`
	WinRate       float64 `json:"winRate"`
}
