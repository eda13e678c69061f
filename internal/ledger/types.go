package ledger

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for matches and their stat rows.
type store struct {
	db         *sql.DB
	mu         sync.RWMutex
	payerOrder []string
}

// MatchResult distinguishes a single-winner match from a multi-winner draw.
type MatchResult string

const (
	ResultWin  MatchResult = "win"
	ResultDraw MatchResult = "draw"
)

// Match is the persisted ledger row, referencing players by id.
type Match struct {
	ID           string      `json:"id"`
	WinnerIDs    []int64     `json:"winner_ids"`
	LoserID      int64       `json:"loser_id"`
	PayerID      int64       `json:"payer_id"`
	Cost         float64     `json:"cost"`
	Date         time.Time   `json:"date"`
	Participants []string    `json:"participants,omitempty"`
	Result       MatchResult `json:"match_result"`
}

// MatchWithNames is the display form, joined with player names.
type MatchWithNames struct {
	ID           string      `json:"id"`
	Winners      []string    `json:"winners"`
	Loser        string      `json:"loser"`
	Payer        string      `json:"payer"`
	Cost         float64     `json:"cost"`
	Date         time.Time   `json:"date"`
	Participants []string    `json:"participants,omitempty"`
	Result       MatchResult `json:"match_result"`
}

// StatDetail is an explicit per-player win/loss contribution supplied at
// match-creation time. It overrides the inferred stat rows when present.
type StatDetail struct {
	PlayerID int64
	Wins     int
	Losses   int
}

// CreateMatchParams carries resolved player ids into the ledger. Name
// resolution happens in the calling service.
type CreateMatchParams struct {
	WinnerIDs []int64
	LoserID   int64
	Cost      float64
	// Participants is the free-form ordered display list.
	Participants []string
	// ExtraParticipantIDs are registered players listed in Participants who
	// are neither winners nor the loser; they receive 0/0 stat rows.
	ExtraParticipantIDs []int64
	Details             []StatDetail
}

// Timeframe selects the date window for expense summaries.
type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
	TimeframeAll   Timeframe = "all"
)

// ExpenseData sums match costs per payer. Every registered player is present,
// zero-valued when they paid for nothing in the window.
type ExpenseData struct {
	Total    float64            `json:"total"`
	ByPlayer map[string]float64 `json:"byPlayer"`
}
