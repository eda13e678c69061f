package club

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for players and the payer rotation.
type store struct {
	db         *sql.DB
	mu         sync.RWMutex
	payerOrder []string
}

// Player is a registered member of the club.
type Player struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PayerInfo identifies who pays for the next match.
type PayerInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
