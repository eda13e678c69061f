package badges

import (
	"database/sql"
	"sync"
	"time"
)

// store handles badge catalog and award persistence.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Badge is a catalog entry.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// PlayerBadge is an awarded badge, joined with its catalog entry for display.
type PlayerBadge struct {
	ID        string    `json:"id"`
	PlayerID  int64     `json:"player_id"`
	BadgeID   string    `json:"badge_id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	MatchID   *string   `json:"match_id,omitempty"`
	AwardedAt time.Time `json:"awarded_at"`
}

// Badge ids seeded by the migrations.
const (
	BadgeAnnihilator   = "annihilator"
	BadgeBulletWarden  = "bullet-warden"
	BadgeTurtleMiracle = "turtle-miracle"
)
