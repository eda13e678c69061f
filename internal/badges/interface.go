package badges

// BadgeStore defines persistence for badges and awards.
type BadgeStore interface {
	GetAllBadges() ([]Badge, error)
	GetPlayerBadges(playerID int64) ([]PlayerBadge, error)
	HasBadge(playerID int64, badgeID string) (bool, error)
	// AwardBadge is idempotent: awarding a badge the player already holds is
	// a no-op.
	AwardBadge(playerID int64, badgeID string, matchID *string) (*PlayerBadge, error)
	RemoveBadge(playerID int64, badgeID string) error
}

// Evaluator inspects match history after a recorded match and awards any
// earned badges. It never feeds back into match recording.
type Evaluator interface {
	// CheckAfterMatch returns the badges newly awarded by this check.
	CheckAfterMatch(playerIDs []int64) []PlayerBadge
}
