package badges

import (
	"database/sql"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tranmq/bida-club/internal/apperr"
)

// New creates a new BadgeStore.
func New(db *sql.DB) BadgeStore {
	return &store{db: db}
}

func (s *store) GetAllBadges() ([]Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, description, icon FROM badges ORDER BY id")
	if err != nil {
		return nil, apperr.Database("query badges", err)
	}
	defer rows.Close()

	badges := []Badge{}
	for rows.Next() {
		var b Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Icon); err != nil {
			return nil, apperr.Database("query badges", err)
		}
		badges = append(badges, b)
	}
	return badges, nil
}

func (s *store) GetPlayerBadges(playerID int64) ([]PlayerBadge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT pb.id, pb.player_id, pb.badge_id, b.name, b.icon, pb.match_id, pb.awarded_at
		FROM player_badges pb
		JOIN badges b ON pb.badge_id = b.id
		WHERE pb.player_id = ?
		ORDER BY pb.awarded_at DESC
	`, playerID)
	if err != nil {
		return nil, apperr.Database("query player badges", err)
	}
	defer rows.Close()

	awarded := []PlayerBadge{}
	for rows.Next() {
		var pb PlayerBadge
		var matchID sql.NullString
		var awardedAt int64
		if err := rows.Scan(&pb.ID, &pb.PlayerID, &pb.BadgeID, &pb.Name, &pb.Icon, &matchID, &awardedAt); err != nil {
			return nil, apperr.Database("query player badges", err)
		}
		if matchID.Valid {
			pb.MatchID = &matchID.String
		}
		pb.AwardedAt = time.Unix(awardedAt, 0)
		awarded = append(awarded, pb)
	}
	return awarded, nil
}

func (s *store) HasBadge(playerID int64, badgeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM player_badges WHERE player_id = ? AND badge_id = ?)",
		playerID, badgeID,
	).Scan(&exists)
	if err != nil {
		return false, apperr.Database("check badge", err)
	}
	return exists, nil
}

func (s *store) AwardBadge(playerID int64, badgeID string, matchID *string) (*PlayerBadge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var badge Badge
	err := s.db.QueryRow("SELECT id, name, icon FROM badges WHERE id = ?", badgeID).
		Scan(&badge.ID, &badge.Name, &badge.Icon)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Badge", badgeID)
	}
	if err != nil {
		return nil, apperr.Database("award badge", err)
	}

	pb := &PlayerBadge{
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		BadgeID:   badgeID,
		Name:      badge.Name,
		Icon:      badge.Icon,
		MatchID:   matchID,
		AwardedAt: time.Now(),
	}
	_, err = s.db.Exec(`
		INSERT INTO player_badges (id, player_id, badge_id, match_id, awarded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(player_id, badge_id) DO NOTHING
	`, pb.ID, pb.PlayerID, pb.BadgeID, pb.MatchID, pb.AwardedAt.Unix())
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperr.NotFound("Player", playerID)
		}
		return nil, apperr.Database("award badge", err)
	}

	log.Info("Badge awarded", "playerID", playerID, "badge", badgeID)
	return pb, nil
}

func (s *store) RemoveBadge(playerID int64, badgeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM player_badges WHERE player_id = ? AND badge_id = ?", playerID, badgeID)
	if err != nil {
		return apperr.Database("remove badge", err)
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
