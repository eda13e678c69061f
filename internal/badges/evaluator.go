package badges

import (
	"database/sql"

	"github.com/charmbracelet/log"
)

// evaluator reads match history through the match_stats rows and awards
// badges. All failures are logged and swallowed: badge evaluation is a
// best-effort side feature and must never fail a recorded match.
type evaluator struct {
	db    *sql.DB
	store BadgeStore
}

// NewEvaluator creates an Evaluator over the given store.
func NewEvaluator(db *sql.DB, store BadgeStore) Evaluator {
	return &evaluator{db: db, store: store}
}

func (e *evaluator) CheckAfterMatch(playerIDs []int64) []PlayerBadge {
	var awarded []PlayerBadge
	for _, id := range playerIDs {
		if pb := e.checkAnnihilator(id); pb != nil {
			awarded = append(awarded, *pb)
		}
		if pb := e.checkBulletWarden(id); pb != nil {
			awarded = append(awarded, *pb)
		}
	}
	return awarded
}

// checkAnnihilator awards the 5-consecutive-wins badge, looking at the
// player's 10 most recent matches.
func (e *evaluator) checkAnnihilator(playerID int64) *PlayerBadge {
	has, err := e.store.HasBadge(playerID, BadgeAnnihilator)
	if err != nil || has {
		return nil
	}

	rows, err := e.db.Query(`
		SELECT ms.wins
		FROM match_stats ms
		JOIN matches m ON ms.match_id = m.id
		WHERE ms.player_id = ?
		ORDER BY m.date DESC
		LIMIT 10
	`, playerID)
	if err != nil {
		log.Error("Failed to query matches for annihilator badge", "error", err, "playerID", playerID)
		return nil
	}
	defer rows.Close()

	streak := 0
	for rows.Next() {
		var wins int
		if err := rows.Scan(&wins); err != nil {
			log.Error("Failed to scan stat row for annihilator badge", "error", err, "playerID", playerID)
			return nil
		}
		if wins == 0 {
			break
		}
		streak++
		if streak >= 5 {
			pb, err := e.store.AwardBadge(playerID, BadgeAnnihilator, nil)
			if err != nil {
				log.Error("Failed to award annihilator badge", "error", err, "playerID", playerID)
				return nil
			}
			return pb
		}
	}
	return nil
}

// checkBulletWarden awards the controlled-play badge: a win rate of at least
// 60% over at least 10 matches.
func (e *evaluator) checkBulletWarden(playerID int64) *PlayerBadge {
	has, err := e.store.HasBadge(playerID, BadgeBulletWarden)
	if err != nil || has {
		return nil
	}

	var wins, played int
	err = e.db.QueryRow(`
		SELECT COALESCE(SUM(wins), 0), COALESCE(SUM(wins) + SUM(losses), 0)
		FROM match_stats
		WHERE player_id = ?
	`, playerID).Scan(&wins, &played)
	if err != nil {
		log.Error("Failed to query stats for bullet warden badge", "error", err, "playerID", playerID)
		return nil
	}

	if played < 10 {
		return nil
	}
	if float64(wins)/float64(played)*100 >= 60 {
		pb, err := e.store.AwardBadge(playerID, BadgeBulletWarden, nil)
		if err != nil {
			log.Error("Failed to award bullet warden badge", "error", err, "playerID", playerID)
			return nil
		}
		return pb
	}
	return nil
}
