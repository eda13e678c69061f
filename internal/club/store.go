package club

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tranmq/bida-club/internal/apperr"
)

// New creates a new ClubStore. payerOrder is the optional priority list used
// to order the payer rotation; empty means registration order.
func New(db *sql.DB, payerOrder []string) ClubStore {
	return &store{
		db:         db,
		payerOrder: payerOrder,
	}
}

func (s *store) PayerOrder() []string {
	return s.payerOrder
}

// CreatePlayer registers a player. The very first player also initializes the
// payer rotation, in the same transaction.
func (s *store) CreatePlayer(name string) (*Player, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, apperr.Validation("player name is required", "name", name)
	}
	if len([]rune(trimmed)) > 100 {
		return nil, apperr.Validation("player name must be at most 100 characters", "name", trimmed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.findPlayerByName(trimmed)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Duplicate("Player", "name", trimmed)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Database("create player", err)
	}

	now := time.Now()
	res, err := tx.Exec("INSERT INTO players (name, created_at, updated_at) VALUES (?, ?, ?)", trimmed, now.Unix(), now.Unix())
	if err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return nil, apperr.Duplicate("Player", "name", trimmed)
		}
		return nil, apperr.Database("create player", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, apperr.Database("create player", err)
	}

	// Bootstrap the rotation when this is the first player in the system.
	var hasRotation bool
	if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM payer_rotation)").Scan(&hasRotation); err != nil {
		tx.Rollback()
		return nil, apperr.Database("create player", err)
	}
	if !hasRotation {
		_, err = tx.Exec("INSERT INTO payer_rotation (id, current_payer_id, version, updated_at) VALUES (1, ?, 0, ?)", id, now.Unix())
		if err != nil {
			tx.Rollback()
			return nil, apperr.Database("initialize payer rotation", err)
		}
		log.Info("Initialized payer rotation with first player", "playerID", id, "name", trimmed)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Database("create player", err)
	}

	log.Info("Player created", "playerID", id, "name", trimmed)
	return &Player{ID: id, Name: trimmed, CreatedAt: now, UpdatedAt: now}, nil
}

// FindPlayerByName returns the player, or nil when no player has that name.
// A blank name is a validation error, not a lookup miss.
func (s *store) FindPlayerByName(name string) (*Player, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("player name is required", "name", name)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findPlayerByName(strings.TrimSpace(name))
}

func (s *store) findPlayerByName(name string) (*Player, error) {
	row := s.db.QueryRow("SELECT id, name, created_at, updated_at FROM players WHERE name = ?", name)
	return scanPlayer(row, "find player by name")
}

func (s *store) FindPlayerByID(id int64) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRow("SELECT id, name, created_at, updated_at FROM players WHERE id = ?", id)
	return scanPlayer(row, "find player by id")
}

func scanPlayer(row *sql.Row, op string) (*Player, error) {
	var p Player
	var createdAt, updatedAt int64
	err := row.Scan(&p.ID, &p.Name, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Database(op, err)
	}
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}

// GetAllPlayers returns all players in registration order.
func (s *store) GetAllPlayers() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, created_at, updated_at FROM players ORDER BY id ASC")
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, apperr.Database("get all players", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		var createdAt, updatedAt int64
		if err := rows.Scan(&p.ID, &p.Name, &createdAt, &updatedAt); err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		p.CreatedAt = time.Unix(createdAt, 0)
		p.UpdatedAt = time.Unix(updatedAt, 0)
		players = append(players, p)
	}
	return players, nil
}

// DeletePlayer removes a player and every match referencing it. The loser and
// payer references cascade through foreign keys; matches won by the player
// live in a JSON column and are removed explicitly in the same transaction.
func (s *store) DeletePlayer(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return false, apperr.Database("delete player", err)
	}

	wonMatchIDs, err := matchesWonBy(tx, id)
	if err != nil {
		tx.Rollback()
		return false, err
	}
	for _, matchID := range wonMatchIDs {
		if _, err := tx.Exec("DELETE FROM matches WHERE id = ?", matchID); err != nil {
			tx.Rollback()
			return false, apperr.Database("delete player matches", err)
		}
	}

	res, err := tx.Exec("DELETE FROM players WHERE id = ?", id)
	if err != nil {
		tx.Rollback()
		return false, apperr.Database("delete player", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return false, apperr.Database("delete player", err)
	}

	if err := tx.Commit(); err != nil {
		return false, apperr.Database("delete player", err)
	}

	if affected > 0 {
		log.Info("Player deleted", "playerID", id, "cascaded_won_matches", len(wonMatchIDs))
	}
	return affected > 0, nil
}

// matchesWonBy scans the winners arrays for matches the player appears in.
func matchesWonBy(tx *sql.Tx, playerID int64) ([]string, error) {
	rows, err := tx.Query("SELECT id, winners_json FROM matches")
	if err != nil {
		return nil, apperr.Database("scan won matches", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var matchID, winnersJSON string
		if err := rows.Scan(&matchID, &winnersJSON); err != nil {
			return nil, apperr.Database("scan won matches", err)
		}
		var winners []int64
		if err := json.Unmarshal([]byte(winnersJSON), &winners); err != nil {
			log.Error("Failed to unmarshal winners_json", "error", err, "matchID", matchID)
			continue
		}
		for _, w := range winners {
			if w == playerID {
				ids = append(ids, matchID)
				break
			}
		}
	}
	return ids, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
