package club

import (
	"database/sql"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tranmq/bida-club/internal/apperr"
)

// CurrentPayer returns the rotation pointer, or nil when uninitialized.
func (s *store) CurrentPayer() (*PayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return currentPayer(s.db)
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func currentPayer(q querier) (*PayerInfo, error) {
	var payer PayerInfo
	err := q.QueryRow(`
		SELECT p.id, p.name
		FROM payer_rotation pr
		JOIN players p ON pr.current_payer_id = p.id
		LIMIT 1
	`).Scan(&payer.ID, &payer.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Database("get current payer", err)
	}
	return &payer, nil
}

// NextPayer returns the current payer, initializing the rotation with the
// first-registered player when it has never been set.
func (s *store) NextPayer() (*PayerInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payer, err := currentPayer(s.db)
	if err != nil {
		return nil, err
	}
	if payer != nil {
		return payer, nil
	}

	var first PayerInfo
	err = s.db.QueryRow("SELECT id, name FROM players ORDER BY id ASC LIMIT 1").Scan(&first.ID, &first.Name)
	if err == sql.ErrNoRows {
		return nil, apperr.NoPlayers()
	}
	if err != nil {
		return nil, apperr.Database("initialize payer rotation", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO payer_rotation (id, current_payer_id, version, updated_at) VALUES (1, ?, 0, ?) ON CONFLICT(id) DO NOTHING",
		first.ID, time.Now().Unix(),
	)
	if err != nil {
		return nil, apperr.Database("initialize payer rotation", err)
	}
	log.Info("Payer rotation initialized", "payerID", first.ID, "name", first.Name)
	return &first, nil
}

// RotateToNext recomputes the player ordering and advances the pointer. The
// ordering is computed fresh on every call so membership changes between
// rotations cannot strand the pointer on a cached index.
func (s *store) RotateToNext() (*PayerInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Database("rotate payer", err)
	}
	next, err := rotateToNextTx(tx, s.payerOrder)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Database("rotate payer", err)
	}
	return next, nil
}

// rotateToNextTx advances the rotation inside an existing transaction. The
// ledger reuses this during match creation so the match insert and the
// rotation advance commit together.
func rotateToNextTx(tx *sql.Tx, payerOrder []string) (*PayerInfo, error) {
	rows, err := tx.Query("SELECT id, name FROM players ORDER BY id ASC")
	if err != nil {
		return nil, apperr.Database("rotate payer", err)
	}
	var players []PayerInfo
	for rows.Next() {
		var p PayerInfo
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			rows.Close()
			return nil, apperr.Database("rotate payer", err)
		}
		players = append(players, p)
	}
	rows.Close()

	if len(players) == 0 {
		return nil, apperr.NoPlayers()
	}

	current, err := currentPayer(tx)
	if err != nil {
		return nil, err
	}

	order := RotationOrder(players, payerOrder)
	var currentID int64 = -1
	var version int64
	if current != nil {
		currentID = current.ID
		if err := tx.QueryRow("SELECT version FROM payer_rotation WHERE id = 1").Scan(&version); err != nil {
			return nil, apperr.Database("rotate payer", err)
		}
	}
	next := NextInRotation(order, currentID)

	if current == nil {
		_, err = tx.Exec(
			"INSERT INTO payer_rotation (id, current_payer_id, version, updated_at) VALUES (1, ?, 0, ?)",
			next.ID, time.Now().Unix(),
		)
		if err != nil {
			return nil, apperr.Database("rotate payer", err)
		}
		return &next, nil
	}

	// Optimistic version check: a concurrent advance bumps the version and
	// this update then touches zero rows.
	res, err := tx.Exec(
		"UPDATE payer_rotation SET current_payer_id = ?, version = version + 1, updated_at = ? WHERE id = 1 AND version = ?",
		next.ID, time.Now().Unix(), version,
	)
	if err != nil {
		return nil, apperr.Database("rotate payer", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, apperr.Database("rotate payer", sql.ErrTxDone)
	}
	log.Debug("Payer rotation advanced", "from", currentID, "to", next.ID, "payer", next.Name)
	return &next, nil
}

// AdvanceRotation advances the rotation inside a transaction owned by the
// caller. The match ledger is the only production caller: a match insert and
// its rotation advance commit or roll back together.
func AdvanceRotation(tx *sql.Tx, payerOrder []string) (*PayerInfo, error) {
	return rotateToNextTx(tx, payerOrder)
}

// RotationOrder returns the deterministic payer sequence. With a configured
// priority list, listed players come first in list order and everyone else
// follows alphabetically; without one, registration order applies. players
// must already be sorted by id ascending.
func RotationOrder(players []PayerInfo, payerOrder []string) []PayerInfo {
	if len(payerOrder) == 0 {
		return players
	}

	priority := make(map[string]int, len(payerOrder))
	for i, name := range payerOrder {
		priority[name] = i
	}

	ordered := make([]PayerInfo, len(players))
	copy(ordered, players)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, iListed := priority[ordered[i].Name]
		pj, jListed := priority[ordered[j].Name]
		switch {
		case iListed && jListed:
			return pi < pj
		case iListed:
			return true
		case jListed:
			return false
		default:
			return ordered[i].Name < ordered[j].Name
		}
	})
	return ordered
}

// NextInRotation is a pure function of the ordered player list and the
// current payer id. A current payer missing from the ordering resets the
// pointer to the start instead of failing.
func NextInRotation(order []PayerInfo, currentID int64) PayerInfo {
	for i, p := range order {
		if p.ID == currentID {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}
