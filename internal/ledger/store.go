package ledger

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tranmq/bida-club/internal/apperr"
	"github.com/tranmq/bida-club/internal/club"
)

// New creates a new MatchLedger. payerOrder is forwarded to the rotation
// advance that runs inside each match-creation transaction.
func New(db *sql.DB, payerOrder []string) MatchLedger {
	return &store{
		db:         db,
		payerOrder: payerOrder,
	}
}

// CreateMatch validates the outcome and persists it. The match insert, the
// stat rows and the rotation advance share one transaction: either the whole
// outcome is recorded or none of it is.
func (s *store) CreateMatch(params CreateMatchParams) (*Match, error) {
	if err := validateOutcome(params); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Database("create match", err)
	}

	var payerID int64
	err = tx.QueryRow("SELECT current_payer_id FROM payer_rotation WHERE id = 1").Scan(&payerID)
	if err == sql.ErrNoRows {
		tx.Rollback()
		return nil, apperr.NoPlayers()
	}
	if err != nil {
		tx.Rollback()
		return nil, apperr.Database("read payer rotation", err)
	}

	match := &Match{
		ID:           uuid.NewString(),
		WinnerIDs:    params.WinnerIDs,
		LoserID:      params.LoserID,
		PayerID:      payerID,
		Cost:         params.Cost,
		Date:         time.Now(),
		Participants: params.Participants,
		Result:       resultFor(params.WinnerIDs),
	}

	winnersJSON, err := json.Marshal(match.WinnerIDs)
	if err != nil {
		tx.Rollback()
		return nil, apperr.Database("create match", err)
	}
	var participantsJSON any
	if len(match.Participants) > 0 {
		raw, err := json.Marshal(match.Participants)
		if err != nil {
			tx.Rollback()
			return nil, apperr.Database("create match", err)
		}
		participantsJSON = string(raw)
	}

	_, err = tx.Exec(`
		INSERT INTO matches (id, winners_json, loser_id, payer_id, cost, date, created_at, participants_json, match_result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, match.ID, string(winnersJSON), match.LoserID, match.PayerID, match.Cost, match.Date.Unix(), match.Date.Unix(), participantsJSON, string(match.Result))
	if err != nil {
		tx.Rollback()
		if isForeignKeyViolation(err) {
			return nil, apperr.NotFound("Player", params.LoserID)
		}
		return nil, apperr.Database("create match", err)
	}

	if err := writeStatRows(tx, match, params); err != nil {
		tx.Rollback()
		return nil, err
	}

	if _, err := club.AdvanceRotation(tx, s.payerOrder); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Database("create match", err)
	}

	log.Info("Match recorded", "matchID", match.ID, "result", match.Result, "payerID", match.PayerID, "cost", match.Cost)
	return match, nil
}

func validateOutcome(params CreateMatchParams) error {
	if len(params.WinnerIDs) == 0 {
		return apperr.Validation("at least one winner is required", "winners", nil)
	}
	seen := make(map[int64]bool, len(params.WinnerIDs))
	for _, id := range params.WinnerIDs {
		if seen[id] {
			return apperr.Validation("winners contain duplicate players", "winners", id)
		}
		seen[id] = true
	}
	if seen[params.LoserID] {
		return apperr.BusinessRule("winners cannot include the loser")
	}
	if params.Cost < 0 {
		return apperr.Validation("cost must be non-negative", "cost", params.Cost)
	}
	return nil
}

func resultFor(winnerIDs []int64) MatchResult {
	if len(winnerIDs) > 1 {
		return ResultDraw
	}
	return ResultWin
}

// writeStatRows persists one match_stats row per participant. Explicit
// details take precedence; otherwise winners get 1/0, the loser 0/1 and any
// other registered participant 0/0.
func writeStatRows(tx *sql.Tx, match *Match, params CreateMatchParams) error {
	type stat struct {
		playerID     int64
		wins, losses int
	}
	var stats []stat

	if len(params.Details) > 0 {
		for _, d := range params.Details {
			stats = append(stats, stat{playerID: d.PlayerID, wins: d.Wins, losses: d.Losses})
		}
	} else {
		for _, id := range match.WinnerIDs {
			stats = append(stats, stat{playerID: id, wins: 1})
		}
		stats = append(stats, stat{playerID: match.LoserID, losses: 1})
		for _, id := range params.ExtraParticipantIDs {
			stats = append(stats, stat{playerID: id})
		}
	}

	now := time.Now().Unix()
	for _, st := range stats {
		_, err := tx.Exec(`
			INSERT INTO match_stats (id, match_id, player_id, wins, losses, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(match_id, player_id) DO UPDATE SET wins = excluded.wins, losses = excluded.losses
		`, uuid.NewString(), match.ID, st.playerID, st.wins, st.losses, now)
		if err != nil {
			return apperr.Database("write match stats", err)
		}
	}
	return nil
}

// DeleteMatch removes the match. Stat side effects cascade; the payer
// rotation is deliberately left where it is.
func (s *store) DeleteMatch(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM matches WHERE id = ?", id)
	if err != nil {
		return false, apperr.Database("delete match", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Database("delete match", err)
	}
	if affected > 0 {
		log.Info("Match deleted", "matchID", id)
	}
	return affected > 0, nil
}

const matchSelect = `
	SELECT m.id, m.winners_json, l.name, p.name, m.cost, m.date, m.participants_json, m.match_result
	FROM matches m
	JOIN players l ON m.loser_id = l.id
	JOIN players p ON m.payer_id = p.id
`

func (s *store) GetAllMatches() ([]MatchWithNames, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryMatches(matchSelect+" ORDER BY m.date DESC")
}

func (s *store) GetRecentMatches(limit int) ([]MatchWithNames, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 10
	}
	return s.queryMatches(matchSelect+" ORDER BY m.date DESC LIMIT ?", limit)
}

func (s *store) GetMatchByID(id string) (*MatchWithNames, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := s.queryMatches(matchSelect+" WHERE m.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (s *store) queryMatches(query string, args ...any) ([]MatchWithNames, error) {
	names, err := s.playerNames()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query matches", "error", err)
		return nil, apperr.Database("query matches", err)
	}
	defer rows.Close()

	matches := []MatchWithNames{}
	for rows.Next() {
		m, err := scanMatch(rows, names)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, *m)
	}
	return matches, nil
}

func scanMatch(rows *sql.Rows, names map[int64]string) (*MatchWithNames, error) {
	var m MatchWithNames
	var winnersJSON string
	var participantsJSON sql.NullString
	var date int64
	var result string

	err := rows.Scan(&m.ID, &winnersJSON, &m.Loser, &m.Payer, &m.Cost, &date, &participantsJSON, &result)
	if err != nil {
		return nil, err
	}

	var winnerIDs []int64
	if err := json.Unmarshal([]byte(winnersJSON), &winnerIDs); err != nil {
		return nil, err
	}
	m.Winners = make([]string, 0, len(winnerIDs))
	for _, id := range winnerIDs {
		if name, ok := names[id]; ok {
			m.Winners = append(m.Winners, name)
		}
	}

	if participantsJSON.Valid && participantsJSON.String != "" {
		if err := json.Unmarshal([]byte(participantsJSON.String), &m.Participants); err != nil {
			log.Error("Failed to unmarshal participants_json", "error", err, "matchID", m.ID)
		}
	}

	m.Date = time.Unix(date, 0)
	m.Result = MatchResult(result)
	return &m, nil
}

func (s *store) playerNames() (map[int64]string, error) {
	rows, err := s.db.Query("SELECT id, name FROM players")
	if err != nil {
		return nil, apperr.Database("query players", err)
	}
	defer rows.Close()

	names := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, apperr.Database("query players", err)
		}
		names[id] = name
	}
	return names, nil
}

// ExpensesByTimeframe sums match costs per payer. week is a rolling 7 days;
// month and year align to the current calendar period.
func (s *store) ExpensesByTimeframe(timeframe Timeframe) (*ExpenseData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var dateFilter string
	switch timeframe {
	case TimeframeWeek:
		dateFilter = "m.date >= strftime('%s', 'now', '-7 days')"
	case TimeframeMonth:
		dateFilter = "strftime('%Y-%m', m.date, 'unixepoch') = strftime('%Y-%m', 'now')"
	case TimeframeYear:
		dateFilter = "strftime('%Y', m.date, 'unixepoch') = strftime('%Y', 'now')"
	case TimeframeAll:
		dateFilter = "1=1"
	default:
		return nil, apperr.Validation("invalid timeframe", "timeframe", string(timeframe))
	}

	rows, err := s.db.Query(`
		SELECT p.name, COALESCE(SUM(m.cost), 0)
		FROM players p
		LEFT JOIN matches m ON p.id = m.payer_id AND ` + dateFilter + `
		GROUP BY p.id, p.name
	`)
	if err != nil {
		log.Error("Failed to query expenses", "error", err, "timeframe", timeframe)
		return nil, apperr.Database("query expenses", err)
	}
	defer rows.Close()

	expenses := &ExpenseData{ByPlayer: make(map[string]float64)}
	for rows.Next() {
		var name string
		var amount float64
		if err := rows.Scan(&name, &amount); err != nil {
			return nil, apperr.Database("query expenses", err)
		}
		expenses.ByPlayer[name] = amount
		expenses.Total += amount
	}
	return expenses, nil
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
