package stats

import (
	"database/sql"
	"encoding/json"
	"math"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tranmq/bida-club/internal/apperr"
)

// New creates a new Aggregator.
func New(db *sql.DB) Aggregator {
	return &store{db: db}
}

const todayFilter = "strftime('%Y-%m-%d', m.date, 'unixepoch') = strftime('%Y-%m-%d', 'now')"

func (s *store) AllStats(timeframe Timeframe) ([]PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dateFilter := "1=1"
	switch timeframe {
	case TimeframeAll, "":
	case TimeframeToday:
		dateFilter = todayFilter
	default:
		return nil, apperr.Validation("invalid timeframe", "timeframe", string(timeframe))
	}

	rows, err := s.db.Query(`
		SELECT
			p.id,
			p.name,
			COALESCE((SELECT SUM(ms.wins) FROM match_stats ms JOIN matches m ON ms.match_id = m.id
				WHERE ms.player_id = p.id AND ` + dateFilter + `), 0),
			COALESCE((SELECT SUM(ms.losses) FROM match_stats ms JOIN matches m ON ms.match_id = m.id
				WHERE ms.player_id = p.id AND ` + dateFilter + `), 0),
			COALESCE((SELECT SUM(m.cost) FROM matches m
				WHERE m.payer_id = p.id AND ` + dateFilter + `), 0)
		FROM players p
	`)
	if err != nil {
		log.Error("Failed to query aggregate stats", "error", err)
		return nil, apperr.Database("query stats", err)
	}
	defer rows.Close()

	statsList := []PlayerStats{}
	for rows.Next() {
		var st PlayerStats
		if err := rows.Scan(&st.ID, &st.Name, &st.Wins, &st.Losses, &st.TotalSpent); err != nil {
			return nil, apperr.Database("query stats", err)
		}
		finalize(&st)
		statsList = append(statsList, st)
	}

	sortStats(statsList)
	return statsList, nil
}

func (s *store) PlayerStats(id int64) (*PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st PlayerStats
	err := s.db.QueryRow(`
		SELECT
			p.id,
			p.name,
			COALESCE((SELECT SUM(ms.wins) FROM match_stats ms WHERE ms.player_id = p.id), 0),
			COALESCE((SELECT SUM(ms.losses) FROM match_stats ms WHERE ms.player_id = p.id), 0),
			COALESCE((SELECT SUM(m.cost) FROM matches m WHERE m.payer_id = p.id), 0)
		FROM players p
		WHERE p.id = ?
	`, id).Scan(&st.ID, &st.Name, &st.Wins, &st.Losses, &st.TotalSpent)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Database("query player stats", err)
	}

	finalize(&st)
	return &st, nil
}

// DailyChampion aggregates today's matches by participants order alone. The
// winners/loser columns are ignored on this path.
func (s *store) DailyChampion() ([]PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT m.participants_json, p.name, m.cost
		FROM matches m
		JOIN players p ON m.payer_id = p.id
		WHERE m.participants_json IS NOT NULL AND ` + todayFilter)
	if err != nil {
		log.Error("Failed to query daily champion matches", "error", err)
		return nil, apperr.Database("query daily champion", err)
	}
	defer rows.Close()

	byName := make(map[string]*PlayerStats)
	ensure := func(name string) *PlayerStats {
		if st, ok := byName[name]; ok {
			return st
		}
		st := &PlayerStats{Name: name}
		byName[name] = st
		return st
	}

	for rows.Next() {
		var participantsJSON, payerName string
		var cost float64
		if err := rows.Scan(&participantsJSON, &payerName, &cost); err != nil {
			return nil, apperr.Database("query daily champion", err)
		}

		var participants []string
		if err := json.Unmarshal([]byte(participantsJSON), &participants); err != nil {
			log.Error("Failed to unmarshal participants_json", "error", err)
			continue
		}
		if len(participants) == 0 {
			continue
		}

		ensure(participants[0]).Wins++
		for _, name := range participants[1:] {
			ensure(name).Losses++
		}
		ensure(payerName).TotalSpent += cost
	}

	// Attach player ids for participants who are registered.
	ids, err := s.playerIDs()
	if err != nil {
		return nil, err
	}

	statsList := make([]PlayerStats, 0, len(byName))
	for name, st := range byName {
		st.ID = ids[name]
		finalize(st)
		statsList = append(statsList, *st)
	}
	sortStats(statsList)
	return statsList, nil
}

func (s *store) playerIDs() (map[string]int64, error) {
	rows, err := s.db.Query("SELECT id, name FROM players")
	if err != nil {
		return nil, apperr.Database("query players", err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, apperr.Database("query players", err)
		}
		ids[name] = id
	}
	return ids, nil
}

func finalize(st *PlayerStats) {
	st.MatchesPlayed = st.Wins + st.Losses
	if st.MatchesPlayed > 0 {
		st.WinRate = math.Round(float64(st.Wins)/float64(st.MatchesPlayed)*10000) / 100
	}
}

func sortStats(statsList []PlayerStats) {
	sort.SliceStable(statsList, func(i, j int) bool {
		if statsList[i].Wins != statsList[j].Wins {
			return statsList[i].Wins > statsList[j].Wins
		}
		return statsList[i].WinRate > statsList[j].WinRate
	})
}
