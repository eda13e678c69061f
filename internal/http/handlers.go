package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/tranmq/bida-club/internal/apperr"
	"github.com/tranmq/bida-club/internal/ledger"
	"github.com/tranmq/bida-club/internal/processor"
	"github.com/tranmq/bida-club/internal/stats"
)

// writeJSON writes the response envelope. Encoding failures are only logged,
// the status line is already out.
func writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, response{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, response{Success: true, Data: data, Message: message})
}

// respondError maps the error kind to an HTTP status. Unknown errors are
// treated as internal.
func respondError(w http.ResponseWriter, err error) {
	var status int
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindDuplicate:
		status = http.StatusConflict
	case apperr.KindBusinessRule, apperr.KindNoPlayers:
		status = http.StatusUnprocessableEntity
	case apperr.KindDatabase, apperr.KindUnknown:
		status = http.StatusInternalServerError
	default:
		status = http.StatusInternalServerError
	}
	if status >= 500 {
		log.Error("Request failed", "error", err)
	}
	writeJSON(w, status, response{Success: false, Error: err.Error()})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, apperr.Validation("id must be an integer", "id", r.PathValue("id"))
	}
	return id, nil
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		if err := s.DB.Ping(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, response{Success: false, Error: "database unreachable"})
			return
		}
		var players int
		if err := s.DB.QueryRow("SELECT COUNT(*) FROM players").Scan(&players); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, response{Success: false, Error: "database unreachable"})
			return
		}
		respondData(w, http.StatusOK, map[string]any{"status": "ok", "players": players})
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Players.GetAllPlayers()
		if err != nil {
			respondError(w, err)
			return
		}
		respondData(w, http.StatusOK, players)
	}
}

func (s *Server) CreatePlayerHandler() http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, apperr.Validation("invalid JSON body", "", nil))
			return
		}
		player, err := s.Players.CreatePlayer(req.Name)
		if err != nil {
			respondError(w, err)
			return
		}
		s.Metrics.IncPlayersCreated()
		respondMessage(w, http.StatusCreated, player, "Player created successfully")
	}
}

func (s *Server) GetPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		player, err := s.Players.FindPlayerByID(id)
		if err != nil {
			respondError(w, err)
			return
		}
		if player == nil {
			respondError(w, apperr.NotFound("Player", id))
			return
		}
		respondData(w, http.StatusOK, player)
	}
}

func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		deleted, err := s.Players.DeletePlayer(id)
		if err != nil {
			respondError(w, err)
			return
		}
		if !deleted {
			respondError(w, apperr.NotFound("Player", id))
			return
		}
		respondMessage(w, http.StatusOK, nil, "Player deleted successfully")
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Ledger.GetAllMatches()
		if err != nil {
			respondError(w, err)
			return
		}
		respondData(w, http.StatusOK, matches)
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	type detail struct {
		Player string `json:"player"`
		Wins   int    `json:"wins"`
		Losses int    `json:"losses"`
	}
	type request struct {
		Winners []string `json:"winners"`
		// Winner is the legacy single-winner field, used when Winners is
		// empty.
		Winner       string   `json:"winner"`
		Loser        string   `json:"loser"`
		Cost         float64  `json:"cost"`
		Participants []string `json:"participants"`
		Details      []detail `json:"details"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, apperr.Validation("invalid JSON body", "", nil))
			return
		}

		winners := req.Winners
		if len(winners) == 0 && req.Winner != "" {
			winners = []string{req.Winner}
		}

		params := processor.RecordMatchParams{
			Winners:      winners,
			Loser:        req.Loser,
			Cost:         req.Cost,
			Participants: req.Participants,
		}
		for _, d := range req.Details {
			params.Details = append(params.Details, processor.StatDetailParams{
				Player: d.Player,
				Wins:   d.Wins,
				Losses: d.Losses,
			})
		}

		match, err := s.Processor.RecordMatch(params)
		if err != nil {
			respondError(w, err)
			return
		}
		respondMessage(w, http.StatusCreated, match, "Match recorded successfully")
	}
}

func (s *Server) RecentMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				respondError(w, apperr.Validation("limit must be a positive integer", "limit", raw))
				return
			}
			limit = parsed
		}
		matches, err := s.Ledger.GetRecentMatches(limit)
		if err != nil {
			respondError(w, err)
			return
		}
		respondData(w, http.StatusOK, matches)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		match, err := s.Ledger.GetMatchByID(id)
		if err != nil {
			respondError(w, err)
			return
		}
		if match == nil {
			respondError(w, apperr.NotFound("Match", id))
			return
		}
		respondData(w, http.StatusOK, match)
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		deleted, err := s.Ledger.DeleteMatch(id)
		if err != nil {
			respondError(w, err)
			return
		}
		if !deleted {
			respondError(w, apperr.NotFound("Match", id))
			return
		}
		respondMessage(w, http.StatusOK, nil, "Match deleted successfully")
	}
}

func (s *Server) NextPayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payer, err := s.Players.NextPayer()
		if err != nil {
			respondError(w, err)
			return
		}
		respondData(w, http.StatusOK, payer)
	}
}

func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timeframe := r.URL.Query().Get("timeframe")
		switch timeframe {
		case "daily":
			result, err := s.Stats.DailyChampion()
			if err != nil {
				respondError(w, err)
				return
			}
			respondData(w, http.StatusOK, result)
		case "today":
			result, err := s.Stats.AllStats(stats.TimeframeToday)
			if err != nil {
				respondError(w, err)
				return
			}
			respondData(w, http.StatusOK, result)
		case "", "all":
			result, err := s.Stats.AllStats(stats.TimeframeAll)
			if err != nil {
				respondError(w, err)
				return
			}
			respondData(w, http.StatusOK, result)
		default:
			respondError(w, apperr.Validation("timeframe must be one of: all, daily, today", "timeframe", timeframe))
		}
	}
}

func (s *Server) ExpensesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timeframe := r.URL.Query().Get("timeframe")
		if timeframe == "" {
			timeframe = string(ledger.TimeframeMonth)
		}
		expenses, err := s.Ledger.ExpensesByTimeframe(ledger.Timeframe(timeframe))
		if err != nil {
			respondError(w, err)
			return
		}
		respondData(w, http.StatusOK, expenses)
	}
}

// LeaderboardHandler serves the all-time stats truncated to the requested
// number of players.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				respondError(w, apperr.Validation("limit must be a positive integer", "limit", raw))
				return
			}
			limit = parsed
		}
		result, err := s.Stats.AllStats(stats.TimeframeAll)
		if err != nil {
			respondError(w, err)
			return
		}
		if len(result) > limit {
			result = result[:limit]
		}
		respondData(w, http.StatusOK, result)
	}
}

func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		result, err := s.Stats.PlayerStats(id)
		if err != nil {
			respondError(w, err)
			return
		}
		if result == nil {
			respondError(w, apperr.NotFound("Player", id))
			return
		}
		respondData(w, http.StatusOK, result)
	}
}

func (s *Server) ListBadgesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.Badges.GetAllBadges()
		if err != nil {
			respondError(w, err)
			return
		}
		respondData(w, http.StatusOK, result)
	}
}

func (s *Server) PlayerBadgesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		result, err := s.Badges.GetPlayerBadges(id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondData(w, http.StatusOK, result)
	}
}

// AwardBadgeHandler is the manual award endpoint, used for badges that have
// no automatic rule.
func (s *Server) AwardBadgeHandler() http.HandlerFunc {
	type request struct {
		PlayerID int64   `json:"player_id"`
		BadgeID  string  `json:"badge_id"`
		MatchID  *string `json:"match_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, apperr.Validation("invalid JSON body", "", nil))
			return
		}
		if req.BadgeID == "" {
			respondError(w, apperr.Validation("badge_id is required", "badge_id", nil))
			return
		}
		player, err := s.Players.FindPlayerByID(req.PlayerID)
		if err != nil {
			respondError(w, err)
			return
		}
		if player == nil {
			respondError(w, apperr.NotFound("Player", req.PlayerID))
			return
		}
		awarded, err := s.Badges.AwardBadge(req.PlayerID, req.BadgeID, req.MatchID)
		if err != nil {
			respondError(w, err)
			return
		}
		s.Metrics.IncBadgesAwarded()
		respondMessage(w, http.StatusCreated, awarded, "Badge awarded successfully")
	}
}
