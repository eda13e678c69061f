package processor

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/tranmq/bida-club/internal/apperr"
	"github.com/tranmq/bida-club/internal/badges"
	"github.com/tranmq/bida-club/internal/ledger"
	"github.com/tranmq/bida-club/internal/metrics"
)

// New creates a new Processor.
func New(players PlayerStore, matchLedger Ledger, evaluator badges.Evaluator, notifier Notifier, metrics metrics.Metrics) *Processor {
	return &Processor{
		players:   players,
		ledger:    matchLedger,
		evaluator: evaluator,
		notifier:  notifier,
		metrics:   metrics,
	}
}

// RecordMatch resolves the submitted names against the roster, records the
// match and kicks off the best-effort side effects: badge evaluation and the
// result notification. Name resolution failures abort before anything is
// written, so the payer rotation is untouched.
func (p *Processor) RecordMatch(params RecordMatchParams) (*ledger.MatchWithNames, error) {
	startTime := time.Now()

	names := make(map[int64]string)

	winnerIDs := make([]int64, 0, len(params.Winners))
	for _, name := range params.Winners {
		id, err := p.resolveName(name, names)
		if err != nil {
			return nil, err
		}
		winnerIDs = append(winnerIDs, id)
	}

	loserID, err := p.resolveName(params.Loser, names)
	if err != nil {
		return nil, err
	}

	// Make sure the rotation pointer exists before the ledger reads it.
	if _, err := p.players.NextPayer(); err != nil {
		return nil, err
	}

	inMatch := make(map[int64]bool, len(winnerIDs)+1)
	for _, id := range winnerIDs {
		inMatch[id] = true
	}
	inMatch[loserID] = true

	// Participants are free-form: registered names get a zero stat row,
	// unregistered ones stay display-only.
	var extraIDs []int64
	for _, name := range params.Participants {
		player, err := p.players.FindPlayerByName(name)
		if err != nil {
			return nil, err
		}
		if player == nil || inMatch[player.ID] {
			continue
		}
		names[player.ID] = player.Name
		extraIDs = append(extraIDs, player.ID)
	}

	details := make([]ledger.StatDetail, 0, len(params.Details))
	for _, d := range params.Details {
		id, err := p.resolveName(d.Player, names)
		if err != nil {
			return nil, err
		}
		details = append(details, ledger.StatDetail{PlayerID: id, Wins: d.Wins, Losses: d.Losses})
	}

	match, err := p.ledger.CreateMatch(ledger.CreateMatchParams{
		WinnerIDs:           winnerIDs,
		LoserID:             loserID,
		Cost:                params.Cost,
		Participants:        params.Participants,
		ExtraParticipantIDs: extraIDs,
		Details:             details,
	})
	if err != nil {
		return nil, err
	}

	p.metrics.IncMatchesRecorded()
	p.metrics.ObserveMatchCreateDuration(time.Since(startTime).Seconds())

	full, err := p.ledger.GetMatchByID(match.ID)
	if err != nil {
		return nil, err
	}

	p.afterMatch(full, append(winnerIDs, loserID), names)

	return full, nil
}

// SeedPlayers registers any of the given names that are missing from the
// roster. Failures are logged and skipped.
func (p *Processor) SeedPlayers(names []string) {
	for _, name := range names {
		existing, err := p.players.FindPlayerByName(name)
		if err != nil {
			log.Error("Failed to look up default player", "error", err, "name", name)
			continue
		}
		if existing != nil {
			continue
		}
		if _, err := p.players.CreatePlayer(name); err != nil {
			log.Error("Failed to seed default player", "error", err, "name", name)
			continue
		}
		log.Info("Seeded default player", "name", name)
	}
}

func (p *Processor) resolveName(name string, names map[int64]string) (int64, error) {
	player, err := p.players.FindPlayerByName(name)
	if err != nil {
		return 0, err
	}
	if player == nil {
		return 0, apperr.NotFound("Player", name)
	}
	names[player.ID] = player.Name
	return player.ID, nil
}

// afterMatch runs the side effects of a recorded match. None of them can fail
// the match itself, so errors are only logged.
func (p *Processor) afterMatch(match *ledger.MatchWithNames, playerIDs []int64, names map[int64]string) {
	awarded := p.evaluator.CheckAfterMatch(playerIDs)
	for _, pb := range awarded {
		p.metrics.IncBadgesAwarded()
		if err := p.notifier.SendBadgeAwarded(names[pb.PlayerID], pb.Name, pb.Icon); err != nil {
			log.Error("Failed to send badge notification", "error", err, "badge", pb.BadgeID)
		}
	}

	nextPayer, err := p.players.NextPayer()
	if err != nil {
		log.Error("Failed to read next payer for notification", "error", err)
	}
	if err := p.notifier.SendMatchRecorded(match, nextPayer); err != nil {
		log.Error("Failed to send match notification", "error", err, "matchID", match.ID)
	}
}
