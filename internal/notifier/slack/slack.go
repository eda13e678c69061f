package slack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
	"github.com/tranmq/bida-club/internal/club"
	"github.com/tranmq/bida-club/internal/ledger"
	"github.com/tranmq/bida-club/internal/metrics"
	"github.com/tranmq/bida-club/internal/notifier"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendText(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Debug("Sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

// SendMatchRecorded announces the result and who pays for the next match.
func (s *Notifier) SendMatchRecorded(match *ledger.MatchWithNames, nextPayer *club.PayerInfo) error {
	var sb strings.Builder
	if match.Result == ledger.ResultDraw {
		sb.WriteString(fmt.Sprintf("🎱 Draw between *%s*", strings.Join(match.Winners, "* and *")))
	} else {
		sb.WriteString(fmt.Sprintf("🎱 *%s* won", strings.Join(match.Winners, "*, *")))
	}
	sb.WriteString(fmt.Sprintf(" against *%s*.", match.Loser))
	sb.WriteString(fmt.Sprintf(" %s paid %.2f.", match.Payer, match.Cost))
	if nextPayer != nil {
		sb.WriteString(fmt.Sprintf(" Next round is on *%s*!", nextPayer.Name))
	}
	return s.sendText(sb.String())
}

// SendBadgeAwarded announces a badge award.
func (s *Notifier) SendBadgeAwarded(playerName, badgeName, icon string) error {
	return s.sendText(fmt.Sprintf("%s *%s* earned the *%s* badge!", icon, playerName, badgeName))
}
