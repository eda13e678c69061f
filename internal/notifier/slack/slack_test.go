package slack

import (
	"context"
	"errors"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tranmq/bida-club/internal/club"
	"github.com/tranmq/bida-club/internal/ledger"
	"github.com/tranmq/bida-club/internal/metrics"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendText_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metricsMock := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metricsMock)

	err := notifier.sendText("hello")
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metricsMock.NotifSent)
	assert.Equal(t, 0, metricsMock.NotifFailed)
}

func TestSendText_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metricsMock := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metricsMock)

	err := notifier.sendText("hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metricsMock.NotifSent)
	assert.Equal(t, 1, metricsMock.NotifFailed)
}

func TestSendMatchRecorded_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	match := &ledger.MatchWithNames{
		Winners: []string{"Minh"},
		Loser:   "Toàn",
		Payer:   "Minh",
		Cost:    50,
		Result:  ledger.ResultWin,
	}
	err := notifier.SendMatchRecorded(match, &club.PayerInfo{ID: 2, Name: "Toàn"})
	require.NoError(t, err)
	assert.True(t, postMessageCalled)
}

func TestSendBadgeAwarded_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	err := notifier.SendBadgeAwarded("Minh", "Annihilator", "💀")
	require.NoError(t, err)
	assert.True(t, postMessageCalled)
}
