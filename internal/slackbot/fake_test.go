package slackbot_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/lolidays/internal/domain"
	"github.com/pkordes/lolidays/internal/slackbot"
	"github.com/pkordes/lolidays/internal/staticmap"
)

// sentMessage is one message recorded by fakeMessenger.
type sentMessage struct {
	Channel string
	User    string // set for ephemeral messages only
	Text    string
	Blocks  string // JSON-encoded blocks, "" when none
}

// fakeMessenger records every call the bot makes to the chat platform.
type fakeMessenger struct {
	mu         sync.Mutex
	opened     []slack.ModalViewRequest
	triggers   []string
	published  map[string]slack.HomeTabViewRequest
	posted     []sentMessage
	ephemerals []sentMessage
	postErr    error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{published: map[string]slack.HomeTabViewRequest{}}
}

var _ slackbot.Messenger = (*fakeMessenger)(nil)

func (f *fakeMessenger) OpenViewContext(_ context.Context, triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, view)
	f.triggers = append(f.triggers, triggerID)
	return &slack.ViewResponse{}, nil
}

func (f *fakeMessenger) PublishViewContext(_ context.Context, userID string, view slack.HomeTabViewRequest, _ string) (*slack.ViewResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published[userID] = view
	return &slack.ViewResponse{}, nil
}

func (f *fakeMessenger) PostMessageContext(_ context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return "", "", f.postErr
	}
	f.posted = append(f.posted, decode(channelID, "", options))
	return channelID, "1700000000.000100", nil
}

func (f *fakeMessenger) PostEphemeralContext(_ context.Context, channelID, userID string, options ...slack.MsgOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ephemerals = append(f.ephemerals, decode(channelID, userID, options))
	return "1700000000.000200", nil
}

// OpenConversationContext returns "D-<user>" as the DM channel id.
func (f *fakeMessenger) OpenConversationContext(_ context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error) {
	ch := &slack.Channel{}
	ch.ID = "D-" + params.Users[0]
	return ch, false, false, nil
}

func decode(channel, user string, options []slack.MsgOption) sentMessage {
	_, values, err := slack.UnsafeApplyMsgOptions("", channel, "", options...)
	if err != nil {
		panic(err)
	}
	return sentMessage{Channel: channel, User: user, Text: values.Get("text"), Blocks: values.Get("blocks")}
}

func (f *fakeMessenger) lastEphemeral(t *testing.T) sentMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.ephemerals, "no ephemeral message sent")
	return f.ephemerals[len(f.ephemerals)-1]
}

func (f *fakeMessenger) lastPosted(t *testing.T) sentMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.posted, "no message posted")
	return f.posted[len(f.posted)-1]
}

func (f *fakeMessenger) lastOpened(t *testing.T) slack.ModalViewRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.opened, "no view opened")
	return f.opened[len(f.opened)-1]
}

// ---- service mocks ---------------------------------------------------------

type mockVacationServicer struct {
	create        func(ctx context.Context, in domain.NewVacation) (domain.Vacation, error)
	listWithStops func(ctx context.Context) ([]domain.VacationWithStops, error)
}

func (m *mockVacationServicer) Create(ctx context.Context, in domain.NewVacation) (domain.Vacation, error) {
	return m.create(ctx, in)
}
func (m *mockVacationServicer) ListWithStops(ctx context.Context) ([]domain.VacationWithStops, error) {
	if m.listWithStops == nil {
		return []domain.VacationWithStops{}, nil
	}
	return m.listWithStops(ctx)
}

var _ slackbot.VacationServicer = (*mockVacationServicer)(nil)

type mockStopServicer struct {
	create           func(ctx context.Context, in domain.NewStop) (domain.Stop, error)
	listByVacationID func(ctx context.Context, vacationID string) ([]domain.Stop, error)
	delete           func(ctx context.Context, stopID string) (int64, error)
}

func (m *mockStopServicer) Create(ctx context.Context, in domain.NewStop) (domain.Stop, error) {
	return m.create(ctx, in)
}
func (m *mockStopServicer) ListByVacationID(ctx context.Context, vacationID string) ([]domain.Stop, error) {
	return m.listByVacationID(ctx, vacationID)
}
func (m *mockStopServicer) Delete(ctx context.Context, stopID string) (int64, error) {
	return m.delete(ctx, stopID)
}

var _ slackbot.StopServicer = (*mockStopServicer)(nil)

// ---- helpers ---------------------------------------------------------------

const testMapURL = "https://lolidays.example.com"

func newBot(api slackbot.Messenger, vacations slackbot.VacationServicer, stops slackbot.StopServicer) *slackbot.Bot {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return slackbot.New(api, vacations, stops, staticmap.New("pk.test"), testMapURL, logger)
}

func ptr[T any](v T) *T { return &v }
