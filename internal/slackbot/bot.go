// Package slackbot implements the /vacation chat command, its modal
// dialogs, the App Home view and the Socket Mode event loop that feeds
// them. Bot holds the command and interaction logic and talks to the chat
// platform only through the Messenger interface; Listener owns the
// connection and dispatches events to Bot.
package slackbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"

	"github.com/pkordes/lolidays/internal/domain"
	"github.com/pkordes/lolidays/internal/metrics"
	"github.com/pkordes/lolidays/internal/staticmap"
)

// Messenger is the subset of the Slack Web API the bot calls.
// *slack.Client satisfies it.
type Messenger interface {
	OpenViewContext(ctx context.Context, triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error)
	PublishViewContext(ctx context.Context, userID string, view slack.HomeTabViewRequest, hash string) (*slack.ViewResponse, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error)
	OpenConversationContext(ctx context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error)
}

var _ Messenger = (*slack.Client)(nil)

// VacationServicer defines the vacation operations the bot depends on.
type VacationServicer interface {
	Create(ctx context.Context, in domain.NewVacation) (domain.Vacation, error)
	ListWithStops(ctx context.Context) ([]domain.VacationWithStops, error)
}

// StopServicer defines the stop operations the bot depends on.
type StopServicer interface {
	Create(ctx context.Context, in domain.NewStop) (domain.Stop, error)
	ListByVacationID(ctx context.Context, vacationID string) ([]domain.Stop, error)
	Delete(ctx context.Context, stopID string) (int64, error)
}

// RouteImager renders a static route image URL for stops in route order.
// *staticmap.Builder satisfies it.
type RouteImager interface {
	URL(stops []domain.Stop, opts staticmap.Options) string
}

// Bot handles slash commands and interactions. It is safe for concurrent
// use; every call is independent.
type Bot struct {
	api       Messenger
	vacations VacationServicer
	stops     StopServicer
	maps      RouteImager
	mapURL    string
	logger    *slog.Logger
}

// New constructs a Bot. mapURL is the public address of the interactive
// map used in links and buttons.
func New(api Messenger, vacations VacationServicer, stops StopServicer, maps RouteImager, mapURL string, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		api:       api,
		vacations: vacations,
		stops:     stops,
		maps:      maps,
		mapURL:    mapURL,
		logger:    logger,
	}
}

// ephemeral replies to the invoking user only.
func (b *Bot) ephemeral(ctx context.Context, channelID, userID, text string) error {
	if _, err := b.api.PostEphemeralContext(ctx, channelID, userID, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("slackbot: post ephemeral: %w", err)
	}
	return nil
}

// dm opens (or reuses) the direct conversation with userID and posts to it.
func (b *Bot) dm(ctx context.Context, userID string, opts ...slack.MsgOption) error {
	ch, _, _, err := b.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{Users: []string{userID}})
	if err != nil {
		return fmt.Errorf("slackbot: open conversation: %w", err)
	}
	if _, _, err := b.api.PostMessageContext(ctx, ch.ID, opts...); err != nil {
		return fmt.Errorf("slackbot: post message: %w", err)
	}
	return nil
}

func (b *Bot) dmText(ctx context.Context, userID, text string) error {
	return b.dm(ctx, userID, slack.MsgOptionText(text, false))
}

func (b *Bot) openModal(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	if _, err := b.api.OpenViewContext(ctx, triggerID, view); err != nil {
		return fmt.Errorf("slackbot: open %s view: %w", view.CallbackID, err)
	}
	return nil
}

// PublishHome renders the App Home tab for userID with every vacation.
func (b *Bot) PublishHome(ctx context.Context, userID string) error {
	vacations, err := b.vacations.ListWithStops(ctx)
	if err != nil {
		return fmt.Errorf("slackbot: publish home: %w", err)
	}
	if _, err := b.api.PublishViewContext(ctx, userID, homeView(b.mapURL, vacations), ""); err != nil {
		return fmt.Errorf("slackbot: publish home: %w", err)
	}
	return nil
}

// routeImage returns the static map URL for a vacation's current stops.
func (b *Bot) routeImage(ctx context.Context, vacationID string) (string, []domain.Stop, error) {
	stops, err := b.stops.ListByVacationID(ctx, vacationID)
	if err != nil {
		return "", nil, err
	}
	return b.maps.URL(stops, staticmap.Options{}), stops, nil
}

// record logs one handled interaction and counts it.
func (b *Bot) record(ctx context.Context, kind, name, user string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		b.logger.ErrorContext(ctx, "chat interaction failed",
			"kind", kind, "name", name, "user", user, "error", err)
	} else {
		b.logger.InfoContext(ctx, "chat interaction",
			"kind", kind, "name", name, "user", user)
	}
	metrics.ChatInteractions.WithLabelValues(kind, name, outcome).Inc()
}

// userFacing turns a service error into a reply for the user, or returns
// "" when the error is not the user's to fix.
func userFacing(err error, id string) string {
	switch {
	case errors.Is(err, domain.ErrReference), errors.Is(err, domain.ErrNotFound):
		return fmt.Sprintf("No vacation found with id `%s`.", id)
	case errors.Is(err, domain.ErrValidation):
		return validationMessage(err)
	case errors.Is(err, domain.ErrConflict):
		return "That conflicts with an existing record. Please try again."
	}
	return ""
}

// validationMessage strips the wrapping prefixes and keeps the sentence
// after the sentinel, e.g. "Name is required."
func validationMessage(err error) string {
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	i := strings.Index(msg, marker)
	if i < 0 || i+len(marker) == len(msg) {
		return "Invalid input."
	}
	msg = msg[i+len(marker):]
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

const genericFailure = "Sorry, something went wrong. Please try again in a moment."
