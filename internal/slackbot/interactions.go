package slackbot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/pkordes/lolidays/internal/domain"
)

// HandleInteraction runs one modal submission or block action. Unknown
// callbacks and actions are ignored.
func (b *Bot) HandleInteraction(ctx context.Context, cb slack.InteractionCallback) error {
	switch cb.Type {
	case slack.InteractionTypeViewSubmission:
		var err error
		switch cb.View.CallbackID {
		case callbackNewVacation:
			err = b.submitVacation(ctx, cb)
		case callbackAddStop:
			err = b.submitStop(ctx, cb)
		default:
			return nil
		}
		b.record(ctx, "view_submission", cb.View.CallbackID, cb.User.ID, err)
		return err

	case slack.InteractionTypeBlockActions:
		for _, a := range cb.ActionCallback.BlockActions {
			if a == nil || a.ActionID != actionOpenAddStop {
				continue
			}
			err := b.openModal(ctx, cb.TriggerID, addStopModal(a.Value))
			b.record(ctx, "block_action", actionOpenAddStop, cb.User.ID, err)
			return err
		}
	}
	return nil
}

func (b *Bot) submitVacation(ctx context.Context, cb slack.InteractionCallback) error {
	values := stateValues(cb.View.State)
	user := cb.User.ID

	start, err := parseDate(values.selectedDate(blockStart, actionStart), "start date")
	if err != nil {
		return b.dmFailure(ctx, user, "", err)
	}
	end, err := parseDate(values.selectedDate(blockEnd, actionEnd), "end date")
	if err != nil {
		return b.dmFailure(ctx, user, "", err)
	}

	v, err := b.vacations.Create(ctx, domain.NewVacation{
		Title:     values.text(blockTitle, actionTitle),
		StartDate: start,
		EndDate:   end,
		CreatedBy: user,
	})
	if err != nil {
		return b.dmFailure(ctx, user, "", err)
	}

	text := fmt.Sprintf("Vacation created: *%s* (ID: `%s`). Use */vacation addstop* to add stops.", v.Title, v.ID)
	if err := b.dmText(ctx, user, text); err != nil {
		return err
	}
	return b.PublishHome(ctx, user)
}

func (b *Bot) submitStop(ctx context.Context, cb slack.InteractionCallback) error {
	values := stateValues(cb.View.State)
	user := cb.User.ID
	vacationID := strings.TrimSpace(values.text(blockVacation, actionVacation))

	date, err := parseDate(values.selectedDate(blockDate, actionDate), "date")
	if err != nil {
		return b.dmFailure(ctx, user, vacationID, err)
	}
	idx, err := parseIdx(values.text(blockIdx, actionIdx))
	if err != nil {
		return b.dmFailure(ctx, user, vacationID, err)
	}

	stop, err := b.stops.Create(ctx, domain.NewStop{
		VacationID: vacationID,
		Name:       values.text(blockName, actionName),
		Date:       date,
		AlbumURL:   values.text(blockAlbum, actionAlbum),
		Idx:        idx,
	})
	if err != nil {
		return b.dmFailure(ctx, user, vacationID, err)
	}

	imageURL, _, err := b.routeImage(ctx, stop.VacationID)
	if err != nil {
		return fmt.Errorf("slackbot: route image: %w", err)
	}
	headline := fmt.Sprintf("Added *%s* to `%s`.", stop.Name, stop.VacationID)
	err = b.dm(ctx, user,
		slack.MsgOptionText(fmt.Sprintf("Added stop *%s* to `%s`.", stop.Name, stop.VacationID), false),
		slack.MsgOptionBlocks(routeBlocks(headline, imageURL, "Updated route preview", b.mapURL)...),
	)
	if err != nil {
		return err
	}
	return b.PublishHome(ctx, user)
}

// dmFailure tells the submitter why their dialog was not saved. Modal
// submissions are acknowledged before they are processed, so the reply
// goes to a direct message.
func (b *Bot) dmFailure(ctx context.Context, userID, id string, err error) error {
	if msg := userFacing(err, id); msg != "" {
		return b.dmText(ctx, userID, msg)
	}
	if replyErr := b.dmText(ctx, userID, genericFailure); replyErr != nil {
		b.logger.ErrorContext(ctx, "chat reply failed", "error", replyErr)
	}
	return err
}

// viewValues wraps a submitted view's state for lookup by block and action.
type viewValues map[string]map[string]slack.BlockAction

func stateValues(state *slack.ViewState) viewValues {
	if state == nil {
		return nil
	}
	return state.Values
}

func (v viewValues) text(blockID, actionID string) string {
	return v[blockID][actionID].Value
}

func (v viewValues) selectedDate(blockID, actionID string) string {
	return v[blockID][actionID].SelectedDate
}

// parseDate accepts "" as no date.
func parseDate(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD)", domain.ErrValidation, field)
	}
	return &t, nil
}

// parseIdx accepts blank as "append to the end". Orders are stored as
// 32-bit integers.
func parseIdx(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return nil, fmt.Errorf("%w: order %s is out of range", domain.ErrValidation, s)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: order must be a whole number, got %q", domain.ErrValidation, s)
	}
	idx := int(n)
	return &idx, nil
}
