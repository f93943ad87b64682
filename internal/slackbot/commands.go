package slackbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

const defaultCommand = "/vacation"

// HandleCommand runs one slash command. The first word of the text picks
// the subcommand (case-insensitive); an empty text opens the new-vacation
// dialog. Replies go to the invoking user as ephemeral messages, except
// preview, which posts to the channel.
func (b *Bot) HandleCommand(ctx context.Context, cmd slack.SlashCommand) error {
	args := strings.Fields(cmd.Text)
	sub := ""
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
		args = args[1:]
	}
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	name := sub
	var err error
	switch sub {
	case "", "new":
		name = "new"
		err = b.openModal(ctx, cmd.TriggerID, newVacationModal())
	case "addstop":
		err = b.openModal(ctx, cmd.TriggerID, addStopModal(arg))
	case "preview":
		err = b.preview(ctx, cmd, arg)
	case "map":
		err = b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, "Open the interactive map: "+b.mapURL)
	case "liststops":
		err = b.listStops(ctx, cmd, arg)
	case "removestop":
		err = b.removeStop(ctx, cmd, arg)
	default:
		name = "help"
		err = b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, helpText(commandName(cmd)))
	}

	b.record(ctx, "command", name, cmd.UserID, err)
	return err
}

func commandName(cmd slack.SlashCommand) string {
	if cmd.Command == "" {
		return defaultCommand
	}
	return cmd.Command
}

func helpText(command string) string {
	return fmt.Sprintf("Try `%[1]s new`, `%[1]s addstop`, `%[1]s preview <id>`, `%[1]s map`, "+
		"`%[1]s liststops <id>`, or `%[1]s removestop <stop_id>`.", command)
}

func usage(cmd slack.SlashCommand, sub, param string) string {
	return fmt.Sprintf("Usage: `%s %s <%s>`", commandName(cmd), sub, param)
}

// preview posts the route image of a vacation to the channel.
func (b *Bot) preview(ctx context.Context, cmd slack.SlashCommand, vacationID string) error {
	if vacationID == "" {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, usage(cmd, "preview", "vacation_id"))
	}
	imageURL, stops, err := b.routeImage(ctx, vacationID)
	if err != nil {
		return b.replyFailure(ctx, cmd, vacationID, err)
	}
	if len(stops) == 0 {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, fmt.Sprintf("No stops found for vacation `%s`.", vacationID))
	}

	headline := fmt.Sprintf("*Lolidays — Route preview*\nVacation: `%s`", vacationID)
	_, _, err = b.api.PostMessageContext(ctx, cmd.ChannelID,
		slack.MsgOptionText(fmt.Sprintf("Route preview for `%s`", vacationID), false),
		slack.MsgOptionBlocks(routeBlocks(headline, imageURL, "Trip route preview", b.mapURL)...),
	)
	if err != nil {
		return fmt.Errorf("slackbot: post preview: %w", err)
	}
	return nil
}

// listStops shows a vacation's stops with their ids so one can be removed.
func (b *Bot) listStops(ctx context.Context, cmd slack.SlashCommand, vacationID string) error {
	if vacationID == "" {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, usage(cmd, "liststops", "vacation_id"))
	}
	stops, err := b.stops.ListByVacationID(ctx, vacationID)
	if err != nil {
		return b.replyFailure(ctx, cmd, vacationID, err)
	}
	if len(stops) == 0 {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, fmt.Sprintf("No stops found for vacation `%s`.", vacationID))
	}
	text := fmt.Sprintf("Stops for `%s`:\n%s", vacationID, stopLines(stops))
	return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, text)
}

func (b *Bot) removeStop(ctx context.Context, cmd slack.SlashCommand, stopID string) error {
	if stopID == "" {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, usage(cmd, "removestop", "stop_id"))
	}
	n, err := b.stops.Delete(ctx, stopID)
	if err != nil {
		return b.replyFailure(ctx, cmd, stopID, err)
	}
	if n == 0 {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, fmt.Sprintf("No stop found with id `%s`.", stopID))
	}
	return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, fmt.Sprintf("Removed stop `%s`.", stopID))
}

// replyFailure answers a failed service call. User errors get a specific
// reply and count as handled; anything else gets a generic apology and the
// error is returned for logging.
func (b *Bot) replyFailure(ctx context.Context, cmd slack.SlashCommand, id string, err error) error {
	if msg := userFacing(err, id); msg != "" {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, msg)
	}
	if replyErr := b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, genericFailure); replyErr != nil {
		b.logger.ErrorContext(ctx, "chat reply failed", "error", replyErr)
	}
	return err
}
