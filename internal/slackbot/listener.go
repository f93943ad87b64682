package slackbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// conn is one Socket Mode session.
type conn interface {
	Events() <-chan socketmode.Event
	Ack(req socketmode.Request)
	Run(ctx context.Context) error
}

type socketConn struct{ c *socketmode.Client }

func (s socketConn) Events() <-chan socketmode.Event { return s.c.Events }
func (s socketConn) Ack(req socketmode.Request)      { s.c.Ack(req) }
func (s socketConn) Run(ctx context.Context) error   { return s.c.RunContext(ctx) }

// Listener receives events over Socket Mode and hands them to a Bot.
// It implements suture.Service: Serve blocks until ctx is cancelled or the
// connection fails, and a fresh connection is dialled on each call.
type Listener struct {
	bot    *Bot
	dial   func() conn
	logger *slog.Logger
}

// NewListener returns a Listener that connects with api, which must carry
// an app-level token (slack.OptionAppLevelToken).
func NewListener(api *slack.Client, bot *Bot, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		bot:    bot,
		dial:   func() conn { return socketConn{socketmode.New(api)} },
		logger: logger,
	}
}

// Serve runs the event loop. Each event is acknowledged immediately and
// handled on its own goroutine; a panic in one handler is logged and does
// not stop the loop. Serve waits for in-flight handlers before returning.
func (l *Listener) Serve(ctx context.Context) error {
	c := l.dial()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- c.Run(ctx) }()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-runErr:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err == nil {
				err = errors.New("connection closed")
			}
			return fmt.Errorf("slackbot: socket mode: %w", err)
		case evt, ok := <-c.Events():
			if !ok {
				return errors.New("slackbot: socket mode: event stream closed")
			}
			if h := l.route(ctx, c, evt); h != nil {
				wg.Add(1)
				go func() {
					defer wg.Done()
					l.safely(ctx, evt.Type, h)
				}()
			}
		}
	}
}

func (l *Listener) String() string { return "slackbot.Listener" }

// route acknowledges evt and returns the work to do for it, or nil.
func (l *Listener) route(ctx context.Context, c conn, evt socketmode.Event) func(context.Context) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		l.logger.InfoContext(ctx, "slack: connecting")
		return nil
	case socketmode.EventTypeConnected:
		l.logger.InfoContext(ctx, "slack: connected")
		return nil
	case socketmode.EventTypeConnectionError, socketmode.EventTypeInvalidAuth:
		l.logger.WarnContext(ctx, "slack: connection problem", "type", string(evt.Type), "data", evt.Data)
		return nil
	}

	switch evt.Type {
	case socketmode.EventTypeSlashCommand, socketmode.EventTypeInteractive, socketmode.EventTypeEventsAPI:
		if evt.Request == nil {
			return nil
		}
		c.Ack(*evt.Request)
	default:
		return nil
	}

	switch evt.Type {
	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			l.logger.WarnContext(ctx, "slack: unexpected slash command payload")
			return nil
		}
		return func(ctx context.Context) { _ = l.bot.HandleCommand(ctx, cmd) }

	case socketmode.EventTypeInteractive:
		cb, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			l.logger.WarnContext(ctx, "slack: unexpected interaction payload")
			return nil
		}
		return func(ctx context.Context) { _ = l.bot.HandleInteraction(ctx, cb) }

	case socketmode.EventTypeEventsAPI:
		ev, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return nil
		}
		user := homeOpenedBy(ev)
		if user == "" {
			return nil
		}
		return func(ctx context.Context) {
			err := l.bot.PublishHome(ctx, user)
			l.bot.record(ctx, "event", "app_home_opened", user, err)
		}
	}
	return nil
}

func homeOpenedBy(ev slackevents.EventsAPIEvent) string {
	switch inner := ev.InnerEvent.Data.(type) {
	case *slackevents.AppHomeOpenedEvent:
		return inner.User
	case slackevents.AppHomeOpenedEvent:
		return inner.User
	}
	return ""
}

func (l *Listener) safely(ctx context.Context, typ socketmode.EventType, h func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.ErrorContext(ctx, "slack: handler panic",
				"type", string(typ), "panic", r, "stack", string(debug.Stack()))
		}
	}()
	h(ctx)
}
