// Package supervisor runs the bot's long-lived loops under a suture
// supervisor tree. The web server and the chat connection live in separate
// child supervisors, so a crash or restart in one leaves the other alone.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds restart and shutdown parameters. Zero values take the
// suture defaults: threshold 5, decay 30s, backoff 15s, timeout 10s.
type TreeConfig struct {
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration
	ShutdownTimeout  time.Duration
}

func (c TreeConfig) withDefaults() TreeConfig {
	if c.FailureThreshold == 0 {
		c.FailureThreshold = 5
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = 30
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = 15 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	return c
}

// Tree is the root supervisor with a "web" and a "chat" branch.
type Tree struct {
	root *suture.Supervisor
	web  *suture.Supervisor
	chat *suture.Supervisor
}

// NewTree builds the tree. Supervisor events (service failures, restarts,
// backoff) are logged through logger.
func NewTree(logger *slog.Logger, cfg TreeConfig) *Tree {
	cfg = cfg.withDefaults()

	hook := (&sutureslog.Handler{Logger: logger}).MustHook()
	spec := suture.Spec{
		EventHook:        hook,
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}
	// Children inherit the root's EventHook once added.
	child := spec
	child.EventHook = nil

	t := &Tree{
		root: suture.New("lolidays", spec),
		web:  suture.New("web", child),
		chat: suture.New("chat", child),
	}
	t.root.Add(t.web)
	t.root.Add(t.chat)
	return t
}

// AddWebService adds a service to the web branch.
func (t *Tree) AddWebService(svc suture.Service) suture.ServiceToken {
	return t.web.Add(svc)
}

// AddChatService adds a service to the chat branch.
func (t *Tree) AddChatService(svc suture.Service) suture.ServiceToken {
	return t.chat.Add(svc)
}

// Serve runs the tree until ctx is cancelled.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
