// Package mutation coordinates create, update and delete actions: the
// mutation is sent, and on success the modal is closed, its form cleared,
// the affected collection refetched and a notification emitted. Local state
// is never patched; the server stays the only source of derived fields.
package mutation

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"finadmin/internal/api"
	"finadmin/internal/logger"
)

// State of a coordinator.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrSubmitInProgress is returned when Submit is called while another
// submission of the same coordinator is in flight. Nothing is sent.
var ErrSubmitInProgress = errors.New("a submission is already in progress")

// Screen is the view state a coordinator drives.
type Screen interface {
	CloseModal()
	ClearForm()
	SetModalError(msg string)
	Refetch(ctx context.Context) error
}

// Notifier shows user-visible notifications.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Action is one mutation.
type Action struct {
	// Name labels the action in logs, e.g. "invoices.create".
	Name string

	// SuccessMessage is shown when the mutation succeeds.
	SuccessMessage string

	// Open, if set, runs once the submission is accepted and before Do,
	// e.g. to open the action's modal. A rejected submission never runs it.
	Open func()

	// Do sends the mutation.
	Do func(ctx context.Context) error
}

// Coordinator runs the Idle → Submitting → Succeeded|Failed state machine
// for the mutations of one screen.
type Coordinator struct {
	screen   Screen
	notifier Notifier
	log      zerolog.Logger

	mu        sync.Mutex
	state     State
	lastError string
}

// New creates an idle coordinator.
func New(screen Screen, notifier Notifier) *Coordinator {
	return &Coordinator{
		screen:   screen,
		notifier: notifier,
		log:      logger.WithComponent("mutation"),
	}
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the message of the last failed submission.
func (c *Coordinator) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Submit runs action. On success the modal is closed, the form cleared,
// the collection refetched once and a success notification emitted, in that
// order. On failure the modal stays open with the error shown and the form
// kept for correction. A refetch failure after a successful mutation is
// recorded by the screen's own load state and does not fail the submission.
func (c *Coordinator) Submit(ctx context.Context, action Action) error {
	c.mu.Lock()
	if c.state == Submitting {
		c.mu.Unlock()
		c.log.Debug().Str("action", action.Name).Msg("Ignoring submit while another is in flight")
		return ErrSubmitInProgress
	}
	c.state = Submitting
	c.lastError = ""
	c.mu.Unlock()

	log := c.log.With().Str("action", action.Name).Logger()
	log.Debug().Msg("Submitting mutation")

	if action.Open != nil {
		action.Open()
	}

	if err := action.Do(ctx); err != nil {
		msg := api.Message(err)
		c.screen.SetModalError(msg)

		c.mu.Lock()
		c.state = Failed
		c.lastError = msg
		c.mu.Unlock()

		if c.notifier != nil {
			c.notifier.Error(msg)
		}
		log.Warn().Err(err).Msg("Mutation failed")
		return err
	}

	c.screen.CloseModal()
	c.screen.ClearForm()
	if err := c.screen.Refetch(ctx); err != nil {
		log.Warn().Err(err).Msg("Refetch after mutation failed")
	}

	c.mu.Lock()
	c.state = Succeeded
	c.mu.Unlock()

	if c.notifier != nil {
		c.notifier.Success(action.SuccessMessage)
	}
	log.Info().Msg("Mutation succeeded")
	return nil
}
