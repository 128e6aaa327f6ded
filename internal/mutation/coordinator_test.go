package mutation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScreen struct {
	mu         sync.Mutex
	calls      []string
	modalError string
	refetchErr error
}

func (f *fakeScreen) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeScreen) CloseModal() { f.record("close") }
func (f *fakeScreen) ClearForm()  { f.record("clear") }
func (f *fakeScreen) SetModalError(msg string) {
	f.record("error")
	f.modalError = msg
}
func (f *fakeScreen) Refetch(context.Context) error {
	f.record("refetch")
	return f.refetchErr
}

type fakeNotifier struct {
	screen    *fakeScreen
	successes []string
	errors    []string
}

func (n *fakeNotifier) Success(msg string) {
	n.screen.record("notify")
	n.successes = append(n.successes, msg)
}

func (n *fakeNotifier) Error(msg string) {
	n.errors = append(n.errors, msg)
}

func setup() (*Coordinator, *fakeScreen, *fakeNotifier) {
	screen := &fakeScreen{}
	notifier := &fakeNotifier{screen: screen}
	return New(screen, notifier), screen, notifier
}

func TestSubmitSuccessOrder(t *testing.T) {
	c, screen, notifier := setup()
	assert.Equal(t, Idle, c.State())

	err := c.Submit(context.Background(), Action{
		Name:           "invoices.create",
		SuccessMessage: "Invoice created successfully!",
		Do:             func(context.Context) error { return nil },
	})
	require.NoError(t, err)

	assert.Equal(t, Succeeded, c.State())
	assert.Equal(t, []string{"close", "clear", "refetch", "notify"}, screen.calls)
	assert.Equal(t, []string{"Invoice created successfully!"}, notifier.successes)
}

func TestSubmitFailureKeepsModal(t *testing.T) {
	c, screen, notifier := setup()

	err := c.Submit(context.Background(), Action{
		Name: "invoices.create",
		Do:   func(context.Context) error { return errors.New("amount is required") },
	})
	require.Error(t, err)

	assert.Equal(t, Failed, c.State())
	assert.Equal(t, "amount is required", c.LastError())
	assert.Equal(t, []string{"error"}, screen.calls)
	assert.Equal(t, "amount is required", screen.modalError)
	assert.Empty(t, notifier.successes)
	assert.Equal(t, []string{"amount is required"}, notifier.errors)
}

func TestSubmitWhileSubmittingIsNoop(t *testing.T) {
	c, _, _ := setup()
	entered := make(chan struct{})
	release := make(chan struct{})
	var sends int

	slow := Action{Name: "slow", Do: func(context.Context) error {
		sends++
		close(entered)
		<-release
		return nil
	}}

	done := make(chan error)
	go func() { done <- c.Submit(context.Background(), slow) }()
	<-entered

	assert.Equal(t, Submitting, c.State())
	err := c.Submit(context.Background(), Action{Name: "second", Do: func(context.Context) error {
		t.Error("second submission must not be sent")
		return nil
	}})
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, sends)
}

func TestRejectedSubmitDoesNotOpen(t *testing.T) {
	c, _, _ := setup()
	entered := make(chan struct{})
	release := make(chan struct{})
	var opened []string

	done := make(chan error)
	go func() {
		done <- c.Submit(context.Background(), Action{
			Name: "first",
			Open: func() { opened = append(opened, "first") },
			Do: func(context.Context) error {
				close(entered)
				<-release
				return nil
			},
		})
	}()
	<-entered

	err := c.Submit(context.Background(), Action{
		Name: "second",
		Open: func() { t.Error("rejected submission must not open its modal") },
		Do:   func(context.Context) error { return nil },
	})
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"first"}, opened)
}

func TestTerminalStatesAcceptNextSubmit(t *testing.T) {
	c, _, _ := setup()
	ctx := context.Background()

	require.Error(t, c.Submit(ctx, Action{Do: func(context.Context) error { return errors.New("x") }}))
	assert.Equal(t, Failed, c.State())

	require.NoError(t, c.Submit(ctx, Action{Do: func(context.Context) error { return nil }}))
	assert.Equal(t, Succeeded, c.State())
	assert.Empty(t, c.LastError())
}

func TestRefetchFailureStillSucceeds(t *testing.T) {
	c, screen, notifier := setup()
	screen.refetchErr = errors.New("offline")

	require.NoError(t, c.Submit(context.Background(), Action{SuccessMessage: "ok", Do: func(context.Context) error { return nil }}))
	assert.Equal(t, Succeeded, c.State())
	assert.Equal(t, []string{"ok"}, notifier.successes)
}
