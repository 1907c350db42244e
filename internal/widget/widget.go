package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClosed is returned when input arrives while no controller is active
var ErrClosed = errors.New("widget is closed")

// Controller drives one interaction mode against the relay
type Controller interface {
	Mode() Mode
	Start(ctx context.Context) error
	Stop() error
	Send(ctx context.Context, input string) error
}

// ControllerFactory builds a fresh controller for mode
type ControllerFactory func(mode Mode) Controller

// Widget owns the UI state and the single controller it implies
type Widget struct {
	mu            sync.Mutex
	state         State
	active        Controller
	newController ControllerFactory
}

// New returns a closed widget that will open in voice mode by default
func New(factory ControllerFactory) *Widget {
	return &Widget{
		state:         State{Open: false, Mode: ModeVoice},
		newController: factory,
	}
}

func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Dispatch applies e and swaps the active controller when the running mode changes
func (w *Widget) Dispatch(ctx context.Context, e Event) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev := w.state
	next := Transition(prev, e)

	prevMode, prevOpen := prev.Active()
	nextMode, nextOpen := next.Active()
	if prevOpen == nextOpen && (!nextOpen || prevMode == nextMode) {
		w.state = next
		return next, nil
	}

	if w.active != nil {
		if err := w.active.Stop(); err != nil {
			log.Warn().Err(err).Str("mode", w.active.Mode().String()).Msg("Failed to stop controller")
		}
		w.active = nil
	}

	w.state = next

	if nextOpen {
		controller := w.newController(nextMode)
		if err := controller.Start(ctx); err != nil {
			w.state = State{Open: false, Mode: nextMode}
			return w.state, fmt.Errorf("failed to start %s controller: %w", nextMode, err)
		}
		w.active = controller
	}

	log.Debug().Str("from", prev.String()).Str("to", next.String()).Msg("Widget state changed")
	return next, nil
}

// Send hands input to the active controller. The lock is not held while the
// controller works, so a concurrent Dispatch may stop it mid-request.
func (w *Widget) Send(ctx context.Context, input string) error {
	w.mu.Lock()
	active := w.active
	w.mu.Unlock()

	if active == nil {
		return ErrClosed
	}
	return active.Send(ctx, input)
}

// Shutdown closes the widget
func (w *Widget) Shutdown() {
	if _, err := w.Dispatch(context.Background(), Close()); err != nil {
		log.Debug().Err(err).Msg("Failed to close widget")
	}
}
