package widget

import "fmt"

// Mode selects which controller serves an open widget
type Mode int

const (
	ModeVoice Mode = iota
	ModeText
)

func (m Mode) String() string {
	switch m {
	case ModeVoice:
		return "voice"
	case ModeText:
		return "text"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "voice" or "text"
func ParseMode(s string) (Mode, error) {
	switch s {
	case "voice":
		return ModeVoice, nil
	case "text":
		return ModeText, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// State is Closed or Open in a mode. A closed widget remembers its last mode.
type State struct {
	Open bool
	Mode Mode
}

// Active returns the mode of the controller that should be running, if any
func (s State) Active() (Mode, bool) {
	return s.Mode, s.Open
}

func (s State) String() string {
	if !s.Open {
		return "closed"
	}
	return "open(" + s.Mode.String() + ")"
}

type EventKind int

const (
	EventOpen EventKind = iota
	EventClose
	EventSwitchMode
)

type Event struct {
	Kind EventKind
	Mode Mode
}

func Open(mode Mode) Event {
	return Event{Kind: EventOpen, Mode: mode}
}

func Close() Event {
	return Event{Kind: EventClose}
}

func SwitchMode(mode Mode) Event {
	return Event{Kind: EventSwitchMode, Mode: mode}
}

// Transition returns the state that follows s after e
func Transition(s State, e Event) State {
	switch e.Kind {
	case EventOpen:
		return State{Open: true, Mode: e.Mode}
	case EventClose:
		return State{Open: false, Mode: s.Mode}
	case EventSwitchMode:
		return State{Open: s.Open, Mode: e.Mode}
	default:
		return s
	}
}
