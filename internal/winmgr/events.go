package winmgr

import (
	"errors"
	"fmt"

	"github.com/1broseidon/winwatch/internal/tracker"
)

// EventWindowActivated fires when the focused window changes.
const EventWindowActivated = "window-activated"

// ErrUnknownEvent is returned when subscribing to an event that is not tracked.
var ErrUnknownEvent = errors.New("unknown event")

// Subscribe attaches fn to the named event. Cancel the returned
// subscription to detach it; the last cancel stops polling.
func (m *Manager) Subscribe(event string, fn tracker.Listener) (*tracker.Subscription, error) {
	if event != EventWindowActivated {
		return nil, fmt.Errorf("subscribe %q: %w", event, ErrUnknownEvent)
	}
	return m.tracker.Subscribe(fn), nil
}

// OnWindowActivated is shorthand for Subscribe(EventWindowActivated, fn).
func (m *Manager) OnWindowActivated(fn tracker.Listener) *tracker.Subscription {
	return m.tracker.Subscribe(fn)
}

// ListenerCount returns the number of listeners attached to event.
func (m *Manager) ListenerCount(event string) int {
	if event != EventWindowActivated {
		return 0
	}
	return m.tracker.Listeners()
}

// ActiveEvents lists the events that currently have listeners.
func (m *Manager) ActiveEvents() []string {
	if m.tracker.Listeners() == 0 {
		return nil
	}
	return []string{EventWindowActivated}
}

// PollOnce runs one active window poll synchronously.
func (m *Manager) PollOnce() {
	m.tracker.Poll()
}
