package websurface

import (
	"sync"

	"github.com/gogpu/websurface/engine"
)

// HostEvent is an event delivered by the host to the driver.
type HostEvent interface {
	hostEvent()
}

// Awakened is posted when an engine asks for a repaint.
type Awakened struct{}

// WindowEvent wraps a window-level event. Event is engine.Resize for a
// window resize and an input event otherwise.
type WindowEvent struct {
	Event engine.Event
}

// Other is any host event the driver does not handle.
type Other struct {
	Name string
}

func (Awakened) hostEvent()    {}
func (WindowEvent) hostEvent() {}
func (Other) hostEvent()       {}

// EventQueue is a multi-producer queue of host events drained once per tick.
// It is safe for concurrent use.
type EventQueue struct {
	mu     sync.Mutex
	events []HostEvent
}

// Post appends ev. Consecutive Awakened events collapse into one.
func (q *EventQueue) Post(ev HostEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := ev.(Awakened); ok && len(q.events) > 0 {
		if _, last := q.events[len(q.events)-1].(Awakened); last {
			return
		}
	}
	q.events = append(q.events, ev)
}

// Drain removes and returns all queued events in order.
func (q *EventQueue) Drain() []HostEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
