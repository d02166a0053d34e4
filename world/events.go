package world

// EventKind identifies a gameplay event.
type EventKind string

const (
	EventJump       EventKind = "jump"
	EventLaneChange EventKind = "lane_change"
	EventLanded     EventKind = "landed"
	EventCrash      EventKind = "crash"
)

// Event is emitted by Tick for presentation (sound cues, HUD flashes).
type Event struct {
	Kind EventKind
	Tick int64
	Lane int
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
