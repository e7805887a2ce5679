package session

import "github.com/tomz197/asteroids-arcade/internal/object"

// EventKind identifies a session event.
type EventKind int

const (
	EventShot EventKind = iota
	EventAsteroidDestroyed
	EventShipHit
	EventRespawned
	EventHyperspace
	EventShieldDown
	EventBonusLife
	EventLevelCleared
	EventLevelStarted
	EventGameOver
	EventFault
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventShot:
		return "shot"
	case EventAsteroidDestroyed:
		return "asteroid-destroyed"
	case EventShipHit:
		return "ship-hit"
	case EventRespawned:
		return "respawned"
	case EventHyperspace:
		return "hyperspace"
	case EventShieldDown:
		return "shield-down"
	case EventBonusLife:
		return "bonus-life"
	case EventLevelCleared:
		return "level-cleared"
	case EventLevelStarted:
		return "level-started"
	case EventGameOver:
		return "game-over"
	case EventFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Event is something that happened during a tick. Frontends drain events
// between ticks to drive sounds, banners and status lines.
type Event struct {
	Kind   EventKind
	X, Y   float64
	Size   object.AsteroidSize // EventAsteroidDestroyed
	Points int                 // EventAsteroidDestroyed
	Score  int                 // Score after the event
	Lives  int                 // Lives after the event
	Level  int                 // EventLevelCleared, EventLevelStarted, EventGameOver
	Err    error               // EventFault
}

// maxQueuedEvents bounds the queue when nobody drains it.
const maxQueuedEvents = 512

type eventQueue struct {
	events []Event
}

func (q *eventQueue) push(e Event) {
	if len(q.events) >= maxQueuedEvents {
		copy(q.events, q.events[1:])
		q.events = q.events[:len(q.events)-1]
	}
	q.events = append(q.events, e)
}

// drain returns all queued events and empties the queue.
func (q *eventQueue) drain() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}
