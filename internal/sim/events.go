package sim

import "github.com/golang/geo/r2"

// EventType identifies what happened during a tick.
type EventType int

const (
	EventCatLaunched   EventType = iota
	EventCatImpact               // Cat hit the planet or the moon
	EventScore                   // Cat killed a mouse
	EventMoonHit                 // Mouse reached the moon
	EventMoonDestroyed           // Moon health ran out; fires once per game

	// Sent by the server only
	EventRestarted
	EventServerShutdown
)

func (t EventType) String() string {
	switch t {
	case EventCatLaunched:
		return "cat_launched"
	case EventCatImpact:
		return "cat_impact"
	case EventScore:
		return "score"
	case EventMoonHit:
		return "moon_hit"
	case EventMoonDestroyed:
		return "moon_destroyed"
	case EventRestarted:
		return "restarted"
	case EventServerShutdown:
		return "server_shutdown"
	default:
		return "unknown"
	}
}

// Event is reported to the layers outside the simulation (HUD, sound, scoring).
type Event struct {
	Type   EventType
	Tick   uint64
	Pos    r2.Point
	Points int     // EventScore
	Health float64 // EventMoonHit, EventMoonDestroyed
}

func (s *State) emit(e Event) {
	e.Tick = s.Tick
	s.events = append(s.events, e)
}

// DrainEvents returns the events since the last call and clears the queue.
func (s *State) DrainEvents() []Event {
	events := s.events
	s.events = nil
	return events
}
