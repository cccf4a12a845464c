package sim

import "github.com/golang/geo/r2"

// Circle is a positioned radius, enough to draw any body.
type Circle struct {
	Pos    r2.Point
	Radius float64
}

// CatView is a cat as seen by renderers.
type CatView struct {
	Circle
	Homing bool
}

// Aim is a client's launch direction (radians) and power.
type Aim struct {
	Angle float64
	Power float64
}

// Snapshot is an immutable view of the world published once per tick.
// Readers must not modify it.
type Snapshot struct {
	Tick uint64
	Time float64
	Area r2.Rect

	Planet     Circle
	Moon       Circle
	MoonHealth float64
	Defeated   bool

	Cats []CatView
	Mice []Circle

	Score         int
	SpawnInterval float64
	Players       int

	// Per client
	Aims     map[int]Aim
	Previews map[int][]r2.Point
}

// Snapshot copies the current state. Previews and aims are left for the
// caller to fill.
func (s *State) Snapshot() *Snapshot {
	snap := &Snapshot{
		Tick:       s.Tick,
		Time:       s.Time,
		Area:       s.area,
		Planet:     Circle{Pos: s.Planet.Position(), Radius: s.Planet.Radius()},
		Moon:       Circle{Pos: s.Moon.Position(), Radius: s.Moon.Radius()},
		MoonHealth: s.Moon.Health(),
		Defeated:   s.Defeated(),
		Cats:       make([]CatView, len(s.Cats)),
		Mice:       make([]Circle, len(s.Mice)),
		Score:      s.Score,
	}
	for i, c := range s.Cats {
		snap.Cats[i] = CatView{
			Circle: Circle{Pos: c.Position(), Radius: c.Radius()},
			Homing: c.Target() != nil,
		}
	}
	for i, m := range s.Mice {
		snap.Mice[i] = Circle{Pos: m.Position(), Radius: m.Radius()}
	}
	if s.Spawner != nil {
		snap.SpawnInterval = s.Spawner.Interval()
	}
	return snap
}
