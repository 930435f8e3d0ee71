package main

import (
	"math/rand"

	"github.com/plus3/whippet/ecs"
	"github.com/plus3/whippet/notify"
)

// MovementSystem integrates velocities into positions.
type MovementSystem struct {
	ecs.SystemBase
}

func (s *MovementSystem) Update(dt float64) {
	u := s.World()
	ecs.VisitAll(u, 0, func(v *Velocity) bool {
		for p := range ecs.ComponentsOf[Position](v.Owner()) {
			p.X += v.DX * dt
			p.Y += v.DY * dt
		}
		return true
	})
}

// DecaySystem kills a random share of entities every frame. Removals are
// queued while visiting and applied afterwards.
type DecaySystem struct {
	ecs.SystemBase
	rng      *rand.Rand
	churn    float64
	commands *ecs.Commands
}

func (s *DecaySystem) Init() {
	s.commands = ecs.NewCommands()
}

// Update returns how many entities were removed.
func (s *DecaySystem) Update() (int, error) {
	removed := 0
	ecs.VisitAll(s.World(), 0, func(h *Health) bool {
		if s.rng.Float64() < s.churn {
			h.Current = 0
		}
		if h.Current <= 0 {
			s.commands.Remove(h.Owner())
			removed++
		}
		return true
	})
	return removed, s.commands.Flush()
}

// Progress is published by the simulation every few frames.
type Progress struct {
	Frame    int
	Entities int
	Spawned  int
	Removed  int
}

// ProgressSystem owns the notifier that fans progress out to listeners. The
// notifier is closed with the universe.
type ProgressSystem struct {
	*notify.Notifier[Progress]
}

func (s *ProgressSystem) Init() {
	s.Notifier = notify.New[Progress]()
}
