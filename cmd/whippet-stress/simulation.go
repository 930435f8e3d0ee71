package main

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/plus3/whippet/ecs"
)

// Simulation keeps a universe at a steady entity count while a share of
// entities is replaced every frame.
type Simulation struct {
	scenario Scenario
	universe *ecs.Universe
	rng      *rand.Rand

	movement *MovementSystem
	decay    *DecaySystem
	progress *ProgressSystem

	frame        int
	spawned      int
	removed      int
	layersWeeded int
	released     int
}

func NewSimulation(sc Scenario, logger *slog.Logger) (*Simulation, error) {
	s := &Simulation{
		scenario: sc,
		universe: ecs.NewUniverse(ecs.WithLogger(logger), ecs.WithPoolOptions(sc.PoolOptions()...)),
		rng:      rand.New(rand.NewSource(sc.Seed)),
	}

	ecs.Register[Position](s.universe)
	ecs.Register[Velocity](s.universe)
	ecs.Register[Health](s.universe)
	ecs.Register[Tag](s.universe)
	ecs.Register[Tracker](s.universe)

	var err error
	if s.movement, err = ecs.System[MovementSystem](s.universe); err != nil {
		return nil, err
	}
	if s.decay, err = ecs.System[DecaySystem](s.universe); err != nil {
		return nil, err
	}
	s.decay.rng = s.rng
	s.decay.churn = sc.Churn
	if s.progress, err = ecs.System[ProgressSystem](s.universe); err != nil {
		return nil, err
	}

	if err := s.fill(); err != nil {
		s.universe.Close()
		return nil, err
	}
	return s, nil
}

// OnProgress registers fn to receive progress updates on the notifier's
// worker goroutine.
func (s *Simulation) OnProgress(fn func(Progress)) {
	s.progress.Attach(fn)
}

func (s *Simulation) spawn() error {
	e, err := s.universe.CreateEntity()
	if err != nil {
		return err
	}

	if _, err := ecs.Attach[Position](e, func(p *Position) {
		p.X, p.Y = s.rng.Float64()*100, s.rng.Float64()*100
	}); err != nil {
		return err
	}
	if _, err := ecs.Attach[Velocity](e, func(v *Velocity) {
		v.DX, v.DY = s.rng.Float64()-0.5, s.rng.Float64()-0.5
	}); err != nil {
		return err
	}
	if _, err := ecs.Attach[Health](e, func(h *Health) { h.Current = 1 + s.rng.Intn(100) }); err != nil {
		return err
	}
	if _, err := ecs.Attach[Tracker](e, func(t *Tracker) { t.counter = &s.released }); err != nil {
		return err
	}
	for i := range s.scenario.ComponentsPerEntity {
		if _, err := ecs.Attach[Tag](e, func(t *Tag) { t.Value = i }); err != nil {
			return err
		}
	}

	s.spawned++
	return nil
}

// fill spawns entities until the scenario's entity count is reached.
func (s *Simulation) fill() error {
	for n := s.universe.EntityCount(); n < s.scenario.Entities; n++ {
		if err := s.spawn(); err != nil {
			return fmt.Errorf("spawn: %w", err)
		}
	}
	return nil
}

// Step advances the simulation by one frame of dt seconds.
func (s *Simulation) Step(dt float64) error {
	s.frame++
	s.movement.Update(dt)

	removed, err := s.decay.Update()
	s.removed += removed
	if err != nil {
		return fmt.Errorf("frame %d: %w", s.frame, err)
	}
	if err := s.fill(); err != nil {
		return fmt.Errorf("frame %d: %w", s.frame, err)
	}

	if every := s.scenario.WeedEvery; every > 0 && s.frame%every == 0 {
		s.layersWeeded += s.universe.Weed()
	}
	if every := s.scenario.ReportEvery; every > 0 && s.frame%every == 0 {
		if err := s.progress.Broadcast(Progress{
			Frame:    s.frame,
			Entities: s.universe.EntityCount(),
			Spawned:  s.spawned,
			Removed:  s.removed,
		}); err != nil {
			return fmt.Errorf("frame %d: progress: %w", s.frame, err)
		}
	}
	return nil
}

func (s *Simulation) Stats() ecs.UniverseStats {
	return s.universe.CollectStats()
}

// Close tears the universe down and checks that every tracked entity was
// released.
func (s *Simulation) Close() error {
	if err := s.universe.Close(); err != nil {
		return err
	}
	if s.released != s.spawned {
		return fmt.Errorf("released %d trackers for %d spawned entities", s.released, s.spawned)
	}
	return nil
}
