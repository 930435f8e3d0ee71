package ecs_test

import (
	"fmt"

	"github.com/plus3/whippet/ecs"
)

// ExampleUniverse shows the basic lifecycle: create entities, attach
// components to them, walk the components of one type and tear it all down.
func ExampleUniverse() {
	u := ecs.NewUniverse()
	defer u.Close()

	ship, _ := u.CreateEntity()
	rock, _ := u.CreateEntity()

	ecs.Attach[Position](ship, func(p *Position) { p.X, p.Y = 1, 2 })
	ecs.Attach[Velocity](ship, func(v *Velocity) { v.DX = 0.5 })
	ecs.Attach[Position](rock, func(p *Position) { p.X, p.Y = 10, 10 })

	ecs.VisitAll(u, 0, func(v *Velocity) bool {
		for p := range ecs.ComponentsOf[Position](v.Owner()) {
			p.X += v.DX
		}
		return true
	})

	ecs.VisitAll(u, 0, func(p *Position) bool {
		fmt.Printf("entity %d at (%.1f, %.1f)\n", p.Owner().Guid(), p.X, p.Y)
		return true
	})

	// Output:
	// entity 1 at (1.5, 2.0)
	// entity 2 at (10.0, 10.0)
}

// ExampleEntity_Remove shows that removing an entity detaches its components
// and frees its guid for the next entity.
func ExampleEntity_Remove() {
	u := ecs.NewUniverse()
	defer u.Close()

	a, _ := u.CreateEntity()
	b, _ := u.CreateEntity()
	ecs.Attach[Name](a, func(n *Name) { n.Value = "a" })

	fmt.Println("before:", a.Guid(), b.Guid(), ecs.Count(a, nil))
	a.Remove()
	fmt.Println("removed valid:", a.Valid())

	c, _ := u.CreateEntity()
	fmt.Println("reused:", c.Guid() == a.Guid())

	// Output:
	// before: 1 2 1
	// removed valid: false
	// reused: true
}

type ScoreSystem struct {
	ecs.SystemBase
	Points int
}

func (s *ScoreSystem) Init() {
	fmt.Println("score system ready")
}

func (s *ScoreSystem) Close() error {
	fmt.Println("final score:", s.Points)
	return nil
}

// ExampleSystem shows a per-universe singleton with setup and teardown hooks.
func ExampleSystem() {
	u := ecs.NewUniverse()

	score, _ := ecs.System[ScoreSystem](u)
	score.Points += 10

	again, _ := ecs.System[ScoreSystem](u)
	again.Points += 5

	u.Close()

	// Output:
	// score system ready
	// final score: 15
}

// ExampleCommands shows removing entities found during a visit.
func ExampleCommands() {
	u := ecs.NewUniverse()
	defer u.Close()

	for i := range 4 {
		e, _ := u.CreateEntity()
		ecs.Attach[Health](e, func(h *Health) { h.Current = i * 50 })
	}

	cmds := ecs.NewCommands()
	ecs.VisitAll(u, 0, func(h *Health) bool {
		if h.Current == 0 {
			cmds.Remove(h.Owner())
		}
		return true
	})
	cmds.Defer(func() { fmt.Println("cleanup done") })

	if err := cmds.Flush(); err != nil {
		fmt.Println(err)
	}
	fmt.Println("entities left:", u.EntityCount())

	// Output:
	// cleanup done
	// entities left: 3
}
