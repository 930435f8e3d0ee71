package ecs_test

import (
	"io"
	"log/slog"

	"github.com/plus3/whippet/ecs"
)

// Common test component types
type Position struct {
	ecs.Component
	X, Y float32
}

type Velocity struct {
	ecs.Component
	DX, DY float32
}

type Name struct {
	ecs.Component
	Value string
}

type Health struct {
	ecs.Component
	Current int
	Max     int
}

// Handle records whether it was released.
type Handle struct {
	ecs.Component
	released *int
}

func (h *Handle) Release() {
	if h.released != nil {
		*h.released++
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestUniverse() *ecs.Universe {
	u := ecs.NewUniverse(ecs.WithLogger(quietLogger()))
	ecs.Register[Position](u)
	ecs.Register[Velocity](u)
	ecs.Register[Name](u)
	ecs.Register[Health](u)
	return u
}
