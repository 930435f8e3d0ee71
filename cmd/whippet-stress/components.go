package main

import (
	"github.com/plus3/whippet/ecs"
)

type Position struct {
	ecs.Component
	X, Y float64
}

type Velocity struct {
	ecs.Component
	DX, DY float64
}

type Health struct {
	ecs.Component
	Current int
}

// Tag is the filler component attached components_per_entity times.
type Tag struct {
	ecs.Component
	Value int
}

// Tracker counts releases so the report can check that every component
// created was destroyed.
type Tracker struct {
	ecs.Component
	counter *int
}

func (t *Tracker) Release() {
	if t.counter != nil {
		*t.counter++
	}
}
