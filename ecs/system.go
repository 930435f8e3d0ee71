package ecs

import (
	"io"
	"log/slog"
	"reflect"
)

// systemNode links one per-type singleton into its universe. teardown is
// bound when the node is created, while the concrete type is still known.
type systemNode struct {
	kind     reflect.Type
	value    any
	teardown func() error
	next     *systemNode
}

// SystemBase can be embedded in a system to get access to its universe. The
// universe is set before the system's Init hook runs.
type SystemBase struct {
	world *Universe
}

// World returns the universe owning the system.
func (s *SystemBase) World() *Universe {
	return s.world
}

func (s *SystemBase) bind(u *Universe) {
	s.world = u
}

type systemBinder interface {
	bind(*Universe)
}

// SystemInitializer is implemented by systems that need setup once they are
// linked into their universe.
type SystemInitializer interface {
	Init()
}

// System returns the universe's singleton of type S, creating it on first
// use. Systems are torn down newest first when the universe closes; those
// implementing io.Closer are closed then.
func System[S any](u *Universe) (*S, error) {
	kind := reflect.TypeFor[S]()
	for n := u.systems; n != nil; n = n.next {
		if n.kind == kind {
			return n.value.(*S), nil
		}
	}
	if u.closed() {
		return nil, ErrClosed
	}

	obj := new(S)
	node := &systemNode{
		kind:     kind,
		value:    obj,
		teardown: func() error { return nil },
		next:     u.systems,
	}
	if c, ok := any(obj).(io.Closer); ok {
		node.teardown = c.Close
	}
	u.systems = node

	if b, ok := any(obj).(systemBinder); ok {
		b.bind(u)
	}
	if i, ok := any(obj).(SystemInitializer); ok {
		i.Init()
	}

	u.logger.Debug("whippet: system created", slog.String("type", kind.String()))
	return obj, nil
}

// SystemCount returns how many systems the universe holds.
func (u *Universe) SystemCount() int {
	n := 0
	for node := u.systems; node != nil; node = node.next {
		n++
	}
	return n
}
