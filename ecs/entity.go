package ecs

import (
	"fmt"
	"iter"
	"reflect"
)

// Entity is a guid bound to the universe that issued it. Entities are plain
// values; copies refer to the same entity. The zero Entity means "no entity".
type Entity struct {
	guid  Guid
	world *Universe
}

// Guid returns the entity's guid.
func (e Entity) Guid() Guid {
	return e.guid
}

// Valid reports whether the entity is bound and its guid is still active.
func (e Entity) Valid() bool {
	return e.world != nil && e.world.guids.is(e.guid, kindEntity)
}

// World returns the universe the entity belongs to.
func (e Entity) World() (*Universe, error) {
	if e.world == nil {
		return nil, fmt.Errorf("%w: entity is not bound to a universe", ErrInvalidEntity)
	}
	return e.world, nil
}

// Remove detaches every component of the entity and releases its guid.
func (e Entity) Remove() error {
	if !e.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidEntity, e.guid)
	}

	// a detach invalidates the walk, so start over after each one
	for {
		var attached *Component
		if _, err := e.world.Visit(e.guid, AnyComponent, func(c any) bool {
			attached = c.(*Component)
			return false
		}); err != nil {
			return err
		}
		if attached == nil {
			break
		}
		if err := attached.Detach(); err != nil {
			return err
		}
	}

	e.world.guids.release(e.guid, kindEntity)
	return nil
}

// Attach creates a component of type C on e, registering C on first use.
// The Component base is already filled when init runs, so init can read
// the owner and guid of the new component.
func Attach[C any, P componentPtr[C]](e Entity, init ...func(P)) (P, error) {
	u, err := e.World()
	if err != nil {
		return nil, err
	}
	if u.closed() {
		return nil, ErrClosed
	}

	t := reflect.TypeFor[C]()
	p := u.lookup(t)
	if p == nil {
		Register[C, P](u)
		if p = u.lookup(t); p == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotRegistered, t)
		}
	}

	raw, err := p.Allocate(e)
	if err != nil {
		return nil, fmt.Errorf("attach %s: %w", t, err)
	}

	c := raw.(P)
	for _, fn := range init {
		fn(c)
	}
	return c, nil
}

// Components iterates over every component attached to e.
func Components(e Entity) iter.Seq[*Component] {
	return func(yield func(*Component) bool) {
		if !e.Valid() {
			return
		}
		e.world.Visit(e.guid, AnyComponent, func(c any) bool {
			return yield(c.(*Component))
		})
	}
}

// ComponentsOf iterates over the components of type C attached to e.
func ComponentsOf[C any](e Entity) iter.Seq[*C] {
	return func(yield func(*C) bool) {
		if !e.Valid() || !Registered[C](e.world) {
			return
		}
		VisitAll(e.world, e.guid, yield)
	}
}
