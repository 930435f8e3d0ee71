package ecs

import (
	"fmt"
	"reflect"
)

// AnyComponent is the visitation tag that matches components of every type.
var AnyComponent = reflect.TypeFor[Component]()

// Component is the base every component type embeds. Its fields are filled in
// by the owning provider before the component's initializer runs, so Owner,
// Guid and World are already usable from inside it.
type Component struct {
	owner    Entity
	guid     Guid
	provider Provider
	self     any

	// attachment counter value, unique for the life of the universe
	serial uint64
}

// Releaser is implemented by components that need to release resources when
// they are detached. Release runs while the component is still live.
type Releaser interface {
	Release()
}

// componentPtr is satisfied by a pointer to any struct embedding Component.
type componentPtr[C any] interface {
	*C
	base() *Component
}

func (c *Component) base() *Component { return c }

// Owner returns the entity this component is attached to, or the zero Entity
// for a detached handle.
func (c *Component) Owner() Entity {
	return c.owner
}

// Guid returns this component's own guid, zero once detached.
func (c *Component) Guid() Guid {
	return c.guid
}

// Valid reports whether the component is still attached. A handle is checked
// by its guid being active as a component guid in the owning universe, not by
// pointer alone. Owner and Guid return zero values on a detached handle, so
// callers holding a handle across detaches check Valid first.
func (c *Component) Valid() bool {
	if c == nil || c.guid == 0 || c.provider == nil {
		return false
	}
	w := c.owner.world
	return w != nil && w.guids.is(c.guid, kindComponent)
}

// World returns the universe the component lives in.
func (c *Component) World() (*Universe, error) {
	if !c.Valid() {
		return nil, ErrStaleComponent
	}
	return c.owner.world, nil
}

// Provider returns the storage provider holding this component, nil once detached.
func (c *Component) Provider() Provider {
	return c.provider
}

// Is reports whether the component's concrete type is t.
func (c *Component) Is(t reflect.Type) bool {
	return c.Valid() && c.provider.Matches(t)
}

// Detach destroys the component and frees its slot. Any pointer to it is
// stale afterwards.
func (c *Component) Detach() error {
	if !c.Valid() {
		return ErrStaleComponent
	}
	return c.provider.Detach(c)
}

// Is reports whether c is a live component of type C.
func Is[C any](c *Component) bool {
	return c.Is(reflect.TypeFor[C]())
}

// As narrows c to its concrete type.
func As[C any](c *Component) (*C, error) {
	if !c.Valid() {
		return nil, ErrStaleComponent
	}
	t := reflect.TypeFor[C]()
	if !c.provider.Matches(t) {
		return nil, fmt.Errorf("%w: %s is not %s", ErrWrongType, c.provider.Type(), t)
	}
	return c.self.(*C), nil
}
