package ecs

import (
	"fmt"
	"reflect"

	"github.com/plus3/whippet/ecs/slab"
)

// Provider is the type-erased storage for one component type. A Universe
// holds one Provider per registered type and drives all of them through
// this interface without knowing their concrete types.
type Provider interface {
	// Type returns the concrete component type stored.
	Type() reflect.Type
	// Matches reports whether t is the stored component type.
	Matches(t reflect.Type) bool

	// Allocate claims a slot for a new component owned by owner, fills in its
	// Component base and returns a pointer to the concrete component.
	Allocate(owner Entity) (any, error)
	// Detach destroys c and frees its slot.
	Detach(c *Component) error
	// Visit calls fn for each live component owned by entity, or for every
	// live component when entity is zero. fn receives the concrete pointer
	// when concrete is set and the *Component otherwise. Visit returns false
	// if fn stopped the walk.
	Visit(entity Guid, concrete bool, fn func(any) bool) bool
	// Purge detaches every live component.
	Purge() error
	// Weed releases storage layers holding no live component.
	Weed() int

	Len() int
	Layers() int
	Cap() int
}

// provider is the Provider for component type C.
type provider[C any, P componentPtr[C]] struct {
	kind reflect.Type
	pool *slab.Pool[record[C, P], *record[C, P]]
}

func newProvider[C any, P componentPtr[C]](opts ...slab.Option) *provider[C, P] {
	return &provider[C, P]{
		kind: reflect.TypeFor[C](),
		pool: slab.New[record[C, P]](opts...),
	}
}

func (p *provider[C, P]) Type() reflect.Type {
	return p.kind
}

func (p *provider[C, P]) Matches(t reflect.Type) bool {
	return p.kind == t
}

func (p *provider[C, P]) Allocate(owner Entity) (any, error) {
	w := owner.world
	if w == nil || !w.guids.is(owner.guid, kindEntity) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEntity, owner.guid)
	}

	guid, err := w.guids.activate(kindComponent)
	if err != nil {
		return nil, err
	}

	rec, err := p.pool.Allocate(func(r *record[C, P]) {
		c := r.component()
		c.owner = owner
		c.guid = guid
		c.provider = p
		c.self = &r.value
		w.attached++
		c.serial = w.attached
	})
	if err != nil {
		w.guids.release(guid, kindComponent)
		return nil, err
	}
	return P(&rec.value), nil
}

func (p *provider[C, P]) Detach(c *Component) error {
	for r := range p.pool.All() {
		if r.component() != c {
			continue
		}
		return p.pool.Erase(r)
	}
	return fmt.Errorf("%w: %s guid %d", ErrAlreadyDetached, p.kind, c.guid)
}

func (p *provider[C, P]) Visit(entity Guid, concrete bool, fn func(any) bool) bool {
	for r := range p.pool.All() {
		c := r.component()
		if entity != 0 && c.owner.guid != entity {
			continue
		}

		var arg any = c
		if concrete {
			arg = P(&r.value)
		}
		if !fn(arg) {
			return false
		}
	}
	return true
}

func (p *provider[C, P]) first() *Component {
	for r := range p.pool.All() {
		return r.component()
	}
	return nil
}

func (p *provider[C, P]) Purge() error {
	for c := p.first(); c != nil; c = p.first() {
		if err := p.Detach(c); err != nil {
			return err
		}
	}
	return nil
}

func (p *provider[C, P]) Weed() int {
	return p.pool.Compact()
}

func (p *provider[C, P]) Len() int {
	return p.pool.Len()
}

func (p *provider[C, P]) Layers() int {
	return p.pool.Layers()
}

func (p *provider[C, P]) Cap() int {
	return p.pool.Cap()
}
