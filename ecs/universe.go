// Package ecs stores components in per-type pooled providers owned by a
// Universe. Entities are guids; components are structs embedding Component
// and are attached to an entity by type. Each component type gets one
// Provider backed by a slab pool, so component pointers stay valid until the
// component is detached.
package ecs

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/kamstrup/intmap"
	"github.com/plus3/whippet/ecs/slab"
)

type state uint8

const (
	stateEmpty state = iota
	statePopulated
	stateTearingDown
	stateDestroyed
)

func (s state) String() string {
	switch s {
	case stateEmpty:
		return "empty"
	case statePopulated:
		return "populated"
	case stateTearingDown:
		return "tearing-down"
	case stateDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// Universe owns every entity, component, provider and system it creates.
// A Universe is not safe for concurrent use.
type Universe struct {
	guids     *guidRegistry
	providers []Provider
	index     *intmap.Map[uintptr, int]
	systems   *systemNode
	state     state
	attached  uint64

	logger   *slog.Logger
	poolOpts []slab.Option
}

// Option configures a Universe.
type Option func(*Universe)

// WithLogger sets the logger used for diagnostics. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(u *Universe) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// WithPoolOptions sets the slab options used for every provider's pool.
func WithPoolOptions(opts ...slab.Option) Option {
	return func(u *Universe) {
		u.poolOpts = append(u.poolOpts, opts...)
	}
}

// NewUniverse creates an empty universe.
func NewUniverse(opts ...Option) *Universe {
	u := &Universe{
		guids:  newGuidRegistry(),
		index:  intmap.New[uintptr, int](16),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Universe) closed() bool {
	return u.state >= stateTearingDown
}

// CreateEntity creates an entity with the smallest unused guid.
func (u *Universe) CreateEntity() (Entity, error) {
	if u.closed() {
		return Entity{}, ErrClosed
	}
	guid, err := u.guids.activate(kindEntity)
	if err != nil {
		return Entity{}, err
	}
	u.state = statePopulated
	return Entity{guid: guid, world: u}, nil
}

// Alive reports whether guid belongs to a live entity or component.
func (u *Universe) Alive(guid Guid) bool {
	return u.guids.has(guid)
}

func (u *Universe) lookup(t reflect.Type) Provider {
	idx, ok := u.index.Get(typeKey(t))
	if !ok {
		return nil
	}
	return u.providers[idx]
}

func (u *Universe) install(p Provider) {
	u.index.Put(typeKey(p.Type()), len(u.providers))
	u.providers = append(u.providers, p)
}

// Register installs a provider for component type C. Registering a type
// twice is a no-op that logs a warning and returns false.
func Register[C any, P componentPtr[C]](u *Universe) bool {
	t := reflect.TypeFor[C]()
	if u.closed() {
		u.logger.Warn("whippet: register on closed universe", slog.String("type", t.String()))
		return false
	}
	if t == AnyComponent {
		u.logger.Warn("whippet: the Component base cannot be registered")
		return false
	}
	if u.IsRegistered(t) {
		u.logger.Warn("whippet: component type registered twice", slog.String("type", t.String()))
		return false
	}

	u.install(newProvider[C, P](u.poolOpts...))
	u.logger.Debug("whippet: component type registered",
		slog.String("type", t.String()),
		slog.Int("providers", len(u.providers)))
	return true
}

// Registered reports whether a provider exists for component type C.
func Registered[C any](u *Universe) bool {
	return u.IsRegistered(reflect.TypeFor[C]())
}

// IsRegistered reports whether a provider exists for t.
func (u *Universe) IsRegistered(t reflect.Type) bool {
	return u.lookup(t) != nil
}

// Provider returns the provider for t, or nil.
func (u *Universe) Provider(t reflect.Type) Provider {
	return u.lookup(t)
}

// Visit walks components owned by entity (every entity when zero). A
// concrete tag routes to that type's provider and fn receives the concrete
// pointer; AnyComponent fans out across all providers in registration order
// and fn receives the *Component. Visit returns false if fn stopped early.
func (u *Universe) Visit(entity Guid, tag reflect.Type, fn func(any) bool) (bool, error) {
	if tag == nil || tag == AnyComponent {
		for _, p := range u.providers {
			if !p.Visit(entity, false, fn) {
				return false, nil
			}
		}
		return true, nil
	}

	p := u.lookup(tag)
	if p == nil {
		return false, fmt.Errorf("%w: %s", ErrNotRegistered, tag)
	}
	return p.Visit(entity, true, fn), nil
}

// VisitAll walks components of type C owned by entity, or of every entity
// when entity is zero.
func VisitAll[C any](u *Universe, entity Guid, fn func(*C) bool) (bool, error) {
	return u.Visit(entity, reflect.TypeFor[C](), func(c any) bool {
		return fn(c.(*C))
	})
}

// Weed compacts every provider's storage and returns the number of layers freed.
func (u *Universe) Weed() int {
	freed := 0
	for _, p := range u.providers {
		freed += p.Weed()
	}
	if freed > 0 {
		u.logger.Debug("whippet: weeded storage", slog.Int("layers", freed))
	}
	return freed
}

// Close destroys every component, releases every guid and tears systems down
// newest first. Closing an already closed universe does nothing.
func (u *Universe) Close() error {
	if u.closed() {
		return nil
	}
	u.state = stateTearingDown

	var errs []error
	components := 0
	for _, p := range u.providers {
		components += p.Len()
		if err := p.Purge(); err != nil {
			errs = append(errs, fmt.Errorf("purge %s: %w", p.Type(), err))
		}
	}
	u.providers = nil
	u.index.Clear()

	entities := u.guids.count(kindEntity)
	u.guids.clear()

	systems := 0
	for n := u.systems; n != nil; n = n.next {
		systems++
		if err := n.teardown(); err != nil {
			errs = append(errs, fmt.Errorf("teardown %s: %w", n.kind, err))
		}
	}
	u.systems = nil

	u.state = stateDestroyed
	u.logger.Debug("whippet: universe closed",
		slog.Int("components", components),
		slog.Int("entities", entities),
		slog.Int("systems", systems))
	return errors.Join(errs...)
}
