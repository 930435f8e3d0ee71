package ecs

import (
	"github.com/kamstrup/intmap"
)

// Guid identifies a live entity or component within a Universe. Zero is never
// assigned and means "none".
type Guid uint32

type guidKind uint8

const (
	kindEntity guidKind = iota + 1
	kindComponent
)

// guidRegistry is the set of guids currently in use. Entities and components
// draw from the same set; each guid remembers which of the two it names.
type guidRegistry struct {
	active *intmap.Map[Guid, guidKind]
	counts [kindComponent + 1]int

	// every guid below low is active
	low Guid
}

func newGuidRegistry() *guidRegistry {
	return &guidRegistry{
		active: intmap.New[Guid, guidKind](256),
		low:    1,
	}
}

// activate claims the smallest unused positive guid for kind.
func (r *guidRegistry) activate(kind guidKind) (Guid, error) {
	for g := r.low; g != 0; g++ {
		if _, ok := r.active.Get(g); ok {
			continue
		}
		r.active.Put(g, kind)
		r.counts[kind]++
		r.low = g + 1
		return g, nil
	}
	return 0, ErrGuidExhausted
}

// release returns g to the pool if it is active as kind. It reports false
// otherwise.
func (r *guidRegistry) release(g Guid, kind guidKind) bool {
	if !r.is(g, kind) {
		return false
	}
	r.active.Del(g)
	r.counts[kind]--
	// low wraps to zero once the last guid is handed out
	if r.low == 0 || g < r.low {
		r.low = g
	}
	return true
}

func (r *guidRegistry) has(g Guid) bool {
	if g == 0 {
		return false
	}
	_, ok := r.active.Get(g)
	return ok
}

// is reports whether g is active and names a kind.
func (r *guidRegistry) is(g Guid, kind guidKind) bool {
	if g == 0 {
		return false
	}
	k, ok := r.active.Get(g)
	return ok && k == kind
}

func (r *guidRegistry) len() int {
	return r.active.Len()
}

func (r *guidRegistry) count(kind guidKind) int {
	return r.counts[kind]
}

func (r *guidRegistry) clear() {
	r.active.Clear()
	r.counts = [kindComponent + 1]int{}
	r.low = 1
}
