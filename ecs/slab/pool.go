// Package slab provides a layered slot pool whose elements never move.
//
// A Pool is a chain of fixed-size layers. Allocation reuses the first dead
// slot it finds, scanning from the newest layer to the oldest, and only
// prepends a new layer when every slot is live. Because a layer's backing
// array is never resized, a pointer to a live element stays valid until that
// element is erased. Compact releases layers that hold no live element.
//
// Pools are not safe for concurrent use.
package slab

import (
	"errors"
	"iter"
)

var (
	ErrNotFound = errors.New("slab: element is not a live slot of this pool")
	ErrNotLive  = errors.New("slab: element is not live after construction")
)

// Slot is the contract an element type satisfies through its pointer type.
// Live reports whether the slot holds a constructed value. Clean destroys the
// value in place and must leave the slot reporting !Live.
type Slot[T any] interface {
	*T
	Live() bool
	Clean()
}

type layer[T any] struct {
	slots []T
	next  *layer[T]
}

// Pool stores values of T in layers of slots.
type Pool[T any, P Slot[T]] struct {
	head *layer[T]
	cfg  config
}

// New creates an empty pool. No layer is allocated until the first Allocate.
func New[T any, P Slot[T]](opts ...Option) *Pool[T, P] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pool[T, P]{cfg: cfg}
}

func (p *Pool[T, P]) newLayer(size int) *layer[T] {
	l := &layer[T]{slots: make([]T, size)}
	for i := range l.slots {
		P(&l.slots[i]).Clean()
	}
	return l
}

// grow prepends a layer sized by the growth policy.
func (p *Pool[T, P]) grow() {
	head := 0
	if p.head != nil {
		head = len(p.head.slots)
	}
	l := p.newLayer(p.cfg.nextSize(head))
	l.next = p.head
	p.head = l
}

func (p *Pool[T, P]) firstDead() (P, bool) {
	for l := p.head; l != nil; l = l.next {
		for i := range l.slots {
			if s := P(&l.slots[i]); !s.Live() {
				return s, true
			}
		}
	}
	return nil, false
}

// Allocate runs construct on the first dead slot, growing the pool by one
// layer when none is free, and returns the now-live slot. construct must
// leave the slot live; if it does not, the slot is cleaned and ErrNotLive
// is returned.
func (p *Pool[T, P]) Allocate(construct func(P)) (P, error) {
	slot, ok := p.firstDead()
	if !ok {
		p.grow()
		// the new head is all dead, so this cannot miss
		slot, _ = p.firstDead()
	}

	construct(slot)
	if !slot.Live() {
		slot.Clean()
		return nil, ErrNotLive
	}
	return slot, nil
}

// All iterates over live elements, newest layer first and in slot order
// within a layer. Erasing or compacting invalidates a running iteration.
func (p *Pool[T, P]) All() iter.Seq[P] {
	return func(yield func(P) bool) {
		for l := p.head; l != nil; l = l.next {
			for i := range l.slots {
				s := P(&l.slots[i])
				if !s.Live() {
					continue
				}
				if !yield(s) {
					return
				}
			}
		}
	}
}

// Erase destroys the element in place and marks its slot dead.
func (p *Pool[T, P]) Erase(element P) error {
	if !p.Contains(element) {
		return ErrNotFound
	}
	element.Clean()
	if element.Live() {
		return ErrNotLive
	}
	return nil
}

// Contains reports whether element is a live slot of this pool.
func (p *Pool[T, P]) Contains(element P) bool {
	for s := range p.All() {
		if s == element {
			return true
		}
	}
	return false
}

// Compact unlinks every layer without a live slot and returns how many were
// freed. Layers holding a live element are kept whole, so no element moves.
func (p *Pool[T, P]) Compact() int {
	return weed[T, P](&p.head)
}

// weed compacts the chain starting at *link, oldest layer first.
func weed[T any, P Slot[T]](link **layer[T]) int {
	l := *link
	if l == nil {
		return 0
	}

	freed := weed[T, P](&l.next)
	for i := range l.slots {
		if P(&l.slots[i]).Live() {
			return freed
		}
	}

	*link = l.next
	l.next = nil
	return freed + 1
}

// Clear erases every live element in iteration order, then drops all layers.
func (p *Pool[T, P]) Clear() {
	for s := range p.All() {
		s.Clean()
	}
	p.head = nil
}

// Empty reports whether the pool holds no live element.
func (p *Pool[T, P]) Empty() bool {
	for range p.All() {
		return false
	}
	return true
}

// Len returns the number of live elements.
func (p *Pool[T, P]) Len() int {
	n := 0
	for range p.All() {
		n++
	}
	return n
}

// Cap returns the total number of slots across all layers.
func (p *Pool[T, P]) Cap() int {
	n := 0
	for l := p.head; l != nil; l = l.next {
		n += len(l.slots)
	}
	return n
}

// Layers returns the number of layers.
func (p *Pool[T, P]) Layers() int {
	n := 0
	for l := p.head; l != nil; l = l.next {
		n++
	}
	return n
}

// LayerSizes returns the slot count of each layer, newest first.
func (p *Pool[T, P]) LayerSizes() []int {
	sizes := make([]int, 0, p.Layers())
	for l := p.head; l != nil; l = l.next {
		sizes = append(sizes, len(l.slots))
	}
	return sizes
}
