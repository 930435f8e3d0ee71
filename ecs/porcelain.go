package ecs

import "fmt"

// Count returns how many components of any type attached to e pass filter.
// A nil filter counts them all.
func Count(e Entity, filter func(*Component) bool) int {
	n := 0
	for c := range Components(e) {
		if filter == nil || filter(c) {
			n++
		}
	}
	return n
}

// CountOf returns how many components of type C attached to e pass filter.
// A nil filter counts them all.
func CountOf[C any](e Entity, filter func(*C) bool) int {
	n := 0
	for c := range ComponentsOf[C](e) {
		if filter == nil || filter(c) {
			n++
		}
	}
	return n
}

// Nth returns the n-th component of type C attached to e, counting from
// zero in storage order.
func Nth[C any](e Entity, n int) (*C, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEntity, e.guid)
	}
	i := 0
	for c := range ComponentsOf[C](e) {
		if i == n {
			return c, nil
		}
		i++
	}
	return nil, fmt.Errorf("whippet: entity %d has %d components of the requested type, wanted index %d", e.guid, i, n)
}
