package ecs

import "errors"

var (
	ErrNotRegistered   = errors.New("whippet: component type not registered")
	ErrInvalidEntity   = errors.New("whippet: entity is not live")
	ErrStaleComponent  = errors.New("whippet: component handle is stale")
	ErrAlreadyDetached = errors.New("whippet: component not found, was it already detached?")
	ErrWrongType       = errors.New("whippet: component is of another type")
	ErrGuidExhausted   = errors.New("whippet: no unused guid left")
	ErrClosed          = errors.New("whippet: universe is closed")
)
