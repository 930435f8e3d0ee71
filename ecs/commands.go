package ecs

import (
	"errors"
	"fmt"
)

// Commands buffers structural changes so they can be queued while visiting
// and applied once the walk is over. Detaching or removing during a visit
// invalidates the walk in progress.
type Commands struct {
	removes  []Entity
	detaches []detachCommand
	defers   []func()
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

type detachCommand struct {
	component *Component
	guid      Guid
	serial    uint64
	owner     Guid
}

// Remove queues the removal of an entity and all its components.
func (c *Commands) Remove(e Entity) {
	c.removes = append(c.removes, e)
}

// Detach queues the detachment of a component. If the component is gone by
// the time the buffer is flushed, even when its slot was reused by another
// component, Flush reports ErrStaleComponent.
func (c *Commands) Detach(comp *Component) {
	c.detaches = append(c.detaches, detachCommand{
		component: comp,
		guid:      comp.Guid(),
		serial:    comp.serial,
		owner:     comp.Owner().Guid(),
	})
}

// Defer queues a function to run after all removals and detachments.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.removes) + len(c.detaches) + len(c.defers)
}

// Flush applies queued commands, removals first, and resets the buffer.
// Detachments of components whose owner was removed by the same flush are
// dropped. Errors from individual commands are joined.
func (c *Commands) Flush() error {
	var errs []error
	removed := make(map[Guid]bool, len(c.removes))

	for _, e := range c.removes {
		if removed[e.Guid()] {
			continue
		}
		if err := e.Remove(); err != nil {
			errs = append(errs, err)
			continue
		}
		removed[e.Guid()] = true
	}

	for _, cmd := range c.detaches {
		if removed[cmd.owner] {
			continue
		}
		if cmd.serial == 0 || cmd.component.serial != cmd.serial {
			errs = append(errs, fmt.Errorf("%w: guid %d", ErrStaleComponent, cmd.guid))
			continue
		}
		if err := cmd.component.Detach(); err != nil {
			errs = append(errs, err)
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.removes = c.removes[:0]
	c.detaches = c.detaches[:0]
	c.defers = c.defers[:0]
	return errors.Join(errs...)
}
