package ecs_test

import (
	"testing"

	"github.com/plus3/whippet/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRemoveDuringVisit(t *testing.T) {
	u := newTestUniverse()
	defer u.Close()

	for i := range 10 {
		e := mustEntity(t, u)
		ecs.Attach[Health](e, func(h *Health) { h.Current = i % 3 })
	}

	cmds := ecs.NewCommands()
	ok, err := ecs.VisitAll(u, 0, func(h *Health) bool {
		if h.Current == 0 {
			cmds.Remove(h.Owner())
		}
		return true
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, cmds.Len())

	require.NoError(t, cmds.Flush())
	assert.Equal(t, 0, cmds.Len())
	assert.Equal(t, 6, u.EntityCount())

	ecs.VisitAll(u, 0, func(h *Health) bool {
		assert.NotZero(t, h.Current)
		return true
	})
}

func TestCommandsDetach(t *testing.T) {
	u := newTestUniverse()
	defer u.Close()

	e := mustEntity(t, u)
	for i := range 5 {
		ecs.Attach[Name](e, func(n *Name) {
			if i%2 == 0 {
				n.Value = "even"
			}
		})
	}

	cmds := ecs.NewCommands()
	for n := range ecs.ComponentsOf[Name](e) {
		if n.Value == "even" {
			cmds.Detach(&n.Component)
		}
	}
	require.NoError(t, cmds.Flush())

	assert.Equal(t, 2, ecs.CountOf[Name](e, nil))
	assert.True(t, e.Valid())
}

func TestCommandsOrdering(t *testing.T) {
	u := newTestUniverse()
	defer u.Close()

	e := mustEntity(t, u)
	p, _ := ecs.Attach[Position](e)

	var order []string
	cmds := ecs.NewCommands()
	cmds.Defer(func() { order = append(order, "defer") })
	cmds.Detach(&p.Component)
	cmds.Remove(e)
	cmds.Remove(e)

	// the detach is dropped because its owner goes first
	require.NoError(t, cmds.Flush())
	order = append(order, "flushed")

	assert.Equal(t, []string{"defer", "flushed"}, order)
	assert.False(t, e.Valid())
	assert.False(t, p.Valid())
}

func TestCommandsJoinErrors(t *testing.T) {
	u := newTestUniverse()
	defer u.Close()

	e := mustEntity(t, u)
	p, _ := ecs.Attach[Position](e)
	require.NoError(t, p.Detach())

	gone := mustEntity(t, u)
	require.NoError(t, gone.Remove())

	ran := false
	cmds := ecs.NewCommands()
	cmds.Detach(&p.Component)
	cmds.Remove(gone)
	cmds.Defer(func() { ran = true })

	err := cmds.Flush()
	assert.ErrorIs(t, err, ecs.ErrStaleComponent)
	assert.ErrorIs(t, err, ecs.ErrInvalidEntity)
	assert.True(t, ran)
	assert.Equal(t, 0, cmds.Len())
}

func TestCommandsDetachAfterSlotReuse(t *testing.T) {
	u := newTestUniverse()
	defer u.Close()

	e := mustEntity(t, u)
	old, err := ecs.Attach[Position](e, func(p *Position) { p.X = 1 })
	require.NoError(t, err)

	cmds := ecs.NewCommands()
	cmds.Detach(&old.Component)

	require.NoError(t, old.Detach())
	fresh, err := ecs.Attach[Position](e, func(p *Position) { p.X = 2 })
	require.NoError(t, err)
	// first dead slot and smallest free guid both come back
	require.Same(t, old, fresh)

	err = cmds.Flush()
	assert.ErrorIs(t, err, ecs.ErrStaleComponent)
	assert.True(t, fresh.Valid())
	assert.Equal(t, float32(2), fresh.X)
	assert.Equal(t, 1, ecs.CountOf[Position](e, nil))
}
