package console

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryPushResetsCursor(t *testing.T) {
	events := NewEvents()
	rec := newEventRecorder(events)
	h := NewHistoryRing(100, events)

	h.Push("first")
	assert.Equal(t, 1, h.Cursor())
	h.Push("second")
	assert.Equal(t, 2, h.Cursor())
	assert.Equal(t, 2, rec.cursor)

	// Cursor past the end means a fresh empty prompt.
	assert.Equal(t, "", h.Current())
}

func TestHistoryCapacityEvictsOldest(t *testing.T) {
	h := NewHistoryRing(100, NewEvents())

	for i := 0; i < 101; i++ {
		h.Push(fmt.Sprintf("cmd-%d", i))
		assert.Equal(t, h.Len(), h.Cursor())
	}

	require.Equal(t, 100, h.Len())
	entries := h.Entries()
	assert.Equal(t, "cmd-1", entries[0])
	assert.Equal(t, "cmd-100", entries[99])
}

func TestHistoryUpDownNavigation(t *testing.T) {
	h := NewHistoryRing(100, NewEvents())
	h.Push("a")
	h.Push("b")
	h.Push("c")

	h.Up()
	assert.Equal(t, "c", h.Current())
	h.Up()
	assert.Equal(t, "b", h.Current())
	h.Up()
	assert.Equal(t, "a", h.Current())

	h.Down()
	assert.Equal(t, "b", h.Current())
	h.Down()
	assert.Equal(t, "c", h.Current())
}

func TestHistoryUpAtTopIsNoop(t *testing.T) {
	events := NewEvents()
	rec := newEventRecorder(events)
	h := NewHistoryRing(100, events)
	h.Push("only")
	h.Up()

	moved := rec.cursor
	h.Up()

	assert.Equal(t, 0, h.Cursor())
	assert.Equal(t, moved, rec.cursor, "no event at the top")
}

func TestHistoryDownAtLastIndexIsNoop(t *testing.T) {
	events := NewEvents()
	rec := newEventRecorder(events)
	h := NewHistoryRing(100, events)
	h.Push("a")
	h.Push("b")
	h.Up() // cursor 1, last valid index

	moved := rec.cursor
	h.Down()

	assert.Equal(t, 1, h.Cursor())
	assert.Equal(t, "b", h.Current())
	assert.Equal(t, moved, rec.cursor, "no event at the last index")
}

func TestHistoryEmptyRing(t *testing.T) {
	h := NewHistoryRing(100, NewEvents())

	assert.Equal(t, "", h.Current())
	h.Up()
	h.Down()
	assert.Equal(t, 0, h.Cursor())
}
