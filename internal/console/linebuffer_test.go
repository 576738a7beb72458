package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventRecorder struct {
	lines     []string
	fragments []string
	buffer    int
	cursor    int
}

func newEventRecorder(events *Events) *eventRecorder {
	r := &eventRecorder{}
	events.Subscribe(func(ev Event) {
		switch ev.Kind {
		case KindLineReceived:
			r.lines = append(r.lines, ev.Text)
		case KindFragmentReceived:
			r.fragments = append(r.fragments, ev.Text)
		case KindBufferChanged:
			r.buffer++
		case KindHistoryCursorChanged:
			r.cursor++
		}
	})
	return r
}

func fixedClock() func() time.Time {
	at := time.Date(2021, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	return func() time.Time { return at }
}

func TestLineBufferCRLFSplitsOnce(t *testing.T) {
	events := NewEvents()
	rec := newEventRecorder(events)
	buf := NewLineBuffer(0, events)

	buf.Append("a\r\nb", false)

	require.Equal(t, []string{"a"}, rec.lines)
	assert.Empty(t, rec.fragments)
	assert.Equal(t, 1, rec.buffer)
	assert.Equal(t, 2, buf.Len())
	assert.Equal(t, []string{"a", "b"}, buf.Lines())
}

func TestLineBufferFragmentOnly(t *testing.T) {
	events := NewEvents()
	rec := newEventRecorder(events)
	buf := NewLineBuffer(0, events)

	buf.Append("abc", false)

	assert.Empty(t, rec.lines)
	assert.Equal(t, []string{"abc"}, rec.fragments)
	assert.Equal(t, 1, rec.buffer)
	assert.Equal(t, []string{"abc"}, buf.Lines())
}

func TestLineBufferEmptyAppendIsNoop(t *testing.T) {
	events := NewEvents()
	rec := newEventRecorder(events)
	buf := NewLineBuffer(0, events)

	buf.Append("", true)

	assert.Zero(t, rec.buffer)
	assert.Zero(t, buf.Len())
}

func TestLineBufferPartialLineAcrossAppends(t *testing.T) {
	events := NewEvents()
	rec := newEventRecorder(events)
	buf := NewLineBuffer(0, events)

	buf.Append("hel", false)
	buf.Append("lo\nwor", false)
	buf.Append("ld\n", false)

	assert.Equal(t, []string{"hello", "world"}, rec.lines)
	assert.Equal(t, []string{"hello", "world", ""}, buf.Lines())
}

func TestLineBufferTimestampOncePerLine(t *testing.T) {
	events := NewEvents()
	buf := NewLineBuffer(0, events)
	buf.now = fixedClock()

	buf.Append("par", true)
	buf.Append("tial\nnext", true)

	lines := buf.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "09:26:53.589 -> partial", lines[0])
	assert.Equal(t, "09:26:53.589 -> next", lines[1])
}

func TestLineBufferTimestampGateSurvivesTogglingOff(t *testing.T) {
	events := NewEvents()
	buf := NewLineBuffer(0, events)
	buf.now = fixedClock()

	// The open line was started without a timestamp; turning timestamps on
	// mid-line must not inject one into its middle.
	buf.Append("ab", false)
	buf.Append("cd", true)

	assert.Equal(t, []string{"abcd"}, buf.Lines())
}

func TestLineBufferResetTimestamp(t *testing.T) {
	events := NewEvents()
	buf := NewLineBuffer(0, events)
	buf.now = fixedClock()

	buf.Append("pending", true)
	buf.ResetTimestamp()
	buf.Append("echo", true)

	lines := buf.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "09:26:53.589 -> pending09:26:53.589 -> echo", lines[0])
}

func TestLineBufferCRClosesLine(t *testing.T) {
	events := NewEvents()
	rec := newEventRecorder(events)
	buf := NewLineBuffer(0, events)

	buf.Append("one\rtwo\r", false)

	assert.Equal(t, []string{"one", "two"}, rec.lines)
	assert.Equal(t, []string{"one", "two", ""}, buf.Lines())
}

func TestLineBufferCapacityEvictsOldest(t *testing.T) {
	events := NewEvents()
	buf := NewLineBuffer(3, events)

	buf.Append("1\n2\n3\n4\n", false)

	assert.Equal(t, 3, buf.Len())
	assert.Equal(t, []string{"3", "4", ""}, buf.Lines())
}

func TestLineBufferClear(t *testing.T) {
	events := NewEvents()
	rec := newEventRecorder(events)
	buf := NewLineBuffer(0, events)

	buf.Append("data\n", true)
	buf.Clear()

	assert.Zero(t, buf.Len())
	assert.Nil(t, buf.Lines())
	assert.Equal(t, 2, rec.buffer)

	// A fresh line after clear gets stamped again.
	buf.now = fixedClock()
	buf.Append("x", true)
	assert.Equal(t, []string{"09:26:53.589 -> x"}, buf.Lines())
}

func TestLineBufferMultibyteRunes(t *testing.T) {
	events := NewEvents()
	rec := newEventRecorder(events)
	buf := NewLineBuffer(0, events)

	buf.Append("héllo ☀\nnext", false)

	assert.Equal(t, []string{"héllo ☀"}, rec.lines)
	assert.Equal(t, []string{"héllo ☀", "next"}, buf.Lines())
}
