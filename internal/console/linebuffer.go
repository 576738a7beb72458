package console

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultScrollback is the number of lines retained for display and export.
const DefaultScrollback = 10000

const timestampLayout = "15:04:05.000"

// LineBuffer is the bounded scrollback: an ordered sequence of closed lines
// plus one open line that grows until a terminator arrives. Only the open
// line is ever mutated. The buffer is not safe for concurrent use; the
// owning session serializes access.
type LineBuffer struct {
	closed   []string
	open     []byte
	capacity int
	seeded   bool

	// timestampAdded is true iff the open line already carries its prefix.
	timestampAdded bool

	events *Events
	now    func() time.Time
}

// NewLineBuffer creates an empty buffer holding at most capacity lines,
// oldest evicted first.
func NewLineBuffer(capacity int, events *Events) *LineBuffer {
	if capacity <= 0 {
		capacity = DefaultScrollback
	}
	if events == nil {
		events = NewEvents()
	}
	return &LineBuffer{
		closed:   make([]string, 0, capacity),
		capacity: capacity,
		events:   events,
		now:      time.Now,
	}
}

// Append folds text into the buffer, closing a line at every LF or CR and
// stamping each freshly opened line at most once. CRLF pairs count as a
// single break. Emits a line event per closed line, a fragment event when
// nothing closed, and a buffer-changed event always.
func (b *LineBuffer) Append(text string, withTimestamp bool) {
	if text == "" {
		return
	}

	var stamp string
	if withTimestamp {
		stamp = b.now().Format(timestampLayout) + " -> "
	}

	data := strings.ReplaceAll(text, "\r\n", "\n")
	b.seeded = true

	var newlyClosed []string
	for _, r := range data {
		if !b.timestampAdded {
			b.open = append(b.open, stamp...)
			b.timestampAdded = true
		}

		if r == '\n' || r == '\r' {
			line := string(b.open)
			b.closed = append(b.closed, line)
			newlyClosed = append(newlyClosed, line)
			b.open = b.open[:0]
			b.timestampAdded = false

			// Hard cap: total lines (closed + open) never exceed capacity.
			for len(b.closed)+1 > b.capacity {
				b.closed = b.closed[1:]
			}
		} else {
			b.open = utf8.AppendRune(b.open, r)
		}
	}

	for _, line := range newlyClosed {
		b.events.emitLine(line)
	}
	if len(newlyClosed) == 0 {
		b.events.emitFragment(data)
	}
	b.events.emitBufferChanged()
}

// Clear resets the buffer to empty, re-reserving scrollback capacity.
func (b *LineBuffer) Clear() {
	b.closed = make([]string, 0, b.capacity)
	b.open = b.open[:0]
	b.seeded = false
	b.timestampAdded = false
	b.events.emitBufferChanged()
}

// ResetTimestamp marks the open line as not yet stamped, so the next append
// starts with a fresh timestamp regardless of pending partial data. Used by
// local echo, which always displays fresh.
func (b *LineBuffer) ResetTimestamp() {
	b.timestampAdded = false
}

// Len returns the current number of lines, counting the open line.
func (b *LineBuffer) Len() int {
	if !b.seeded {
		return 0
	}
	return len(b.closed) + 1
}

// Lines returns a snapshot of all lines, the open line last.
func (b *LineBuffer) Lines() []string {
	if !b.seeded {
		return nil
	}
	out := make([]string, 0, len(b.closed)+1)
	out = append(out, b.closed...)
	out = append(out, string(b.open))
	return out
}
