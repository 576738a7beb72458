package console

// DefaultHistorySize bounds the sent-command recall list.
const DefaultHistorySize = 100

// HistoryRing holds previously sent commands, oldest first, with a movable
// cursor for up/down recall. The cursor ranges over [0, Len()]; Len() means
// "past the end", i.e. a fresh empty prompt. Not safe for concurrent use;
// the owning session serializes access.
type HistoryRing struct {
	entries  []string
	capacity int
	cursor   int
	events   *Events
}

// NewHistoryRing creates an empty ring holding at most capacity commands.
func NewHistoryRing(capacity int, events *Events) *HistoryRing {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	if events == nil {
		events = NewEvents()
	}
	return &HistoryRing{
		entries:  make([]string, 0, capacity),
		capacity: capacity,
		events:   events,
	}
}

// Push records a sent command, evicting the oldest entries past capacity,
// and resets the cursor past the end.
func (h *HistoryRing) Push(command string) {
	h.entries = append(h.entries, command)
	for len(h.entries) > h.capacity {
		h.entries = h.entries[1:]
	}
	h.cursor = len(h.entries)
	h.events.emitCursorChanged()
}

// Up moves the cursor toward the oldest command. No-op at the top.
func (h *HistoryRing) Up() {
	if h.cursor > 0 {
		h.cursor--
		h.events.emitCursorChanged()
	}
}

// Down moves the cursor toward the most recent command. No-op at the last
// entry.
func (h *HistoryRing) Down() {
	if h.cursor < len(h.entries)-1 {
		h.cursor++
		h.events.emitCursorChanged()
	}
}

// Current returns the command under the cursor, or "" when the cursor sits
// past the end.
func (h *HistoryRing) Current() string {
	if h.cursor >= 0 && h.cursor < len(h.entries) {
		return h.entries[h.cursor]
	}
	return ""
}

// Len returns the number of recorded commands.
func (h *HistoryRing) Len() int { return len(h.entries) }

// Cursor returns the current recall position.
func (h *HistoryRing) Cursor() int { return h.cursor }

// Entries returns a snapshot of the recorded commands, oldest first.
func (h *HistoryRing) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
