package console

import "sync"

// Kind identifies a console event.
type Kind int

const (
	KindLineReceived Kind = iota
	KindFragmentReceived
	KindBufferChanged
	KindHistoryCursorChanged
	KindEchoChanged
	KindAutoscrollChanged
	KindShowTimestampChanged
	KindDataModeChanged
	KindDisplayModeChanged
	KindLineEndingChanged
)

// String returns the wire name used by the streaming API.
func (k Kind) String() string {
	switch k {
	case KindLineReceived:
		return "line"
	case KindFragmentReceived:
		return "fragment"
	case KindBufferChanged:
		return "buffer_changed"
	case KindHistoryCursorChanged:
		return "history_cursor"
	case KindEchoChanged:
		return "echo"
	case KindAutoscrollChanged:
		return "autoscroll"
	case KindShowTimestampChanged:
		return "show_timestamp"
	case KindDataModeChanged:
		return "data_mode"
	case KindDisplayModeChanged:
		return "display_mode"
	case KindLineEndingChanged:
		return "line_ending"
	default:
		return "unknown"
	}
}

// Event is a single console notification. Text carries line/fragment
// payloads, On carries boolean setting values, Mode carries enum setting
// values as their wire names.
type Event struct {
	Kind Kind
	Text string
	On   bool
	Mode string
}

// Events is the subscription bus replacing the desktop console's signal
// wiring. Dispatch is synchronous; subscribers must not call back into the
// session from their handlers.
type Events struct {
	mu   sync.RWMutex
	subs map[int]func(Event)
	next int
}

// NewEvents creates an empty event bus.
func NewEvents() *Events {
	return &Events{subs: make(map[int]func(Event))}
}

// Subscribe registers a handler for every console event and returns an
// identifier for Unsubscribe.
func (e *Events) Subscribe(fn func(Event)) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.next
	e.next++
	e.subs[id] = fn
	return id
}

// OnLine registers a handler receiving only closed-line notifications.
func (e *Events) OnLine(fn func(text string)) int {
	return e.Subscribe(func(ev Event) {
		if ev.Kind == KindLineReceived {
			fn(ev.Text)
		}
	})
}

// OnFragment registers a handler receiving only open-line fragment
// notifications.
func (e *Events) OnFragment(fn func(text string)) int {
	return e.Subscribe(func(ev Event) {
		if ev.Kind == KindFragmentReceived {
			fn(ev.Text)
		}
	})
}

// Unsubscribe removes a previously registered handler.
func (e *Events) Unsubscribe(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.subs, id)
}

func (e *Events) emit(ev Event) {
	e.mu.RLock()
	handlers := make([]func(Event), 0, len(e.subs))
	for _, fn := range e.subs {
		handlers = append(handlers, fn)
	}
	e.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

func (e *Events) emitLine(text string) { e.emit(Event{Kind: KindLineReceived, Text: text}) }

func (e *Events) emitFragment(text string) { e.emit(Event{Kind: KindFragmentReceived, Text: text}) }

func (e *Events) emitBufferChanged() { e.emit(Event{Kind: KindBufferChanged}) }

func (e *Events) emitCursorChanged() { e.emit(Event{Kind: KindHistoryCursorChanged}) }

func (e *Events) emitFlag(kind Kind, on bool) { e.emit(Event{Kind: kind, On: on}) }

func (e *Events) emitMode(kind Kind, mode string) { e.emit(Event{Kind: kind, Mode: mode}) }
