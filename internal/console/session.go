package console

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/serialbridge/backend/internal/infrastructure/logging"
)

// charsetProbeSize bounds the rolling sample of raw bytes kept for charset
// detection.
const charsetProbeSize = 4096

// ErrNotConnected reports a send attempted without a connected transport.
var ErrNotConnected = errors.New("transport not connected")

// ErrWriteFailed reports a transport write that failed or wrote nothing.
var ErrWriteFailed = errors.New("transport write failed")

// Transport is the device side of the console: the session only needs to
// know whether the device is reachable and how to hand it bytes. Inbound
// chunks arrive through OnDataReceived, wired up by the caller.
type Transport interface {
	Connected() bool
	Write(p []byte) (int, error)
}

// Options configures a session at construction time.
type Options struct {
	Scrollback    int
	HistorySize   int
	Echo          bool
	Autoscroll    bool
	ShowTimestamp bool
	DataMode      DataMode
	DisplayMode   DisplayMode
	LineEnding    LineEnding
}

// DefaultOptions mirrors the desktop console's startup state.
func DefaultOptions() Options {
	return Options{
		Scrollback:    DefaultScrollback,
		HistorySize:   DefaultHistorySize,
		Echo:          false,
		Autoscroll:    true,
		ShowTimestamp: true,
		DataMode:      DataUTF8,
		DisplayMode:   DisplayPlainText,
		LineEnding:    LineEndingNone,
	}
}

// Session orchestrates the console core: it accumulates inbound chunks,
// flushes them to the line buffer on a fixed external cadence, and turns
// user commands into outbound device writes. A single mutex serializes the
// transport callback, the flush tick, and user actions.
type Session struct {
	mu sync.Mutex

	transport Transport
	events    *Events
	buffer    *LineBuffer
	history   *HistoryRing
	logger    *logging.Logger

	// accum decouples inbound delivery rate from the display flush rate.
	accum []byte

	// probe keeps the tail of recent raw bytes for charset detection.
	probe []byte

	echo          bool
	autoscroll    bool
	showTimestamp bool
	dataMode      DataMode
	displayMode   DisplayMode
	lineEnding    LineEnding
}

// NewSession creates a console session bound to a transport. The transport
// may be nil, in which case every send is rejected with ErrNotConnected.
func NewSession(opts Options, t Transport, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.NewDefault()
	}

	events := NewEvents()
	return &Session{
		transport:     t,
		events:        events,
		buffer:        NewLineBuffer(opts.Scrollback, events),
		history:       NewHistoryRing(opts.HistorySize, events),
		logger:        logger,
		echo:          opts.Echo,
		autoscroll:    opts.Autoscroll,
		showTimestamp: opts.ShowTimestamp,
		dataMode:      opts.DataMode,
		displayMode:   opts.DisplayMode,
		lineEnding:    opts.LineEnding,
	}
}

// Events exposes the session's notification bus.
func (s *Session) Events() *Events { return s.events }

// OnDataReceived appends an inbound chunk to the accumulation buffer. The
// chunk is consumed on the next flush tick.
func (s *Session) OnDataReceived(data []byte) {
	if len(data) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.accum = append(s.accum, data...)

	s.probe = append(s.probe, data...)
	if len(s.probe) > charsetProbeSize {
		s.probe = s.probe[len(s.probe)-charsetProbeSize:]
	}
}

// Flush decodes everything accumulated since the previous tick and appends
// it to the line buffer. Called at a fixed cadence by the scheduler; a tick
// with nothing pending is a no-op.
func (s *Session) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.accum) == 0 {
		return
	}

	text := Decode(s.accum, s.displayMode)
	s.buffer.Append(text, s.showTimestamp)
	s.accum = s.accum[:0]
}

// Send encodes a user command per the current data mode, appends the line
// ending, and writes it to the device. The command is recorded in history
// before validation, matching the desktop console: a mistyped hex command is
// still worth recalling with the up arrow. Echo displays the bytes actually
// written, always with a fresh timestamp.
func (s *Session) Send(text string) error {
	if text == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.transport == nil || !s.transport.Connected() {
		return ErrNotConnected
	}

	s.history.Push(text)

	payload, err := Encode(text, s.dataMode)
	if err != nil {
		return err
	}
	payload = append(payload, s.lineEnding.Bytes()...)

	n, err := s.transport.Write(payload)
	if err != nil || n <= 0 {
		s.logger.Warn("device write failed",
			zap.Int("bytes_written", n),
			zap.Int("payload_size", len(payload)),
			zap.Error(err),
		)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWriteFailed, err)
		}
		return ErrWriteFailed
	}

	if s.echo {
		s.buffer.ResetTimestamp()
		s.buffer.Append(Decode(payload[:n], s.displayMode), s.showTimestamp)
	}
	return nil
}

// Clear empties the scrollback, the accumulation buffer, and the pending
// timestamp state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accum = s.accum[:0]
	s.buffer.Clear()
}

// Lines returns a snapshot of the scrollback, the open line last.
func (s *Session) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.Lines()
}

// LineCount returns the number of buffered lines.
func (s *Session) LineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.Len()
}

// HistoryUp moves the recall cursor toward older commands.
func (s *Session) HistoryUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Up()
}

// HistoryDown moves the recall cursor toward newer commands.
func (s *Session) HistoryDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Down()
}

// HistoryCurrent returns the command under the recall cursor.
func (s *Session) HistoryCurrent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Current()
}

// HistoryLen returns the number of recorded commands.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

// Connected reports whether the transport can accept writes.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transport != nil && s.transport.Connected()
}

// Charset reports the detected charset of recently received raw bytes.
func (s *Session) Charset() string {
	s.mu.Lock()
	probe := make([]byte, len(s.probe))
	copy(probe, s.probe)
	s.mu.Unlock()

	return DetectCharset(probe)
}

// Export writes the current scrollback to path, each line CRLF-terminated.
func (s *Session) Export(path string) error {
	return Export(path, s.Lines())
}

// Echo reports whether sent data is redisplayed locally.
func (s *Session) Echo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.echo
}

// SetEcho enables or disables local echo of sent data.
func (s *Session) SetEcho(enabled bool) {
	s.mu.Lock()
	s.echo = enabled
	s.mu.Unlock()
	s.events.emitFlag(KindEchoChanged, enabled)
}

// Autoscroll reports whether the display should follow the latest data.
func (s *Session) Autoscroll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoscroll
}

// SetAutoscroll enables or disables display follow mode.
func (s *Session) SetAutoscroll(enabled bool) {
	s.mu.Lock()
	s.autoscroll = enabled
	s.mu.Unlock()
	s.events.emitFlag(KindAutoscrollChanged, enabled)
}

// ShowTimestamp reports whether new lines are prefixed with a timestamp.
func (s *Session) ShowTimestamp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showTimestamp
}

// SetShowTimestamp enables or disables per-line timestamps.
func (s *Session) SetShowTimestamp(enabled bool) {
	s.mu.Lock()
	s.showTimestamp = enabled
	s.mu.Unlock()
	s.events.emitFlag(KindShowTimestampChanged, enabled)
}

// DataMode returns the encoding applied to outbound commands.
func (s *Session) DataMode() DataMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataMode
}

// SetDataMode changes the encoding applied to outbound commands.
func (s *Session) SetDataMode(mode DataMode) {
	s.mu.Lock()
	s.dataMode = mode
	s.mu.Unlock()
	s.events.emitMode(KindDataModeChanged, mode.String())
}

// DisplayMode returns the rendering applied to inbound bytes.
func (s *Session) DisplayMode() DisplayMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayMode
}

// SetDisplayMode changes the rendering applied to inbound bytes.
func (s *Session) SetDisplayMode(mode DisplayMode) {
	s.mu.Lock()
	s.displayMode = mode
	s.mu.Unlock()
	s.events.emitMode(KindDisplayModeChanged, mode.String())
}

// LineEnding returns the terminator appended to outbound commands.
func (s *Session) LineEnding() LineEnding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineEnding
}

// SetLineEnding changes the terminator appended to outbound commands.
func (s *Session) SetLineEnding(ending LineEnding) {
	s.mu.Lock()
	s.lineEnding = ending
	s.mu.Unlock()
	s.events.emitMode(KindLineEndingChanged, ending.String())
}
