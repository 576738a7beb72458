// Package console implements the buffering engine behind the live device
// console: the stream-to-lines transformation, the hex/text codec, the
// bounded scrollback, and the sent-command history ring.
//
// Data flow:
//   - Inbound: transport chunks accumulate via Session.OnDataReceived; a
//     fixed-cadence Flush decodes them per the display mode and folds the
//     text into the LineBuffer, which closes a line at every terminator and
//     stamps each new line at most once.
//   - Outbound: Session.Send records the command in the HistoryRing, encodes
//     it per the data mode, appends the configured line ending, and writes
//     to the transport, optionally echoing the written bytes locally.
//
// The accumulation buffer is the backpressure mechanism: inbound delivery
// can run far faster than the display flush without unbounded redraws.
//
// All notifications flow through the Events bus; subscribers receive typed
// events for closed lines, open-line fragments, buffer changes, history
// cursor movement, and every setting change.
package console
