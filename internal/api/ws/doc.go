// Package ws streams console events over WebSocket and accepts console
// commands from stream clients.
//
// Every console notification (closed lines, open-line fragments, setting
// changes) is forwarded as a JSON frame. Clients issue commands with the
// same frame shape: "send", "history_up", "history_down", "clear", "ping".
//
// Each client owns a bounded outbound queue; frames to a slow reader are
// dropped instead of blocking the session's event dispatch.
package ws
