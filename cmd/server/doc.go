// Package main is the entry point for the serial console bridge server.
//
// This application wraps a device byte stream (TCP, PTY, or loopback) with
// an incremental line-buffered console exposed over REST and WebSocket.
//
// Architecture:
//
//	Client (REST/WS) → Console Session → Transport (TCP / PTY / loopback)
//
// The server provides:
//   - REST API for console buffer, history, settings, and export
//   - WebSocket streaming for live line and fragment updates
//   - Prometheus metrics
//   - Rate limiting and CORS
//
// Configuration:
//   - Environment variables (12-factor)
//   - YAML config file via -config
//   - CLI flags (override both)
//
// Usage:
//
//	# Bridge a TCP device
//	./server -transport tcp -addr 192.168.1.50:5000
//
//	# Development mode with a local shell behind a PTY
//	./server -dev -transport pty
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
