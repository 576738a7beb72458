/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the console
service, tracking HTTP requests, device traffic, scrollback activity, and
WebSocket stream clients.

# Features

- HTTP request metrics (latency, throughput)
- Device byte counters (received, sent)
- Scrollback metrics (flushes, closed lines, fragments)
- Send outcomes by status
- WebSocket connection and frame metrics
- Service uptime

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record console activity
	metrics.BytesReceived.Add(float64(len(chunk)))
	metrics.RecordSend("ok", len(payload))

# Metrics Endpoint

Each collector owns its registry; expose it with:

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
