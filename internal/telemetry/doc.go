// Package telemetry decodes power-quality readings and delivers them from
// per-location sources (WebSocket or simulated) to a single event channel.
//
// Sources run on their own goroutines and only ever send Event values. All
// state derived from those events is owned by the consumer, which in the
// monitor is the Bubble Tea update loop.
package telemetry
