// Package monitor implements the live power dashboard TUI.
//
// The dashboard charts voltage, current and power for every configured
// location on a shared axis, shows a summary card per location, and opens a
// detail view with nine animated gauges, a device toggle and the location's
// schedules.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: per-location series sets, gauge banks and schedule books, plus
//     the cached chart axes and view state
//   - Update: processes keystrokes, telemetry events and timer ticks
//   - View: renders the current state to a string
//
// # Message Flow
//
// Telemetry sources run on their own goroutines and only send
// telemetry.Event values into the hub's channel. The model pulls them one at
// a time:
//
//  1. waitForEvent blocks on the channel and returns an eventMsg
//  2. Update pushes readings into the location's series.Set, sets gauge
//     targets and recomputes every chart axis
//  3. waitForEvent is scheduled again
//
// Gauge animation runs on its own gaugeTickMsg timer that only ticks while a
// detail view is open and its gauges are still moving. Closing the detail
// view bumps a generation counter so stale ticks are dropped.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	c           - Cycle chart (power, voltage, current)
//	j/k, ↑/↓    - Move selection
//	Enter       - Open location detail
//	m           - Toggle device (detail)
//	Space       - Pause / resume schedule (detail)
//	Esc         - Back / close
//	?           - Toggle help overlay
package monitor
