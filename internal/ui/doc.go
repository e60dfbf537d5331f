// Package ui provides the small set of terminal components shared by the
// powerdash CLI and monitor: colors, status symbols, tables, sparklines,
// the banner header, and a spinner for slow backend calls.
//
// Location colors come from config (locations[].color) and are resolved by
// LocationColor, which accepts names like "green", hex, or ANSI indexes.
// Use DisableColors for --no-color output.
package ui
