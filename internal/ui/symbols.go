package ui

// Status glyphs shared by CLI output and the monitor.
const (
	SymbolSuccess      = "✓"
	SymbolFail         = "✗"
	SymbolPending      = "○"
	SymbolProgress     = "◐"
	SymbolComplete     = "●"
	SymbolSkipped      = "⊘"
	SymbolConnected    = "◉"
	SymbolDisconnected = "◌"
)
