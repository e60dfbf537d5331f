package monitor

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit           = "q"
	KeyQuitAlt        = "ctrl+c"
	KeyCycleChart     = "c"
	KeySelectPrev     = "up"
	KeySelectPrevK    = "k"
	KeySelectNext     = "down"
	KeySelectNextJ    = "j"
	KeySelectFirst    = "home"
	KeySelectLast     = "end"
	KeyExpand         = "enter"
	KeyCollapse       = "esc"
	KeyToggleHelp     = "?"
	KeyToggleDevice   = "m"
	KeyToggleSchedule = " "
	KeyScrollUp       = "pgup"
	KeyScrollDown     = "pgdown"
)

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, nil
	}

	if key == KeyQuit || key == KeyQuitAlt {
		m.quitting = true
		return true, tea.Quit
	}

	if m.viewMode == ViewDetail {
		return m.handleDetailKey(msg)
	}

	switch key {
	case KeyCycleChart:
		m.chart = m.chart.Next()
		return true, nil

	case KeySelectPrev, KeySelectPrevK:
		if m.selected > 0 {
			m.selected--
		}
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		if m.selected < len(m.locations)-1 {
			m.selected++
		}
		return true, nil

	case KeySelectFirst:
		m.selected = 0
		return true, nil

	case KeySelectLast:
		if len(m.locations) > 0 {
			m.selected = len(m.locations) - 1
		}
		return true, nil

	case KeyExpand:
		return true, m.openDetail()
	}

	return false, nil
}

// handleDetailKey handles keys while a location's detail view is open.
func (m *Model) handleDetailKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case KeyCollapse:
		m.closeDetail()
		return true, nil

	case KeyToggleDevice:
		return true, m.toggleDevice()

	case KeyToggleSchedule:
		m.toggleSchedule()
		return true, nil

	case KeySelectPrev, KeySelectPrevK:
		if m.schedCursor > 0 {
			m.schedCursor--
		}
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		if ls := m.selectedLocation(); ls != nil && m.schedCursor < ls.book.Len()-1 {
			m.schedCursor++
		}
		return true, nil

	case KeyScrollUp, KeyScrollDown:
		if m.viewportReady {
			var cmd tea.Cmd
			m.detailViewport.SetContent(m.renderDetailBody())
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return true, cmd
		}
		return true, nil
	}
	return false, nil
}
