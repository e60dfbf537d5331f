package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	perrors "github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/rileyhilliard/powerdash/internal/gauge"
	"github.com/rileyhilliard/powerdash/internal/logger"
	"github.com/rileyhilliard/powerdash/internal/schedule"
	"github.com/rileyhilliard/powerdash/internal/series"
	"github.com/rileyhilliard/powerdash/internal/telemetry"
	"github.com/rileyhilliard/powerdash/internal/ui"
)

// Width breakpoints for the card grid
const (
	BreakpointCompact  = 80
	BreakpointStandard = 120
)

const (
	// clockInterval refreshes relative "last update" text.
	clockInterval = time.Second
	// commandTimeout bounds a device command round trip.
	commandTimeout = 5 * time.Second
)

// Options configures a Model.
type Options struct {
	Capacity     int
	Axis         series.AxisOptions
	Gauges       gauge.Ranges
	Ticks        int
	TickInterval time.Duration
	// Schedules seeds each location's schedule book, keyed by topic.
	Schedules map[string][]schedule.Schedule
	Logger    logger.Logger
	// Now is the clock used for relative times. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the reference chart and gauge settings.
func DefaultOptions() Options {
	return Options{
		Capacity:     series.DefaultCapacity,
		Axis:         series.DefaultAxisOptions(),
		Gauges:       gauge.DefaultRanges(),
		Ticks:        gauge.DefaultTicks,
		TickInterval: gauge.DefaultTickInterval,
	}
}

// locationState is everything the dashboard tracks for one location.
type locationState struct {
	loc        telemetry.Location
	color      lipgloss.Color
	series     *series.Set
	gauges     *gauge.Bank
	book       *schedule.Book
	status     LocationStatus
	lastSeen   time.Time
	lastErr    string
	rejected   int
	motorOn    bool
	motorKnown bool
}

// Model is the Bubble Tea model for the power dashboard. All series, gauge
// and schedule mutations happen inside Update.
type Model struct {
	registry  *telemetry.Registry
	source    EventSource
	events    <-chan telemetry.Event
	locations []*locationState
	byTopic   map[string]*locationState
	axes      map[series.Measurement]*series.Axis

	chart       series.Measurement
	selected    int
	schedCursor int
	viewMode    ViewMode
	showHelp    bool
	width       int
	height      int
	lastUpdate  time.Time
	notice      string
	noticeErr   bool
	quitting    bool
	streamEnded bool

	// Gauge animation timer. gaugeGen invalidates ticks from a closed detail view.
	tickInterval time.Duration
	gaugeGen     int
	gaugeTicking bool

	detailViewport viewport.Model
	viewportReady  bool

	log logger.Logger
	now func() time.Time
}

// eventMsg carries one telemetry event from the source.
type eventMsg telemetry.Event

// eventsClosedMsg signals that the source stopped producing events.
type eventsClosedMsg struct{}

// gaugeTickMsg advances the detail view gauges.
type gaugeTickMsg struct{ gen int }

// clockTickMsg refreshes relative times.
type clockTickMsg time.Time

// commandResultMsg reports the outcome of a device command.
type commandResultMsg struct {
	topic string
	on    bool
	err   error
}

// NewModel creates a dashboard for every location in reg, fed by source.
func NewModel(reg *telemetry.Registry, source EventSource, opts Options) Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = gauge.DefaultTickInterval
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := Model{
		registry:     reg,
		source:       source,
		byTopic:      make(map[string]*locationState, reg.Len()),
		axes:         make(map[series.Measurement]*series.Axis, len(series.Measurements)),
		chart:        series.Power,
		tickInterval: opts.TickInterval,
		log:          opts.Logger,
		now:          opts.Now,
	}
	if source != nil {
		m.events = source.Events()
	}

	for _, loc := range reg.Locations() {
		ls := &locationState{
			loc:    loc,
			color:  ui.LocationColor(loc.Color, loc.Index),
			series: series.NewSet(opts.Capacity),
			gauges: gauge.NewBank(opts.Gauges, opts.Ticks),
			book:   schedule.NewBook(loc.Topic),
			status: StatusConnecting,
		}
		if windows := opts.Schedules[loc.Topic]; len(windows) > 0 {
			if err := ls.book.Load(windows); err != nil {
				m.log.Warn("ignoring schedules for %s: %v", loc.Topic, err)
			}
		}
		m.locations = append(m.locations, ls)
		m.byTopic[loc.Topic] = ls
	}

	for _, meas := range series.Measurements {
		m.axes[meas] = series.NewAxis(opts.Axis)
	}

	return m
}

// Init starts listening for telemetry and the clock refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.clockTickCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		_, cmd = m.HandleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()

	case eventMsg:
		cmd = tea.Batch(m.handleEvent(telemetry.Event(msg)), m.waitForEvent())

	case eventsClosedMsg:
		m.streamEnded = true
		m.events = nil

	case gaugeTickMsg:
		cmd = m.handleGaugeTick(msg)

	case clockTickMsg:
		cmd = m.clockTickCmd()

	case commandResultMsg:
		m.handleCommandResult(msg)
	}

	if m.viewMode == ViewDetail && m.viewportReady {
		m.detailViewport.SetContent(m.renderDetailBody())
	}
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var content string
	if m.viewMode == ViewDetail {
		content = m.renderDetailView()
	} else {
		content = m.renderDashboard()
	}
	if m.showHelp {
		return m.renderHelpOverlay(content)
	}
	return content
}

// waitForEvent receives the next event from the source.
func (m Model) waitForEvent() tea.Cmd {
	ch := m.events
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m Model) clockTickCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (m Model) gaugeTickCmd() tea.Cmd {
	gen := m.gaugeGen
	return tea.Tick(m.tickInterval, func(time.Time) tea.Msg {
		return gaugeTickMsg{gen: gen}
	})
}

// handleEvent applies one telemetry event. Readings feed the location's
// series and gauge targets, then the chart axes are recomputed.
func (m *Model) handleEvent(ev telemetry.Event) tea.Cmd {
	ls, ok := m.byTopic[ev.Topic]
	if !ok {
		m.log.Debug("event for unknown topic %s", ev.Topic)
		return nil
	}

	switch ev.Kind {
	case telemetry.EventConnected:
		ls.status = StatusOnline
		ls.lastErr = ""

	case telemetry.EventDisconnected:
		ls.status = StatusOffline
		if ev.Err != nil {
			ls.lastErr = shortError(ev.Err)
		}

	case telemetry.EventRejected:
		ls.rejected++
		if ev.Err != nil {
			ls.lastErr = shortError(ev.Err)
		}

	case telemetry.EventReading:
		ts := ev.Timestamp
		if ts.IsZero() {
			ts = m.now()
		}
		ls.series.Push(ts, ev.Reading)
		ls.gauges.Apply(ev.Reading)
		ls.status = StatusOnline
		ls.lastSeen = ts
		m.lastUpdate = ts
		m.refreshAxes()
		if m.viewMode == ViewDetail && ls == m.selectedLocation() {
			return m.startGauges()
		}
	}
	return nil
}

// refreshAxes recomputes each chart's shared axis from every location's total channel.
func (m *Model) refreshAxes() {
	for meas, axis := range m.axes {
		channels := make([]*series.Channel, 0, len(m.locations))
		for _, ls := range m.locations {
			channels = append(channels, ls.series.Snapshot(meas, series.Total))
		}
		axis.Update(channels...)
	}
}

// startGauges arms the gauge timer if the detail gauges have somewhere to go.
func (m *Model) startGauges() tea.Cmd {
	ls := m.selectedLocation()
	if m.viewMode != ViewDetail || ls == nil || m.gaugeTicking || ls.gauges.Settled() {
		return nil
	}
	m.gaugeTicking = true
	return m.gaugeTickCmd()
}

func (m *Model) handleGaugeTick(msg gaugeTickMsg) tea.Cmd {
	if msg.gen != m.gaugeGen || m.viewMode != ViewDetail {
		return nil
	}
	ls := m.selectedLocation()
	if ls == nil {
		m.gaugeTicking = false
		return nil
	}
	ls.gauges.Tick()
	if ls.gauges.Settled() {
		m.gaugeTicking = false
		return nil
	}
	return m.gaugeTickCmd()
}

// openDetail switches to the detail view for the selected location.
func (m *Model) openDetail() tea.Cmd {
	if m.selectedLocation() == nil {
		return nil
	}
	m.viewMode = ViewDetail
	m.schedCursor = 0
	m.notice = ""
	m.gaugeGen++
	m.gaugeTicking = false
	if m.viewportReady {
		m.detailViewport.GotoTop()
	}
	return m.startGauges()
}

// closeDetail returns to the dashboard and stops the gauge timer.
func (m *Model) closeDetail() {
	m.viewMode = ViewDashboard
	m.notice = ""
	m.gaugeGen++
	m.gaugeTicking = false
}

// toggleDevice sends the opposite of the last commanded state.
func (m *Model) toggleDevice() tea.Cmd {
	ls := m.selectedLocation()
	if ls == nil || m.source == nil {
		return nil
	}
	on := !ls.motorOn
	m.setNotice("Sending "+telemetry.DeviceCommand(on)+" to "+ls.loc.Name+"...", false)

	src := m.source
	topic := ls.loc.Topic
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		err := src.Send(ctx, topic, telemetry.DeviceCommand(on))
		return commandResultMsg{topic: topic, on: on, err: err}
	}
}

func (m *Model) handleCommandResult(msg commandResultMsg) {
	ls, ok := m.byTopic[msg.topic]
	if !ok {
		return
	}
	if msg.err != nil {
		m.log.Warn("device command for %s failed: %v", msg.topic, msg.err)
		m.setNotice(shortError(msg.err), true)
		return
	}
	ls.motorOn = msg.on
	ls.motorKnown = true
	state := "OFF"
	if msg.on {
		state = "ON"
	}
	m.setNotice(ls.loc.Name+" device "+state, false)
}

// toggleSchedule flips the Active flag of the schedule under the cursor.
func (m *Model) toggleSchedule() {
	ls := m.selectedLocation()
	if ls == nil {
		return
	}
	all := ls.book.All()
	if len(all) == 0 {
		m.setNotice("No schedules for "+ls.loc.Name, false)
		return
	}
	if m.schedCursor >= len(all) {
		m.schedCursor = len(all) - 1
	}
	s, err := ls.book.Toggle(all[m.schedCursor].ID)
	if err != nil {
		m.setNotice(shortError(err), true)
		return
	}
	state := "paused"
	if s.Active {
		state = "active"
	}
	m.setNotice("Schedule "+s.Label()+" "+state, false)
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func (m *Model) resizeViewport() {
	headerHeight := 3
	footerHeight := 2
	h := m.height - headerHeight - footerHeight
	if h < 1 {
		h = 1
	}
	if !m.viewportReady {
		m.detailViewport = viewport.New(m.width, h)
		m.detailViewport.YPosition = headerHeight
		m.viewportReady = true
		return
	}
	m.detailViewport.Width = m.width
	m.detailViewport.Height = h
}

// selectedLocation returns the selected location, or nil when there are none.
func (m Model) selectedLocation() *locationState {
	if m.selected >= 0 && m.selected < len(m.locations) {
		return m.locations[m.selected]
	}
	return nil
}

// SelectedLocation returns the name of the selected location.
func (m Model) SelectedLocation() string {
	if ls := m.selectedLocation(); ls != nil {
		return ls.loc.Name
	}
	return ""
}

// Chart returns the measurement currently charted.
func (m Model) Chart() series.Measurement {
	return m.chart
}

// Mode returns the current view mode.
func (m Model) Mode() ViewMode {
	return m.viewMode
}

// OnlineCount returns the number of locations whose telemetry is connected.
func (m Model) OnlineCount() int {
	count := 0
	for _, ls := range m.locations {
		if ls.status == StatusOnline {
			count++
		}
	}
	return count
}

// Series returns the series set of a location by topic.
func (m Model) Series(topic string) *series.Set {
	if ls, ok := m.byTopic[topic]; ok {
		return ls.series
	}
	return nil
}

// Gauges returns the gauge bank of a location by topic.
func (m Model) Gauges(topic string) *gauge.Bank {
	if ls, ok := m.byTopic[topic]; ok {
		return ls.gauges
	}
	return nil
}

// Schedules returns the schedule book of a location by topic.
func (m Model) Schedules(topic string) *schedule.Book {
	if ls, ok := m.byTopic[topic]; ok {
		return ls.book
	}
	return nil
}

// AxisRange returns the shared axis range of a chart.
func (m Model) AxisRange(meas series.Measurement) (series.AxisRange, bool) {
	if a, ok := m.axes[meas]; ok {
		return a.Range()
	}
	return series.AxisRange{}, false
}

// LayoutColumns returns how many cards fit per row.
func (m Model) LayoutColumns() int {
	switch {
	case m.width >= BreakpointStandard:
		return 3
	case m.width >= BreakpointCompact:
		return 2
	default:
		return 1
	}
}

// shortError returns the headline of a structured error, or err.Error().
func shortError(err error) string {
	var pe *perrors.Error
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
