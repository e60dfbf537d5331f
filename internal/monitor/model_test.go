package monitor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	perrors "github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/rileyhilliard/powerdash/internal/gauge"
	"github.com/rileyhilliard/powerdash/internal/schedule"
	"github.com/rileyhilliard/powerdash/internal/series"
	"github.com/rileyhilliard/powerdash/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Len(t, m.locations, 2)
	assert.Equal(t, "Building 1", m.SelectedLocation())
	assert.Equal(t, series.Power, m.Chart())
	assert.Equal(t, ViewDashboard, m.Mode())
	assert.Equal(t, 0, m.OnlineCount())

	for _, topic := range []string{topicA, topicB} {
		assert.NotNil(t, m.Series(topic))
		assert.NotNil(t, m.Gauges(topic))
		assert.NotNil(t, m.Schedules(topic))
		assert.Equal(t, StatusConnecting, m.byTopic[topic].status)
	}
	assert.Nil(t, m.Series("nope"))

	_, ok := m.AxisRange(series.Power)
	assert.False(t, ok, "no axis before data")
}

func TestLocationStatus_String(t *testing.T) {
	tests := []struct {
		status LocationStatus
		expect string
	}{
		{StatusConnecting, "connecting"},
		{StatusOnline, "online"},
		{StatusOffline, "offline"},
		{LocationStatus(42), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.status.String())
		})
	}
}

func TestModel_Init(t *testing.T) {
	m, _ := newTestModel(t)
	assert.NotNil(t, m.Init())
}

func TestModel_ReadingFeedsSeriesGaugesAndAxes(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := update(t, m, readingEvent(topicA, t0, reading(1)))
	assert.NotNil(t, cmd, "keeps listening for events")

	set := m.Series(topicA)
	require.Equal(t, 1, set.Len())
	total, ok := set.Newest(series.Power, series.Total)
	require.True(t, ok)
	assert.InDelta(t, 3300, total.Value, 1e-9)
	avgV, _ := set.Newest(series.Voltage, series.Total)
	assert.InDelta(t, 230, avgV.Value, 1e-9)

	g, err := m.Gauges(topicA).Gauge(gauge.Voltage, 1)
	require.NoError(t, err)
	assert.Equal(t, 230.0, g.Target())
	assert.Equal(t, 0.0, g.Current(), "gauges only move on ticks")

	rng, ok := m.AxisRange(series.Power)
	require.True(t, ok)
	assert.InDelta(t, 3300*1.1, rng.ValueMax, 1e-9)
	assert.Equal(t, t0.Add(5*time.Second), rng.TimeMax)
	assert.Equal(t, rng.TimeMax.Add(-30*time.Second), rng.TimeMin)

	assert.Equal(t, 1, m.OnlineCount())
	assert.Equal(t, t0, m.lastUpdate)
	assert.Equal(t, 0, m.Series(topicB).Len())
}

func TestModel_AxisSpansAllLocations(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, readingEvent(topicA, t0, reading(1)))
	m, _ = update(t, m, readingEvent(topicB, t0.Add(40*time.Second), reading(2)))

	rng, ok := m.AxisRange(series.Current)
	require.True(t, ok)
	assert.Equal(t, t0, rng.TimeMin)
	assert.Equal(t, t0.Add(45*time.Second), rng.TimeMax)
	assert.InDelta(t, 100, rng.ValueMax, 1e-9, "36 A * 1.1 stays under the floor")
}

func TestModel_ConnectionEvents(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, eventMsg(telemetry.Event{Topic: topicA, Kind: telemetry.EventConnected}))
	assert.Equal(t, StatusOnline, m.byTopic[topicA].status)

	rejectErr := perrors.New(perrors.ErrTelemetry, "Telemetry message is missing v2", "")
	m, _ = update(t, m, eventMsg(telemetry.Event{Topic: topicA, Kind: telemetry.EventRejected, Err: rejectErr}))
	assert.Equal(t, 1, m.byTopic[topicA].rejected)
	assert.Equal(t, "Telemetry message is missing v2", m.byTopic[topicA].lastErr)
	assert.Equal(t, 0, m.Series(topicA).Len(), "rejected messages never reach the series")

	m, _ = update(t, m, eventMsg(telemetry.Event{Topic: topicA, Kind: telemetry.EventDisconnected}))
	assert.Equal(t, StatusOffline, m.byTopic[topicA].status)

	m, _ = update(t, m, eventMsg(telemetry.Event{Topic: topicA, Kind: telemetry.EventConnected}))
	assert.Empty(t, m.byTopic[topicA].lastErr)
}

func TestModel_UnknownTopicIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, readingEvent("elsewhere", t0, reading(1)))
	assert.Equal(t, 0, m.Series(topicA).Len())
	assert.True(t, m.lastUpdate.IsZero())
}

func TestModel_EventsClosed(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, eventsClosedMsg{})
	assert.True(t, m.streamEnded)
	assert.Nil(t, m.waitForEvent())
}

func TestModel_WaitForEventReadsSource(t *testing.T) {
	m, src := newTestModel(t)
	src.ch <- telemetry.Event{Topic: topicA, Kind: telemetry.EventConnected}

	msg := m.waitForEvent()()
	ev, ok := msg.(eventMsg)
	require.True(t, ok)
	assert.Equal(t, topicA, ev.Topic)

	close(src.ch)
	_, ok = m.waitForEvent()().(eventsClosedMsg)
	assert.True(t, ok)
}

func TestModel_GaugeTimerRunsOnlyInDetail(t *testing.T) {
	m, _ := newTestModel(t)

	// Dashboard readings don't start the gauge timer.
	m, _ = update(t, m, readingEvent(topicA, t0, reading(1)))
	assert.False(t, m.gaugeTicking)

	// Opening detail with unsettled gauges starts it.
	m, cmd := update(t, m, key("enter"))
	require.Equal(t, ViewDetail, m.Mode())
	assert.NotNil(t, cmd)
	assert.True(t, m.gaugeTicking)

	bank := m.Gauges(topicA)
	for i := 0; i < gauge.DefaultTicks && !bank.Settled(); i++ {
		m, _ = update(t, m, gaugeTickMsg{gen: m.gaugeGen})
	}
	assert.True(t, bank.Settled(), "gauges converge within the configured ticks")
	assert.False(t, m.gaugeTicking)

	g, _ := bank.Gauge(gauge.Power, 3)
	assert.Equal(t, 1200.0, g.Current())

	// A new reading while open restarts the timer.
	m, _ = update(t, m, readingEvent(topicA, t0.Add(time.Second), reading(2)))
	assert.True(t, m.gaugeTicking)

	// Closing stops it and invalidates in-flight ticks.
	staleGen := m.gaugeGen
	m, _ = update(t, m, key("esc"))
	assert.Equal(t, ViewDashboard, m.Mode())
	assert.False(t, m.gaugeTicking)

	before := g.Current()
	m, cmd = update(t, m, gaugeTickMsg{gen: staleGen})
	assert.Nil(t, cmd)
	assert.Equal(t, before, g.Current())
}

func TestModel_ReadingsForOtherLocationDontTickDetail(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, key("enter"))
	assert.False(t, m.gaugeTicking, "nothing to animate yet")

	m, _ = update(t, m, readingEvent(topicB, t0, reading(1)))
	assert.False(t, m.gaugeTicking)
}

func TestModel_DeviceToggle(t *testing.T) {
	m, src := newTestModel(t)
	m, _ = update(t, m, key("enter"))

	m, cmd := update(t, m, key("m"))
	require.NotNil(t, cmd)
	assert.Contains(t, m.notice, "MOTOR ON")

	m, _ = update(t, m, cmd())
	assert.True(t, m.byTopic[topicA].motorOn)
	assert.True(t, m.byTopic[topicA].motorKnown)
	assert.Equal(t, "Building 1 device ON", m.notice)

	m, cmd = update(t, m, key("m"))
	m, _ = update(t, m, cmd())
	assert.False(t, m.byTopic[topicA].motorOn)

	assert.Equal(t, []sentCommand{
		{topic: topicA, command: telemetry.CommandOn},
		{topic: topicA, command: telemetry.CommandOff},
	}, src.sent())
}

func TestModel_DeviceToggleError(t *testing.T) {
	m, src := newTestModel(t)
	src.err = perrors.New(perrors.ErrDevice, "WebSocket for modbus/data is not connected", "Wait for it to come online")

	m, _ = update(t, m, key("enter"))
	m, cmd := update(t, m, key("m"))
	m, _ = update(t, m, cmd())

	assert.True(t, m.noticeErr)
	assert.Equal(t, "WebSocket for modbus/data is not connected", m.notice)
	assert.False(t, m.byTopic[topicA].motorKnown)
}

func TestModel_DeviceKeyIgnoredOnDashboard(t *testing.T) {
	m, _ := newTestModel(t)
	handled, cmd := m.HandleKeyMsg(key("m"))
	assert.False(t, handled)
	assert.Nil(t, cmd)
}

func TestModel_ScheduleToggle(t *testing.T) {
	m, _ := newTestModel(t, withSchedules(topicA,
		schedule.Schedule{Start: schedule.NewClock(8, 0, 0), End: schedule.NewClock(9, 0, 0)},
		schedule.Schedule{Start: schedule.NewClock(18, 0, 0), End: schedule.NewClock(19, 30, 0)},
	))
	book := m.Schedules(topicA)
	require.Equal(t, 2, book.Len())

	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key(" "))
	assert.False(t, book.All()[0].Active)
	assert.True(t, book.All()[1].Active)
	assert.Contains(t, m.notice, "paused")

	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("j")) // clamps at the last row
	assert.Equal(t, 1, m.schedCursor)
	m, _ = update(t, m, key(" "))
	assert.False(t, book.All()[1].Active)

	m, _ = update(t, m, key(" "))
	assert.True(t, book.All()[1].Active)
	assert.Contains(t, m.notice, "active")
}

func TestModel_ScheduleToggleEmpty(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key(" "))
	assert.Equal(t, "No schedules for Building 1", m.notice)
}

func TestModel_WindowResize(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 130, Height: 50})

	assert.Equal(t, 130, m.width)
	assert.True(t, m.viewportReady)
	assert.Equal(t, 45, m.detailViewport.Height)
	assert.Equal(t, 3, m.LayoutColumns())
}

func TestModel_LayoutColumns(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{0, 1},
		{79, 1},
		{80, 2},
		{119, 2},
		{120, 3},
		{200, 3},
	}
	for _, tt := range tests {
		m := Model{width: tt.width}
		assert.Equal(t, tt.want, m.LayoutColumns(), "width %d", tt.width)
	}
}

func TestShortError(t *testing.T) {
	assert.Equal(t, "Boom", shortError(perrors.New(perrors.ErrDevice, "Boom", "fix it")))
	assert.Equal(t, assert.AnError.Error(), shortError(assert.AnError))
}
