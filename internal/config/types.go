package config

import (
	"time"

	"github.com/rileyhilliard/powerdash/internal/gauge"
	"github.com/rileyhilliard/powerdash/internal/series"
	"github.com/rileyhilliard/powerdash/internal/telemetry"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete powerdash.yaml configuration file.
type Config struct {
	Version   int              `yaml:"version" mapstructure:"version"`
	Backend   BackendConfig    `yaml:"backend" mapstructure:"backend"`
	Locations []LocationConfig `yaml:"locations" mapstructure:"locations"`
	Charts    ChartsConfig     `yaml:"charts" mapstructure:"charts"`
	Gauges    GaugesConfig     `yaml:"gauges" mapstructure:"gauges"`
	Monitor   MonitorConfig    `yaml:"monitor" mapstructure:"monitor"`
}

// BackendConfig points at the HTTP backend and the telemetry WebSocket server.
type BackendConfig struct {
	// URL is the HTTP base for /scheduler and /recordData.
	URL string `yaml:"url" mapstructure:"url"`

	// WebSocketURL is the base that topics are appended to.
	WebSocketURL string `yaml:"websocket_url" mapstructure:"websocket_url"`

	// ClusterID is sent with every backend request.
	ClusterID string `yaml:"cluster_id" mapstructure:"cluster_id"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LocationConfig is one monitored site.
type LocationConfig struct {
	Name  string `yaml:"name" mapstructure:"name" json:"name"`
	Topic string `yaml:"topic" mapstructure:"topic" json:"topic"`

	// Color is a lipgloss color: a name from the palette, an ANSI number or #rrggbb.
	Color string `yaml:"color" mapstructure:"color" json:"color,omitempty"`
}

// ChartsConfig controls the rolling series and axis derivation.
type ChartsConfig struct {
	Capacity   int           `yaml:"capacity" mapstructure:"capacity"`
	Margin     float64       `yaml:"margin" mapstructure:"margin"`
	Floor      float64       `yaml:"floor" mapstructure:"floor"`
	EndPadding time.Duration `yaml:"end_padding" mapstructure:"end_padding"`
	MinWindow  time.Duration `yaml:"min_window" mapstructure:"min_window"`
}

// GaugesConfig controls the detail view gauges.
type GaugesConfig struct {
	Ticks      int           `yaml:"ticks" mapstructure:"ticks"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
	VoltageMax float64       `yaml:"voltage_max" mapstructure:"voltage_max"`
	CurrentMax float64       `yaml:"current_max" mapstructure:"current_max"`
	PowerMax   float64       `yaml:"power_max" mapstructure:"power_max"`
}

// MonitorConfig controls the live dashboard.
type MonitorConfig struct {
	// Simulate replaces the WebSocket sources with generated readings.
	Simulate bool `yaml:"simulate" mapstructure:"simulate"`

	// SimulateInterval is the delay between simulated readings.
	SimulateInterval time.Duration `yaml:"simulate_interval" mapstructure:"simulate_interval"`

	// Reconnect is the delay before redialing a dropped socket. 0 disables redialing.
	Reconnect time.Duration `yaml:"reconnect" mapstructure:"reconnect"`

	// MetricsAddr serves Prometheus metrics when set, e.g. ":9464".
	MetricsAddr string `yaml:"metrics_addr" mapstructure:"metrics_addr"`

	// LogFile receives log output while the dashboard owns the terminal.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`
}

// DefaultLocations mirrors the three buildings of the reference deployment.
func DefaultLocations() []LocationConfig {
	return []LocationConfig{
		{Name: "Building 1", Topic: "modbus/data", Color: "green"},
		{Name: "Building 2", Topic: "modbus/registers", Color: "red"},
		{Name: "Building 3", Topic: "topic2", Color: "blue"},
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Backend: BackendConfig{
			URL:          "http://localhost:8080",
			WebSocketURL: "ws://localhost:8080/ws",
			ClusterID:    "1",
			Timeout:      10 * time.Second,
		},
		Locations: DefaultLocations(),
		Charts: ChartsConfig{
			Capacity:   series.DefaultCapacity,
			Margin:     series.DefaultMargin,
			Floor:      series.DefaultFloor,
			EndPadding: series.DefaultEndPadding,
			MinWindow:  series.DefaultMinWindow,
		},
		Gauges: GaugesConfig{
			Ticks:      gauge.DefaultTicks,
			Interval:   gauge.DefaultTickInterval,
			VoltageMax: gauge.DefaultVoltageMax,
			CurrentMax: gauge.DefaultCurrentMax,
			PowerMax:   gauge.DefaultPowerMax,
		},
		Monitor: MonitorConfig{
			Simulate:         false,
			SimulateInterval: telemetry.DefaultSimulateInterval,
			Reconnect:        telemetry.DefaultReconnectDelay,
		},
	}
}

// Registry builds the topic registry from the configured locations.
func (c *Config) Registry() (*telemetry.Registry, error) {
	locs := make([]telemetry.Location, len(c.Locations))
	for i, l := range c.Locations {
		locs[i] = telemetry.Location{Name: l.Name, Topic: l.Topic, Color: l.Color}
	}
	return telemetry.NewRegistry(locs)
}

// AxisOptions converts the chart settings for the series package.
func (c *Config) AxisOptions() series.AxisOptions {
	return series.AxisOptions{
		Margin:     c.Charts.Margin,
		Floor:      c.Charts.Floor,
		EndPadding: c.Charts.EndPadding,
		MinWindow:  c.Charts.MinWindow,
	}
}

// GaugeRanges converts the gauge maxima for the gauge package.
func (c *Config) GaugeRanges() gauge.Ranges {
	return gauge.Ranges{
		Voltage: c.Gauges.VoltageMax,
		Current: c.Gauges.CurrentMax,
		Power:   c.Gauges.PowerMax,
	}
}
