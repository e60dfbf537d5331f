package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rileyhilliard/powerdash/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but powerdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade powerdash to read this file.")
	}

	if err := validateBackend(cfg.Backend); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'backend' section in your powerdash.yaml.")
	}

	if err := validateLocations(cfg.Locations); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'locations' section in your powerdash.yaml.")
	}

	if err := validateCharts(cfg.Charts); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'charts' section in your powerdash.yaml.")
	}

	if err := validateGauges(cfg.Gauges); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'gauges' section in your powerdash.yaml.")
	}

	if cfg.Monitor.Reconnect < 0 {
		return errors.New(errors.ErrConfig,
			"monitor.reconnect can't be negative",
			"Use 0 to disable reconnects, or a duration like 3s.")
	}

	return nil
}

func validateBackend(b BackendConfig) error {
	if err := validateURL("backend.url", b.URL, "http", "https"); err != nil {
		return err
	}
	if err := validateURL("backend.websocket_url", b.WebSocketURL, "ws", "wss"); err != nil {
		return err
	}
	if b.Timeout < 0 {
		return fmt.Errorf("backend.timeout can't be negative")
	}
	return nil
}

func validateURL(key, raw string, schemes ...string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s '%s' isn't a valid URL: %v", key, raw, err)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			if u.Host == "" {
				return fmt.Errorf("%s '%s' has no host", key, raw)
			}
			return nil
		}
	}
	return fmt.Errorf("%s '%s' must use %s", key, raw, strings.Join(schemes, " or "))
}

func validateLocations(locs []LocationConfig) error {
	if len(locs) == 0 {
		return fmt.Errorf("at least one location is required")
	}

	topics := make(map[string]bool, len(locs))
	names := make(map[string]bool, len(locs))
	for i, loc := range locs {
		if strings.TrimSpace(loc.Topic) == "" {
			return fmt.Errorf("location #%d has no topic", i+1)
		}
		if strings.TrimSpace(loc.Name) == "" {
			return fmt.Errorf("location #%d (%s) has no name", i+1, loc.Topic)
		}
		if topics[loc.Topic] {
			return fmt.Errorf("topic '%s' is used by more than one location", loc.Topic)
		}
		key := strings.ToLower(loc.Name)
		if names[key] {
			return fmt.Errorf("location name '%s' is used more than once", loc.Name)
		}
		topics[loc.Topic] = true
		names[key] = true
	}
	return nil
}

func validateCharts(c ChartsConfig) error {
	if c.Capacity <= 0 {
		return fmt.Errorf("charts.capacity must be positive, got %d", c.Capacity)
	}
	if c.Margin < 0 {
		return fmt.Errorf("charts.margin can't be negative, got %g", c.Margin)
	}
	if c.Floor < 0 {
		return fmt.Errorf("charts.floor can't be negative, got %g", c.Floor)
	}
	if c.EndPadding < 0 || c.MinWindow < 0 {
		return fmt.Errorf("charts.end_padding and charts.min_window can't be negative")
	}
	return nil
}

func validateGauges(g GaugesConfig) error {
	if g.Ticks <= 0 {
		return fmt.Errorf("gauges.ticks must be positive, got %d", g.Ticks)
	}
	if g.Interval <= 0 {
		return fmt.Errorf("gauges.interval must be positive")
	}
	for _, m := range []struct {
		key string
		val float64
	}{
		{"gauges.voltage_max", g.VoltageMax},
		{"gauges.current_max", g.CurrentMax},
		{"gauges.power_max", g.PowerMax},
	} {
		if m.val <= 0 {
			return fmt.Errorf("%s must be positive, got %g", m.key, m.val)
		}
	}
	return nil
}
