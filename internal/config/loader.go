package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = "powerdash.yaml"
	// GlobalConfigDir is the directory for global config, relative to home.
	GlobalConfigDir = ".config/powerdash"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix namespaces environment overrides, e.g. POWERDASH_BACKEND_URL.
	EnvPrefix = "POWERDASH"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'powerdash init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. powerdash.yaml in current directory
// 3. ~/.config/powerdash/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandPath(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if global := GlobalConfigPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// GlobalConfigPath returns ~/.config/powerdash/config.yaml, or "" without a home dir.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// LoadOrDefault loads config from the found path, or returns defaults if none
// exists. Environment overrides apply either way. The returned path is empty
// when defaults were used.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "defaults")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// newViper returns a viper instance with defaults and env overrides wired.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDurationDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	// mapstructure merges slices element-wise, so a shorter list in the file
	// would keep trailing defaults.
	cfg.Locations = nil

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	if len(cfg.Locations) == 0 {
		cfg.Locations = DefaultLocations()
	}
	cfg.Monitor.LogFile = ExpandPath(cfg.Monitor.LogFile)

	return cfg, nil
}

// setDurationDefaults registers every scalar key so viper can decode duration
// strings and so AutomaticEnv can override any of them.
func setDurationDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("backend.url", d.Backend.URL)
	v.SetDefault("backend.websocket_url", d.Backend.WebSocketURL)
	v.SetDefault("backend.cluster_id", d.Backend.ClusterID)
	v.SetDefault("backend.timeout", d.Backend.Timeout.String())
	v.SetDefault("charts.capacity", d.Charts.Capacity)
	v.SetDefault("charts.margin", d.Charts.Margin)
	v.SetDefault("charts.floor", d.Charts.Floor)
	v.SetDefault("charts.end_padding", d.Charts.EndPadding.String())
	v.SetDefault("charts.min_window", d.Charts.MinWindow.String())
	v.SetDefault("gauges.ticks", d.Gauges.Ticks)
	v.SetDefault("gauges.interval", d.Gauges.Interval.String())
	v.SetDefault("gauges.voltage_max", d.Gauges.VoltageMax)
	v.SetDefault("gauges.current_max", d.Gauges.CurrentMax)
	v.SetDefault("gauges.power_max", d.Gauges.PowerMax)
	v.SetDefault("monitor.simulate", d.Monitor.Simulate)
	v.SetDefault("monitor.simulate_interval", d.Monitor.SimulateInterval.String())
	v.SetDefault("monitor.reconnect", d.Monitor.Reconnect.String())
	v.SetDefault("monitor.metrics_addr", d.Monitor.MetricsAddr)
	v.SetDefault("monitor.log_file", d.Monitor.LogFile)
}
