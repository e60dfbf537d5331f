package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileHeader is written at the top of generated config files.
const fileHeader = `# powerdash configuration
# Run 'powerdash monitor' to open the live dashboard
# Environment variables override keys, e.g. POWERDASH_BACKEND_URL

`

// fileConfig mirrors Config with durations as strings so the written file
// reads "30s" instead of nanoseconds.
type fileConfig struct {
	Version   int              `yaml:"version"`
	Backend   fileBackend      `yaml:"backend"`
	Locations []LocationConfig `yaml:"locations"`
	Charts    fileCharts       `yaml:"charts"`
	Gauges    fileGauges       `yaml:"gauges"`
	Monitor   fileMonitor      `yaml:"monitor"`
}

type fileBackend struct {
	URL          string `yaml:"url"`
	WebSocketURL string `yaml:"websocket_url"`
	ClusterID    string `yaml:"cluster_id"`
	Timeout      string `yaml:"timeout"`
}

type fileCharts struct {
	Capacity   int     `yaml:"capacity"`
	Margin     float64 `yaml:"margin"`
	Floor      float64 `yaml:"floor"`
	EndPadding string  `yaml:"end_padding"`
	MinWindow  string  `yaml:"min_window"`
}

type fileGauges struct {
	Ticks      int     `yaml:"ticks"`
	Interval   string  `yaml:"interval"`
	VoltageMax float64 `yaml:"voltage_max"`
	CurrentMax float64 `yaml:"current_max"`
	PowerMax   float64 `yaml:"power_max"`
}

type fileMonitor struct {
	Simulate         bool   `yaml:"simulate"`
	SimulateInterval string `yaml:"simulate_interval"`
	Reconnect        string `yaml:"reconnect"`
	MetricsAddr      string `yaml:"metrics_addr,omitempty"`
	LogFile          string `yaml:"log_file,omitempty"`
}

func toFile(c *Config) fileConfig {
	return fileConfig{
		Version: c.Version,
		Backend: fileBackend{
			URL:          c.Backend.URL,
			WebSocketURL: c.Backend.WebSocketURL,
			ClusterID:    c.Backend.ClusterID,
			Timeout:      c.Backend.Timeout.String(),
		},
		Locations: c.Locations,
		Charts: fileCharts{
			Capacity:   c.Charts.Capacity,
			Margin:     c.Charts.Margin,
			Floor:      c.Charts.Floor,
			EndPadding: c.Charts.EndPadding.String(),
			MinWindow:  c.Charts.MinWindow.String(),
		},
		Gauges: fileGauges{
			Ticks:      c.Gauges.Ticks,
			Interval:   c.Gauges.Interval.String(),
			VoltageMax: c.Gauges.VoltageMax,
			CurrentMax: c.Gauges.CurrentMax,
			PowerMax:   c.Gauges.PowerMax,
		},
		Monitor: fileMonitor{
			Simulate:         c.Monitor.Simulate,
			SimulateInterval: c.Monitor.SimulateInterval.String(),
			Reconnect:        c.Monitor.Reconnect.String(),
			MetricsAddr:      c.Monitor.MetricsAddr,
			LogFile:          c.Monitor.LogFile,
		},
	}
}

// Marshal renders cfg as a commented YAML document.
func Marshal(cfg *Config) ([]byte, error) {
	var buf strings.Builder
	buf.WriteString(fileHeader)

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(toFile(cfg)); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return []byte(buf.String()), nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// AddLocation appends a location to the config file at configPath.
// It preserves the existing YAML structure and comments. A location with the
// same topic is rejected.
func AddLocation(configPath string, loc LocationConfig) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	docNode := root.Content[0]
	if docNode.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	locationsNode := findMapValue(docNode, "locations")
	if locationsNode == nil {
		locationsNode = &yaml.Node{
			Kind:    yaml.SequenceNode,
			Tag:     "!!seq",
			Content: []*yaml.Node{},
		}
		docNode.Content = append(docNode.Content, scalar("locations"), locationsNode)
	}
	if locationsNode.Kind != yaml.SequenceNode {
		return fmt.Errorf("'locations' must be a list")
	}

	for _, item := range locationsNode.Content {
		if topic := findMapValue(item, "topic"); topic != nil && topic.Value == loc.Topic {
			return fmt.Errorf("topic '%s' is already configured", loc.Topic)
		}
	}

	entry := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			scalar("name"), scalar(loc.Name),
			scalar("topic"), scalar(loc.Topic),
		},
	}
	if loc.Color != "" {
		entry.Content = append(entry.Content, scalar("color"), scalar(loc.Color))
	}
	locationsNode.Content = append(locationsNode.Content, entry)

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(configPath, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
