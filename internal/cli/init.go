package cli

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/powerdash/internal/config"
	"github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/rileyhilliard/powerdash/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string // Where to write; defaults to ./powerdash.yaml
	BackendURL     string // Pre-specified backend base URL
	WebSocketURL   string // Pre-specified telemetry WebSocket base
	ClusterID      string
	Overwrite      bool // Overwrite existing config without asking
	NonInteractive bool // Skip prompts, use defaults
}

// Init creates a new powerdash.yaml configuration file.
func Init(w io.Writer, opts InitOptions) error {
	configPath := opts.Path
	if configPath == "" {
		configPath = filepath.Join(".", config.ConfigFileName)
	}
	configPath = config.ExpandPath(configPath)

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}

		if !overwrite {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	backendURL := firstNonEmpty(opts.BackendURL, cfg.Backend.URL)
	wsURL := firstNonEmpty(opts.WebSocketURL, cfg.Backend.WebSocketURL)
	clusterID := firstNonEmpty(opts.ClusterID, cfg.Backend.ClusterID)

	if !opts.NonInteractive {
		fmt.Fprintln(w, ui.RenderHeader(ui.HeaderInfo{
			Version: formatVersion(version),
			Tagline: "Power-quality dashboard setup",
			Detail:  configPath,
		}))
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Backend URL").
					Description("Serves /scheduler and /recordData").
					Placeholder(cfg.Backend.URL).
					Value(&backendURL).
					Validate(urlValidator("http", "https")),
				huh.NewInput().
					Title("Telemetry WebSocket URL").
					Description("Each location's topic is appended to this").
					Placeholder(cfg.Backend.WebSocketURL).
					Value(&wsURL).
					Validate(urlValidator("ws", "wss")),
				huh.NewInput().
					Title("Cluster ID").
					Value(&clusterID).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("cluster ID is required")
						}
						return nil
					}),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --non-interactive")
		}
	}

	cfg.Backend.URL = strings.TrimSpace(backendURL)
	cfg.Backend.WebSocketURL = strings.TrimSpace(wsURL)
	cfg.Backend.ClusterID = strings.TrimSpace(clusterID)

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintln(w, "  powerdash location add --name \"Building 4\" --topic modbus/b4")
	fmt.Fprintln(w, "  powerdash monitor --simulate")
	return nil
}

// urlValidator rejects input that isn't an absolute URL with one of schemes.
func urlValidator(schemes ...string) func(string) error {
	return func(s string) error {
		u, err := url.Parse(strings.TrimSpace(s))
		if err != nil || u.Host == "" {
			return fmt.Errorf("enter a full URL, e.g. %s://host:8080", schemes[0])
		}
		for _, scheme := range schemes {
			if u.Scheme == scheme {
				return nil
			}
		}
		return fmt.Errorf("URL must start with %s://", strings.Join(schemes, ":// or "))
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
