package cli

import (
	"os"
	"time"

	"github.com/rileyhilliard/powerdash/internal/config"
	"github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	monitorSimulate    bool
	monitorMetricsAddr string
	monitorLogFile     string

	scheduleStart string
	scheduleEnd   string

	recordsFrom string
	recordsTo   string

	locationName  string
	locationTopic string
	locationColor string

	initBackendURL   string
	initWebSocketURL string
	initClusterID    string
	initForce        bool
	initNonInteract  bool
)

// monitorCmd starts the TUI dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live dashboard of every location's power, voltage and current",
	Long: `Start an interactive dashboard that streams telemetry from every
configured location over WebSocket and charts it live.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  c           Cycle chart (power, voltage, current)
  up/k        Select previous location
  down/j      Select next location
  Enter       Open gauges, device and schedules for the location
  m           Toggle the device (detail view)
  Space       Pause or resume the highlighted schedule (detail view)
  Esc         Back
  ?           Show help

Examples:
  powerdash monitor
  powerdash monitor --simulate
  powerdash monitor --metrics-addr :9464`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd.Context(), MonitorOptions{
			Simulate:    monitorSimulate,
			MetricsAddr: monitorMetricsAddr,
			LogFile:     monitorLogFile,
		})
	},
}

// scheduleCmd groups the schedule subcommands
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage daily device schedules",
	Long: `List, add and delete the daily windows during which a location's
device should run. Schedules live on the backend.`,
}

var scheduleListCmd = &cobra.Command{
	Use:     "list [location]",
	Aliases: []string{"ls"},
	Short:   "List schedules",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		ref := ""
		if len(args) == 1 {
			ref = args[0]
		}
		return scheduleListCommand(cmd.Context(), cmd.OutOrStdout(), newBackendClient(cfg), reg, ref)
	},
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add [location]",
	Short: "Add a daily schedule",
	Long: `Add a daily window for a location. Missing values are asked for
interactively when running in a terminal.

Examples:
  powerdash schedule add "Building 1" --start 08:00 --end 17:30
  powerdash schedule add modbus/data --start "6:00 AM" --end "9:00 AM"
  powerdash schedule add`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		opts := ScheduleAddOptions{
			Start:   scheduleStart,
			End:     scheduleEnd,
			Prompt:  canPrompt(),
			Animate: animateOutput(),
		}
		if len(args) == 1 {
			opts.Location = args[0]
		}
		return scheduleAddCommand(cmd.Context(), cmd.OutOrStdout(), newBackendClient(cfg), reg, opts)
	},
}

var scheduleDeleteCmd = &cobra.Command{
	Use:     "delete <location> <number|id>",
	Aliases: []string{"rm"},
	Short:   "Delete a schedule",
	Long: `Delete a schedule by its number from 'powerdash schedule list'.

Examples:
  powerdash schedule delete "Building 1" 2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		return scheduleDeleteCommand(cmd.Context(), cmd.OutOrStdout(), newBackendClient(cfg), reg, args[0], args[1], animateOutput())
	},
}

// recordsCmd prints recorded readings
var recordsCmd = &cobra.Command{
	Use:   "records <location>",
	Short: "Show recorded readings for a location",
	Long: `Fetch recorded readings from the backend and print them with phase
totals. --from and --to accept timestamps or a duration back from now.

Examples:
  powerdash records "Building 1"
  powerdash records modbus/data --from 2024-03-01 --to 2024-03-02
  powerdash records "Building 2" --from 6h --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		return recordsCommand(cmd.Context(), cmd.OutOrStdout(), newBackendClient(cfg), reg, RecordsOptions{
			Location: args[0],
			From:     recordsFrom,
			To:       recordsTo,
			JSON:     machineMode,
		}, time.Now())
	},
}

// deviceCmd switches a location's motor
var deviceCmd = &cobra.Command{
	Use:   "device <location> <on|off>",
	Short: "Switch a location's device on or off",
	Long: `Send MOTOR ON or MOTOR OFF on the location's telemetry socket.

Examples:
  powerdash device "Building 1" on
  powerdash device modbus/registers off`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		return deviceCommand(cmd.Context(), cmd.OutOrStdout(), cfg.Backend.WebSocketURL, reg, args[0], args[1], animateOutput())
	},
}

// locationCmd groups the location subcommands
var locationCmd = &cobra.Command{
	Use:   "location",
	Short: "Inspect or extend the configured locations",
}

var locationListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List configured locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		return locationListCommand(cmd.OutOrStdout(), reg)
	},
}

var locationAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a location to the config file",
	Long: `Append a location to the config file, keeping comments and layout.

Examples:
  powerdash location add --name "Building 4" --topic modbus/b4 --color "#FFAA00"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find(cfgFile)
		if err != nil {
			return err
		}
		return locationAddCommand(cmd.OutOrStdout(), path, config.LocationConfig{
			Name:  locationName,
			Topic: locationTopic,
			Color: locationColor,
		})
	},
}

// initCmd creates a new powerdash.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create powerdash.yaml configuration",
	Long: `Write a powerdash.yaml with the default locations, chart and gauge
settings. Prompts for the backend addresses unless --non-interactive is set.

Examples:
  powerdash init
  powerdash init --backend-url http://plant:8080 --websocket-url ws://plant:8080/ws --non-interactive
  powerdash init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(cmd.OutOrStdout(), InitOptions{
			Path:           cfgFile,
			BackendURL:     initBackendURL,
			WebSocketURL:   initWebSocketURL,
			ClusterID:      initClusterID,
			Overwrite:      initForce,
			NonInteractive: initNonInteract || !canPrompt(),
		})
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for powerdash.

Examples:
  # Bash
  powerdash completion bash > /etc/bash_completion.d/powerdash

  # Zsh
  powerdash completion zsh > "${fpath[1]}/_powerdash"

  # Fish
  powerdash completion fish > ~/.config/fish/completions/powerdash.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// monitor command flags
	monitorCmd.Flags().BoolVar(&monitorSimulate, "simulate", false, "generate readings instead of connecting")
	monitorCmd.Flags().StringVar(&monitorMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g., :9464)")
	monitorCmd.Flags().StringVar(&monitorLogFile, "log-file", "", "write logs here while the dashboard runs (default $"+LogFileEnv+")")

	// schedule command flags
	scheduleAddCmd.Flags().StringVar(&scheduleStart, "start", "", "start time (e.g., 08:00, 17:30:00, 6:00 AM)")
	scheduleAddCmd.Flags().StringVar(&scheduleEnd, "end", "", "end time, after --start")
	scheduleCmd.AddCommand(scheduleListCmd, scheduleAddCmd, scheduleDeleteCmd)

	// records command flags
	recordsCmd.Flags().StringVar(&recordsFrom, "from", "", "start of the range (timestamp or duration ago; default 1h before --to)")
	recordsCmd.Flags().StringVar(&recordsTo, "to", "", "end of the range (default now)")

	// location command flags
	locationAddCmd.Flags().StringVar(&locationName, "name", "", "display name (defaults to the topic)")
	locationAddCmd.Flags().StringVar(&locationTopic, "topic", "", "telemetry topic")
	locationAddCmd.Flags().StringVar(&locationColor, "color", "", "chart color: name, ANSI number or #rrggbb")
	locationCmd.AddCommand(locationListCmd, locationAddCmd)

	// init command flags
	initCmd.Flags().StringVar(&initBackendURL, "backend-url", "", "backend base URL")
	initCmd.Flags().StringVar(&initWebSocketURL, "websocket-url", "", "telemetry WebSocket base URL")
	initCmd.Flags().StringVar(&initClusterID, "cluster-id", "", "cluster ID sent to the backend")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initNonInteract, "non-interactive", false, "skip prompts and use flags or defaults")

	// Register all commands
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(deviceCmd)
	rootCmd.AddCommand(locationCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
