package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rileyhilliard/powerdash/internal/backend"
	"github.com/rileyhilliard/powerdash/internal/config"
	"github.com/rileyhilliard/powerdash/internal/logger"
	"github.com/rileyhilliard/powerdash/internal/ui"
	"github.com/rileyhilliard/powerdash/internal/util"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile string
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "powerdash",
	Short: "Live power-quality dashboard for three-phase sites",
	Long: `powerdash watches voltage, current and power telemetry from your sites,
charts it live in the terminal, and manages device schedules on the backend.

Run 'powerdash init' to create a config, then 'powerdash monitor'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
		logger.SetDefault(logger.NewEnvLogger("[powerdash]"))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./powerdash.yaml, then ~/.config/powerdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	if machineMode {
		_ = WriteJSONFromError(os.Stdout, err)
		os.Exit(1)
	}

	if isUnknownCommandError(err) {
		fmt.Fprintln(os.Stderr, err)
		if hint := unknownCommandHint(extractUnknownCommand(err)); hint != "" {
			fmt.Fprintln(os.Stderr, "\n"+hint)
		}
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, err.Error())
	if !strings.HasSuffix(err.Error(), "\n") {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(1)
}

// isUnknownCommandError reports whether cobra rejected the command line itself.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the quoted command name out of cobra's
// `unknown command "foo" for "powerdash"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// unknownCommandHint suggests the closest command names for a typo.
func unknownCommandHint(name string) string {
	if name == "" {
		return ""
	}
	var names []string
	for _, c := range rootCmd.Commands() {
		if !c.Hidden {
			names = append(names, c.Name())
		}
	}
	if near := util.SuggestSimilar(name, names, 3); len(near) > 0 {
		return "Did you mean: " + util.JoinOrNone(near) + "?"
	}
	return "Run 'powerdash --help' to see the available commands."
}

// loadConfig finds, loads and validates the config. The returned path is
// empty when built-in defaults are in use.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// newBackendClient builds the HTTP client for /scheduler and /recordData.
func newBackendClient(cfg *config.Config) *backend.Client {
	return backend.New(cfg.Backend.URL, cfg.Backend.ClusterID, cfg.Backend.Timeout,
		backend.WithLogger(logger.Default()))
}
