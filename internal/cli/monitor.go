package cli

import (
	"context"
	stderrors "errors"
	"math/rand"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rileyhilliard/powerdash/internal/config"
	"github.com/rileyhilliard/powerdash/internal/errors"
	"github.com/rileyhilliard/powerdash/internal/logger"
	"github.com/rileyhilliard/powerdash/internal/monitor"
	"github.com/rileyhilliard/powerdash/internal/schedule"
	"github.com/rileyhilliard/powerdash/internal/telemetry"
)

// LogFileEnv names a file that receives log output while the dashboard runs.
const LogFileEnv = "POWERDASH_LOG"

// scheduleFetchTimeout bounds the startup schedule fetch per location.
const scheduleFetchTimeout = 5 * time.Second

// MonitorOptions holds flag overrides for the monitor command.
type MonitorOptions struct {
	Simulate    bool
	MetricsAddr string
	LogFile     string
}

// monitorCommand starts the TUI dashboard.
func monitorCommand(ctx context.Context, opts MonitorOptions) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}

	simulate := opts.Simulate || cfg.Monitor.Simulate
	log, closeLog, err := monitorLogger(firstNonEmpty(opts.LogFile, os.Getenv(LogFileEnv), cfg.Monitor.LogFile))
	if err != nil {
		return err
	}
	defer closeLog()

	var metrics *telemetry.Metrics
	if addr := firstNonEmpty(opts.MetricsAddr, cfg.Monitor.MetricsAddr); addr != "" {
		promReg := prometheus.NewRegistry()
		promReg.MustRegister(collectors.NewGoCollector())
		metrics = telemetry.NewMetrics(promReg)
		srv := serveMetrics(addr, promReg, log)
		defer srv.Close()
	}

	hub := buildHub(cfg, reg, simulate, metrics, log)
	defer hub.Close()

	mo := monitorOptionsFromConfig(cfg)
	mo.Logger = log
	if !simulate {
		mo.Schedules = fetchSchedules(ctx, newBackendClient(cfg), reg, log)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	hub.Start(runCtx)

	model := monitor.NewModel(reg, hub, mo)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(runCtx))
	_, err = p.Run()
	if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// monitorOptionsFromConfig maps the charts and gauges sections onto the model.
func monitorOptionsFromConfig(cfg *config.Config) monitor.Options {
	mo := monitor.DefaultOptions()
	mo.Capacity = cfg.Charts.Capacity
	mo.Axis = cfg.AxisOptions()
	mo.Gauges = cfg.GaugeRanges()
	mo.Ticks = cfg.Gauges.Ticks
	mo.TickInterval = cfg.Gauges.Interval
	return mo
}

// buildHub adds one source per location: a WebSocket client, or the random
// generator when simulating.
func buildHub(cfg *config.Config, reg *telemetry.Registry, simulate bool, metrics *telemetry.Metrics, log logger.Logger) *telemetry.Hub {
	hub := telemetry.NewHub(metrics, log)
	seed := time.Now().UnixNano()
	for _, loc := range reg.Locations() {
		if simulate {
			src := telemetry.NewSimulatedSource(loc.Topic, cfg.Monitor.SimulateInterval,
				rand.New(rand.NewSource(seed+int64(loc.Index))))
			src.SetLogger(log)
			hub.Add(src)
			continue
		}
		hub.Add(telemetry.NewWebSocketSource(cfg.Backend.WebSocketURL, loc.Topic,
			telemetry.WithReconnectDelay(cfg.Monitor.Reconnect),
			telemetry.WithLogger(log)))
	}
	return hub
}

// fetchSchedules seeds the dashboard's schedule books. A location whose
// schedules can't be fetched starts with none; the failure is logged.
func fetchSchedules(ctx context.Context, client scheduleLister, reg *telemetry.Registry, log logger.Logger) map[string][]schedule.Schedule {
	out := make(map[string][]schedule.Schedule, reg.Len())
	for _, loc := range reg.Locations() {
		fetchCtx, cancel := context.WithTimeout(ctx, scheduleFetchTimeout)
		windows, err := client.ListSchedules(fetchCtx, loc.Topic)
		cancel()
		if err != nil {
			log.Warn("schedules for %s unavailable: %v", loc.Topic, err)
			continue
		}
		out[loc.Topic] = windows
	}
	return out
}

// scheduleLister is the part of the backend client the monitor needs.
type scheduleLister interface {
	ListSchedules(ctx context.Context, topic string) ([]schedule.Schedule, error)
}

// monitorLogger sends logs to path, or discards them so the alt screen stays clean.
func monitorLogger(path string) (logger.Logger, func(), error) {
	if path == "" {
		return logger.Noop(), func() {}, nil
	}
	f, err := os.OpenFile(config.ExpandPath(path), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't open log file "+path,
			"Check the directory exists and is writable, or unset "+LogFileEnv)
	}
	return logger.NewWriterLogger(f, "[monitor]"), func() { f.Close() }, nil
}

// serveMetrics exposes reg on /metrics at addr until the server is closed.
func serveMetrics(addr string, reg *prometheus.Registry, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server on %s stopped: %v", addr, err)
		}
	}()
	log.Info("serving metrics on %s/metrics", addr)
	return srv
}
