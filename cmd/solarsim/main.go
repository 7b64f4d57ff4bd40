package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/gui"
	"github.com/san-kum/solarsim/internal/logging"
	"github.com/san-kum/solarsim/internal/telemetry"
	"github.com/san-kum/solarsim/internal/tui"
)

var (
	configFile  string
	logLevel    string
	logFormat   string
	metricsAddr string
	preset      string

	// trace
	traceTime  float64
	traceDt    float64
	traceSpeed float64
	traceAxis  string
	traceJSON  string
	traceSVG   string

	// simulate
	simFrames   int
	simDt       float64
	simSpeeds   map[string]string
	simRealtime bool
	simFollow   string
	simSVG      string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "solarsim",
		Short:        "interactive solar system viewer",
		SilenceUsage: true,
		RunE:         runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "log format: text or json")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	pf.StringVar(&preset, "preset", "", "speed preset (see 'solarsim presets')")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the 3D viewer window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the viewer in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	bodiesCmd := &cobra.Command{
		Use:   "bodies",
		Short: "list the bodies in the registry",
		Args:  cobra.NoArgs,
		RunE:  listBodies,
	}

	infoCmd := &cobra.Command{
		Use:   "info [body]",
		Short: "show the detail card for a body",
		Args:  cobra.ExactArgs(1),
		RunE:  showInfo,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list speed presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	traceCmd := &cobra.Command{
		Use:   "trace [body]",
		Short: "plot a body's motion over simulated time",
		Args:  cobra.ExactArgs(1),
		RunE:  traceBody,
	}
	traceCmd.Flags().Float64Var(&traceTime, "time", 300, "simulated seconds")
	traceCmd.Flags().Float64Var(&traceDt, "dt", 1.0/60, "frame delta")
	traceCmd.Flags().Float64Var(&traceSpeed, "speed", 1.0, "speed multiplier for the body")
	traceCmd.Flags().StringVar(&traceAxis, "axis", "x", "plotted value: x, z or angle")
	traceCmd.Flags().StringVar(&traceJSON, "json", "", "write the samples to this file")
	traceCmd.Flags().StringVar(&traceSVG, "svg", "", "write the path as svg to this file")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "run the engine headless and print final body state",
		Args:  cobra.NoArgs,
		RunE:  simulate,
	}
	simulateCmd.Flags().IntVar(&simFrames, "frames", 600, "number of frames")
	simulateCmd.Flags().Float64Var(&simDt, "dt", 1.0/60, "frame delta (ignored with --realtime)")
	simulateCmd.Flags().StringToStringVar(&simSpeeds, "speed", nil, "per-body multipliers, e.g. Mars=2,Earth=0.5")
	simulateCmd.Flags().BoolVar(&simRealtime, "realtime", false, "pace frames on the wall clock")
	simulateCmd.Flags().StringVar(&simFollow, "follow", "", "follow this body with the camera")
	simulateCmd.Flags().StringVar(&simSVG, "svg", "", "write a top-down snapshot of the final state")

	rootCmd.AddCommand(guiCmd, tuiCmd, bodiesCmd, infoCmd, presetsCmd, traceCmd, simulateCmd)
	return rootCmd
}

// loadConfig resolves the config file, preset and flag overrides in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.Metrics.Addr = metricsAddr
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) logging.Logger {
	return logging.FromEnv(cfg.Log.Level, cfg.Log.Format)
}

// startMetrics registers collectors and, when an address is configured,
// serves them until ctx is done.
func startMetrics(ctx context.Context, cfg *config.Config, log logging.Logger) (*telemetry.Metrics, error) {
	reg := prometheus.NewRegistry()
	m, err := telemetry.New(reg)
	if err != nil {
		return nil, err
	}
	if cfg.Metrics.Addr == "" {
		return m, nil
	}
	go func() {
		if err := telemetry.Serve(ctx, cfg.Metrics.Addr, m.Handler()); err != nil {
			log.Error(ctx, "metrics server stopped", logging.Err(err))
		}
	}()
	log.Info(ctx, "serving metrics", logging.String("addr", cfg.Metrics.Addr))
	return m, nil
}

type session struct {
	cfg     *config.Config
	log     logging.Logger
	metrics *telemetry.Metrics
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)
	m, err := startMetrics(cmd.Context(), cfg, log)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: log, metrics: m}, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cmd.Context(), gui.Options{Config: s.cfg, Logger: s.log, Metrics: s.metrics})
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), tui.Options{Config: s.cfg, Logger: s.log, Metrics: s.metrics})
}
