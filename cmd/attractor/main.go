package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/experiment"
	"github.com/san-kum/attractor/internal/metrics"
	"github.com/san-kum/attractor/internal/sim"
	"github.com/san-kum/attractor/internal/viz"
	"github.com/spf13/cobra"
)

var (
	logLevel    string
	metricsAddr string

	configFile    string
	preset        string
	dt            float64
	integrator    string
	particles     int
	window        int
	warmup        int
	steps         int
	stepsPerFrame int
	fps           int
	seed          int64
	params        []string
	superpose     []string

	// run
	svgPath    string
	csvPath    string
	saveConfig string

	// live
	themeName string

	// sweep
	sweepFrom  float64
	sweepTo    float64
	sweepN     int
	sweepCoord int
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func main() {
	rootCmd := &cobra.Command{
		Use:           "attractor",
		Short:         "streaming strange-attractor simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			logger = l
			if metricsAddr != "" {
				serveMetrics(metricsAddr)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list attractors and integrators",
		Args:  cobra.NoArgs,
		RunE:  listAll,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named configurations",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	runCmd := &cobra.Command{
		Use:   "run [attractor]",
		Short: "run headless and print a summary",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final window as svg")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write the final window as csv")
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved config as yaml")

	liveCmd := &cobra.Command{
		Use:   "live [attractor]",
		Short: "run with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&themeName, "theme", viz.Themes[0].Name, "colour theme: "+strings.Join(viz.ThemeNames(), ", "))

	analyzeCmd := &cobra.Command{
		Use:   "analyze [attractor]",
		Short: "largest lyapunov exponent and dominant frequency",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeAttractor,
	}
	addSimFlags(analyzeCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [attractor] [param]",
		Short: "sweep one coefficient and report the exponent",
		Args:  cobra.MaximumNArgs(2),
		RunE:  sweepParam,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.09, "first parameter value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0.2, "last parameter value")
	sweepCmd.Flags().IntVar(&sweepN, "n", 12, "number of values")
	sweepCmd.Flags().IntVar(&sweepCoord, "coord", 0, "coordinate whose maxima are recorded")

	rootCmd.AddCommand(listCmd, presetsCmd, runCmd, liveCmd, analyzeCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", d.Dt, "timestep")
	cmd.Flags().StringVar(&integrator, "integrator", d.Integrator, "integrator (euler|rk4)")
	cmd.Flags().IntVar(&particles, "particles", d.Particles, "number of particles")
	cmd.Flags().IntVar(&window, "window", d.Window, "history window capacity in steps")
	cmd.Flags().IntVar(&warmup, "warmup", d.Warmup, "warm-up steps before the window is filled (0 disables)")
	cmd.Flags().IntVar(&steps, "steps", d.Steps, "steps to integrate (run, analyze)")
	cmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", d.StepsPerFrame, "steps pulled per frame (live)")
	cmd.Flags().IntVar(&fps, "fps", d.FPS, "frames per second (live)")
	cmd.Flags().Int64Var(&seed, "seed", d.Seed, "random seed for starting states")
	cmd.Flags().StringSliceVar(&params, "param", nil, "attractor coefficient as name=value (repeatable)")
	cmd.Flags().StringSliceVar(&superpose, "superpose", nil, "add fields to the attractor, e.g. gravity")
}

// resolveConfig applies preset < config file < explicit flags.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 && args[0] != cfg.Attractor.Name {
		cfg.Attractor = config.FieldConfig{Name: args[0]}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("window") {
		cfg.Window = window
	}
	if flags.Changed("warmup") {
		cfg.Warmup = warmup
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("steps-per-frame") {
		cfg.StepsPerFrame = stepsPerFrame
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if len(params) > 0 {
		parsed, err := parseParams(params)
		if err != nil {
			return nil, err
		}
		if cfg.Attractor.Params == nil {
			cfg.Attractor.Params = make(map[string]float64, len(parsed))
		}
		for k, v := range parsed {
			cfg.Attractor.Params[k] = v
		}
	}
	for _, name := range superpose {
		cfg.Superpose = append(cfg.Superpose, config.FieldConfig{Name: name})
	}

	return cfg, cfg.Validate()
}

func parseParams(raw []string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q, want name=value", kv)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --param %q: %w", kv, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

var collector *metrics.Collector

func serveMetrics(addr string) {
	collector = metrics.NewCollector(prometheus.DefaultRegisterer)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "err", err)
		}
	}()
}

// buildSession builds the configured session with logging and, when the
// metrics server is up, the prometheus observer.
func buildSession(cfg *config.Config) (*sim.Session, error) {
	opts := []sim.Option{sim.WithLogger(logger)}
	if collector != nil {
		opts = append(opts, sim.WithObserver(collector))
	}
	return experiment.NewRegistry().Build(cfg, opts...)
}
