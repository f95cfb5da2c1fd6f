package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/attractor/internal/analysis"
	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/experiment"
	"github.com/san-kum/attractor/internal/export"
	"github.com/san-kum/attractor/internal/history"
	"github.com/san-kum/attractor/internal/integrators"
	"github.com/san-kum/attractor/internal/metrics"
	"github.com/san-kum/attractor/internal/viz"
	"github.com/spf13/cobra"
)

func listAll(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ATTRACTOR\tDIM\tCOEFFICIENTS")
	for _, name := range registry.ListAttractors() {
		f, err := registry.GetField(name, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, f.Dim(), formatParams(f))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "INTEGRATOR")
	for _, name := range registry.ListIntegrators() {
		fmt.Fprintln(w, name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "THEME\tPRIMARY\tACCENT")
	for _, name := range viz.ThemeNames() {
		t, _ := viz.GetTheme(name)
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, t.Primary, t.Accent)
	}
	return w.Flush()
}

func formatParams(f dynamo.Field) string {
	p, ok := f.(dynamo.Parameterized)
	if !ok {
		return "-"
	}
	values := p.Params()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, values[k])
	}
	return strings.Join(parts, " ")
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tFIELDS\tINTEGRATOR\tDT\tPARTICLES\tWINDOW\tWARMUP")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%d\t%d\n",
			name, strings.Join(p.FieldNames(), "+"), p.Integrator, p.Dt, p.Particles, p.Window, p.Warmup)
	}
	return w.Flush()
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
	}

	start := time.Now()
	session, err := buildSession(cfg)
	if err != nil {
		return err
	}
	setup := time.Since(start)

	start = time.Now()
	for done := 0; done < cfg.Steps; {
		k := min(cfg.Window, cfg.Steps-done)
		if _, err := session.Advance(k); err != nil {
			return err
		}
		done += k
		logger.Debug("advanced", "steps", done, "of", cfg.Steps)
	}
	elapsed := time.Since(start)

	win := session.Window()
	st := metrics.Stats(win, cfg.Dt, 0)

	fmt.Printf("%s (%s, session %s)\n\n", session.Name(), cfg.Integrator, session.ID())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "particles\t%d\n", win.Particles())
	fmt.Fprintf(w, "steps\t%d\n", session.Steps())
	fmt.Fprintf(w, "time\t%.3f\n", session.Time())
	fmt.Fprintf(w, "setup\t%v\n", setup.Round(time.Millisecond))
	fmt.Fprintf(w, "elapsed\t%v\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "particle-steps/sec\t%.0f\n", float64(cfg.Steps*win.Particles())/elapsed.Seconds())
	fmt.Fprintf(w, "window\t%d/%d\n", st.Filled, win.Capacity())
	fmt.Fprintf(w, "diverged\t%d\n", st.NonFinite)
	fmt.Fprintf(w, "mean speed\t%.3f\n", st.MeanSpeed)
	for d := range st.Lo {
		fmt.Fprintf(w, "x%d range\t[%.3f, %.3f]\n", d, st.Lo[d], st.Hi[d])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if signal := firstCoordinate(win); len(signal) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(downsample(signal, 80),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("x0 of particle 0 over the window"),
		))
		if f := analysis.DominantFrequency(signal, cfg.Dt); f > 0 {
			fmt.Printf("\ndominant frequency: %.4f (period %.3f)\n", f, 1/f)
		}
	}

	if svgPath != "" {
		if err := writeSVG(svgPath, win); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	if csvPath != "" {
		if err := writeCSV(csvPath, win, session.Time(), cfg.Dt); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvPath)
	}
	return nil
}

// firstCoordinate returns particle 0's first coordinate over the filled
// window, stopping at the first non-finite sample.
func firstCoordinate(win *history.Window) []float64 {
	seg := win.Get()
	filled := win.Filled()
	out := make([]float64, 0, filled)
	for s := seg.S - filled; s < seg.S; s++ {
		v := seg.At(0, s, 0)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			break
		}
		out = append(out, v)
	}
	return out
}

func downsample(data []float64, n int) []float64 {
	if len(data) <= n {
		return data
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = data[i*(len(data)-1)/(n-1)]
	}
	return out
}

func writeSVG(path string, win *history.Window) error {
	lo, hi := win.Get().BoundsOver(win.Capacity()-win.Filled(), win.Capacity())
	cam := viz.NewCamera()
	cam.RotX = -math.Pi / 2 // z up
	cam.Fit(lo, hi)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.WindowToSVG(f, win.Get(), win.Filled(), cam, export.DefaultSVGOptions())
}

func writeCSV(path string, win *history.Window, now, dt float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	filled := win.Filled()
	seg := win.Get().Slice(win.Capacity()-filled, win.Capacity())
	return export.WriteCSV(f, seg, now-float64(filled-1)*dt, dt)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if _, ok := viz.GetTheme(themeName); !ok {
		return fmt.Errorf("unknown theme %q (have %s)", themeName, strings.Join(viz.ThemeNames(), ", "))
	}
	session, err := buildSession(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(session, cfg.StepsPerFrame, cfg.FPS)
	if err := m.SetTheme(themeName); err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

func analyzeAttractor(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	integ, err := registry.Integrator(cfg)
	if err != nil {
		return err
	}
	one := cfg.Clone()
	one.Particles = 1
	x0, err := experiment.Start(one, integ.Field().Dim())
	if err != nil {
		return err
	}

	opts := analysis.Options{Dt: cfg.Dt, Steps: cfg.Steps, Transient: cfg.Warmup}
	start := time.Now()
	lambda, err := analysis.LyapunovExponent(integ, x0.Row(0), opts)
	if err != nil {
		return err
	}
	logger.Debug("lyapunov estimate", "elapsed", time.Since(start), "steps", cfg.Steps)

	fmt.Printf("%s (%s, dt=%g)\n\n", strings.Join(cfg.FieldNames(), "+"), cfg.Integrator, cfg.Dt)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "coefficients\t%s\n", formatParams(integ.Field()))
	fmt.Fprintf(w, "start\t%v\n", x0.Row(0))
	fmt.Fprintf(w, "largest exponent\t%.4f\n", lambda)
	switch {
	case math.IsNaN(lambda):
		fmt.Fprintln(w, "verdict\tdiverged")
	case lambda > 0.01:
		fmt.Fprintln(w, "verdict\tchaotic")
	case lambda < -0.01:
		fmt.Fprintln(w, "verdict\tconverging")
	default:
		fmt.Fprintln(w, "verdict\tperiodic or quasi-periodic")
	}

	settled := x0
	if cfg.Warmup > 0 {
		if settled, err = integ.Advance(x0, cfg.Warmup, cfg.Dt); err != nil {
			return err
		}
	}
	seg, err := integ.Integrate(settled, cfg.Steps, cfg.Dt)
	if err != nil {
		return err
	}
	signal := make([]float64, 0, seg.S)
	for s := 0; s < seg.S; s++ {
		signal = append(signal, seg.At(0, s, 0))
	}
	if f := analysis.DominantFrequency(signal, cfg.Dt); f > 0 && !math.IsNaN(lambda) {
		fmt.Fprintf(w, "dominant frequency\t%.4f\n", f)
		fmt.Fprintf(w, "period\t%.3f\n", 1/f)
	}
	return w.Flush()
}

func sweepParam(cmd *cobra.Command, args []string) error {
	param := "a"
	if len(args) > 1 {
		param = args[1]
	}
	cfg, err := resolveConfig(cmd, args[:min(len(args), 1)])
	if err != nil {
		return err
	}
	name := cfg.Attractor.Name
	if !cmd.Flags().Changed("steps") && cfg.Steps > 20000 {
		cfg.Steps = 20000
	}

	registry := experiment.NewRegistry()
	if _, err := registry.GetIntegrator(cfg.Integrator); err != nil {
		return err
	}
	at := func(v float64) (dynamo.Field, error) {
		c := cfg.Clone()
		if c.Attractor.Params == nil {
			c.Attractor.Params = map[string]float64{}
		}
		c.Attractor.Params[param] = v
		return registry.Field(c)
	}
	newStepper := func() integrators.Stepper {
		s, _ := registry.GetIntegrator(cfg.Integrator)
		return s
	}

	field, err := registry.Field(cfg)
	if err != nil {
		return err
	}
	one := cfg.Clone()
	one.Particles = 1
	x0, err := experiment.Start(one, field.Dim())
	if err != nil {
		return err
	}

	values := analysis.Linspace(sweepFrom, sweepTo, sweepN)
	opts := analysis.SweepOptions{
		Options: analysis.Options{Dt: cfg.Dt, Steps: cfg.Steps, Transient: cfg.Warmup},
		Coord:   sweepCoord,
	}
	start := time.Now()
	points, err := analysis.Sweep(at, newStepper, values, x0.Row(0), opts)
	if err != nil {
		return err
	}
	logger.Info("sweep complete", "attractor", name, "param", param, "values", len(values), "elapsed", time.Since(start))

	fmt.Printf("sweep %s.%s over [%g, %g]\n\n", name, param, sweepFrom, sweepTo)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(param)+"\tEXPONENT\tMAXIMA")
	exps := make([]float64, 0, len(points))
	for _, p := range points {
		fmt.Fprintf(w, "%.4f\t%.4f\t%d\n", p.Param, p.Exponent, len(p.Maxima))
		if !math.IsNaN(p.Exponent) && !math.IsInf(p.Exponent, 0) {
			exps = append(exps, p.Exponent)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(exps) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(exps,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("largest exponent"),
		))
	}
	if art := analysis.SweepToASCII(points, 60, 15); art != "" {
		fmt.Printf("\nmaxima of x%d\n%s", sweepCoord, art)
	}
	return nil
}
