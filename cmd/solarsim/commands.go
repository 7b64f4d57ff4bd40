package main

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/solarsim/internal/bodies"
	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/engine"
	"github.com/san-kum/solarsim/internal/export"
	"github.com/san-kum/solarsim/internal/panel"
	"github.com/san-kum/solarsim/internal/scene"
)

func listBodies(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tRADIUS\tDISTANCE\tSPEED (rad/s)\tPERIOD (days)\tCOLOR")
	for i, s := range bodies.All() {
		period := "-"
		if !s.Star {
			period = strconv.FormatFloat(s.PeriodDays, 'g', -1, 64)
		}
		fmt.Fprintf(w, "%d\t%s\t%g\t%g\t%.3f\t%s\t%s\n",
			i+1, s.Name, s.Radius, s.Distance, s.AngularSpeed, period, s.Hex())
	}
	return w.Flush()
}

func lookupBody(name string) (bodies.Spec, error) {
	s, ok := bodies.Lookup(name)
	if !ok {
		return bodies.Spec{}, fmt.Errorf("unknown body %q (available: %s)", name, strings.Join(bodies.Names(), ", "))
	}
	return s, nil
}

func showInfo(cmd *cobra.Command, args []string) error {
	s, err := lookupBody(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), panel.InfoCard(s, panel.GetTheme(cfg.Theme), 60))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		fmt.Fprintf(w, "%s\t%s\n", name, config.GetPreset(name).Description)
	}
	return w.Flush()
}

// newHeadless builds an initialized engine with no starfield and no window.
func newHeadless(cfg *config.Config, s *session, opts ...engine.Option) (*engine.Engine, error) {
	so := cfg.SceneOptions()
	so.StarCount = 0
	base := []engine.Option{
		engine.WithSceneOptions(so),
		engine.WithCameraLimits(cfg.CameraLimits()),
		engine.WithMaxFrameDelta(cfg.Engine.MaxFrameDelta),
		engine.WithShowLabels(false),
	}
	if s != nil {
		base = append(base, engine.WithLogger(s.log), engine.WithMetrics(s.metrics))
	}
	eng := engine.New(append(base, opts...)...)
	if err := eng.Init(); err != nil {
		return nil, err
	}
	for name, v := range cfg.Speeds {
		if err := eng.SetPlanetSpeed(name, v); err != nil {
			eng.Dispose()
			return nil, fmt.Errorf("speed %s: %w", name, err)
		}
	}
	return eng, nil
}

func traceBody(cmd *cobra.Command, args []string) error {
	s, err := lookupBody(args[0])
	if err != nil {
		return err
	}
	if traceDt <= 0 || traceTime <= 0 {
		return fmt.Errorf("--time and --dt must be positive")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := newHeadless(cfg, nil)
	if err != nil {
		return err
	}
	defer eng.Dispose()
	if cmd.Flags().Changed("speed") {
		if err := eng.SetPlanetSpeed(s.Name, traceSpeed); err != nil {
			return err
		}
	}

	b, _ := eng.World().Body(s.Name)
	sample := func() float64 {
		switch traceAxis {
		case "z":
			return b.WorldPosition().Z()
		case "angle":
			return math.Mod(b.OrbitAngle(), 2*math.Pi)
		default:
			return b.WorldPosition().X()
		}
	}
	if traceAxis != "x" && traceAxis != "z" && traceAxis != "angle" {
		return fmt.Errorf("unknown axis %q (want x, z or angle)", traceAxis)
	}

	steps := int(traceTime / traceDt)
	stride := steps/400 + 1
	tr := &export.Trace{
		Body:     s.Name,
		Speed:    eng.PlanetSpeed(s.Name),
		Dt:       traceDt,
		Duration: traceTime,
		Steps:    steps,
	}
	record := func(t float64) {
		p := b.WorldPosition()
		tr.Samples = append(tr.Samples, export.Sample{T: t, X: p.X(), Z: p.Z(), Orbit: b.OrbitAngle(), Spin: b.SpinAngle()})
	}

	data := []float64{sample()}
	record(0)
	for i := 1; i <= steps; i++ {
		if err := eng.Advance(traceDt); err != nil {
			return err
		}
		if i%stride == 0 {
			data = append(data, sample())
			record(float64(i) * traceDt)
		}
	}

	if traceJSON != "" {
		if err := export.SaveJSON(traceJSON, tr); err != nil {
			return err
		}
	}
	if traceSVG != "" {
		if err := export.SaveFile(traceSVG, export.TrajectoryToSVG(tr.Path(), 600, 600, s.Hex())); err != nil {
			return err
		}
	}

	caption := fmt.Sprintf("%s %s over %gs (x%.1f)", s.Name, traceAxis, traceTime, eng.PlanetSpeed(s.Name))
	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Fprintln(cmd.OutOrStdout(), graph)
	return nil
}

// stopAfter renders nothing and disposes the engine after n frames.
type stopAfter struct {
	engine.NopRenderer
	n    int
	stop func()
}

func (r *stopAfter) Render(w *scene.World, cam *camera.Camera) {
	r.NopRenderer.Render(w, cam)
	if r.Frames >= r.n && r.stop != nil {
		r.stop()
	}
}

func simulate(cmd *cobra.Command, args []string) error {
	if simFrames <= 0 {
		return fmt.Errorf("--frames must be positive")
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if s.cfg.Speeds == nil {
		s.cfg.Speeds = make(map[string]float64, len(simSpeeds))
	}
	for name, raw := range simSpeeds {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("speed %s: %w", name, err)
		}
		s.cfg.Speeds[name] = v
	}

	var eng *engine.Engine
	if simRealtime {
		sched := engine.NewPacedScheduler(s.cfg.Window.FPS)
		r := &stopAfter{n: simFrames}
		eng, err = newHeadless(s.cfg, s, engine.WithScheduler(sched), engine.WithRenderer(r))
		if err != nil {
			return err
		}
		r.stop = eng.Dispose
		if err := follow(eng); err != nil {
			eng.Dispose()
			return err
		}
		if err := sched.Run(cmd.Context()); err != nil {
			eng.Dispose()
			return err
		}
	} else {
		eng, err = newHeadless(s.cfg, s)
		if err != nil {
			return err
		}
		defer eng.Dispose()
		if err := follow(eng); err != nil {
			return err
		}
		for i := 0; i < simFrames; i++ {
			if err := eng.Advance(simDt); err != nil {
				return err
			}
		}
	}

	if simSVG != "" {
		if err := export.SaveFile(simSVG, export.WorldToSVG(eng.World(), 800)); err != nil {
			return err
		}
	}
	return printState(cmd, eng)
}

func follow(eng *engine.Engine) error {
	if simFollow == "" {
		return nil
	}
	return eng.FollowPlanet(simFollow)
}

func printState(cmd *cobra.Command, eng *engine.Engine) error {
	st := eng.Status()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frames: %d  simulated: %.2fs  camera: %s", st.Frames, st.SimTime, st.Mode)
	if st.FollowTarget != "" {
		fmt.Fprintf(out, " (%s)", st.FollowTarget)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tSPEED\tORBIT (rad)\tSPIN (rad)\tX\tZ")
	list := append([]*scene.BodyInstance(nil), eng.World().Bodies...)
	sort.SliceStable(list, func(i, j int) bool {
		return bodies.Index(list[i].Spec.Name) < bodies.Index(list[j].Spec.Name)
	})
	for _, b := range list {
		p := b.WorldPosition()
		fmt.Fprintf(w, "%s\t%.1fx\t%.4f\t%.4f\t%.2f\t%.2f\n",
			b.Spec.Name, eng.PlanetSpeed(b.Spec.Name), b.OrbitAngle(), b.SpinAngle(), p.X(), p.Z())
	}
	return w.Flush()
}
