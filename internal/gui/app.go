package gui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	rl "github.com/gen2brain/raylib-go/raylib"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/solarsim/internal/bodies"
	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/engine"
	"github.com/san-kum/solarsim/internal/logging"
	"github.com/san-kum/solarsim/internal/panel"
	"github.com/san-kum/solarsim/internal/scene"
	"github.com/san-kum/solarsim/internal/telemetry"
)

const (
	fontPath   = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	panelWidth = 300
	margin     = 20
)

type Options struct {
	Config  *config.Config
	Logger  logging.Logger
	Metrics *telemetry.Metrics
}

type App struct {
	eng      *engine.Engine
	hub      *engine.Hub
	sched    *engine.ManualScheduler
	layer    *scene.LabelLayer
	renderer *Renderer
	input    *pointer
	log      logging.Logger

	theme    panel.Theme
	speeds   *panel.SpeedPanel
	selector *panel.FollowSelector
	font     rl.Font
	quit     bool
}

func initWindow(cfg *config.Config) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), cfg.Window.Title)
	rl.SetTargetFPS(int32(cfg.Window.FPS))
	rl.SetExitKey(0)
}

// loadFont prefers Liberation Mono and falls back to raylib's built-in font.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Noop()
	}

	initWindow(cfg)
	defer rl.CloseWindow()

	app, err := newApp(cfg, log, opts.Metrics)
	if err != nil {
		return err
	}
	defer app.eng.Dispose()

	app.loop(ctx)
	return nil
}

func newApp(cfg *config.Config, log logging.Logger, metrics *telemetry.Metrics) (*App, error) {
	specs := bodies.All()
	hub := engine.NewHub(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
	sched := &engine.ManualScheduler{}
	layer := scene.NewLabelLayer()
	renderer := NewRenderer()

	eng := engine.New(
		engine.WithBodies(specs),
		engine.WithSurface(hub),
		engine.WithScheduler(sched),
		engine.WithOverlay(layer),
		engine.WithRenderer(renderer),
		engine.WithLogger(log),
		engine.WithMetrics(metrics),
		engine.WithSceneOptions(cfg.SceneOptions()),
		engine.WithCameraLimits(cfg.CameraLimits()),
		engine.WithMaxFrameDelta(cfg.Engine.MaxFrameDelta),
		engine.WithShowLabels(cfg.Engine.ShowLabels),
	)
	if err := eng.Init(); err != nil {
		return nil, fmt.Errorf("gui: %w", err)
	}

	app := &App{
		eng:      eng,
		hub:      hub,
		sched:    sched,
		layer:    layer,
		renderer: renderer,
		input:    newPointer(hub),
		log:      log.With(logging.String("component", "gui")),
		theme:    panel.GetTheme(cfg.Theme),
		speeds:   panel.NewSpeedPanel(specs),
		selector: panel.NewFollowSelector(bodies.Names()),
		font:     loadFont(),
	}
	for name, m := range cfg.Speeds {
		if err := app.speeds.Set(eng, name, m); err != nil {
			eng.Dispose()
			return nil, fmt.Errorf("gui: speed %s: %w", name, err)
		}
	}
	eng.SetOnPlanetClick(app.onSelect)
	return app, nil
}

func (a *App) loop(ctx context.Context) {
	for !rl.WindowShouldClose() && !a.quit && ctx.Err() == nil {
		a.Update()
		a.Draw()
	}
}

func (a *App) onSelect(id string) {
	a.selector.Select(id)
	a.log.Debug(context.Background(), "selected", logging.String("body", id))
}

func (a *App) Update() {
	a.input.poll(a.overPanel)
	a.handleKeys()
}

func (a *App) handleKeys() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.eng.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.eng.ResetPlanets()
	}
	if rl.IsKeyPressed(rl.KeyL) {
		a.eng.SetShowLabels(!a.eng.ShowLabels())
	}
	if rl.IsKeyPressed(rl.KeyT) {
		a.theme = a.theme.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.must(a.eng.SetCameraMode(camera.ModeFree))
	}
	if rl.IsKeyPressed(rl.KeyF) {
		target := a.eng.Selected()
		if target == "" {
			target = a.selector.Next()
		}
		a.must(a.eng.FollowPlanet(target))
	}
	if rl.IsKeyPressed(rl.KeyTab) && a.eng.CameraMode() == camera.ModeFollow {
		a.must(a.eng.FollowPlanet(a.selector.Next()))
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.eng.ClearSelection()
	}
	if rl.IsKeyPressed(rl.KeyZero) {
		a.must(a.speeds.ResetAll(a.eng))
	}

	names := bodies.Names()
	for i := 0; i < len(names) && i < 9; i++ {
		if rl.IsKeyPressed(rl.KeyOne + int32(i)) {
			a.selector.Select(names[i])
			a.must(a.eng.FollowPlanet(names[i]))
		}
	}

	if sel := a.eng.Selected(); sel != "" {
		if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
			a.must(a.speeds.Nudge(a.eng, sel, 1))
		}
		if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
			a.must(a.speeds.Nudge(a.eng, sel, -1))
		}
	}
}

func (a *App) must(err error) {
	if err != nil {
		a.log.Warn(context.Background(), "action rejected", logging.Err(err))
	}
}

// overPanel reports whether a screen point lies on the side panels, where
// clicks and wheel belong to the UI rather than the viewport.
func (a *App) overPanel(x, _ float64) bool {
	w := float64(rl.GetScreenWidth())
	return x < panelWidth+margin || x > w-panelWidth-margin
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(a.color(a.theme.Background))

	a.sched.Fire(time.Now())

	a.drawLabels()
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) drawLabels() {
	for _, l := range a.layer.Visible() {
		x, y := l.Position()
		a.drawText(l.Text(), int(x), int(y), 16, rl.White)
	}
}

func (a *App) DrawHUD() {
	st := a.eng.Status()
	w := int(rl.GetScreenWidth())
	h := int(rl.GetScreenHeight())

	a.drawText("solarsim", margin, margin, 24, a.color(a.theme.Text))

	status := "RUNNING"
	statusCol := a.theme.Running
	if st.Paused {
		status = "PAUSED"
		statusCol = a.theme.Paused
	}
	a.drawText(status, w-margin-100, margin, 16, a.color(statusCol))

	mode := "camera: " + st.Mode.String()
	if st.Mode == camera.ModeFollow {
		mode += " > " + st.FollowTarget
	}
	a.drawText(mode, margin, margin+32, 14, a.color(a.theme.Muted))

	a.drawSpeeds(margin, margin+64, st.Selected)
	a.drawInfo(w-panelWidth-margin, margin+40, st.Selected)

	a.drawText("[SPACE] PAUSE  [R] RESET  [L] LABELS  [T] THEME  [F] FOLLOW  [C] FREE  [1-9] BODY  [+/-] SPEED  [Q] QUIT",
		margin, h-margin-14, 14, a.color(a.theme.Muted))
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), w-margin-70, h-margin-14, 14, a.color(a.theme.Muted))
}

func (a *App) drawSpeeds(x, y int, selected string) {
	a.drawText("Speed Controls", x, y, 16, a.color(a.theme.Text))
	y += 24
	for _, s := range a.speeds.Sliders() {
		col := a.color(a.theme.Muted)
		if s.Body == selected {
			col = a.color(a.theme.Accent)
		}
		spec := bodies.MustLookup(s.Body)
		rl.DrawCircle(int32(x+6), int32(y+7), 5, nodeColor(spec.Color, 1))
		a.drawText(fmt.Sprintf("%-8s %s", s.Body, s.String()), x+18, y, 14, col)

		track := rl.NewRectangle(float32(x+150), float32(y+4), 120, 6)
		rl.DrawRectangleRec(track, a.color(a.theme.Border))
		track.Width *= float32(s.Value() / panel.SpeedMax)
		rl.DrawRectangleRec(track, a.color(a.theme.Primary))
		y += 22
	}
}

func (a *App) drawInfo(x, y int, selected string) {
	rl.DrawRectangle(int32(x-10), int32(y-10), panelWidth, 360, a.colorAlpha(a.theme.Surface, 0.9))

	spec, ok := bodies.Lookup(selected)
	if !ok {
		a.drawText("Planet Information", x, y, 16, a.color(a.theme.Text))
		a.drawWrapped("Click on a planet to view detailed information about it.", x, y+28, 14, a.color(a.theme.Muted))
		return
	}

	rl.DrawCircle(int32(x+6), int32(y+8), 6, nodeColor(spec.Color, 1))
	a.drawText(spec.Name, x+18, y, 18, a.color(a.theme.Text))
	y += 32

	period := "n/a"
	if !spec.Star {
		period = fmt.Sprintf("%g Earth days", spec.PeriodDays)
	}
	for _, kv := range [][2]string{
		{"Distance from Sun", fmt.Sprintf("%g AU", spec.Distance)},
		{"Relative Size", fmt.Sprintf("%g", spec.Radius)},
		{"Orbital Period", period},
	} {
		a.drawText(kv[0], x, y, 12, a.color(a.theme.Muted))
		a.drawText(kv[1], x, y+14, 14, a.color(a.theme.Text))
		y += 36
	}

	y = a.drawWrapped(spec.Description, x, y, 12, a.color(a.theme.Muted))
	y += 8
	for _, f := range spec.Facts {
		y = a.drawWrapped("• "+f, x, y, 12, a.color(a.theme.Muted))
	}
}

// drawWrapped draws text word-wrapped to the panel width and returns the next y.
func (a *App) drawWrapped(text string, x, y, size int, col rl.Color) int {
	limit := float32(panelWidth - 20)
	var line string
	for _, word := range strings.Fields(text) {
		next := strings.TrimSpace(line + " " + word)
		if rl.MeasureTextEx(a.font, next, float32(size), 1).X > limit && line != "" {
			a.drawText(line, x, y, size, col)
			y += size + 4
			next = word
		}
		line = next
	}
	if line != "" {
		a.drawText(line, x, y, size, col)
		y += size + 4
	}
	return y
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) color(c lipgloss.Color) rl.Color { return a.colorAlpha(c, 1) }

func (a *App) colorAlpha(c lipgloss.Color, alpha float64) rl.Color {
	cc, err := colorful.Hex(string(c))
	if err != nil {
		return rl.Magenta
	}
	r, g, b := cc.RGB255()
	return rl.NewColor(r, g, b, uint8(alpha*255))
}
