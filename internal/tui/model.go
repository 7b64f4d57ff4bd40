package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

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
	sideWidth   = 44
	chromeLines = 2
	minCols     = 20
	minRows     = 8
)

type Options struct {
	Config  *config.Config
	Logger  logging.Logger
	Metrics *telemetry.Metrics
}

type model struct {
	eng      *engine.Engine
	hub      *engine.Hub
	sched    *engine.ManualScheduler
	layer    *scene.LabelLayer
	renderer *Renderer
	log      logging.Logger
	interval time.Duration

	theme    panel.Theme
	speeds   *panel.SpeedPanel
	selector *panel.FollowSelector
	mouse    *mouseState

	width  int
	height int
	err    error
}

type mouseState struct {
	pressed      bool
	downX, downY int
}

type tickMsg time.Time

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func newModel(cfg *config.Config, log logging.Logger, metrics *telemetry.Metrics) (model, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logging.Noop()
	}
	width, height := 120, 40
	cols, rows := canvasSize(width, height)

	specs := bodies.All()
	renderer := NewRenderer(cols, rows)
	pw, ph := renderer.Canvas.PixelSize()
	hub := engine.NewHub(pw, ph)
	sched := &engine.ManualScheduler{}
	layer := scene.NewLabelLayer()

	// Terminal pixels are coarse, so a smaller starfield reads better.
	sceneOpts := cfg.SceneOptions()
	if sceneOpts.StarCount > 1500 {
		sceneOpts.StarCount = 1500
	}

	eng := engine.New(
		engine.WithBodies(specs),
		engine.WithSurface(hub),
		engine.WithScheduler(sched),
		engine.WithOverlay(layer),
		engine.WithRenderer(renderer),
		engine.WithLogger(log),
		engine.WithMetrics(metrics),
		engine.WithSceneOptions(sceneOpts),
		engine.WithCameraLimits(cfg.CameraLimits()),
		engine.WithMaxFrameDelta(cfg.Engine.MaxFrameDelta),
		engine.WithShowLabels(cfg.Engine.ShowLabels),
	)
	if err := eng.Init(); err != nil {
		return model{}, fmt.Errorf("tui: %w", err)
	}

	m := model{
		eng:      eng,
		hub:      hub,
		sched:    sched,
		layer:    layer,
		renderer: renderer,
		log:      log.With(logging.String("component", "tui")),
		interval: time.Second / time.Duration(cfg.Window.FPS),
		theme:    panel.GetTheme(cfg.Theme),
		speeds:   panel.NewSpeedPanel(specs),
		selector: panel.NewFollowSelector(bodies.Names()),
		mouse:    &mouseState{},
		width:    width,
		height:   height,
	}
	for name, v := range cfg.Speeds {
		if err := m.speeds.Set(eng, name, v); err != nil {
			eng.Dispose()
			return model{}, fmt.Errorf("tui: speed %s: %w", name, err)
		}
	}
	eng.SetOnPlanetClick(func(id string) { m.selector.Select(id) })
	return m, nil
}

// canvasSize is the braille area left after the side panel and status lines.
func canvasSize(width, height int) (cols, rows int) {
	cols = width - sideWidth - 1
	rows = height - chromeLines
	if cols < minCols {
		cols = minCols
	}
	if rows < minRows {
		rows = minRows
	}
	return cols, rows
}

func (m model) Init() tea.Cmd { return m.tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		cols, rows := canvasSize(msg.Width, msg.Height)
		m.renderer.Resize(cols, rows)
		pw, ph := m.renderer.Canvas.PixelSize()
		m.hub.Emit(engine.Event{Kind: engine.Resize, Width: pw, Height: ph})
		return m, nil
	case tickMsg:
		if m.eng.Disposed() {
			return m, nil
		}
		m.sched.Fire(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "p":
		m.eng.TogglePause()
	case "r":
		m.eng.ResetPlanets()
	case "l":
		m.eng.SetShowLabels(!m.eng.ShowLabels())
	case "t":
		m.theme = m.theme.Toggle()
	case "c":
		m.record(m.eng.SetCameraMode(camera.ModeFree))
	case "f":
		target := m.eng.Selected()
		if target == "" {
			target = m.selector.Current()
		}
		m.selector.Select(target)
		m.record(m.eng.FollowPlanet(target))
	case "tab":
		next := m.selector.Next()
		if m.eng.CameraMode() == camera.ModeFollow {
			m.record(m.eng.FollowPlanet(next))
		}
	case "shift+tab":
		prev := m.selector.Prev()
		if m.eng.CameraMode() == camera.ModeFollow {
			m.record(m.eng.FollowPlanet(prev))
		}
	case "esc":
		m.eng.ClearSelection()
	case "0":
		m.record(m.speeds.ResetAll(m.eng))
	case "+", "=":
		if sel := m.eng.Selected(); sel != "" {
			m.record(m.speeds.Nudge(m.eng, sel, 1))
		}
	case "-", "_":
		if sel := m.eng.Selected(); sel != "" {
			m.record(m.speeds.Nudge(m.eng, sel, -1))
		}
	default:
		if k := msg.String(); len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			names := bodies.Names()
			if i := int(k[0] - '1'); i < len(names) {
				m.selector.Select(names[i])
				m.record(m.eng.FollowPlanet(names[i]))
			}
		}
	}
	return m, nil
}

func (m *model) record(err error) {
	m.err = err
	if err != nil {
		m.log.Warn(context.Background(), "action rejected", logging.Err(err))
	}
}

// toPixels maps a terminal cell to the centre of its braille sub-pixel block.
func toPixels(col, row int) (float64, float64) {
	return float64(col*2 + 1), float64(row*4 + 2)
}

func (m model) handleMouse(msg tea.MouseMsg) {
	cols, rows := m.renderer.Canvas.Width, m.renderer.Canvas.Height
	inside := msg.X >= 0 && msg.X < cols && msg.Y >= 0 && msg.Y < rows
	x, y := toPixels(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp && inside:
		m.hub.Emit(engine.Event{Kind: engine.Wheel, X: x, Y: y, DeltaY: -100})
	case msg.Button == tea.MouseButtonWheelDown && inside:
		m.hub.Emit(engine.Event{Kind: engine.Wheel, X: x, Y: y, DeltaY: 100})
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inside:
		m.mouse.pressed = true
		m.mouse.downX, m.mouse.downY = msg.X, msg.Y
		m.hub.Emit(engine.Event{Kind: engine.PointerDown, X: x, Y: y})
	case msg.Action == tea.MouseActionRelease && m.mouse.pressed:
		m.mouse.pressed = false
		m.hub.Emit(engine.Event{Kind: engine.PointerUp, X: x, Y: y})
		if msg.X == m.mouse.downX && msg.Y == m.mouse.downY {
			m.hub.Emit(engine.Event{Kind: engine.Click, X: x, Y: y})
		}
	case msg.Action == tea.MouseActionMotion && inside:
		m.hub.Emit(engine.Event{Kind: engine.PointerMove, X: x, Y: y})
	}
}

func (m model) View() string {
	c := m.renderer.Canvas
	for _, l := range m.layer.Visible() {
		x, y := l.Position()
		c.Text(int(x)/2, int(y)/4, l.Text(), string(m.theme.Text))
	}

	st := m.eng.Status()
	view := lipgloss.JoinHorizontal(lipgloss.Top, c.Render(), " ", m.side(st))
	return view + "\n" + m.statusLine(st)
}

func (m model) side(st engine.Status) string {
	var parts []string
	parts = append(parts, m.theme.Box().Width(sideWidth-2).Render(m.speeds.Render(m.theme, st.Selected, 12)))
	parts = append(parts, m.theme.Box().Width(sideWidth-2).Render(m.selector.Render(m.theme, st.Mode, st.FollowTarget)))
	if spec, ok := bodies.Lookup(st.Selected); ok {
		parts = append(parts, panel.InfoCard(spec, m.theme, sideWidth-2))
	} else {
		parts = append(parts, panel.EmptyCard(m.theme, sideWidth-2))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) statusLine(st engine.Status) string {
	status := "RUNNING"
	if st.Paused {
		status = "PAUSED"
	}
	labels := "on"
	if !st.ShowLabels {
		labels = "off"
	}
	parts := []string{
		panel.GradientText("solarsim", m.theme.Primary, m.theme.Accent),
		m.theme.Status(st.Paused).Render(status),
		m.theme.Subtle().Render(fmt.Sprintf("t=%.1fs  labels:%s", st.SimTime, labels)),
	}
	if st.Hovered != "" {
		parts = append(parts, m.theme.Value().Render("▸ "+st.Hovered))
	}
	if m.err != nil {
		parts = append(parts, m.theme.Status(true).Render(m.err.Error()))
	}
	parts = append(parts, m.theme.KeyHint().Render("[space] pause [r] reset [l] labels [t] theme [f/c] camera [tab] target [1-9] body [+/-] speed [q] quit"))
	return strings.Join(parts, "  ")
}

// Run starts the terminal viewport and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	m, err := newModel(opts.Config, opts.Logger, opts.Metrics)
	if err != nil {
		return err
	}
	defer m.eng.Dispose()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
