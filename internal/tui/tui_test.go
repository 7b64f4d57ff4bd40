package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/solarsim/internal/bodies"
	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/config"
)

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(2, 1)
	red := colorful.Color{R: 1}

	c.Set(0, 0, red)
	c.Set(3, 3, red)
	assert.True(t, c.Lit(0, 0))
	assert.True(t, c.Lit(3, 3))
	assert.False(t, c.Lit(1, 0))
	assert.Equal(t, "⠁⢀\n", c.String())

	c.Set(-1, 0, red)
	c.Set(100, 100, red)

	c.Clear()
	assert.Equal(t, "⠀⠀\n", c.String())
}

func TestCanvasTextBlocksPixels(t *testing.T) {
	c := NewCanvas(6, 1)
	c.Text(1, 0, "Mars", "#ffffff")
	c.Set(2, 0, colorful.Color{G: 1})

	assert.Equal(t, "⠀Mars⠀\n", c.String())
	assert.False(t, c.Lit(2, 0))
}

func TestCanvasFillCircle(t *testing.T) {
	c := NewCanvas(10, 5)
	white := colorful.Color{R: 1, G: 1, B: 1}
	c.FillCircle(10, 10, 4, func(float64, float64) colorful.Color { return white })

	assert.True(t, c.Lit(10, 10))
	assert.False(t, c.Lit(0, 0))
	assert.False(t, c.Lit(10, 16))
}

func TestCanvasSetIfEmpty(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0, colorful.Color{R: 1})
	c.SetIfEmpty(1, 1, colorful.Color{B: 1})
	assert.False(t, c.Lit(1, 1))
}

func newTestModel(t *testing.T) model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Engine.StarCount = 100
	m, err := newModel(cfg, nil, nil)
	require.NoError(t, err)
	t.Cleanup(m.eng.Dispose)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(model)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestResizeUpdatesEngineViewport(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(model)

	cols, rows := canvasSize(100, 30)
	assert.Equal(t, cols, m.renderer.Canvas.Width)
	assert.Equal(t, rows, m.renderer.Canvas.Height)
	assert.Equal(t, cols*2, m.eng.Viewport().Width)
	assert.Equal(t, rows*4, m.eng.Viewport().Height)
}

func TestTickDrivesFrames(t *testing.T) {
	m := newTestModel(t)
	t0 := time.Unix(1000, 0)

	next, cmd := m.Update(tickMsg(t0))
	require.NotNil(t, cmd, "tick must reschedule")
	m = next.(model)
	next, _ = m.Update(tickMsg(t0.Add(100 * time.Millisecond)))
	m = next.(model)

	assert.Equal(t, 2, m.renderer.Frames)
	earth, _ := m.eng.World().Body("Earth")
	assert.InDelta(t, 0.1*0.030, earth.OrbitAngle(), 1e-9)
}

func TestKeys(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(model)
	assert.True(t, m.eng.Paused())

	next, _ = m.Update(runes("3"))
	m = next.(model)
	assert.Equal(t, camera.ModeFollow, m.eng.CameraMode())
	assert.Equal(t, bodies.Names()[2], m.eng.FollowTarget())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(model)
	assert.Equal(t, bodies.Names()[3], m.eng.FollowTarget())

	next, _ = m.Update(runes("c"))
	m = next.(model)
	assert.Equal(t, camera.ModeFree, m.eng.CameraMode())
	assert.Empty(t, m.eng.FollowTarget())

	next, _ = m.Update(runes("l"))
	m = next.(model)
	assert.False(t, m.eng.ShowLabels())

	theme := m.theme.Name
	next, _ = m.Update(runes("t"))
	m = next.(model)
	assert.NotEqual(t, theme, m.theme.Name)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestClickSelectsAndNudgesSpeed(t *testing.T) {
	m := newTestModel(t)
	m.Update(tickMsg(time.Unix(1000, 0)))

	x, y, ok := m.eng.Project(bodies.SunName)
	require.True(t, ok)
	col, row := int(x)/2, int(y)/4

	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	require.Equal(t, bodies.SunName, m.eng.Selected())
	assert.Equal(t, bodies.SunName, m.selector.Current())

	next, _ := m.Update(runes("+"))
	m = next.(model)
	assert.InDelta(t, 1.1, m.eng.PlanetSpeed(bodies.SunName), 1e-9)

	next, _ = m.Update(runes("0"))
	m = next.(model)
	assert.Equal(t, 1.0, m.eng.PlanetSpeed(bodies.SunName))
}

func TestViewShowsPanels(t *testing.T) {
	m := newTestModel(t)
	m.Update(tickMsg(time.Unix(1000, 0)))

	view := m.View()
	assert.Contains(t, view, "Speed Controls")
	assert.Contains(t, view, "Planet Information")
	assert.Contains(t, view, "RUNNING")
	assert.LessOrEqual(t, len(strings.Split(view, "\n")), m.height, "view must fit the terminal")
}
