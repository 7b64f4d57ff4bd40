package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/solarsim/internal/engine"
)

// clickSlop is how far the pointer may travel between press and release for
// the release to still count as a click.
const clickSlop = 4.0

// wheelScale converts raylib wheel notches into browser-style deltaY pixels.
const wheelScale = -100.0

// pointer turns raylib's polled mouse state into engine events.
type pointer struct {
	hub                   *engine.Hub
	downX, downY          float64
	lastX, lastY          float64
	pressed               bool
	lastWidth, lastHeight int
}

func newPointer(hub *engine.Hub) *pointer {
	w, h := hub.Size()
	return &pointer{hub: hub, lastWidth: w, lastHeight: h}
}

// poll emits the events for one frame of input. UI clicks over panels are
// filtered by the caller through blocked.
func (p *pointer) poll(blocked func(x, y float64) bool) {
	if rl.IsWindowResized() {
		w, h := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
		if w != p.lastWidth || h != p.lastHeight {
			p.lastWidth, p.lastHeight = w, h
			p.hub.Emit(engine.Event{Kind: engine.Resize, Width: w, Height: h})
		}
	}

	m := rl.GetMousePosition()
	x, y := float64(m.X), float64(m.Y)
	overUI := blocked != nil && blocked(x, y)

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && !overUI {
		p.pressed = true
		p.downX, p.downY = x, y
		p.hub.Emit(engine.Event{Kind: engine.PointerDown, X: x, Y: y})
	}

	if x != p.lastX || y != p.lastY {
		p.hub.Emit(engine.Event{Kind: engine.PointerMove, X: x, Y: y})
		p.lastX, p.lastY = x, y
	}

	if rl.IsMouseButtonReleased(rl.MouseLeftButton) && p.pressed {
		p.pressed = false
		p.hub.Emit(engine.Event{Kind: engine.PointerUp, X: x, Y: y})
		if math.Hypot(x-p.downX, y-p.downY) <= clickSlop {
			p.hub.Emit(engine.Event{Kind: engine.Click, X: x, Y: y})
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !overUI {
		p.hub.Emit(engine.Event{Kind: engine.Wheel, X: x, Y: y, DeltaY: float64(wheel) * wheelScale})
	}
}
