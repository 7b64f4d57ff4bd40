package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/logging"
	"github.com/san-kum/solarsim/internal/picking"
)

// frame is the scheduled per-frame callback. It re-requests itself before
// returning so the loop continues until Dispose cancels the request.
func (e *Engine) frame(now time.Time) {
	if e.disposed {
		return
	}
	// The clock ticks even while paused so resuming never replays the pause.
	delta := e.clock.Delta(now)
	e.step(delta)
	if !e.disposed && e.opts.scheduler != nil {
		e.cancelFrame = e.opts.scheduler.Request(e.frameFn)
	}
}

// Advance runs one frame of delta seconds without the scheduler. Headless
// commands and tests drive the engine with it.
func (e *Engine) Advance(delta float64) error {
	if e.disposed {
		return ErrDisposed
	}
	if !e.initialized {
		return ErrNotInitialized
	}
	if delta < 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return fmt.Errorf("%w: %v", ErrNegativeDelta, delta)
	}
	e.step(delta)
	return nil
}

func (e *Engine) step(delta float64) {
	if !e.state.Paused {
		for _, b := range e.world.Bodies {
			b.Advance(delta * e.state.Speeds[b.Spec.Name] * b.Spec.AngularSpeed)
		}
		e.simTime += delta
	}

	if e.state.Mode == camera.ModeFollow && e.state.FollowTarget != "" {
		if b, ok := e.world.Body(e.state.FollowTarget); ok {
			e.ctrl.Update(b.WorldPosition())
		}
	}

	e.opts.renderer.Render(e.world, e.cam)
	e.metrics.ObserveFrame(delta, e.state.Paused)
	e.frames++
}

func (e *Engine) resolver() picking.Resolver {
	return picking.Resolver{Camera: e.cam, Viewport: e.viewport}
}

func (e *Engine) targets() []picking.Target {
	pickables := e.world.Pickables()
	out := make([]picking.Target, 0, len(pickables))
	for _, b := range pickables {
		out = append(out, picking.Target{ID: b.Spec.Name, NodeID: b.Mesh.ID, Center: b.WorldPosition(), Radius: b.Spec.Radius})
	}
	return out
}

// Pick returns the body under the pixel (x, y), if any.
func (e *Engine) Pick(x, y float64) (string, bool) {
	if !e.initialized || e.disposed {
		return "", false
	}
	hit, ok := e.resolver().Resolve(x, y, e.targets())
	if !ok {
		return "", false
	}
	b, ok := e.world.BodyByNode(hit.NodeID)
	if !ok {
		return "", false
	}
	return b.Spec.Name, true
}

// Project maps a world-space body position to pixels for overlay drawing.
func (e *Engine) Project(name string) (x, y float64, ok bool) {
	if e.world == nil {
		return 0, 0, false
	}
	b, found := e.world.Body(name)
	if !found {
		return 0, 0, false
	}
	return e.resolver().Project(b.WorldPosition())
}

func (e *Engine) handleEvent(ev Event) {
	if e.disposed {
		return
	}
	switch ev.Kind {
	case PointerDown:
		e.drag = dragState{active: true, x: ev.X, y: ev.Y}
	case PointerUp:
		e.drag.active = false
	case PointerMove:
		if e.drag.active {
			e.ctrl.Orbit(ev.X-e.drag.x, ev.Y-e.drag.y)
			e.drag.x, e.drag.y = ev.X, ev.Y
		}
		e.hover(ev.X, ev.Y)
	case Click:
		e.click(ev.X, ev.Y)
	case Wheel:
		e.ctrl.Zoom(ev.DeltaY)
	case Resize:
		if ev.Width <= 0 || ev.Height <= 0 {
			return
		}
		e.viewport = picking.Viewport{Width: ev.Width, Height: ev.Height}
		e.cam.SetAspect(ev.Width, ev.Height)
		e.log.Debug(context.Background(), "viewport resized",
			logging.Int("width", ev.Width), logging.Int("height", ev.Height))
	}
}

func (e *Engine) hover(x, y float64) {
	if !e.state.ShowLabels {
		return
	}
	e.world.HideLabels()
	id, ok := e.Pick(x, y)
	e.metrics.ObservePick("hover", ok)
	if !ok {
		e.state.Hovered = ""
		return
	}
	e.state.Hovered = id
	if b, found := e.world.Body(id); found && b.Label != nil {
		b.Label.Show(x+LabelOffsetX, y+LabelOffsetY)
	}
}

func (e *Engine) click(x, y float64) {
	id, ok := e.Pick(x, y)
	e.metrics.ObservePick("click", ok)
	if !ok {
		return
	}
	e.state.Selected = id
	e.metrics.ObserveSelection(id)
	e.log.Info(context.Background(), "body selected", logging.String("body", id))
	if e.state.OnSelect != nil {
		e.state.OnSelect(id)
	}
}

// Selected returns the last clicked body, or "".
func (e *Engine) Selected() string { return e.state.Selected }

// Hovered returns the body whose label is showing, or "".
func (e *Engine) Hovered() string { return e.state.Hovered }
