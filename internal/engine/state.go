package engine

import (
	"time"

	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/scene"
)

// State is the mutable aggregate behind the facade. Only the engine writes it.
type State struct {
	Paused       bool
	Speeds       map[string]float64
	Mode         camera.Mode
	FollowTarget string // set iff Mode == ModeFollow
	ShowLabels   bool
	Hovered      string
	Selected     string
	OnSelect     func(id string)
}

// Status is a read-only snapshot for HUDs and panels.
type Status struct {
	Paused       bool
	Mode         camera.Mode
	FollowTarget string
	ShowLabels   bool
	Hovered      string
	Selected     string
	Frames       uint64
	SimTime      float64
}

// Renderer draws one frame of the world.
type Renderer interface {
	Render(w *scene.World, cam *camera.Camera)
	Dispose()
}

// NopRenderer counts frames. Headless commands and tests use it.
type NopRenderer struct {
	Frames   int
	Disposed bool
}

func (r *NopRenderer) Render(*scene.World, *camera.Camera) { r.Frames++ }
func (r *NopRenderer) Dispose()                            { r.Disposed = true }

// Clock turns frame timestamps into deltas. The first frame has delta 0.
type Clock struct {
	last    time.Time
	started bool
	max     float64
}

// Delta returns seconds since the previous call, clamped to [0, max] when max > 0.
func (c *Clock) Delta(now time.Time) float64 {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	d := now.Sub(c.last).Seconds()
	c.last = now
	if d < 0 {
		d = 0
	}
	if c.max > 0 && d > c.max {
		d = c.max
	}
	return d
}
