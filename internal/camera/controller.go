package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Mode int

const (
	ModeFree Mode = iota
	ModeFollow
)

func (m Mode) String() string {
	switch m {
	case ModeFree:
		return "free"
	case ModeFollow:
		return "follow"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "free":
		return ModeFree, nil
	case "follow":
		return ModeFollow, nil
	default:
		return ModeFree, fmt.Errorf("camera: unknown mode %q", s)
	}
}

// Limits bound free-mode input.
type Limits struct {
	MinRadius   float64
	MaxRadius   float64
	Epsilon     float64 // polar angle stays within [Epsilon, Pi-Epsilon]
	RotateSpeed float64 // radians per pixel of drag
	ZoomSpeed   float64 // scene units per wheel unit
}

func DefaultLimits() Limits {
	return Limits{MinRadius: 10, MaxRadius: 500, Epsilon: 0.1, RotateSpeed: 0.01, ZoomSpeed: 0.1}
}

// DefaultFollowOffset puts the camera above and behind a followed body.
var DefaultFollowOffset = mgl64.Vec3{0, 10, 20}

// Controller drives a Camera in one of two exclusive modes. In free mode the
// camera orbits the origin on a clamped sphere; in follow mode Update snaps it
// to a target plus a fixed offset.
type Controller struct {
	cam    *Camera
	limits Limits
	offset mgl64.Vec3
	mode   Mode
	sph    Spherical
}

func NewController(cam *Camera, limits Limits) *Controller {
	if limits.MinRadius > limits.MaxRadius {
		limits.MinRadius, limits.MaxRadius = limits.MaxRadius, limits.MinRadius
	}
	c := &Controller{cam: cam, limits: limits, offset: DefaultFollowOffset}
	c.resync()
	return c
}

func (c *Controller) Camera() *Camera        { return c.cam }
func (c *Controller) Mode() Mode             { return c.mode }
func (c *Controller) Limits() Limits         { return c.limits }
func (c *Controller) Spherical() Spherical   { return c.sph }
func (c *Controller) SetOffset(o mgl64.Vec3) { c.offset = o }

// Orbit applies a pointer drag in pixels. It reports false outside free mode.
func (c *Controller) Orbit(dx, dy float64) bool {
	if c.mode != ModeFree {
		return false
	}
	c.sph.Theta -= dx * c.limits.RotateSpeed
	c.sph.Phi += dy * c.limits.RotateSpeed
	c.clamp()
	c.apply()
	return true
}

// Zoom applies wheel input. It reports false outside free mode.
func (c *Controller) Zoom(deltaY float64) bool {
	if c.mode != ModeFree {
		return false
	}
	c.sph.Radius += deltaY * c.limits.ZoomSpeed
	c.clamp()
	c.apply()
	return true
}

// Follow switches to follow mode. The target position arrives through Update.
func (c *Controller) Follow() { c.mode = ModeFollow }

// Free leaves follow mode and resumes orbiting from wherever the camera is.
func (c *Controller) Free() {
	if c.mode == ModeFree {
		return
	}
	c.mode = ModeFree
	c.resync()
}

// Update runs once per frame. In follow mode it places the camera at
// target+offset looking at target; in free mode it does nothing.
func (c *Controller) Update(target mgl64.Vec3) {
	if c.mode != ModeFollow {
		return
	}
	c.cam.Position = target.Add(c.offset)
	c.cam.LookAt(target)
}

func (c *Controller) resync() {
	c.sph = FromVector(c.cam.Position)
	c.clamp()
	c.apply()
}

func (c *Controller) clamp() {
	eps := c.limits.Epsilon
	c.sph.Phi = math.Max(eps, math.Min(math.Pi-eps, c.sph.Phi))
	c.sph.Radius = math.Max(c.limits.MinRadius, math.Min(c.limits.MaxRadius, c.sph.Radius))
}

func (c *Controller) apply() {
	c.cam.Position = c.sph.Vector()
	c.cam.LookAt(mgl64.Vec3{})
}
