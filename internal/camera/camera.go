package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultFOV  = 75.0
	DefaultNear = 0.1
	DefaultFar  = 10000.0
)

// DefaultPosition is where a new session's camera starts, looking at the origin.
var DefaultPosition = mgl64.Vec3{0, 50, 100}

// Camera is a perspective camera in world space.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	FOV      float64 // vertical, degrees
	Aspect   float64
	Near     float64
	Far      float64
}

func New(aspect float64) *Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return &Camera{
		Position: DefaultPosition,
		Up:       mgl64.Vec3{0, 1, 0},
		FOV:      DefaultFOV,
		Aspect:   aspect,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

func (c *Camera) LookAt(target mgl64.Vec3) { c.Target = target }

// SetAspect updates the aspect ratio from a viewport size; zero sizes are ignored.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Forward is the unit view direction.
func (c *Camera) Forward() mgl64.Vec3 {
	d := c.Target.Sub(c.Position)
	if d.Len() == 0 {
		return mgl64.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

// Spherical coordinates about the origin: Phi is the polar angle from +Y, Theta
// the azimuth around +Y measured from +Z.
type Spherical struct {
	Radius float64
	Phi    float64
	Theta  float64
}

func FromVector(v mgl64.Vec3) Spherical {
	r := v.Len()
	if r == 0 {
		return Spherical{}
	}
	y := math.Max(-1, math.Min(1, v.Y()/r))
	return Spherical{Radius: r, Theta: math.Atan2(v.X(), v.Z()), Phi: math.Acos(y)}
}

func (s Spherical) Vector() mgl64.Vec3 {
	sinPhiR := math.Sin(s.Phi) * s.Radius
	return mgl64.Vec3{
		sinPhiR * math.Sin(s.Theta),
		math.Cos(s.Phi) * s.Radius,
		sinPhiR * math.Cos(s.Theta),
	}
}
