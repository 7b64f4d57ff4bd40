package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphericalRoundTrip(t *testing.T) {
	for _, v := range []mgl64.Vec3{{0, 50, 100}, {-30, 2, 7}, {15, -40, -1}} {
		got := FromVector(v).Vector()
		assert.InDelta(t, v.X(), got.X(), 1e-9)
		assert.InDelta(t, v.Y(), got.Y(), 1e-9)
		assert.InDelta(t, v.Z(), got.Z(), 1e-9)
	}
	assert.Equal(t, Spherical{}, FromVector(mgl64.Vec3{}))
}

func TestNewControllerStartsFree(t *testing.T) {
	cam := New(16.0 / 9.0)
	c := NewController(cam, DefaultLimits())

	assert.Equal(t, ModeFree, c.Mode())
	assert.InDelta(t, math.Sqrt(50*50+100*100), c.Spherical().Radius, 1e-9)
	assert.Equal(t, mgl64.Vec3{}, cam.Target)
}

func TestOrbitClampsPolarAngle(t *testing.T) {
	lim := DefaultLimits()
	c := NewController(New(1), lim)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		c.Orbit((rng.Float64()-0.5)*400, (rng.Float64()-0.5)*400)
		phi := c.Spherical().Phi
		require.GreaterOrEqual(t, phi, lim.Epsilon)
		require.LessOrEqual(t, phi, math.Pi-lim.Epsilon)
	}

	c.Orbit(0, 1e6)
	assert.InDelta(t, math.Pi-lim.Epsilon, c.Spherical().Phi, 1e-12)
	c.Orbit(0, -1e6)
	assert.InDelta(t, lim.Epsilon, c.Spherical().Phi, 1e-12)
}

func TestZoomClampsRadius(t *testing.T) {
	lim := DefaultLimits()
	cam := New(1)
	c := NewController(cam, lim)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 2000; i++ {
		c.Zoom((rng.Float64() - 0.5) * 5000)
		r := c.Spherical().Radius
		require.GreaterOrEqual(t, r, lim.MinRadius)
		require.LessOrEqual(t, r, lim.MaxRadius)
		require.InDelta(t, r, cam.Position.Len(), 1e-9)
	}
}

func TestOrbitDirection(t *testing.T) {
	c := NewController(New(1), DefaultLimits())
	before := c.Spherical()

	c.Orbit(10, 5)
	after := c.Spherical()
	assert.InDelta(t, before.Theta-0.1, after.Theta, 1e-9)
	assert.InDelta(t, before.Phi+0.05, after.Phi, 1e-9)
	assert.InDelta(t, before.Radius, after.Radius, 1e-9)
}

func TestFollowSnapsToTargetPlusOffset(t *testing.T) {
	cam := New(1)
	c := NewController(cam, DefaultLimits())
	c.Follow()

	target := mgl64.Vec3{35, 0, 0}
	c.Update(target)
	assert.Equal(t, target.Add(DefaultFollowOffset), cam.Position)
	assert.Equal(t, target, cam.Target)

	assert.False(t, c.Orbit(10, 10), "drag ignored while following")
	assert.False(t, c.Zoom(100), "wheel ignored while following")
	assert.Equal(t, target.Add(DefaultFollowOffset), cam.Position)
}

func TestFreeResumesFromPhysicalPosition(t *testing.T) {
	cam := New(1)
	c := NewController(cam, DefaultLimits())
	c.Follow()
	c.Update(mgl64.Vec3{150, 0, 0})

	c.Free()
	assert.Equal(t, ModeFree, c.Mode())
	want := FromVector(mgl64.Vec3{150, 10, 20})
	assert.InDelta(t, want.Radius, c.Spherical().Radius, 1e-9)
	assert.InDelta(t, want.Theta, c.Spherical().Theta, 1e-9)
	assert.Equal(t, mgl64.Vec3{}, cam.Target, "free mode looks at the origin")

	c.Update(mgl64.Vec3{1, 2, 3})
	assert.Equal(t, mgl64.Vec3{}, cam.Target, "update is inert in free mode")
}

func TestFreeClampsOutOfRangePosition(t *testing.T) {
	cam := New(1)
	cam.Position = mgl64.Vec3{0, 2, 0}
	c := NewController(cam, DefaultLimits())

	s := c.Spherical()
	assert.Equal(t, 10.0, s.Radius)
	assert.Equal(t, 0.1, s.Phi)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("follow")
	require.NoError(t, err)
	assert.Equal(t, ModeFollow, m)
	assert.Equal(t, "follow", m.String())

	_, err = ParseMode("orbit")
	assert.Error(t, err)
}

func TestSetAspect(t *testing.T) {
	cam := New(1)
	cam.SetAspect(1920, 1080)
	assert.InDelta(t, 16.0/9.0, cam.Aspect, 1e-12)
	cam.SetAspect(0, 100)
	assert.InDelta(t, 16.0/9.0, cam.Aspect, 1e-12)
}
