package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/solarsim/internal/camera"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersectSphere(t *testing.T) {
	r := Ray{Origin: mgl64.Vec3{0, 0, 10}, Dir: mgl64.Vec3{0, 0, -1}}

	d, ok := IntersectSphere(r, mgl64.Vec3{}, 2)
	require.True(t, ok)
	assert.InDelta(t, 8, d, 1e-12)

	_, ok = IntersectSphere(r, mgl64.Vec3{5, 0, 0}, 2)
	assert.False(t, ok, "miss to the side")

	_, ok = IntersectSphere(r, mgl64.Vec3{0, 0, 20}, 2)
	assert.False(t, ok, "sphere behind the origin")

	inside := Ray{Origin: mgl64.Vec3{}, Dir: mgl64.Vec3{1, 0, 0}}
	d, ok = IntersectSphere(inside, mgl64.Vec3{}, 3)
	require.True(t, ok)
	assert.InDelta(t, 3, d, 1e-12)
}

func TestPickReturnsNearest(t *testing.T) {
	r := Ray{Origin: mgl64.Vec3{0, 0, 100}, Dir: mgl64.Vec3{0, 0, -1}}
	targets := []Target{
		{ID: "far", Center: mgl64.Vec3{0, 0, 0}, Radius: 5},
		{ID: "near", Center: mgl64.Vec3{0, 0, 50}, Radius: 1},
		{ID: "off", Center: mgl64.Vec3{30, 0, 60}, Radius: 1},
	}

	hit, ok := Pick(r, targets)
	require.True(t, ok)
	assert.Equal(t, "near", hit.ID)
	assert.InDelta(t, 49, hit.Distance, 1e-12)
	assert.InDelta(t, 51, hit.Point.Z(), 1e-12)

	_, ok = Pick(r, targets[2:])
	assert.False(t, ok)
}

func TestResolverCentreHitsOrigin(t *testing.T) {
	cam := camera.New(4.0 / 3.0)
	res := Resolver{Camera: cam, Viewport: Viewport{Width: 800, Height: 600}}
	sun := Target{ID: "Sun", Center: mgl64.Vec3{}, Radius: 5}

	hit, ok := res.Resolve(400, 300, []Target{sun})
	require.True(t, ok)
	assert.Equal(t, "Sun", hit.ID)
	assert.InDelta(t, cam.Position.Len()-5, hit.Distance, 1e-6)

	_, ok = res.Resolve(2, 2, []Target{sun})
	assert.False(t, ok, "corner of the screen sees empty space")
}

func TestProjectThenResolveRoundTrip(t *testing.T) {
	cam := camera.New(16.0 / 9.0)
	res := Resolver{Camera: cam, Viewport: Viewport{Width: 1280, Height: 720}}
	earth := Target{ID: "Earth", NodeID: 12, Center: mgl64.Vec3{35, 0, 0}, Radius: 1}
	mars := Target{ID: "Mars", NodeID: 14, Center: mgl64.Vec3{-45, 0, 0}, Radius: 0.5}

	x, y, ok := res.Project(earth.Center)
	require.True(t, ok)
	assert.Greater(t, x, 640.0, "+X lands right of centre")

	hit, ok := res.Resolve(x, y, []Target{mars, earth})
	require.True(t, ok)
	assert.Equal(t, "Earth", hit.ID)
	assert.Equal(t, uint32(12), hit.NodeID)
}

func TestFromCameraCentreLooksAtTarget(t *testing.T) {
	cam := camera.New(2)
	vp := Viewport{Width: 200, Height: 100}

	r, ok := FromCamera(cam, vp, 100, 50)
	require.True(t, ok)
	assert.InDelta(t, 1, r.Dir.Dot(cam.Forward()), 1e-9)
	assert.Equal(t, cam.Position, r.Origin)

	up, ok := FromCamera(cam, vp, 100, 0)
	require.True(t, ok)
	assert.Greater(t, up.Dir.Dot(cam.Up), 0.0, "top edge tilts toward up")

	_, ok = FromCamera(cam, Viewport{}, 0, 0)
	assert.False(t, ok)
}

func TestProjectBehindCamera(t *testing.T) {
	cam := camera.New(1)
	res := Resolver{Camera: cam, Viewport: Viewport{Width: 100, Height: 100}}
	_, _, ok := res.Project(mgl64.Vec3{0, 100, 200})
	assert.False(t, ok)
}
