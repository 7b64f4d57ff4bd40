// Package picking resolves which body, if any, lies under a 2D pointer
// position. Bodies are treated as analytic spheres.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/solarsim/internal/camera"
)

// Viewport is the drawable area in pixels.
type Viewport struct {
	Width  int
	Height int
}

func (v Viewport) Empty() bool { return v.Width <= 0 || v.Height <= 0 }

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

func (r Ray) At(t float64) mgl64.Vec3 { return r.Origin.Add(r.Dir.Mul(t)) }

// FromCamera builds the ray from the camera through pixel (x, y) of vp. It
// reports false for an empty viewport or a singular camera.
func FromCamera(cam *camera.Camera, vp Viewport, x, y float64) (Ray, bool) {
	if vp.Empty() {
		return Ray{}, false
	}
	// Window coordinates have y pointing up.
	win := mgl64.Vec3{x, float64(vp.Height) - y, 0.5}
	p, err := mgl64.UnProject(win, cam.View(), cam.Projection(), 0, 0, vp.Width, vp.Height)
	if err != nil {
		return Ray{}, false
	}
	dir := p.Sub(cam.Position)
	if dir.Len() == 0 {
		dir = cam.Forward()
	}
	return Ray{Origin: cam.Position, Dir: dir.Normalize()}, true
}

// IntersectSphere returns the ray parameter of the first intersection in front
// of the origin.
func IntersectSphere(r Ray, center mgl64.Vec3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Target is a pickable sphere.
type Target struct {
	ID     string
	NodeID uint32
	Center mgl64.Vec3
	Radius float64
}

type Hit struct {
	ID       string
	NodeID   uint32
	Distance float64
	Point    mgl64.Vec3
}

// Pick returns the nearest target hit by r. On equal distance the earlier
// target wins.
func Pick(r Ray, targets []Target) (Hit, bool) {
	var best Hit
	found := false
	for _, tg := range targets {
		t, ok := IntersectSphere(r, tg.Center, tg.Radius)
		if !ok {
			continue
		}
		if !found || t < best.Distance {
			best = Hit{ID: tg.ID, NodeID: tg.NodeID, Distance: t, Point: r.At(t)}
			found = true
		}
	}
	return best, found
}

// Resolver picks against a camera and viewport.
type Resolver struct {
	Camera   *camera.Camera
	Viewport Viewport
}

// Resolve maps a pointer position to the nearest target under it.
func (r Resolver) Resolve(x, y float64, targets []Target) (Hit, bool) {
	if r.Camera == nil {
		return Hit{}, false
	}
	ray, ok := FromCamera(r.Camera, r.Viewport, x, y)
	if !ok {
		return Hit{}, false
	}
	return Pick(ray, targets)
}

// Project maps a world point to pixel coordinates. It reports false for points
// behind the camera.
func (r Resolver) Project(p mgl64.Vec3) (x, y float64, ok bool) {
	if r.Camera == nil || r.Viewport.Empty() {
		return 0, 0, false
	}
	view, proj := r.Camera.View(), r.Camera.Projection()
	if proj.Mul4(view).Mul4x1(p.Vec4(1)).W() <= 0 {
		return 0, 0, false
	}
	win := mgl64.Project(p, view, proj, 0, 0, r.Viewport.Width, r.Viewport.Height)
	return win.X(), float64(r.Viewport.Height) - win.Y(), true
}
