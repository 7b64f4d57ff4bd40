package tui

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/picking"
	"github.com/san-kum/solarsim/internal/scene"
)

const orbitSamples = 96

var (
	starColor  = colorful.Color{R: 0.55, G: 0.55, B: 0.6}
	orbitColor = colorful.Color{R: 0.22, G: 0.24, B: 0.3}
	black      = colorful.Color{}
)

// Renderer rasterises a scene.World onto a braille Canvas.
type Renderer struct {
	Canvas     *Canvas
	ShowOrbits bool
	Frames     int
	disposed   bool
}

func NewRenderer(cols, rows int) *Renderer {
	return &Renderer{Canvas: NewCanvas(cols, rows), ShowOrbits: true}
}

// Resize replaces the canvas. The engine must be told the new pixel size
// separately through a Resize event.
func (r *Renderer) Resize(cols, rows int) { r.Canvas = NewCanvas(cols, rows) }

func (r *Renderer) Dispose() { r.disposed = true }

func (r *Renderer) viewport() picking.Viewport {
	w, h := r.Canvas.PixelSize()
	return picking.Viewport{Width: w, Height: h}
}

func (r *Renderer) Render(w *scene.World, cam *camera.Camera) {
	if r.disposed || w == nil || cam == nil {
		return
	}
	r.Frames++
	c := r.Canvas
	c.Clear()
	proj := picking.Resolver{Camera: cam, Viewport: r.viewport()}

	if w.Stars != nil && w.Stars.Visible {
		for _, p := range w.Stars.Points {
			if x, y, ok := proj.Project(p); ok {
				c.Set(int(x), int(y), starColor)
			}
		}
	}

	if r.ShowOrbits {
		for _, b := range w.Bodies {
			if b.Spec.Star || b.Spec.Distance == 0 {
				continue
			}
			for i := 0; i < orbitSamples; i++ {
				a := 2 * math.Pi * float64(i) / orbitSamples
				p := mgl64.Vec3{b.Spec.Distance * math.Cos(a), 0, -b.Spec.Distance * math.Sin(a)}
				if x, y, ok := proj.Project(p); ok {
					c.Set(int(x), int(y), orbitColor)
				}
			}
		}
	}

	if g := w.Glow; g != nil && g.Visible {
		glow := hexColor(g.Color).BlendLab(black, 1-g.Opacity)
		if x, y, rad, ok := projectSphere(proj, cam, g.WorldPosition(), g.Radius); ok {
			c.FillCircle(x, y, rad, func(float64, float64) colorful.Color { return glow })
		}
	}

	light := mgl64.Vec3{}
	if w.SunLight != nil {
		light = w.SunLight.WorldPosition()
	}
	ambient := 0.0
	if w.Ambient != nil {
		ambient = w.Ambient.Intensity
	}

	// Painter's order: far bodies first.
	order := append([]*scene.BodyInstance(nil), w.Bodies...)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].WorldPosition().Sub(cam.Position).Len() > order[j].WorldPosition().Sub(cam.Position).Len()
	})

	view := cam.View()
	for _, b := range order {
		if !b.Mesh.Visible {
			continue
		}
		pos := b.WorldPosition()
		x, y, rad, ok := projectSphere(proj, cam, pos, b.Mesh.Radius)
		if !ok {
			continue
		}
		base := hexColor(b.Mesh.Color)
		if b.Mesh.Emissive {
			c.FillCircle(x, y, rad, func(float64, float64) colorful.Color { return base })
			continue
		}
		// Light direction in view space, so disc offsets map onto the normal.
		l := view.Mul4x1(light.Sub(pos).Vec4(0)).Vec3()
		if l.Len() > 0 {
			l = l.Normalize()
		}
		c.FillCircle(x, y, rad, func(u, v float64) colorful.Color {
			n := mgl64.Vec3{u, -v, math.Sqrt(math.Max(0, 1-u*u-v*v))}
			k := math.Min(1, ambient+0.15+0.85*math.Max(0, n.Dot(l)))
			return base.BlendLab(black, 1-k)
		})
	}
}

// projectSphere returns the pixel centre and pixel radius of a sphere.
func projectSphere(proj picking.Resolver, cam *camera.Camera, center mgl64.Vec3, radius float64) (x, y, r float64, ok bool) {
	x, y, ok = proj.Project(center)
	if !ok {
		return 0, 0, 0, false
	}
	right := cam.Forward().Cross(cam.Up)
	if right.Len() == 0 {
		right = mgl64.Vec3{1, 0, 0}
	}
	ex, ey, ok := proj.Project(center.Add(right.Normalize().Mul(radius)))
	if !ok {
		return x, y, 0, true
	}
	return x, y, math.Hypot(ex-x, ey-y), true
}

func hexColor(c uint32) colorful.Color {
	return colorful.Color{
		R: float64(uint8(c>>16)) / 255,
		G: float64(uint8(c>>8)) / 255,
		B: float64(uint8(c)) / 255,
	}
}
