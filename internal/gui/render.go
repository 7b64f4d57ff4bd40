package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/scene"
)

// Renderer draws a scene.World with raylib. It must be called between
// rl.BeginDrawing and rl.EndDrawing.
type Renderer struct {
	ShowOrbits bool
	disposed   bool
}

func NewRenderer() *Renderer { return &Renderer{ShowOrbits: true} }

func (r *Renderer) Render(w *scene.World, cam *camera.Camera) {
	if r.disposed || w == nil || cam == nil {
		return
	}
	rl.BeginMode3D(toRaylibCamera(cam))
	defer rl.EndMode3D()

	r.drawStars(w.Stars)

	light := mgl64.Vec3{}
	if w.SunLight != nil {
		light = w.SunLight.WorldPosition()
	}
	ambient := 0.0
	if w.Ambient != nil {
		ambient = w.Ambient.Intensity
	}

	for _, b := range w.Bodies {
		if r.ShowOrbits && !b.Spec.Star {
			rl.DrawCircle3D(rl.Vector3{}, float32(b.Spec.Distance), rl.NewVector3(1, 0, 0), 90, rl.NewColor(255, 255, 255, 24))
		}
		if !b.Mesh.Visible {
			continue
		}
		pos := b.WorldPosition()
		col := nodeColor(b.Mesh.Color, 1)
		if !b.Mesh.Emissive {
			col = shade(b.Mesh.Color, pos, cam.Position, light, ambient)
		}
		rl.DrawSphereEx(vec3(pos), float32(b.Mesh.Radius), 24, 24, col)
	}

	// Translucent glow last so it blends over the star.
	if g := w.Glow; g != nil && g.Visible {
		rl.DrawSphereEx(vec3(g.WorldPosition()), float32(g.Radius), 24, 24, nodeColor(g.Color, g.Opacity))
	}
}

func (r *Renderer) drawStars(stars *scene.Node) {
	if stars == nil || !stars.Visible {
		return
	}
	col := nodeColor(stars.Color, stars.Opacity)
	for _, p := range stars.Points {
		rl.DrawPoint3D(vec3(p), col)
	}
}

func (r *Renderer) Dispose() { r.disposed = true }

// shade applies a Lambert term from the sun's point light, seen from the
// camera side of the body.
func shade(color uint32, pos, eye, light mgl64.Vec3, ambient float64) rl.Color {
	toLight := light.Sub(pos)
	toEye := eye.Sub(pos)
	if toLight.Len() == 0 || toEye.Len() == 0 {
		return nodeColor(color, 1)
	}
	lambert := math.Max(0, toLight.Normalize().Dot(toEye.Normalize()))
	k := math.Min(1, ambient+0.35+0.65*lambert)

	base := hexColor(color)
	lit := base.BlendLab(colorful.Color{}, 1-k).Clamped()
	r, g, b := lit.RGB255()
	return rl.NewColor(r, g, b, 255)
}

func toRaylibCamera(c *camera.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(c.Position),
		Target:     vec3(c.Target),
		Up:         vec3(c.Up),
		Fovy:       float32(c.FOV),
		Projection: rl.CameraPerspective,
	}
}

func vec3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

func hexColor(c uint32) colorful.Color {
	return colorful.Color{
		R: float64(uint8(c>>16)) / 255,
		G: float64(uint8(c>>8)) / 255,
		B: float64(uint8(c)) / 255,
	}
}

func nodeColor(c uint32, opacity float64) rl.Color {
	r, g, b := hexColor(c).RGB255()
	return rl.NewColor(r, g, b, uint8(math.Round(math.Max(0, math.Min(1, opacity))*255)))
}
