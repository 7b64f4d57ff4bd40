package scene

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"

	"github.com/san-kum/solarsim/internal/bodies"
)

const (
	DefaultStarCount  = 10000
	DefaultStarSpread = 2000.0

	// SpinRatio is how much faster a body spins than it revolves.
	SpinRatio = 2.0

	GlowRadius  = 7.0
	GlowOpacity = 0.3
)

var (
	ErrNoBodies   = errors.New("scene: body table is empty")
	ErrNilOverlay = errors.New("scene: overlay is nil")
	ErrDuplicate  = errors.New("scene: duplicate body")
)

type Options struct {
	StarCount  int
	StarSpread float64
	Seed       int64
}

func DefaultOptions() Options {
	return Options{StarCount: DefaultStarCount, StarSpread: DefaultStarSpread, Seed: 1}
}

// BodyInstance is the live scene representation of one body: a pivot at the
// origin whose rotation is the orbit angle, and a mesh offset along +X whose own
// rotation is the spin angle.
type BodyInstance struct {
	Spec  bodies.Spec
	Pivot *Node
	Mesh  *Node
	Label Label
}

func (b *BodyInstance) OrbitAngle() float64 { return b.Pivot.RotationY }
func (b *BodyInstance) SpinAngle() float64  { return b.Mesh.RotationY }

// Advance revolves the body by step radians and spins it by SpinRatio*step.
func (b *BodyInstance) Advance(step float64) {
	b.Pivot.RotationY += step
	b.Mesh.RotationY += step * SpinRatio
}

func (b *BodyInstance) Reset() {
	b.Pivot.RotationY = 0
	b.Mesh.RotationY = 0
}

func (b *BodyInstance) WorldPosition() mgl64.Vec3 { return b.Mesh.WorldPosition() }

// World is everything Build put into the scene.
type World struct {
	Scene    *Scene
	Bodies   []*BodyInstance
	Stars    *Node
	Glow     *Node
	Ambient  *Node
	SunLight *Node

	byName   map[string]*BodyInstance
	byMesh   *intmap.Map[uint32, *BodyInstance]
	disposed bool
}

// Build materializes the static world once per engine session.
func Build(specs []bodies.Spec, overlay Overlay, opts Options) (*World, error) {
	if len(specs) == 0 {
		return nil, ErrNoBodies
	}
	if overlay == nil {
		return nil, ErrNilOverlay
	}
	if opts.StarCount < 0 {
		return nil, fmt.Errorf("scene: star count must be non-negative, got %d", opts.StarCount)
	}
	if opts.StarSpread <= 0 {
		opts.StarSpread = DefaultStarSpread
	}

	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w %q", ErrDuplicate, spec.Name)
		}
		seen[spec.Name] = true
	}

	s := New()
	w := &World{
		Scene:  s,
		byName: make(map[string]*BodyInstance, len(specs)),
		byMesh: intmap.New[uint32, *BodyInstance](len(specs)),
	}

	w.Stars = buildStarfield(s, opts)
	w.Ambient, w.SunLight = buildLights(s)

	for _, spec := range specs {
		b := buildBody(s, spec)
		b.Label = overlay.CreateLabel(spec.Name, spec.Name)
		b.Label.Hide()
		w.Bodies = append(w.Bodies, b)
		w.byName[spec.Name] = b
		w.byMesh.Put(b.Mesh.ID, b)

		if spec.Star && w.Glow == nil {
			w.Glow = buildGlow(s, spec)
		}
	}
	return w, nil
}

func buildStarfield(s *Scene, opts Options) *Node {
	rng := rand.New(rand.NewSource(opts.Seed))
	n := s.NewNode(KindPoints, "starfield")
	n.Color = 0xffffff
	n.Opacity = 0.8
	n.PointSize = 0.5
	n.Points = make([]mgl64.Vec3, opts.StarCount)
	for i := range n.Points {
		n.Points[i] = mgl64.Vec3{
			(rng.Float64() - 0.5) * opts.StarSpread,
			(rng.Float64() - 0.5) * opts.StarSpread,
			(rng.Float64() - 0.5) * opts.StarSpread,
		}
	}
	s.Add(s.Root, n)
	return n
}

func buildLights(s *Scene) (ambient, point *Node) {
	ambient = s.NewNode(KindAmbientLight, "ambient")
	ambient.Color = 0x404040
	ambient.Intensity = 0.1
	s.Add(s.Root, ambient)

	point = s.NewNode(KindPointLight, "sunlight")
	point.Color = 0xffffff
	point.Intensity = 2
	point.Decay = 0.1
	point.CastShadow = true
	s.Add(s.Root, point)
	return ambient, point
}

func buildGlow(s *Scene, star bodies.Spec) *Node {
	g := s.NewNode(KindMesh, star.Name+"-glow")
	g.Radius = GlowRadius
	g.Color = star.Color
	g.Opacity = GlowOpacity
	s.Add(s.Root, g)
	return g
}

func buildBody(s *Scene, spec bodies.Spec) *BodyInstance {
	pivot := s.NewNode(KindGroup, spec.Name+"-pivot")
	s.Add(s.Root, pivot)

	mesh := s.NewNode(KindMesh, spec.Name)
	mesh.Position = mgl64.Vec3{spec.Distance, 0, 0}
	mesh.Radius = spec.Radius
	mesh.Color = spec.Color
	mesh.Pickable = true
	if spec.Star {
		mesh.Emissive = true
	} else {
		mesh.CastShadow = true
		mesh.ReceiveShadow = true
	}
	s.Add(pivot, mesh)

	return &BodyInstance{Spec: spec, Pivot: pivot, Mesh: mesh}
}

// Body looks up a live body by name.
func (w *World) Body(name string) (*BodyInstance, bool) {
	b, ok := w.byName[name]
	return b, ok
}

// BodyByNode maps a mesh node id back to its body. Nodes no longer in the
// scene resolve to nothing.
func (w *World) BodyByNode(id uint32) (*BodyInstance, bool) {
	if _, live := w.Scene.Node(id); !live {
		return nil, false
	}
	return w.byMesh.Get(id)
}

// Pickables returns the meshes a pointer ray may hit, in scene order. A hidden
// node hides its whole subtree.
func (w *World) Pickables() []*BodyInstance {
	out := make([]*BodyInstance, 0, len(w.Bodies))
	w.Scene.Walk(func(n *Node) bool {
		if !n.Visible {
			return false
		}
		if n.Kind == KindMesh && n.Pickable {
			if b, ok := w.byMesh.Get(n.ID); ok {
				out = append(out, b)
			}
		}
		return true
	})
	return out
}

// HideLabels hides every body label.
func (w *World) HideLabels() {
	for _, b := range w.Bodies {
		if b.Label != nil {
			b.Label.Hide()
		}
	}
}

// Dispose removes every label from the overlay and detaches the world from the
// scene graph. It is safe to call more than once.
func (w *World) Dispose() {
	if w.disposed {
		return
	}
	w.disposed = true
	for _, b := range w.Bodies {
		if b.Label != nil {
			b.Label.Remove()
		}
	}
	for _, c := range append([]*Node(nil), w.Scene.Root.Children()...) {
		w.Scene.Remove(c)
	}
}

func (w *World) Disposed() bool { return w.disposed }
