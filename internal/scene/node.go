package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"
)

type Kind int

const (
	KindGroup Kind = iota
	KindMesh
	KindPoints
	KindAmbientLight
	KindPointLight
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMesh:
		return "mesh"
	case KindPoints:
		return "points"
	case KindAmbientLight:
		return "ambient_light"
	case KindPointLight:
		return "point_light"
	default:
		return "unknown"
	}
}

// Node is one element of the scene graph. Transforms are a translation followed
// by a rotation about +Y, which is all the solar system needs.
type Node struct {
	ID        uint32
	Name      string
	Kind      Kind
	Position  mgl64.Vec3
	RotationY float64
	Visible   bool

	// Mesh material.
	Radius        float64
	Color         uint32
	Opacity       float64
	Emissive      bool
	CastShadow    bool
	ReceiveShadow bool
	Pickable      bool

	// Lights.
	Intensity float64
	Decay     float64

	// Points primitive; positions are local to the node.
	Points    []mgl64.Vec3
	PointSize float64

	parent   *Node
	children []*Node
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// LocalMatrix is T(position) * Ry(rotation).
func (n *Node) LocalMatrix() mgl64.Mat4 {
	return mgl64.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z()).
		Mul4(mgl64.HomogRotate3DY(n.RotationY))
}

// WorldMatrix composes every ancestor's local transform.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.WorldMatrix().Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
}

// Scene is the single shared scene graph of an engine session.
type Scene struct {
	Root   *Node
	nodes  *intmap.Map[uint32, *Node]
	nextID uint32
}

func New() *Scene {
	s := &Scene{nodes: intmap.New[uint32, *Node](64)}
	s.Root = s.NewNode(KindGroup, "root")
	return s
}

// NewNode allocates a node with a fresh id. It is not attached until Add.
func (s *Scene) NewNode(kind Kind, name string) *Node {
	s.nextID++
	n := &Node{ID: s.nextID, Name: name, Kind: kind, Visible: true, Opacity: 1}
	s.nodes.Put(n.ID, n)
	return n
}

// Add attaches child under parent, detaching it from any previous parent.
func (s *Scene) Add(parent, child *Node) {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = parent
	parent.children = append(parent.children, child)
	s.register(child)
}

// Remove detaches n and forgets it and its subtree.
func (s *Scene) Remove(n *Node) {
	if n == nil || n == s.Root {
		return
	}
	if n.parent != nil {
		n.parent.removeChild(n)
		n.parent = nil
	}
	s.unregister(n)
}

// Node resolves an id to a live node.
func (s *Scene) Node(id uint32) (*Node, bool) {
	return s.nodes.Get(id)
}

// Len counts registered nodes, root included.
func (s *Scene) Len() int { return s.nodes.Len() }

// Walk visits attached nodes depth-first; returning false skips the subtree.
func (s *Scene) Walk(fn func(*Node) bool) {
	var visit func(*Node)
	visit = func(n *Node) {
		if !fn(n) {
			return
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(s.Root)
}

func (s *Scene) register(n *Node) {
	s.nodes.Put(n.ID, n)
	for _, c := range n.children {
		s.register(c)
	}
}

func (s *Scene) unregister(n *Node) {
	s.nodes.Del(n.ID)
	for _, c := range n.children {
		s.unregister(c)
	}
}

func (n *Node) removeChild(c *Node) {
	for i, cc := range n.children {
		if cc == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}
