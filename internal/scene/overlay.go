package scene

// Overlay is the screen-space UI layer that hosts body labels. Labels created
// through it must be removed through Label.Remove.
type Overlay interface {
	CreateLabel(id, text string) Label
}

// Label is a screen-space text element bound to one body.
type Label interface {
	ID() string
	Text() string
	Show(x, y float64)
	Hide()
	Visible() bool
	Position() (x, y float64)
	Remove()
}

// LabelLayer is an in-memory Overlay. Frontends draw whatever it holds.
type LabelLayer struct {
	labels map[string]*layerLabel
	order  []string
}

func NewLabelLayer() *LabelLayer {
	return &LabelLayer{labels: make(map[string]*layerLabel)}
}

func (l *LabelLayer) CreateLabel(id, text string) Label {
	lbl := &layerLabel{layer: l, id: id, text: text}
	if _, exists := l.labels[id]; !exists {
		l.order = append(l.order, id)
	}
	l.labels[id] = lbl
	return lbl
}

// Labels returns live labels in creation order.
func (l *LabelLayer) Labels() []Label {
	out := make([]Label, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.labels[id])
	}
	return out
}

// Visible returns labels currently shown.
func (l *LabelLayer) Visible() []Label {
	var out []Label
	for _, id := range l.order {
		if lbl := l.labels[id]; lbl.visible {
			out = append(out, lbl)
		}
	}
	return out
}

func (l *LabelLayer) Get(id string) (Label, bool) {
	lbl, ok := l.labels[id]
	if !ok {
		return nil, false
	}
	return lbl, true
}

func (l *LabelLayer) Len() int { return len(l.labels) }

func (l *LabelLayer) remove(lbl *layerLabel) {
	if cur, ok := l.labels[lbl.id]; !ok || cur != lbl {
		return
	}
	delete(l.labels, lbl.id)
	for i, id := range l.order {
		if id == lbl.id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

type layerLabel struct {
	layer   *LabelLayer
	id      string
	text    string
	x, y    float64
	visible bool
	removed bool
}

func (b *layerLabel) ID() string                   { return b.id }
func (b *layerLabel) Text() string                 { return b.text }
func (b *layerLabel) Visible() bool                { return b.visible && !b.removed }
func (b *layerLabel) Position() (float64, float64) { return b.x, b.y }

func (b *layerLabel) Show(x, y float64) {
	if b.removed {
		return
	}
	b.x, b.y = x, y
	b.visible = true
}

func (b *layerLabel) Hide() { b.visible = false }

func (b *layerLabel) Remove() {
	if b.removed {
		return
	}
	b.removed = true
	b.visible = false
	b.layer.remove(b)
}
