package engine

type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	Click
	Wheel
	Resize
)

func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "pointer_down"
	case PointerMove:
		return "pointer_move"
	case PointerUp:
		return "pointer_up"
	case Click:
		return "click"
	case Wheel:
		return "wheel"
	case Resize:
		return "resize"
	default:
		return "unknown"
	}
}

// Event is a pointer or viewport event in viewport pixels.
type Event struct {
	Kind   EventKind
	X, Y   float64
	DeltaY float64 // Wheel
	Width  int     // Resize
	Height int     // Resize
}

// Surface is the host viewport: it knows its size and delivers input.
type Surface interface {
	Size() (width, height int)
	Listen(fn func(Event)) (cancel func())
}

// Hub is a Surface that frontends feed with Emit.
type Hub struct {
	width, height int
	listeners     []hubListener
	next          int
}

type hubListener struct {
	id int
	fn func(Event)
}

func NewHub(width, height int) *Hub {
	return &Hub{width: width, height: height}
}

func (h *Hub) Size() (int, int) { return h.width, h.height }

// Listen registers fn. The returned cancel removes exactly this registration.
func (h *Hub) Listen(fn func(Event)) func() {
	h.next++
	id := h.next
	h.listeners = append(h.listeners, hubListener{id: id, fn: fn})
	return func() {
		for i, l := range h.listeners {
			if l.id == id {
				h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers ev to every listener in registration order. Resize events also
// update the hub's size.
func (h *Hub) Emit(ev Event) {
	if ev.Kind == Resize {
		h.width, h.height = ev.Width, ev.Height
	}
	for _, l := range append([]hubListener(nil), h.listeners...) {
		l.fn(ev)
	}
}

func (h *Hub) Listeners() int { return len(h.listeners) }
