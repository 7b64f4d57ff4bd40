package panel

import (
	"strings"

	"github.com/san-kum/solarsim/internal/camera"
)

// FollowSelector is the camera mode plus follow-target picker. Its options
// come from the registry; it starts on the first entry.
type FollowSelector struct {
	names []string
	pos   int
}

func NewFollowSelector(names []string) *FollowSelector {
	return &FollowSelector{names: append([]string(nil), names...)}
}

func (f *FollowSelector) Options() []string { return f.names }

// Current returns the highlighted option, or "" when there are none.
func (f *FollowSelector) Current() string {
	if len(f.names) == 0 {
		return ""
	}
	return f.names[f.pos]
}

func (f *FollowSelector) Next() string {
	if len(f.names) > 0 {
		f.pos = (f.pos + 1) % len(f.names)
	}
	return f.Current()
}

func (f *FollowSelector) Prev() string {
	if len(f.names) > 0 {
		f.pos = (f.pos - 1 + len(f.names)) % len(f.names)
	}
	return f.Current()
}

// Select moves to name. It reports false for names not on the list.
func (f *FollowSelector) Select(name string) bool {
	for i, n := range f.names {
		if n == name {
			f.pos = i
			return true
		}
	}
	return false
}

// Render draws the mode line and, in follow mode, the target list.
func (f *FollowSelector) Render(t Theme, mode camera.Mode, target string) string {
	var b strings.Builder
	b.WriteString(t.Heading().Render("Camera") + " ")
	for _, m := range []camera.Mode{camera.ModeFree, camera.ModeFollow} {
		label := "[" + m.String() + "]"
		if m == mode {
			b.WriteString(t.Selected().Render(label))
		} else {
			b.WriteString(t.Subtle().Render(label))
		}
		b.WriteString(" ")
	}
	if mode != camera.ModeFollow {
		return strings.TrimRight(b.String(), " ")
	}
	b.WriteString("\n")
	for i, n := range f.names {
		if i > 0 {
			b.WriteString(t.Subtle().Render(" · "))
		}
		if n == target {
			b.WriteString(t.Selected().Render(n))
		} else {
			b.WriteString(t.Subtle().Render(n))
		}
	}
	return b.String()
}
