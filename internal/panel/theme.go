package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme is the colour scheme for panels and HUDs. It never affects the engine.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Running    lipgloss.Color
	Paused     lipgloss.Color
}

var (
	ThemeDark = Theme{
		Name:       "dark",
		Primary:    lipgloss.Color("#60a5fa"), // blue-400
		Accent:     lipgloss.Color("#facc15"),
		Background: lipgloss.Color("#000000"),
		Surface:    lipgloss.Color("#1f2937"),
		Border:     lipgloss.Color("#374151"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#9ca3af"),
		Running:    lipgloss.Color("#34d399"),
		Paused:     lipgloss.Color("#fbbf24"),
	}

	ThemeLight = Theme{
		Name:       "light",
		Primary:    lipgloss.Color("#2563eb"), // blue-600
		Accent:     lipgloss.Color("#ca8a04"),
		Background: lipgloss.Color("#f3f4f6"),
		Surface:    lipgloss.Color("#ffffff"),
		Border:     lipgloss.Color("#e5e7eb"),
		Text:       lipgloss.Color("#111827"),
		Muted:      lipgloss.Color("#4b5563"),
		Running:    lipgloss.Color("#059669"),
		Paused:     lipgloss.Color("#d97706"),
	}

	Themes = []Theme{ThemeDark, ThemeLight}
)

// GetTheme returns a theme by name, falling back to dark.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDark
}

func (t Theme) Dark() bool { return t.Name == ThemeDark.Name }

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t.Dark() {
		return ThemeLight
	}
	return ThemeDark
}

func (t Theme) Title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Text)
}

func (t Theme) Heading() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Muted)
}

func (t Theme) Value() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text)
}

func (t Theme) Subtle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted)
}

func (t Theme) KeyHint() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
}

func (t Theme) Selected() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
}

func (t Theme) Box() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
}

func (t Theme) Status(paused bool) lipgloss.Style {
	c := t.Running
	if paused {
		c = t.Paused
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// GradientText colours each rune along a Lab blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, errA := colorful.Hex(string(start))
	b, errB := colorful.Hex(string(end))
	if errA != nil || errB != nil {
		return text
	}

	var sb strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := lipgloss.Color(a.BlendLab(b, t).Clamped().Hex())
		sb.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(r)))
	}
	return sb.String()
}

// Swatch renders a small dot in a body colour.
func Swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}
