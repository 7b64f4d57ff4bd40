package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/solarsim/internal/bodies"
)

// InfoCard renders the detail panel for one body. It reads only the spec.
func InfoCard(s bodies.Spec, t Theme, width int) string {
	var b strings.Builder

	b.WriteString(Swatch(s.Hex()) + " " + t.Title().Render(s.Name))
	b.WriteString("\n\n")

	distance := field(t, "Distance from Sun", fmt.Sprintf("%g AU", s.Distance))
	size := field(t, "Relative Size", fmt.Sprintf("%g", s.Radius))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, distance, "    ", size))
	b.WriteString("\n\n")

	if s.Star {
		b.WriteString(field(t, "Orbital Period", "n/a"))
	} else {
		b.WriteString(field(t, "Orbital Period", fmt.Sprintf("%g Earth days", s.PeriodDays)))
	}
	b.WriteString("\n\n")

	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	b.WriteString(t.Heading().Render("Description"))
	b.WriteString("\n")
	b.WriteString(t.Subtle().Width(inner).Render(s.Description))

	if len(s.Facts) > 0 {
		b.WriteString("\n\n")
		b.WriteString(t.Heading().Render("Interesting Facts"))
		for _, f := range s.Facts {
			b.WriteString("\n")
			b.WriteString(t.Subtle().Width(inner).Render("• " + f))
		}
	}

	return t.Box().Width(width).Render(b.String())
}

// EmptyCard is shown when nothing is selected.
func EmptyCard(t Theme, width int) string {
	body := t.Title().Render("Planet Information") + "\n\n" +
		t.Subtle().Render("Click on a planet to view detailed information about it.")
	return t.Box().Width(width).Render(body)
}

func field(t Theme, label, value string) string {
	return t.Heading().Render(label) + "\n" + t.Value().Render(value)
}
