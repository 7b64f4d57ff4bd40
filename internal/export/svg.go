package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/solarsim/internal/scene"
)

// Point is one sample of a planar path.
type Point struct{ X, Y float64 }

const minBodyPx = 1.5

// WorldToSVG draws a top-down view of the world: orbit rings, the star's glow
// and every visible body at its current position. World +X is right and -Z is
// up.
func WorldToSVG(w *scene.World, size int) string {
	if w == nil || size <= 0 {
		return ""
	}

	extent := 1.0
	for _, b := range w.Bodies {
		if r := b.Spec.Distance + b.Spec.Radius; r > extent {
			extent = r
		}
	}
	half := float64(size) / 2
	scale := half * 0.95 / extent
	toPx := func(x, z float64) (float64, float64) {
		return half + x*scale, half + z*scale
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
`, size, size, size, size))

	sb.WriteString(`<g fill="none" stroke="#333844" stroke-width="1">` + "\n")
	for _, b := range w.Bodies {
		if b.Spec.Star || b.Spec.Distance == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", half, half, b.Spec.Distance*scale))
	}
	sb.WriteString("</g>\n")

	if g := w.Glow; g != nil && g.Visible {
		p := g.WorldPosition()
		cx, cy := toPx(p.X(), p.Z())
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="#%06x" fill-opacity="%.2f"/>`+"\n",
			cx, cy, g.Radius*scale, g.Color, g.Opacity))
	}

	sb.WriteString(`<g font-family="sans-serif" font-size="11" fill="#ffffff">` + "\n")
	for _, b := range w.Bodies {
		if !b.Mesh.Visible {
			continue
		}
		p := b.WorldPosition()
		cx, cy := toPx(p.X(), p.Z())
		r := math.Max(minBodyPx, b.Mesh.Radius*scale)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="#%06x"><title>%s</title></circle>`+"\n",
			cx, cy, r, b.Mesh.Color, b.Spec.Name))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f">%s</text>`+"\n", cx+r+3, cy-r-3, b.Spec.Name))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws points as one polyline fitted to width x height with
// 10% padding. Y grows upward.
func TrajectoryToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
