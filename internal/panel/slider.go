package panel

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/solarsim/internal/bodies"
)

const (
	SpeedMin     = 0.0
	SpeedMax     = 5.0
	SpeedStep    = 0.1
	SpeedDefault = 1.0
)

// Slider is one speed control. Values are clamped to [SpeedMin, SpeedMax] and
// snapped to SpeedStep.
type Slider struct {
	Body  string
	value float64
}

func NewSlider(body string) *Slider {
	return &Slider{Body: body, value: SpeedDefault}
}

func (s *Slider) Value() float64 { return s.value }

// Set stores v after clamping and snapping, and returns the stored value.
func (s *Slider) Set(v float64) float64 {
	if math.IsNaN(v) {
		v = SpeedDefault
	}
	v = math.Max(SpeedMin, math.Min(SpeedMax, v))
	s.value = math.Round(v/SpeedStep) / (1 / SpeedStep)
	return s.value
}

// Step moves the slider by n steps.
func (s *Slider) Step(n int) float64 {
	return s.Set(s.value + float64(n)*SpeedStep)
}

func (s *Slider) Reset() { s.value = SpeedDefault }

// Bar renders the slider as a fixed-width track.
func (s *Slider) Bar(width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(s.value / SpeedMax * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (s *Slider) String() string { return fmt.Sprintf("%.1fx", s.value) }

// SpeedSetter is the part of the engine a speed panel drives.
type SpeedSetter interface {
	SetPlanetSpeed(id string, multiplier float64) error
}

// SpeedPanel holds one slider per body in registry order.
type SpeedPanel struct {
	sliders []*Slider
	byName  map[string]*Slider
}

func NewSpeedPanel(specs []bodies.Spec) *SpeedPanel {
	p := &SpeedPanel{byName: make(map[string]*Slider, len(specs))}
	for _, s := range specs {
		sl := NewSlider(s.Name)
		p.sliders = append(p.sliders, sl)
		p.byName[s.Name] = sl
	}
	return p
}

func (p *SpeedPanel) Sliders() []*Slider { return p.sliders }

func (p *SpeedPanel) Slider(body string) (*Slider, bool) {
	s, ok := p.byName[body]
	return s, ok
}

// Set moves one slider and pushes the snapped value to target.
func (p *SpeedPanel) Set(target SpeedSetter, body string, v float64) error {
	s, ok := p.byName[body]
	if !ok {
		return fmt.Errorf("panel: no slider for %q", body)
	}
	return target.SetPlanetSpeed(body, s.Set(v))
}

// Nudge steps one slider by n and pushes the result to target.
func (p *SpeedPanel) Nudge(target SpeedSetter, body string, n int) error {
	s, ok := p.byName[body]
	if !ok {
		return fmt.Errorf("panel: no slider for %q", body)
	}
	return target.SetPlanetSpeed(body, s.Step(n))
}

// Apply pushes every slider value to target.
func (p *SpeedPanel) Apply(target SpeedSetter) error {
	for _, s := range p.sliders {
		if err := target.SetPlanetSpeed(s.Body, s.value); err != nil {
			return err
		}
	}
	return nil
}

// ResetAll returns every slider to the default and pushes it to target.
func (p *SpeedPanel) ResetAll(target SpeedSetter) error {
	for _, s := range p.sliders {
		s.Reset()
	}
	return p.Apply(target)
}

// Render draws the panel as one line per body.
func (p *SpeedPanel) Render(t Theme, selected string, barWidth int) string {
	var b strings.Builder
	b.WriteString(t.Title().Render("Speed Controls"))
	b.WriteString("\n")
	for _, s := range p.sliders {
		name := fmt.Sprintf("%-8s", s.Body)
		if s.Body == selected {
			name = t.Selected().Render(name)
		} else {
			name = t.Value().Render(name)
		}
		fmt.Fprintf(&b, "%s %s %s\n", name, t.Subtle().Render(s.Bar(barWidth)), t.Value().Render(s.String()))
	}
	return strings.TrimRight(b.String(), "\n")
}
