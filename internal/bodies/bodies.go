package bodies

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Spec describes one body. Values are scene units, not physical ones.
type Spec struct {
	Name         string
	Radius       float64
	Distance     float64 // orbital radius from the origin
	AngularSpeed float64 // base revolution rate, rad/s
	Color        uint32  // 0xRRGGBB
	PeriodDays   float64 // display only
	Description  string
	Facts        []string
	Star         bool
}

// SunName is the identifier of the only star in the table.
const SunName = "Sun"

var table = []Spec{
	{
		Name:         SunName,
		Radius:       5,
		Distance:     0,
		AngularSpeed: 0,
		Color:        0xffff00,
		PeriodDays:   0,
		Description:  "The star at the centre of the solar system. It holds 99.8% of the system's mass and lights every planet.",
		Facts: []string{
			"Light from the Sun reaches Earth in about 8 minutes",
			"Its core temperature is around 15 million °C",
			"It is roughly 4.6 billion years old",
			"About 1.3 million Earths could fit inside it",
		},
		Star: true,
	},
	{
		Name:         "Mercury",
		Radius:       0.4,
		Distance:     15,
		AngularSpeed: 0.048,
		Color:        0x8c7853,
		PeriodDays:   88,
		Description:  "The smallest planet in our solar system and the closest to the Sun. Mercury has extreme temperature variations.",
		Facts: []string{
			"A day on Mercury lasts 59 Earth days",
			"Surface temperatures can reach 800°F (430°C)",
			"Has no atmosphere to retain heat",
			"Named after the Roman messenger god",
		},
	},
	{
		Name:         "Venus",
		Radius:       0.9,
		Distance:     25,
		AngularSpeed: 0.035,
		Color:        0xffc649,
		PeriodDays:   225,
		Description:  "The hottest planet in our solar system due to its thick atmosphere. Often called Earth's twin.",
		Facts: []string{
			"Hottest planet with surface temperature of 900°F (480°C)",
			"Has a thick, toxic atmosphere of carbon dioxide",
			"Rotates backwards compared to most planets",
			"Brightest natural object in the night sky after the Moon",
		},
	},
	{
		Name:         "Earth",
		Radius:       1,
		Distance:     35,
		AngularSpeed: 0.030,
		Color:        0x6b93d6,
		PeriodDays:   365,
		Description:  "Our home planet, the only known planet to harbor life. Has liquid water and a protective atmosphere.",
		Facts: []string{
			"Only known planet with life",
			"71% of surface is covered by water",
			"Has one natural satellite (the Moon)",
			"Atmosphere is 78% nitrogen and 21% oxygen",
		},
	},
	{
		Name:         "Mars",
		Radius:       0.5,
		Distance:     45,
		AngularSpeed: 0.024,
		Color:        0xc1440e,
		PeriodDays:   687,
		Description:  "The Red Planet, known for its iron oxide surface. Has the largest volcano in the solar system.",
		Facts: []string{
			"Has the largest volcano (Olympus Mons) in the solar system",
			"A day on Mars is 24 hours and 37 minutes",
			"Has polar ice caps made of water and carbon dioxide",
			"Has two small moons: Phobos and Deimos",
		},
	},
	{
		Name:         "Jupiter",
		Radius:       3,
		Distance:     70,
		AngularSpeed: 0.013,
		Color:        0xd8ca9d,
		PeriodDays:   4333,
		Description:  "The largest planet in our solar system. A gas giant with a Great Red Spot storm.",
		Facts: []string{
			"Largest planet in our solar system",
			"Great Red Spot is a storm larger than Earth",
			"Has at least 79 known moons",
			"Could fit all other planets inside it",
		},
	},
	{
		Name:         "Saturn",
		Radius:       2.5,
		Distance:     95,
		AngularSpeed: 0.010,
		Color:        0xfad5a5,
		PeriodDays:   10759,
		Description:  "Known for its prominent ring system. The least dense planet in our solar system.",
		Facts: []string{
			"Has the most spectacular ring system",
			"Less dense than water",
			"Has at least 82 known moons",
			"Titan, its largest moon, has lakes of liquid methane",
		},
	},
	{
		Name:         "Uranus",
		Radius:       2,
		Distance:     120,
		AngularSpeed: 0.007,
		Color:        0x4fd0e7,
		PeriodDays:   30687,
		Description:  "An ice giant that rotates on its side. Has a faint ring system and many moons.",
		Facts: []string{
			"Rotates on its side at a 98-degree angle",
			"Coldest planetary atmosphere in the solar system",
			"Has faint rings discovered in 1977",
			"Has 27 known moons",
		},
	},
	{
		Name:         "Neptune",
		Radius:       1.9,
		Distance:     150,
		AngularSpeed: 0.005,
		Color:        0x4b70dd,
		PeriodDays:   60190,
		Description:  "The windiest planet with speeds up to 1,500 mph. The farthest planet from the Sun.",
		Facts: []string{
			"Windiest planet with speeds up to 1,500 mph",
			"Takes 165 Earth years to orbit the Sun",
			"Has 14 known moons",
			"Great Dark Spot is a storm similar to Jupiter's Great Red Spot",
		},
	},
}

var index = func() map[string]int {
	m := make(map[string]int, len(table))
	for i, s := range table {
		if _, dup := m[s.Name]; dup {
			panic("bodies: duplicate name " + s.Name)
		}
		m[s.Name] = i
	}
	return m
}()

// All returns every body in registry order.
func All() []Spec {
	out := make([]Spec, len(table))
	for i, s := range table {
		out[i] = s.clone()
	}
	return out
}

// Planets returns the orbiting bodies, skipping the star.
func Planets() []Spec {
	out := make([]Spec, 0, len(table)-1)
	for _, s := range table {
		if !s.Star {
			out = append(out, s.clone())
		}
	}
	return out
}

// Names returns body names in registry order.
func Names() []string {
	out := make([]string, len(table))
	for i, s := range table {
		out[i] = s.Name
	}
	return out
}

func Len() int { return len(table) }

// Lookup finds a body by name.
func Lookup(name string) (Spec, bool) {
	i, ok := index[name]
	if !ok {
		return Spec{}, false
	}
	return table[i].clone(), true
}

// MustLookup is Lookup for names that come from this table. An unknown name is a
// programming error.
func MustLookup(name string) Spec {
	s, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("bodies: unknown body %q", name))
	}
	return s
}

// Index returns the registry position of name, or -1.
func Index(name string) int {
	if i, ok := index[name]; ok {
		return i
	}
	return -1
}

// FirstOrbiting returns the first non-star entry of specs, which is the
// default follow target. A table of stars only falls back to its first entry.
func FirstOrbiting(specs []Spec) (Spec, bool) {
	for _, s := range specs {
		if !s.Star {
			return s, true
		}
	}
	if len(specs) == 0 {
		return Spec{}, false
	}
	return specs[0], true
}

// FirstPlanet is FirstOrbiting over the registry.
func FirstPlanet() Spec {
	s, _ := FirstOrbiting(table)
	return s.clone()
}

func (s Spec) clone() Spec {
	c := s
	c.Facts = append([]string(nil), s.Facts...)
	return c
}

// RGB splits Color into 8-bit channels.
func (s Spec) RGB() (r, g, b uint8) {
	return uint8(s.Color >> 16), uint8(s.Color >> 8), uint8(s.Color)
}

// Colorful converts Color for blending and shading.
func (s Spec) Colorful() colorful.Color {
	r, g, b := s.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Hex formats Color as "#rrggbb".
func (s Spec) Hex() string { return s.Colorful().Hex() }
