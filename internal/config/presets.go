package config

import "sort"

// Preset is a named set of per-body speed multipliers. Bodies it omits keep 1.0.
type Preset struct {
	Description string
	Speeds      map[string]float64
}

var Presets = map[string]*Preset{
	"normal": {
		Description: "every body at its base speed",
		Speeds:      map[string]float64{},
	},
	"inner-rush": {
		Description: "inner planets at triple speed",
		Speeds: map[string]float64{
			"Mercury": 3, "Venus": 3, "Earth": 3, "Mars": 3,
		},
	},
	"outer-freeze": {
		Description: "gas and ice giants held still",
		Speeds: map[string]float64{
			"Jupiter": 0, "Saturn": 0, "Uranus": 0, "Neptune": 0,
		},
	},
	"frozen": {
		Description: "every planet held still",
		Speeds: map[string]float64{
			"Mercury": 0, "Venus": 0, "Earth": 0, "Mars": 0,
			"Jupiter": 0, "Saturn": 0, "Uranus": 0, "Neptune": 0,
		},
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
