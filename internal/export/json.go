package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Sample is one body position at simulated time T.
type Sample struct {
	T     float64 `json:"t"`
	X     float64 `json:"x"`
	Z     float64 `json:"z"`
	Orbit float64 `json:"orbit"`
	Spin  float64 `json:"spin"`
}

// Trace is a recorded run of one body.
type Trace struct {
	Body     string   `json:"body"`
	Speed    float64  `json:"speed"`
	Dt       float64  `json:"dt"`
	Duration float64  `json:"duration"`
	Steps    int      `json:"steps"`
	Samples  []Sample `json:"samples"`
}

// Path returns the samples as a planar X/-Z path, the same orientation as
// WorldToSVG.
func (t *Trace) Path() []Point {
	pts := make([]Point, len(t.Samples))
	for i, s := range t.Samples {
		pts[i] = Point{X: s.X, Y: -s.Z}
	}
	return pts
}

func WriteJSON(w io.Writer, t *Trace) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(t)
}

func SaveJSON(path string, t *Trace) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer file.Close()
	return WriteJSON(file, t)
}

func LoadJSON(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("export: parse %s: %w", path, err)
	}
	return &t, nil
}

// SaveFile writes s to path with 0644 permissions.
func SaveFile(path, s string) error {
	if err := os.WriteFile(path, []byte(s), 0644); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
