package pattern

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Tuning parameterizes the sound-reactive color mapping.
type Tuning struct {
	Name string
	// Exponent applied to the smoothed loudness before it divides a bin
	// magnitude. Above 1, loud passages are compressed.
	Exponent float64
	// HueStep is added to the hue offset after every frame.
	HueStep float64
	// HueSpread scales the squared bin position into a hue range.
	HueSpread float64
	// ScrollRate is how many bins the spectrum moves per frame.
	ScrollRate float64
	// Saturation of every pixel, in [0, 1].
	Saturation float64
}

// Compressed divides by the loudness raised to 1.3 and rotates the hue slowly.
// It is the default.
var Compressed = Tuning{
	Name:       "compressed",
	Exponent:   1.3,
	HueStep:    0.001,
	HueSpread:  0.5,
	ScrollRate: 0.25,
	Saturation: 1,
}

// Linear divides by the loudness itself and rotates the hue ten times faster.
var Linear = Tuning{
	Name:       "linear",
	Exponent:   1,
	HueStep:    0.01,
	HueSpread:  0.5,
	ScrollRate: 0.25,
	Saturation: 1,
}

var tunings = map[string]Tuning{
	Compressed.Name: Compressed,
	Linear.Name:     Linear,
}

// TuningNames lists the registered tunings in sorted order.
func TuningNames() []string {
	names := make([]string, 0, len(tunings))
	for name := range tunings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TuningByName returns a registered tuning. Names are case-insensitive; the
// empty name selects Compressed.
func TuningByName(name string) (Tuning, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Compressed, nil
	}
	t, ok := tunings[key]
	if !ok {
		return Tuning{}, fmt.Errorf("%w: %q (have %s)", ErrUnknownTuning, name, strings.Join(TuningNames(), ", "))
	}
	return t, nil
}

// Validate reports whether every parameter is usable.
func (t Tuning) Validate() error {
	checks := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"exponent", t.Exponent, t.Exponent >= 0},
		{"hue step", t.HueStep, true},
		{"hue spread", t.HueSpread, true},
		{"scroll rate", t.ScrollRate, true},
		{"saturation", t.Saturation, t.Saturation >= 0 && t.Saturation <= 1},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) || !c.ok {
			return fmt.Errorf("%w: %s = %v", ErrInvalidTuning, c.name, c.v)
		}
	}
	return nil
}
