package pattern

import (
	"errors"
	"math"
	"testing"
)

func TestTuningByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "compressed"},
		{"compressed", "compressed"},
		{"Linear", "linear"},
		{" linear ", "linear"},
	}
	for _, tt := range tests {
		got, err := TuningByName(tt.name)
		if err != nil {
			t.Fatalf("TuningByName(%q): %v", tt.name, err)
		}
		if got.Name != tt.want {
			t.Fatalf("TuningByName(%q) = %q, want %q", tt.name, got.Name, tt.want)
		}
	}

	if _, err := TuningByName("strobe"); !errors.Is(err, ErrUnknownTuning) {
		t.Fatalf("TuningByName(strobe) = %v, want ErrUnknownTuning", err)
	}
}

func TestTuningNames(t *testing.T) {
	names := TuningNames()
	if len(names) != 2 || names[0] != "compressed" || names[1] != "linear" {
		t.Fatalf("TuningNames = %v", names)
	}
}

func TestTuningValidate(t *testing.T) {
	for _, tn := range []Tuning{Compressed, Linear} {
		if err := tn.Validate(); err != nil {
			t.Fatalf("%s: %v", tn.Name, err)
		}
	}

	mutations := map[string]func(*Tuning){
		"negative exponent": func(t *Tuning) { t.Exponent = -1 },
		"nan hue step":      func(t *Tuning) { t.HueStep = math.NaN() },
		"inf spread":        func(t *Tuning) { t.HueSpread = math.Inf(1) },
		"nan scroll":        func(t *Tuning) { t.ScrollRate = math.NaN() },
		"saturation > 1":    func(t *Tuning) { t.Saturation = 1.5 },
		"saturation < 0":    func(t *Tuning) { t.Saturation = -0.1 },
	}
	for name, mutate := range mutations {
		tn := Compressed
		mutate(&tn)
		if err := tn.Validate(); !errors.Is(err, ErrInvalidTuning) {
			t.Fatalf("%s: Validate = %v, want ErrInvalidTuning", name, err)
		}
	}
}
