package pattern

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-zome/audio"
	"github.com/cwbudde/algo-zome/frame"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// SoundReactive renders the audio-reactive pattern for a fixed pixel count.
// It keeps the rotating hue offset between frames and is not safe for
// concurrent use.
type SoundReactive struct {
	numPixels int
	tuning    Tuning
	hueOffset float64
}

// NewSoundReactive returns a renderer for numPixels pixels.
func NewSoundReactive(numPixels int, tuning Tuning) (*SoundReactive, error) {
	if numPixels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoPixels, numPixels)
	}
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	return &SoundReactive{numPixels: numPixels, tuning: tuning}, nil
}

// NumPixels returns the number of pixels rendered per frame.
func (p *SoundReactive) NumPixels() int { return p.numPixels }

// Tuning returns the active tuning.
func (p *SoundReactive) Tuning() Tuning { return p.tuning }

// HueOffset returns the current hue offset in [0, 1).
func (p *SoundReactive) HueOffset() float64 { return p.hueOffset }

// Render writes one frame into dst, growing it to NumPixels if needed, and
// returns it. It then advances the hue offset.
func (p *SoundReactive) Render(dst []frame.RGBA, frameID uint32, snap audio.Snapshot) []frame.RGBA {
	if cap(dst) < p.numPixels {
		dst = make([]frame.RGBA, p.numPixels)
	}
	dst = dst[:p.numPixels]

	bins := len(snap.Spectrum)
	if bins == 0 {
		for i := range dst {
			dst[i] = frame.Opaque(0, 0, 0)
		}
		p.advance()
		return dst
	}

	denom := math.Pow(snap.EMA, p.tuning.Exponent)
	shift := scroll(frameID, p.tuning.ScrollRate, bins)

	for i := range dst {
		rev := p.numPixels - 1 - i
		bin := (rev%bins + shift) % bins

		pos := float64(bin) / float64(bins)
		hue := wrapUnit(pos*pos*p.tuning.HueSpread + p.hueOffset)
		light := intensity(snap.Spectrum[bin], denom)

		dst[i] = hsl(hue, p.tuning.Saturation, light)
	}

	p.advance()
	return dst
}

func (p *SoundReactive) advance() {
	p.hueOffset = wrapUnit(p.hueOffset + p.tuning.HueStep)
}

// scroll returns round(frameID*rate) mod bins, rounding half to even.
func scroll(frameID uint32, rate float64, bins int) int {
	s := math.RoundToEven(float64(frameID) * rate)
	m := math.Mod(s, float64(bins))
	if m < 0 {
		m += float64(bins)
	}
	return int(m)
}

// intensity maps a bin magnitude to a lightness in [0, 1].
func intensity(mag, denom float64) float64 {
	if math.IsNaN(mag) {
		return 0
	}
	if !(denom > 0) {
		if mag > 0 {
			return 1
		}
		return 0
	}

	v := mag / denom
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 1:
		return 1
	}
	return v
}

func wrapUnit(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	x = math.Mod(x, 1)
	if x < 0 {
		x++
	}
	if x >= 1 {
		x = 0
	}
	return x
}

func hsl(hue, sat, light float64) frame.RGBA {
	c := colorful.Hsl(hue*360, sat, light).Clamped()
	return frame.FromUnit(c.R, c.G, c.B, 1)
}
