package testutil

import (
	"math"
	"math/rand"
)

// Sine returns a deterministic mono sine chunk.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = float32(amplitude * math.Sin(step*float64(i)))
	}
	return out
}

// BinSine returns a sine that lands exactly on FFT bin k of a length-n block.
func BinSine(k int, amplitude float64, length int) []float32 {
	return Sine(float64(k), float64(length), amplitude, length)
}

// Noise returns white noise with a fixed seed.
func Noise(seed int64, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = float32((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// DC returns a constant chunk.
func DC(value float32, length int) []float32 {
	out := make([]float32, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Silence returns a chunk of zeros.
func Silence(length int) []float32 {
	return make([]float32, length)
}
