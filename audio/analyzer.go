package audio

import (
	"math"
	"sync"
	"sync/atomic"
)

// Snapshot is the analyzer state after one chunk. It is immutable once
// published; Spectrum must not be modified by readers.
type Snapshot struct {
	// Seq counts processed chunks; 0 means no audio has arrived yet.
	Seq uint64
	// Spectrum is the newest magnitude spectrum scaled by Loudness.
	Spectrum []float64
	// Loudness is the scaled Euclidean norm of the newest chunk.
	Loudness float64
	// EMA is the smoothed loudness.
	EMA float64
}

// Analyzer turns audio chunks into loudness and spectral history.
//
// Process has a single writer: the source callback. Latest may be called from
// any goroutine at any time and never blocks.
type Analyzer struct {
	cfg AnalyzerConfig
	fft *realFFT

	// Writer-owned scratch.
	samples []float64
	mags    []float64
	ema     float64
	seq     uint64

	// ring holds cfg.History spectra; head is the index of the oldest.
	mu   sync.Mutex
	ring [][]float64
	head int

	latest atomic.Pointer[Snapshot]
}

// NewAnalyzer returns an Analyzer configured by opts.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	cfg := ApplyAnalyzerOptions(opts...)
	bins := cfg.Bins()

	a := &Analyzer{
		cfg:     cfg,
		fft:     newRealFFT(cfg.ChunkSize),
		samples: make([]float64, cfg.ChunkSize),
		mags:    make([]float64, bins),
		ema:     cfg.InitialEMA,
		ring:    make([][]float64, cfg.History),
	}
	for i := range a.ring {
		a.ring[i] = make([]float64, bins)
	}

	a.latest.Store(&Snapshot{Spectrum: make([]float64, bins), EMA: cfg.InitialEMA})
	return a
}

// Process analyzes one chunk of mono samples. Shorter chunks are zero padded
// and longer ones truncated to the configured chunk size.
func (a *Analyzer) Process(chunk []float32) {
	n := copyChunk(a.samples, chunk)

	var sumSquares float64
	for _, v := range a.samples[:n] {
		sumSquares += v * v
	}
	loudness := math.Sqrt(sumSquares) * a.cfg.LoudnessScale

	a.ema = loudness*a.cfg.Alpha + a.ema*(1-a.cfg.Alpha)

	a.fft.magnitude(a.mags, a.samples)

	spectrum := make([]float64, len(a.mags))
	for k, m := range a.mags {
		spectrum[k] = m * loudness
	}

	a.mu.Lock()
	copy(a.ring[a.head], spectrum)
	a.head = (a.head + 1) % len(a.ring)
	a.mu.Unlock()

	a.seq++
	a.latest.Store(&Snapshot{
		Seq:      a.seq,
		Spectrum: spectrum,
		Loudness: loudness,
		EMA:      a.ema,
	})
}

func copyChunk(dst []float64, chunk []float32) int {
	n := min(len(chunk), len(dst))
	for i := 0; i < n; i++ {
		dst[i] = float64(chunk[i])
	}
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	return n
}

// Latest returns the most recently published snapshot.
func (a *Analyzer) Latest() Snapshot {
	return *a.latest.Load()
}

// EMA returns the current smoothed loudness.
func (a *Analyzer) EMA() float64 {
	return a.latest.Load().EMA
}

// History returns a copy of the spectral ring ordered oldest to newest.
func (a *Analyzer) History() [][]float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([][]float64, len(a.ring))
	for i := range out {
		src := a.ring[(a.head+i)%len(a.ring)]
		out[i] = append([]float64(nil), src...)
	}
	return out
}

// Bins returns the number of spectral bins per snapshot.
func (a *Analyzer) Bins() int { return a.cfg.Bins() }

// Config returns the analyzer configuration.
func (a *Analyzer) Config() AnalyzerConfig { return a.cfg }

// Backend names the FFT implementation in use. It is safe to call while
// Process runs.
func (a *Analyzer) Backend() string { return a.fft.Backend() }
