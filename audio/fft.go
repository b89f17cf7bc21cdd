package audio

import (
	"sync"
	"sync/atomic"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/mjibson/go-dsp/fft"
)

const (
	backendAlgoFFT = "algo-fft"
	backendGoDSP   = "go-dsp"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

// forwardPlan is the part of an algo-fft plan the analyzer uses.
type forwardPlan interface {
	Forward(dst, src []complex128) error
}

// realFFT computes one-sided magnitude spectra of length-n real blocks.
//
// It transforms with an algo-fft plan. If planning fails, or a planned
// transform returns an error, it switches to the go-dsp real transform for
// good.
type realFFT struct {
	n    int
	bins int

	plan forwardPlan
	in   []complex128
	out  []complex128

	// fallback is read by Backend from any goroutine.
	fallback atomic.Bool
}

func newRealFFT(n int) *realFFT {
	r := &realFFT{n: n, bins: n/2 + 1}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		r.fallback.Store(true)
		return r
	}
	r.setPlan(plan)
	return r
}

func (r *realFFT) setPlan(p forwardPlan) {
	r.plan = p
	r.in = make([]complex128, r.n)
	r.out = make([]complex128, r.n)
	r.fallback.Store(false)
}

// Backend names the transform in use.
func (r *realFFT) Backend() string {
	if r.fallback.Load() {
		return backendGoDSP
	}
	return backendAlgoFFT
}

// magnitude writes |X[k]| for k in [0, n/2] into dst. len(x) must be n and
// len(dst) must be n/2+1. It is not safe for concurrent use.
func (r *realFFT) magnitude(dst, x []float64) {
	coeffs := r.transform(x)

	re, im, buf := getScratch(r.bins)
	for k := 0; k < r.bins; k++ {
		re[k] = real(coeffs[k])
		im[k] = imag(coeffs[k])
	}

	vecmath.Magnitude(dst[:r.bins], re, im)
	scratchPool.Put(buf)
}

func (r *realFFT) transform(x []float64) []complex128 {
	if !r.fallback.Load() {
		for i, v := range x {
			r.in[i] = complex(v, 0)
		}
		if err := r.plan.Forward(r.out, r.in); err == nil {
			return r.out
		}
		r.fallback.Store(true)
	}
	return fft.FFTReal(x)
}
