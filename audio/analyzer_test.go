package audio

import (
	"errors"
	"math"
	"math/cmplx"
	"sync"
	"testing"

	"github.com/cwbudde/algo-zome/internal/testutil"
)

func naiveMagnitude(x []float64) []float64 {
	n := len(x)
	out := make([]float64, n/2+1)
	for k := range out {
		var sum complex128
		for i, v := range x {
			angle := -2 * math.Pi * float64(k*i) / float64(n)
			sum += complex(v, 0) * cmplx.Exp(complex(0, angle))
		}
		out[k] = cmplx.Abs(sum)
	}
	return out
}

func toFloat64(x []float32) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}

var errPlanFailed = errors.New("forward failed")

// failingPlan stands in for an algo-fft plan whose transform errors.
type failingPlan struct {
	calls int
}

func (p *failingPlan) Forward(dst, src []complex128) error {
	p.calls++
	return errPlanFailed
}

func TestRealFFTMatchesDFT(t *testing.T) {
	for _, n := range []int{64, 100, 1102} {
		x := toFloat64(testutil.Noise(int64(n), 1, n))
		want := naiveMagnitude(x)

		planned := newRealFFT(n)
		if planned.Backend() != backendAlgoFFT {
			t.Fatalf("n=%d: Backend = %q, want %q", n, planned.Backend(), backendAlgoFFT)
		}
		got := make([]float64, n/2+1)
		planned.magnitude(got, x)
		testutil.RequireSliceNearlyEqual(t, got, want, 1e-6)

		broken := newRealFFT(n)
		plan := &failingPlan{}
		broken.setPlan(plan)
		broken.magnitude(got, x)
		testutil.RequireSliceNearlyEqual(t, got, want, 1e-6)
		if broken.Backend() != backendGoDSP {
			t.Fatalf("n=%d: Backend after failed Forward = %q, want %q", n, broken.Backend(), backendGoDSP)
		}

		broken.magnitude(got, x)
		testutil.RequireSliceNearlyEqual(t, got, want, 1e-6)
		if plan.calls != 1 {
			t.Fatalf("n=%d: Forward called %d times, want 1", n, plan.calls)
		}
	}
}

func TestAnalyzerSwitchesToGoDSPOnForwardError(t *testing.T) {
	a := NewAnalyzer()
	if a.Backend() != backendAlgoFFT {
		t.Fatalf("Backend = %q, want %q", a.Backend(), backendAlgoFFT)
	}

	a.fft.setPlan(&failingPlan{})
	a.Process(testutil.BinSine(50, 0.3, 1102))

	if a.Backend() != backendGoDSP {
		t.Fatalf("Backend = %q, want %q", a.Backend(), backendGoDSP)
	}
	if got := testutil.ArgMax(a.Latest().Spectrum); got != 50 {
		t.Fatalf("peak bin = %d, want 50", got)
	}
}

func TestBackendConcurrentWithProcess(t *testing.T) {
	a := NewAnalyzer(WithChunkSize(128))
	a.fft.setPlan(&failingPlan{})
	chunk := testutil.Noise(3, 0.5, 128)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			a.Process(chunk)
		}
	}()

	for {
		select {
		case <-done:
			if a.Backend() != backendGoDSP {
				t.Fatalf("Backend = %q, want %q", a.Backend(), backendGoDSP)
			}
			return
		default:
			_ = a.Backend()
		}
	}
}

func TestLoudnessIsScaledNorm(t *testing.T) {
	a := NewAnalyzer(WithChunkSize(100))

	a.Process(testutil.DC(0.5, 100))

	snap := a.Latest()
	testutil.RequireNearlyEqual(t, "loudness", snap.Loudness, 0.5*10*10, 1e-9)
	if snap.Seq != 1 {
		t.Fatalf("Seq = %d, want 1", snap.Seq)
	}
}

func TestEMARecurrence(t *testing.T) {
	const alpha = 0.1
	a := NewAnalyzer(WithChunkSize(64), WithAlpha(alpha), WithInitialEMA(10))
	chunk := testutil.DC(0.25, 64)
	loudness := 0.25 * 8 * 10

	want := 10.0
	for i := 0; i < 40; i++ {
		a.Process(chunk)
		want = loudness*alpha + want*(1-alpha)
		testutil.RequireNearlyEqual(t, "ema", a.EMA(), want, 1e-9)
	}
}

func TestEMAConvergesMonotonicallyOnSilence(t *testing.T) {
	a := NewAnalyzer(WithChunkSize(128))
	silence := testutil.Silence(128)

	prev := a.EMA()
	if prev != 10 {
		t.Fatalf("initial EMA = %v, want 10", prev)
	}

	for i := 0; i < 200; i++ {
		a.Process(silence)
		cur := a.EMA()
		if cur > prev {
			t.Fatalf("chunk %d: EMA rose from %v to %v", i, prev, cur)
		}
		if cur < 0 {
			t.Fatalf("chunk %d: EMA negative: %v", i, cur)
		}
		prev = cur
	}

	if prev > 1e-6 {
		t.Fatalf("EMA after 200 silent chunks = %v, want ~0", prev)
	}
}

func TestEMAConvergesMonotonicallyUpward(t *testing.T) {
	a := NewAnalyzer(WithChunkSize(100), WithInitialEMA(0))
	chunk := testutil.DC(1, 100)
	target := 1 * 10 * 10.0

	prev := a.EMA()
	for i := 0; i < 300; i++ {
		a.Process(chunk)
		cur := a.EMA()
		if cur < prev || cur > target+1e-9 {
			t.Fatalf("chunk %d: EMA %v not in [%v, %v]", i, cur, prev, target)
		}
		prev = cur
	}
	testutil.RequireNearlyEqual(t, "ema", prev, target, 1e-6)
}

func TestSpectrumScaledByLoudness(t *testing.T) {
	const n = 1024
	a := NewAnalyzer(WithChunkSize(n))
	chunk := testutil.BinSine(32, 0.5, n)

	a.Process(chunk)
	snap := a.Latest()

	if len(snap.Spectrum) != n/2+1 {
		t.Fatalf("bins = %d, want %d", len(snap.Spectrum), n/2+1)
	}
	if got := testutil.ArgMax(snap.Spectrum); got != 32 {
		t.Fatalf("peak bin = %d, want 32", got)
	}

	// |X[k]| of a bin-aligned sine is A*N/2.
	wantPeak := 0.5 * n / 2 * snap.Loudness
	testutil.RequireNearlyEqual(t, "peak", snap.Spectrum[32], wantPeak, wantPeak*1e-6)
}

func TestDefaultChunkPeak(t *testing.T) {
	a := NewAnalyzer()
	if a.Bins() != 552 {
		t.Fatalf("Bins = %d, want 552", a.Bins())
	}

	a.Process(testutil.BinSine(50, 0.3, 1102))
	if got := testutil.ArgMax(a.Latest().Spectrum); got != 50 {
		t.Fatalf("peak bin = %d, want 50", got)
	}
}

func TestHistoryOrder(t *testing.T) {
	a := NewAnalyzer(WithChunkSize(16), WithHistory(4))

	hist := a.History()
	if len(hist) != 4 {
		t.Fatalf("history length = %d, want 4", len(hist))
	}
	for i, h := range hist {
		if len(h) != 9 {
			t.Fatalf("slot %d bins = %d, want 9", i, len(h))
		}
	}

	// Feed chunks with increasing DC level: bin 0 of slot i identifies it.
	for level := 1; level <= 6; level++ {
		a.Process(testutil.DC(float32(level), 16))
	}

	hist = a.History()
	prev := 0.0
	for i, h := range hist {
		if h[0] <= prev {
			t.Fatalf("slot %d bin0 = %v, not increasing after %v", i, h[0], prev)
		}
		prev = h[0]
	}

	// Oldest slot holds the third chunk (level 3): DC bin = 16*3, loudness = 3*4*10.
	testutil.RequireNearlyEqual(t, "oldest", hist[0][0], 16*3*(3*4*10), 1e-6)
	testutil.RequireSliceNearlyEqual(t, hist[3], a.Latest().Spectrum, 1e-12)
}

func TestHistoryBeforeFill(t *testing.T) {
	a := NewAnalyzer(WithChunkSize(16), WithHistory(3))
	a.Process(testutil.DC(1, 16))

	hist := a.History()
	for i := 0; i < 2; i++ {
		for _, v := range hist[i] {
			if v != 0 {
				t.Fatalf("slot %d not zero before fill: %v", i, hist[i])
			}
		}
	}
	if hist[2][0] == 0 {
		t.Fatalf("newest slot is empty")
	}
}

func TestShortAndLongChunks(t *testing.T) {
	a := NewAnalyzer(WithChunkSize(64))

	a.Process(testutil.DC(1, 10))
	testutil.RequireNearlyEqual(t, "short loudness", a.Latest().Loudness, math.Sqrt(10)*10, 1e-9)

	a.Process(testutil.DC(1, 500))
	testutil.RequireNearlyEqual(t, "long loudness", a.Latest().Loudness, 8*10, 1e-9)

	a.Process(nil)
	if got := a.Latest(); got.Loudness != 0 || len(got.Spectrum) != 33 {
		t.Fatalf("empty chunk snapshot = %+v", got)
	}
}

func TestInitialSnapshot(t *testing.T) {
	a := NewAnalyzer(WithInitialEMA(3))
	snap := a.Latest()

	if snap.Seq != 0 || snap.EMA != 3 || len(snap.Spectrum) != a.Bins() {
		t.Fatalf("initial snapshot = seq %d ema %v bins %d", snap.Seq, snap.EMA, len(snap.Spectrum))
	}
}

func TestSnapshotsAreNeverTorn(t *testing.T) {
	const n = 256
	a := NewAnalyzer(WithChunkSize(n))
	loud := testutil.BinSine(8, 0.8, n)
	quiet := testutil.Silence(n)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			if i%2 == 0 {
				a.Process(loud)
			} else {
				a.Process(quiet)
			}
		}
		close(stop)
	}()

	for {
		select {
		case <-stop:
			wg.Wait()
			return
		default:
		}

		snap := a.Latest()
		if len(snap.Spectrum) != n/2+1 {
			t.Fatalf("snapshot bins = %d", len(snap.Spectrum))
		}
		peak := snap.Spectrum[testutil.ArgMax(snap.Spectrum)]
		if snap.Loudness == 0 && peak != 0 {
			t.Fatalf("silent snapshot %d carries spectrum peak %v", snap.Seq, peak)
		}
		if snap.Loudness > 0 && peak == 0 {
			t.Fatalf("loud snapshot %d has empty spectrum", snap.Seq)
		}
	}
}

func BenchmarkProcess(b *testing.B) {
	a := NewAnalyzer()
	chunk := testutil.Noise(1, 0.5, a.Config().ChunkSize)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		a.Process(chunk)
	}
}
