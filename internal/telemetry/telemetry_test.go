package telemetry

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/cwbudde/algo-zome/audio"
	"github.com/cwbudde/algo-zome/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func ticks(n int, period, lag time.Duration) []schedule.Tick {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]schedule.Tick, n)
	for i := range out {
		out[i] = schedule.Tick{ID: uint32(i), Scheduled: start.Add(time.Duration(i) * period), Lag: lag}
	}
	return out
}

func TestRecorderReportsAverageFPS(t *testing.T) {
	var buf bytes.Buffer
	period := 100 * time.Millisecond
	r := New(newTestLogger(&buf), period, 10)
	defer r.Close()

	for _, tick := range ticks(21, period, -time.Millisecond) {
		r.Frame(tick, 2*time.Millisecond, audio.Snapshot{EMA: 4, Loudness: 3})
	}

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "avg fps"), out)
	assert.Contains(t, out, "fps=10 ")

	s := r.Summary()
	assert.EqualValues(t, 21, s.Frames)
	assert.EqualValues(t, 0, s.Late)
	assert.Equal(t, 2*time.Millisecond, s.MeanRender)
	assert.Equal(t, 4.0, s.EMA)
}

func TestRecorderCountsLateFrames(t *testing.T) {
	period := 50 * time.Millisecond
	r := New(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), period, 0)
	defer r.Close()

	for _, tick := range ticks(3, period, 0) {
		r.Frame(tick, 0, audio.Snapshot{})
	}
	for _, tick := range ticks(2, period, 3*period) {
		r.Frame(tick, 0, audio.Snapshot{})
	}

	s := r.Summary()
	assert.EqualValues(t, 5, s.Frames)
	assert.EqualValues(t, 2, s.Late)
	assert.Equal(t, 3*period, s.MaxLag)
}

func TestRecorderRegistry(t *testing.T) {
	r := New(nil, time.Second, 0)

	names := map[string]bool{}
	r.Registry().Each(func(name string, _ interface{}) { names[name] = true })
	for _, name := range []string{RenderTimer, FramesMeter, LateCounter, LagHistogram, EMAGauge, LoudnessGauge} {
		require.True(t, names[name], "missing metric %q", name)
	}

	r.Close()
	count := 0
	r.Registry().Each(func(string, interface{}) { count++ })
	assert.Zero(t, count)
}
