// Package telemetry records frame timing and audio levels of a running
// generator and periodically logs a frame rate report.
package telemetry

import (
	"log/slog"
	"time"

	"github.com/cwbudde/algo-zome/audio"
	"github.com/cwbudde/algo-zome/schedule"
	metrics "github.com/rcrowley/go-metrics"
)

// Metric names in the registry.
const (
	RenderTimer   = "render"
	FramesMeter   = "frames"
	LateCounter   = "frames.late"
	LagHistogram  = "lag.us"
	EMAGauge      = "audio.ema"
	LoudnessGauge = "audio.loudness"
)

// Recorder collects per-frame metrics. It is used from the render loop only.
type Recorder struct {
	registry metrics.Registry
	logger   *slog.Logger
	period   time.Duration
	every    int

	render   metrics.Timer
	frames   metrics.Meter
	late     metrics.Counter
	lag      metrics.Histogram
	ema      metrics.GaugeFloat64
	loudness metrics.GaugeFloat64

	checkpoint time.Time
	pending    int
}

// Summary is a point-in-time view of the recorded metrics.
type Summary struct {
	Frames     int64
	Late       int64
	MeanRender time.Duration
	MaxLag     time.Duration
	EMA        float64
}

// New returns a Recorder for frames spaced period apart. A frame whose lag
// reaches a full period counts as late. Every reportEvery frames the average
// frame rate is logged; 0 disables the report.
func New(logger *slog.Logger, period time.Duration, reportEvery int) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if reportEvery < 0 {
		reportEvery = 0
	}

	r := metrics.NewRegistry()
	return &Recorder{
		registry: r,
		logger:   logger,
		period:   period,
		every:    reportEvery,
		render:   metrics.GetOrRegisterTimer(RenderTimer, r),
		frames:   metrics.GetOrRegisterMeter(FramesMeter, r),
		late:     metrics.GetOrRegisterCounter(LateCounter, r),
		lag:      metrics.GetOrRegisterHistogram(LagHistogram, r, metrics.NewExpDecaySample(1028, 0.015)),
		ema:      metrics.GetOrRegisterGaugeFloat64(EMAGauge, r),
		loudness: metrics.GetOrRegisterGaugeFloat64(LoudnessGauge, r),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() metrics.Registry { return r.registry }

// Frame records one emitted frame.
func (r *Recorder) Frame(tick schedule.Tick, renderTime time.Duration, snap audio.Snapshot) {
	r.render.Update(renderTime)
	r.frames.Mark(1)
	r.lag.Update(tick.Lag.Microseconds())
	if r.period > 0 && tick.Lag >= r.period {
		r.late.Inc(1)
	}
	r.ema.Update(snap.EMA)
	r.loudness.Update(snap.Loudness)

	if r.every == 0 {
		return
	}

	started := tick.Scheduled.Add(tick.Lag)
	if r.checkpoint.IsZero() {
		r.checkpoint = started
		return
	}

	r.pending++
	if r.pending < r.every {
		return
	}

	elapsed := started.Sub(r.checkpoint)
	if elapsed > 0 {
		r.logger.Info("avg fps",
			"fps", float64(r.pending)/elapsed.Seconds(),
			"frames", r.pending,
			"late", r.late.Count(),
			"render_mean", time.Duration(r.render.Mean()),
			"ema", snap.EMA,
		)
	}
	r.checkpoint = started
	r.pending = 0
}

// Summary returns the current totals.
func (r *Recorder) Summary() Summary {
	return Summary{
		Frames:     r.render.Count(),
		Late:       r.late.Count(),
		MeanRender: time.Duration(r.render.Mean()),
		MaxLag:     time.Duration(r.lag.Max()) * time.Microsecond,
		EMA:        r.ema.Value(),
	}
}

// Close logs the totals and stops the registry's background meters.
func (r *Recorder) Close() {
	s := r.Summary()
	r.logger.Debug("frame totals",
		"frames", s.Frames,
		"late", s.Late,
		"render_mean", s.MeanRender,
		"max_lag", s.MaxLag,
	)
	r.registry.UnregisterAll()
}
