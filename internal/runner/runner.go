// Package runner drives the sound-reactive generator: it starts an audio
// source, renders one frame per scheduler slot from the newest analyzer
// snapshot and writes it out, and releases the source when the loop ends.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cwbudde/algo-zome/audio"
	"github.com/cwbudde/algo-zome/frame"
	"github.com/cwbudde/algo-zome/internal/config"
	"github.com/cwbudde/algo-zome/internal/telemetry"
	"github.com/cwbudde/algo-zome/pattern"
	"github.com/cwbudde/algo-zome/schedule"
	"github.com/cwbudde/algo-zome/zome"
)

var errMissing = errors.New("runner: missing component")

// Runner owns one generator session.
type Runner struct {
	analyzer  *audio.Analyzer
	source    audio.Source
	scheduler *schedule.Scheduler
	renderer  *pattern.SoundReactive
	writer    *frame.Writer
	recorder  *telemetry.Recorder
	logger    *slog.Logger

	buf []frame.RGBA
}

// Components are the parts a Runner wires together. Recorder and Logger are
// optional.
type Components struct {
	Analyzer  *audio.Analyzer
	Source    audio.Source
	Scheduler *schedule.Scheduler
	Renderer  *pattern.SoundReactive
	Writer    *frame.Writer
	Recorder  *telemetry.Recorder
	Logger    *slog.Logger
}

// New checks that the components fit together and returns a Runner.
func New(c Components) (*Runner, error) {
	switch {
	case c.Analyzer == nil:
		return nil, fmt.Errorf("%w: analyzer", errMissing)
	case c.Source == nil:
		return nil, fmt.Errorf("%w: source", errMissing)
	case c.Scheduler == nil:
		return nil, fmt.Errorf("%w: scheduler", errMissing)
	case c.Renderer == nil:
		return nil, fmt.Errorf("%w: renderer", errMissing)
	case c.Writer == nil:
		return nil, fmt.Errorf("%w: writer", errMissing)
	}
	if c.Renderer.NumPixels() != c.Writer.PixelCount() {
		return nil, fmt.Errorf("%w: renderer has %d pixels, writer %d",
			frame.ErrPixelCount, c.Renderer.NumPixels(), c.Writer.PixelCount())
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		analyzer:  c.Analyzer,
		source:    c.Source,
		scheduler: c.Scheduler,
		renderer:  c.Renderer,
		writer:    c.Writer,
		recorder:  c.Recorder,
		logger:    logger,
		buf:       make([]frame.RGBA, c.Renderer.NumPixels()),
	}, nil
}

// Setup builds every component for model from cfg. Frames go to out. A
// non-nil clock replaces the system clock in the scheduler.
func Setup(model *zome.Model, cfg *config.Config, out io.Writer, logger *slog.Logger, clock schedule.Clock) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tuning, err := cfg.Tuning()
	if err != nil {
		return nil, fmt.Errorf("runner: %w", err)
	}

	analyzer := audio.NewAnalyzer(cfg.AnalyzerOptions()...)

	source, err := NewSource(cfg, analyzer, logger)
	if err != nil {
		return nil, err
	}

	opts := cfg.ScheduleOptions()
	if clock != nil {
		opts = append(opts, schedule.WithClock(clock))
	}
	scheduler, err := schedule.New(float64(model.FPS()), opts...)
	if err != nil {
		return nil, fmt.Errorf("runner: %w", err)
	}

	renderer, err := pattern.NewSoundReactive(model.NumPixels(), tuning)
	if err != nil {
		return nil, fmt.Errorf("runner: %w", err)
	}

	writer, err := frame.NewWriter(out, model.NumPixels())
	if err != nil {
		return nil, fmt.Errorf("runner: %w", err)
	}

	logger.Info("pattern ready",
		"pixels", model.NumPixels(),
		"fps", model.FPS(),
		"tuning", tuning.Name,
		"bins", analyzer.Bins(),
	)

	return New(Components{
		Analyzer:  analyzer,
		Source:    source,
		Scheduler: scheduler,
		Renderer:  renderer,
		Writer:    writer,
		Recorder:  telemetry.New(logger, scheduler.Period(), cfg.Telemetry.ReportEvery),
		Logger:    logger,
	})
}

// NewSource returns a file source when cfg names an audio file, otherwise a
// device capture.
func NewSource(cfg *config.Config, a *audio.Analyzer, logger *slog.Logger) (audio.Source, error) {
	if cfg.Audio.File != "" {
		return audio.NewFileSource(a, cfg.Audio.File, cfg.Audio.Loop, logger)
	}
	return audio.NewCapture(a, cfg.Audio.Device, logger)
}

// Run starts the source and emits frames until ctx is done or a frame cannot
// be written. The source is closed on every path out of Run. Cancellation
// returns nil.
func (r *Runner) Run(ctx context.Context) (err error) {
	defer func() {
		if cerr := r.source.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("runner: close source: %w", cerr))
		}
		if r.recorder != nil {
			r.recorder.Close()
		}
	}()

	if err := r.source.Start(); err != nil {
		return fmt.Errorf("runner: start source: %w", err)
	}
	r.logger.Info("listening", "fps", r.scheduler.FPS())

	if err := r.scheduler.Run(ctx, r.emit); err != nil {
		return fmt.Errorf("runner: %w", err)
	}

	r.logger.Info("stopped listening", "frames", r.writer.Frames())
	return nil
}

func (r *Runner) emit(tick schedule.Tick) error {
	start := time.Now()
	snap := r.analyzer.Latest()

	r.buf = r.renderer.Render(r.buf, tick.ID, snap)
	if err := r.writer.WriteFrame(tick.ID, r.buf); err != nil {
		return err
	}

	if r.recorder != nil {
		r.recorder.Frame(tick, time.Since(start), snap)
	}
	return nil
}

// Frames returns the number of frames written so far.
func (r *Runner) Frames() uint64 { return r.writer.Frames() }
