package schedule

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Tick describes one frame slot handed to the emit func.
type Tick struct {
	// ID counts emitted frames from 0. It wraps at 2^32 like the wire id.
	ID uint32
	// Scheduled is the time the frame was due.
	Scheduled time.Time
	// Lag is how late the frame is being rendered; it is slightly negative
	// when rendered within the render lead.
	Lag time.Duration
}

// Scheduler emits frames at a fixed rate.
type Scheduler struct {
	fps    float64
	period time.Duration
	cfg    Config
}

// New returns a Scheduler for fps frames per second.
func New(fps float64, opts ...Option) (*Scheduler, error) {
	if !(fps > 0) || math.IsInf(fps, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFPS, fps)
	}

	period := time.Duration(float64(time.Second) / fps)
	if period <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFPS, fps)
	}

	return &Scheduler{fps: fps, period: period, cfg: ApplyOptions(opts...)}, nil
}

// FPS returns the target frame rate.
func (s *Scheduler) FPS() float64 { return s.fps }

// Period returns the time between frame slots.
func (s *Scheduler) Period() time.Duration { return s.period }

// Run calls emit once per frame slot until ctx is done or emit fails.
// Cancellation is a normal stop and returns nil; an emit error is returned
// wrapped.
func (s *Scheduler) Run(ctx context.Context, emit func(Tick) error) error {
	if emit == nil {
		return errNilEmit
	}

	clock := s.cfg.Clock
	cursor := clock.Now()
	var id uint32

	for {
		if ctx.Err() != nil {
			return nil
		}

		now := clock.Now()
		if !now.Before(cursor.Add(-s.cfg.RenderLead)) {
			if err := emit(Tick{ID: id, Scheduled: cursor, Lag: now.Sub(cursor)}); err != nil {
				return fmt.Errorf("schedule: frame %d: %w", id, err)
			}
			id++
			cursor = cursor.Add(s.period)
			continue
		}

		wake := cursor.Add(-s.cfg.WakeLead)
		if !wake.After(now) {
			wake = cursor.Add(-s.cfg.RenderLead)
		}
		if err := clock.Sleep(ctx, wake.Sub(now)); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("schedule: sleep: %w", err)
		}
	}
}
