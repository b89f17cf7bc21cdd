package schedule

import "time"

const (
	// DefaultRenderLead is how early a frame may be rendered before its slot.
	DefaultRenderLead = 2 * time.Millisecond
	// DefaultWakeLead is how early the loop wakes before the next slot.
	DefaultWakeLead = 1 * time.Millisecond
)

// Config holds Scheduler settings.
type Config struct {
	RenderLead time.Duration
	WakeLead   time.Duration
	Clock      Clock
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the default lead times on the system clock.
func DefaultConfig() Config {
	return Config{
		RenderLead: DefaultRenderLead,
		WakeLead:   DefaultWakeLead,
		Clock:      SystemClock,
	}
}

// WithRenderLead sets the render lead. Negative values are ignored.
func WithRenderLead(d time.Duration) Option {
	return func(cfg *Config) {
		if d >= 0 {
			cfg.RenderLead = d
		}
	}
}

// WithWakeLead sets the wake lead. Negative values are ignored.
func WithWakeLead(d time.Duration) Option {
	return func(cfg *Config) {
		if d >= 0 {
			cfg.WakeLead = d
		}
	}
}

// WithClock replaces the clock, typically with a fake one in tests.
func WithClock(c Clock) Option {
	return func(cfg *Config) {
		if c != nil {
			cfg.Clock = c
		}
	}
}

// ApplyOptions applies options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
