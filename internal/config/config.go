// Package config loads the runtime tuning file of the sound-reactive
// generator.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/cwbudde/algo-zome/audio"
	"github.com/cwbudde/algo-zome/pattern"
	"github.com/cwbudde/algo-zome/schedule"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete runtime configuration.
type Config struct {
	Audio     AudioConfig     `yaml:"audio"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Pattern   PatternConfig   `yaml:"pattern"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// AudioConfig contains analyzer and input settings.
type AudioConfig struct {
	SampleRate    float64 `yaml:"sample_rate"`
	ChunkSize     int     `yaml:"chunk_size"` // samples per analyzed chunk
	History       int     `yaml:"history"`    // spectra kept in the ring
	Alpha         float64 `yaml:"alpha"`      // EMA smoothing factor
	InitialEMA    float64 `yaml:"initial_ema"`
	LoudnessScale float64 `yaml:"loudness_scale"`
	Device        string  `yaml:"device"` // input device name, empty for default
	File          string  `yaml:"file"`   // play this file instead of capturing
	Loop          bool    `yaml:"loop"`
}

// ScheduleConfig contains frame pacing settings.
type ScheduleConfig struct {
	RenderLeadMS float64 `yaml:"render_lead_ms"`
	WakeLeadMS   float64 `yaml:"wake_lead_ms"`
}

// PatternConfig selects a tuning and optionally overrides its fields.
type PatternConfig struct {
	Tuning     string   `yaml:"tuning"`
	Exponent   *float64 `yaml:"exponent,omitempty"`
	HueStep    *float64 `yaml:"hue_step,omitempty"`
	HueSpread  *float64 `yaml:"hue_spread,omitempty"`
	ScrollRate *float64 `yaml:"scroll_rate,omitempty"`
	Saturation *float64 `yaml:"saturation,omitempty"`
}

// TelemetryConfig contains reporting settings.
type TelemetryConfig struct {
	ReportEvery int `yaml:"report_every"` // frames between fps log lines, 0 disables
}

// Default returns the configuration the generator runs with when no file is
// given.
func Default() *Config {
	a := audio.DefaultAnalyzerConfig()
	return &Config{
		Audio: AudioConfig{
			SampleRate:    a.SampleRate,
			ChunkSize:     a.ChunkSize,
			History:       a.History,
			Alpha:         a.Alpha,
			InitialEMA:    a.InitialEMA,
			LoudnessScale: a.LoudnessScale,
		},
		Schedule: ScheduleConfig{
			RenderLeadMS: durationMS(schedule.DefaultRenderLead),
			WakeLeadMS:   durationMS(schedule.DefaultWakeLead),
		},
		Telemetry: TelemetryConfig{ReportEvery: 1000},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result. Fields the
// document omits keep their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges. Unknown tuning names are reported here too.
func (c *Config) Validate() error {
	a := c.Audio
	switch {
	case !(a.SampleRate > 0) || math.IsInf(a.SampleRate, 0):
		return fmt.Errorf("%w: audio.sample_rate %v", ErrInvalid, a.SampleRate)
	case a.ChunkSize < 2:
		return fmt.Errorf("%w: audio.chunk_size %d", ErrInvalid, a.ChunkSize)
	case a.History < 1:
		return fmt.Errorf("%w: audio.history %d", ErrInvalid, a.History)
	case !(a.Alpha > 0 && a.Alpha <= 1):
		return fmt.Errorf("%w: audio.alpha %v not in (0, 1]", ErrInvalid, a.Alpha)
	case !(a.InitialEMA >= 0):
		return fmt.Errorf("%w: audio.initial_ema %v", ErrInvalid, a.InitialEMA)
	case !(a.LoudnessScale > 0):
		return fmt.Errorf("%w: audio.loudness_scale %v", ErrInvalid, a.LoudnessScale)
	case a.Loop && a.File == "":
		return fmt.Errorf("%w: audio.loop requires audio.file", ErrInvalid)
	}

	s := c.Schedule
	if !(s.RenderLeadMS >= 0) || !(s.WakeLeadMS >= 0) {
		return fmt.Errorf("%w: schedule leads must be non-negative", ErrInvalid)
	}

	if c.Telemetry.ReportEvery < 0 {
		return fmt.Errorf("%w: telemetry.report_every %d", ErrInvalid, c.Telemetry.ReportEvery)
	}

	if _, err := c.Tuning(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// AnalyzerOptions converts the audio section to analyzer options.
func (c *Config) AnalyzerOptions() []audio.AnalyzerOption {
	a := c.Audio
	return []audio.AnalyzerOption{
		audio.WithSampleRate(a.SampleRate),
		audio.WithChunkSize(a.ChunkSize),
		audio.WithHistory(a.History),
		audio.WithAlpha(a.Alpha),
		audio.WithInitialEMA(a.InitialEMA),
		audio.WithLoudnessScale(a.LoudnessScale),
	}
}

// ScheduleOptions converts the schedule section to scheduler options.
func (c *Config) ScheduleOptions() []schedule.Option {
	return []schedule.Option{
		schedule.WithRenderLead(msDuration(c.Schedule.RenderLeadMS)),
		schedule.WithWakeLead(msDuration(c.Schedule.WakeLeadMS)),
	}
}

// Tuning resolves the named tuning and applies the overrides.
func (c *Config) Tuning() (pattern.Tuning, error) {
	p := c.Pattern
	t, err := pattern.TuningByName(p.Tuning)
	if err != nil {
		return pattern.Tuning{}, err
	}

	overrides := []struct {
		v   *float64
		dst *float64
	}{
		{p.Exponent, &t.Exponent},
		{p.HueStep, &t.HueStep},
		{p.HueSpread, &t.HueSpread},
		{p.ScrollRate, &t.ScrollRate},
		{p.Saturation, &t.Saturation},
	}
	for _, o := range overrides {
		if o.v != nil {
			*o.dst = *o.v
		}
	}

	if err := t.Validate(); err != nil {
		return pattern.Tuning{}, err
	}
	return t, nil
}

func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func msDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
