package audio

// AnalyzerConfig defines the analyzer's chunking and smoothing settings.
type AnalyzerConfig struct {
	SampleRate    float64
	ChunkSize     int
	History       int
	Alpha         float64
	InitialEMA    float64
	LoudnessScale float64
}

// AnalyzerOption mutates an AnalyzerConfig.
type AnalyzerOption func(*AnalyzerConfig)

// DefaultAnalyzerConfig returns the settings the zome runs with: 25 ms chunks
// at 44.1 kHz, 50 chunks of history and a 0.1 smoothing factor.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		SampleRate:    44100,
		ChunkSize:     1102,
		History:       50,
		Alpha:         0.1,
		InitialEMA:    10,
		LoudnessScale: 10,
	}
}

// WithSampleRate sets the capture sample rate in Hz.
func WithSampleRate(sampleRate float64) AnalyzerOption {
	return func(cfg *AnalyzerConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithChunkSize sets the number of samples per analyzed chunk.
func WithChunkSize(chunkSize int) AnalyzerOption {
	return func(cfg *AnalyzerConfig) {
		if chunkSize > 1 {
			cfg.ChunkSize = chunkSize
		}
	}
}

// WithHistory sets how many spectra the ring keeps.
func WithHistory(history int) AnalyzerOption {
	return func(cfg *AnalyzerConfig) {
		if history > 0 {
			cfg.History = history
		}
	}
}

// WithAlpha sets the EMA smoothing factor, in (0, 1].
func WithAlpha(alpha float64) AnalyzerOption {
	return func(cfg *AnalyzerConfig) {
		if alpha > 0 && alpha <= 1 {
			cfg.Alpha = alpha
		}
	}
}

// WithInitialEMA sets the loudness average before the first chunk.
func WithInitialEMA(ema float64) AnalyzerOption {
	return func(cfg *AnalyzerConfig) {
		if ema >= 0 {
			cfg.InitialEMA = ema
		}
	}
}

// WithLoudnessScale sets the factor applied to the chunk's Euclidean norm.
func WithLoudnessScale(scale float64) AnalyzerOption {
	return func(cfg *AnalyzerConfig) {
		if scale > 0 {
			cfg.LoudnessScale = scale
		}
	}
}

// ApplyAnalyzerOptions applies zero or more options to the default config.
func ApplyAnalyzerOptions(opts ...AnalyzerOption) AnalyzerConfig {
	cfg := DefaultAnalyzerConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Bins returns the number of spectral bins a chunk produces.
func (cfg AnalyzerConfig) Bins() int {
	return cfg.ChunkSize/2 + 1
}

// ChunkSeconds returns the duration of one chunk in seconds.
func (cfg AnalyzerConfig) ChunkSeconds() float64 {
	return float64(cfg.ChunkSize) / cfg.SampleRate
}
