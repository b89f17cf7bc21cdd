package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

const resampleQuality = 4

// FileSource plays a decoded audio file into an Analyzer at real-time pace,
// one chunk per chunk duration. Stereo files are mixed down to mono and the
// stream is resampled to the analyzer's rate. At the end of the file it loops
// or keeps delivering silence.
type FileSource struct {
	analyzer *Analyzer
	path     string
	loop     bool
	logger   *slog.Logger

	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	stop     chan struct{}
	done     chan struct{}
	started  bool
	closed   bool
}

// NewFileSource returns a FileSource reading path.
func NewFileSource(a *Analyzer, path string, loop bool, logger *slog.Logger) (*FileSource, error) {
	if a == nil {
		return nil, errNilAnalyzer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{analyzer: a, path: path, loop: loop, logger: logger}, nil
}

// Start decodes the file header and begins playback.
func (s *FileSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.closed {
		return ErrStarted
	}

	streamer, format, err := decodeFile(s.path)
	if err != nil {
		return err
	}
	s.streamer = streamer

	cfg := s.analyzer.Config()
	var src beep.Streamer = streamer
	target := beep.SampleRate(int(cfg.SampleRate))
	if format.SampleRate != target {
		src = beep.Resample(resampleQuality, format.SampleRate, target, streamer)
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.started = true

	s.logger.Info("audio file playback started",
		"file", s.path,
		"file_rate", int(format.SampleRate),
		"channels", format.NumChannels,
		"loop", s.loop,
		"fft", s.analyzer.Backend(),
	)

	go s.pump(src, time.Duration(cfg.ChunkSeconds()*float64(time.Second)))
	return nil
}

func decodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("audio: open %s: %w", path, err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("audio: decode %s: %w", path, err)
	}

	return streamer, format, nil
}

func (s *FileSource) pump(src beep.Streamer, period time.Duration) {
	defer close(s.done)

	chunkSize := s.analyzer.Config().ChunkSize
	stereo := make([][2]float64, chunkSize)
	mono := make([]float32, chunkSize)
	exhausted := false

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		n := 0
		if !exhausted {
			n = s.fill(src, stereo)
			if n < chunkSize {
				if s.loop && s.rewind() {
					n += s.fill(src, stereo[n:])
				} else {
					exhausted = true
					s.logger.Info("audio file finished", "file", s.path)
				}
			}
		}

		for i := range mono {
			if i < n {
				mono[i] = float32((stereo[i][0] + stereo[i][1]) / 2)
			} else {
				mono[i] = 0
			}
		}
		s.analyzer.Process(mono)
	}
}

func (s *FileSource) fill(src beep.Streamer, buf [][2]float64) int {
	filled := 0
	for filled < len(buf) {
		n, ok := src.Stream(buf[filled:])
		filled += n
		if !ok || n == 0 {
			break
		}
	}
	return filled
}

func (s *FileSource) rewind() bool {
	if err := s.streamer.Seek(0); err != nil {
		s.logger.Warn("audio file rewind failed", "file", s.path, "error", err)
		return false
	}
	return true
}

// Close stops playback and closes the file.
func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if !s.started {
		return nil
	}

	close(s.stop)
	<-s.done

	if err := s.streamer.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("audio: close %s: %w", s.path, err)
	}
	return nil
}
