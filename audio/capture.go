package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// Device describes an input-capable audio device.
type Device struct {
	Name              string
	HostAPI           string
	MaxInputChannels  int
	DefaultSampleRate float64
}

// Capture feeds an Analyzer from a PortAudio input stream. The stream is mono
// and delivers exactly ChunkSize samples per callback.
type Capture struct {
	analyzer *Analyzer
	device   string
	logger   *slog.Logger

	mu          sync.Mutex
	initialized bool
	stream      *portaudio.Stream
	started     bool
	closed      bool
}

// NewCapture returns a Capture for the named device; an empty name selects the
// default input device. Names match case-insensitively by substring.
func NewCapture(a *Analyzer, device string, logger *slog.Logger) (*Capture, error) {
	if a == nil {
		return nil, errNilAnalyzer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Capture{analyzer: a, device: device, logger: logger}, nil
}

// Start opens and starts the input stream.
func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started || c.closed {
		return ErrStarted
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: initialize portaudio: %w", err)
	}
	c.initialized = true

	dev, err := c.inputDevice()
	if err != nil {
		return err
	}

	cfg := c.analyzer.Config()
	params := portaudio.LowLatencyParameters(dev, nil)
	params.Input.Channels = 1
	params.SampleRate = cfg.SampleRate
	params.FramesPerBuffer = cfg.ChunkSize

	backend := c.analyzer.Backend()

	stream, err := portaudio.OpenStream(params, c.analyzer.Process)
	if err != nil {
		return fmt.Errorf("audio: open input stream on %q: %w", dev.Name, err)
	}
	c.stream = stream

	if err := stream.Start(); err != nil {
		return fmt.Errorf("audio: start input stream on %q: %w", dev.Name, err)
	}
	c.started = true

	c.logger.Info("audio capture started",
		"device", dev.Name,
		"sample_rate", cfg.SampleRate,
		"chunk_size", cfg.ChunkSize,
		"fft", backend,
	)
	return nil
}

func (c *Capture) inputDevice() (*portaudio.DeviceInfo, error) {
	if c.device == "" {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: default input: %v", ErrNoDevice, err)
		}
		return dev, nil
	}

	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audio: list devices: %w", err)
	}
	return matchDevice(devs, c.device)
}

func matchDevice(devs []*portaudio.DeviceInfo, name string) (*portaudio.DeviceInfo, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, d := range devs {
		if d == nil || d.MaxInputChannels < 1 {
			continue
		}
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	for _, d := range devs {
		if d == nil || d.MaxInputChannels < 1 {
			continue
		}
		if strings.Contains(strings.ToLower(d.Name), want) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoDevice, name)
}

// Close stops and closes the stream and releases PortAudio.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	if c.stream != nil {
		if c.started {
			if err := c.stream.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("audio: stop stream: %w", err))
			}
		}
		if err := c.stream.Close(); err != nil {
			errs = append(errs, fmt.Errorf("audio: close stream: %w", err))
		}
		c.stream = nil
	}
	if c.initialized {
		if err := portaudio.Terminate(); err != nil {
			errs = append(errs, fmt.Errorf("audio: terminate portaudio: %w", err))
		}
	}

	if c.started {
		c.logger.Info("audio capture stopped")
	}
	return errors.Join(errs...)
}

// InputDevices lists devices with at least one input channel.
func InputDevices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audio: list devices: %w", err)
	}
	return inputDevices(devs), nil
}

func inputDevices(devs []*portaudio.DeviceInfo) []Device {
	var out []Device
	for _, d := range devs {
		if d == nil || d.MaxInputChannels < 1 {
			continue
		}
		host := ""
		if d.HostApi != nil {
			host = d.HostApi.Name
		}
		out = append(out, Device{
			Name:              d.Name,
			HostAPI:           host,
			MaxInputChannels:  d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
		})
	}
	return out
}
