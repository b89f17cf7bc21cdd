// Command soundreactive streams the audio-reactive zome pattern to stdout.
//
// Usage:
//
//	soundreactive [flags] [model.json]
//
// Frames are written back to back to stdout for the zome controller; logs go
// to stderr. Without a model argument it reads zome_model.json. Interrupt
// (Ctrl-C) stops the stream and releases the audio device.
//
// Examples:
//
//	soundreactive zome_model.json | controller
//	soundreactive -device "USB" -tuning linear | controller
//	soundreactive -input rehearsal.flac -loop | framedump -model zome_model.json
//	soundreactive -list-devices
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/cwbudde/algo-zome/audio"
	"github.com/cwbudde/algo-zome/internal/config"
	"github.com/cwbudde/algo-zome/internal/runner"
	"github.com/cwbudde/algo-zome/pattern"
	"github.com/cwbudde/algo-zome/zome"
	"golang.org/x/term"
)

type options struct {
	configPath  string
	tuning      string
	device      string
	input       string
	loop        bool
	debug       bool
	force       bool
	listDevices bool
	modelPath   string
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.configPath, "config", "", "YAML tuning file")
	fs.StringVar(&o.tuning, "tuning", "", "pattern tuning: "+strings.Join(pattern.TuningNames(), ", "))
	fs.StringVar(&o.device, "device", "", "input device name (substring match); default input when empty")
	fs.StringVar(&o.input, "input", "", "play this WAV/MP3/FLAC file instead of capturing")
	fs.BoolVar(&o.loop, "loop", false, "loop the -input file")
	fs.BoolVar(&o.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&o.force, "force", false, "write frames even when stdout is a terminal")
	fs.BoolVar(&o.listDevices, "list-devices", false, "list audio input devices and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	switch fs.NArg() {
	case 0:
		o.modelPath = zome.DefaultPath
	case 1:
		o.modelPath = fs.Arg(0)
	default:
		return o, fmt.Errorf("expected at most one model file, got %d", fs.NArg())
	}
	return o, nil
}

// resolveConfig loads the tuning file and applies flag overrides. The tuning
// comes from the flag, then the file, then the model's "tuning" option.
func resolveConfig(o options, m *zome.Model) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}

	if o.device != "" {
		cfg.Audio.Device = o.device
	}
	if o.input != "" {
		cfg.Audio.File = o.input
	}
	if o.loop {
		cfg.Audio.Loop = true
	}

	switch {
	case o.tuning != "":
		cfg.Pattern.Tuning = o.tuning
	case cfg.Pattern.Tuning == "":
		cfg.Pattern.Tuning = m.Option("tuning")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	os.Exit(run())
}

func run() int {
	fs := flag.NewFlagSet("soundreactive", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: soundreactive [flags] [model.json]\n\n")
		fmt.Fprintf(os.Stderr, "Streams the audio-reactive zome pattern to stdout.\n")
		fmt.Fprintf(os.Stderr, "Without a model argument, reads %s.\n\n", zome.DefaultPath)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	o, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return 2
	}

	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if o.listDevices {
		if err := listDevices(os.Stdout); err != nil {
			logger.Error("list devices", "error", err)
			return 1
		}
		return 0
	}

	if term.IsTerminal(int(os.Stdout.Fd())) && !o.force {
		fmt.Fprintf(os.Stderr, "error: stdout is a terminal; pipe frames to the controller or pass -force\n")
		fs.Usage()
		return 2
	}

	logger.Info("loading file", "path", o.modelPath)
	model, err := zome.Load(o.modelPath)
	if err != nil {
		logger.Error("load model", "error", err)
		return 1
	}

	cfg, err := resolveConfig(o, model)
	if err != nil {
		logger.Error("configuration", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := runner.Setup(model, cfg, os.Stdout, logger, nil)
	if err != nil {
		logger.Error("setup", "error", err)
		return 1
	}

	if err := r.Run(ctx); err != nil {
		logger.Error("stream stopped", "error", err, "frames", r.Frames())
		return 1
	}
	return 0
}

func listDevices(w io.Writer) error {
	devs, err := audio.InputDevices()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Device\tHost API\tChannels\tDefault Rate\n"); err != nil {
		return err
	}
	for _, d := range devs {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%d\t%.0f\n", d.Name, d.HostAPI, d.MaxInputChannels, d.DefaultSampleRate); err != nil {
			return err
		}
	}
	return tw.Flush()
}
