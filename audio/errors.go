package audio

import "errors"

var (
	// ErrNoDevice is returned when no input device matches the request.
	ErrNoDevice = errors.New("audio: no matching input device")
	// ErrUnsupportedFormat is returned for audio files beep cannot decode.
	ErrUnsupportedFormat = errors.New("audio: unsupported file format")
	// ErrStarted is returned when a source is started twice.
	ErrStarted = errors.New("audio: source already started")

	errNilAnalyzer = errors.New("audio: analyzer must not be nil")
)
