// Package audio turns a live audio stream into the spectral state that drives
// the sound-reactive pattern.
//
// An [Analyzer] consumes fixed-size chunks of mono samples. For every chunk it
// measures loudness, updates an exponential moving average of it, computes the
// magnitude spectrum with a real FFT and pushes the loudness-scaled spectrum
// into a fixed-length history. After each chunk it publishes an immutable
// [Snapshot], so a render loop on another goroutine can read the newest state
// without locking and without ever observing a half-written spectrum.
//
// Chunks come from a [Source]: [Capture] reads an input device through
// PortAudio, [FileSource] plays a decoded audio file at real-time pace.
package audio
