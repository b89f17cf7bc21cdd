package audio

// Source delivers audio chunks to an Analyzer until closed.
type Source interface {
	// Start opens the underlying device or file and begins delivery.
	Start() error
	// Close stops delivery and releases the device or file. It is safe to
	// call more than once and after a failed Start.
	Close() error
}
