// Package pattern computes per-pixel colors for the sound-reactive zome
// pattern.
//
// The spectrum is laid out along the pixels in reverse order and scrolled by
// the frame id, which makes the colors crawl upward over the strands. A
// bin's brightness is its magnitude relative to the smoothed loudness, its
// hue follows the bin position plus a slowly rotating offset. How strongly the
// loudness compresses brightness and how fast the hue rotates is set by a
// [Tuning].
package pattern
