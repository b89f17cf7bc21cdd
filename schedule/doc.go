// Package schedule paces frame rendering at a fixed rate.
//
// A [Scheduler] keeps a cursor holding the time the next frame is due and
// advances it by exactly one period per emitted frame, never by measuring
// elapsed time. Rounding and oversleeping therefore cannot accumulate: over a
// run of T seconds at F frames per second it emits T*F frames, give or take
// one. When rendering falls behind, frames are emitted back to back until the
// cursor is in the future again; none are dropped.
package schedule
