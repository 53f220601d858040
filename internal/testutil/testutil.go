// Package testutil provides deterministic helpers for store tests.
package testutil

import "sync"

// SeqClock is a monotonic logical clock for stamping trace events.
//
// Trace ordering uses logical sequence numbers, never wall-clock time, so
// repeated runs of the same scenario produce identical traces.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex,
// although scenarios themselves run on a single goroutine.
type SeqClock struct {
	mu  sync.Mutex
	seq int64
}

// NewSeqClock creates a clock starting at 0. The first Next() returns 1.
func NewSeqClock() *SeqClock {
	return &SeqClock{}
}

// Next increments and returns the next sequence number.
func (c *SeqClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *SeqClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset returns the clock to 0 for scenario reuse.
func (c *SeqClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}

// Recorder counts listener notifications. Register Recorder.Listen as a
// store listener and assert on Count afterwards.
type Recorder struct {
	count int
}

// Listen is the listener callback; it records one notification.
func (r *Recorder) Listen() {
	r.count++
}

// Count returns the number of notifications recorded so far.
func (r *Recorder) Count() int {
	return r.count
}

// Reset clears the recorded count.
func (r *Recorder) Reset() {
	r.count = 0
}
