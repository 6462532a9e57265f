// Package meter provides the shared byte accumulator that transfer workers
// feed and progress observers read.
package meter

import "sync/atomic"

// Counter is a running total of bytes moved during a phase. Many workers add
// to it concurrently; readers may observe a value from any point in time.
// It is never reset.
type Counter struct {
	n atomic.Uint64
}

func NewCounter() *Counter {
	return &Counter{}
}

// Add records n more transferred bytes.
func (c *Counter) Add(n uint64) {
	c.n.Add(n)
}

// Load returns the total bytes recorded so far.
func (c *Counter) Load() uint64 {
	return c.n.Load()
}
