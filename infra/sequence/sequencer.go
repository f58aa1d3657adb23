// Package sequence issues the arrival stamps that decide time priority.
package sequence

import "sync/atomic"

// Sequencer generates strictly monotonic arrival sequence numbers.
// Orders at the same price level match in the order these were issued;
// wall clocks are never compared.
type Sequencer struct {
	next atomic.Uint64
}

// New creates a sequencer that will issue start+1 first.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next arrival stamp.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued stamp.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}
