// Package sequence issues delivery sequence numbers for outbound
// quotes. Sequences are strictly monotonic for the life of a run and
// can be seeded with the highest persisted value after a restart.
package sequence

import "sync/atomic"

type Sequencer struct {
	next atomic.Uint64
}

// New creates a sequencer that will issue start+1 first. Pass 0 for a
// fresh run, or the highest sequence found in the outbox on restart.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued sequence.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}
