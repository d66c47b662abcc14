// Package pipeline decouples quote production on the event-processing
// path from downstream consumption. A bounded ring buffer hands quotes
// to a single consumer goroutine that forwards them FIFO to a sink, so
// sink latency never blocks book mutation.
package pipeline

import (
	"sync"

	"go.uber.org/zap"

	"l1feed/domain/book"
)

// Pipeline moves quotes from the single producer to a single consumer
// goroutine through a bounded ring. States: running until Shutdown is
// called, then draining until the buffer is empty, then stopped.
//
// One mutex and one condition variable guard the ring and the done
// flag. The consumer distinguishes "item arrived" from "shutdown with
// empty buffer" under the same lock the producer signals under.
type Pipeline struct {
	mu   sync.Mutex
	cond *sync.Cond

	ring       *Ring[book.Quote]
	done       bool
	overwrites uint64

	sink    book.Sink
	stopped chan struct{}
	log     *zap.SugaredLogger
}

// New builds a pipeline with the given buffer capacity, forwarding to
// sink. Start must be called before quotes flow.
func New(capacity int, sink book.Sink, log *zap.SugaredLogger) *Pipeline {
	p := &Pipeline{
		ring:    NewRing[book.Quote](capacity),
		sink:    sink,
		stopped: make(chan struct{}),
		log:     log,
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Start launches the consumer goroutine.
func (p *Pipeline) Start() {
	go p.run()
}

// Enqueue hands one quote to the consumer. It never blocks: when the
// buffer is full the oldest unread quote is overwritten, which is
// reported but not fatal. Calling Enqueue after Shutdown is a caller
// contract violation and panics.
func (p *Pipeline) Enqueue(q book.Quote) {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		panic("pipeline: enqueue after shutdown")
	}
	if !p.ring.Push(q) {
		p.overwrites++
		p.log.Warnw("quote buffer full, overwrote oldest unread quote",
			"symbol", q.Symbol, "overwrites", p.overwrites)
	}
	p.cond.Signal()
	p.mu.Unlock()
}

// Accept makes Pipeline a book.Sink so it can be attached directly.
func (p *Pipeline) Accept(q book.Quote) { p.Enqueue(q) }

// Shutdown is called once by the producer after all enqueues are
// issued. It wakes the consumer, waits for every buffered quote to be
// forwarded, and returns once the consumer has exited.
func (p *Pipeline) Shutdown() {
	p.mu.Lock()
	p.done = true
	p.cond.Signal()
	p.mu.Unlock()
	<-p.stopped
}

// Overwrites reports how many quotes were lost to the overwrite-on-full
// policy.
func (p *Pipeline) Overwrites() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.overwrites
}

func (p *Pipeline) run() {
	defer close(p.stopped)
	for {
		p.mu.Lock()
		for p.ring.Len() == 0 && !p.done {
			p.cond.Wait()
		}
		q, ok := p.ring.Pop()
		p.mu.Unlock()
		if !ok {
			// Woken by shutdown with an empty buffer: fully drained.
			return
		}
		p.sink.Accept(q)
	}
}
