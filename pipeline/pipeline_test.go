package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"l1feed/domain/book"
)

type collectSink struct {
	mu     sync.Mutex
	quotes []book.Quote
	delay  time.Duration
}

func (c *collectSink) Accept(q book.Quote) {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	c.mu.Lock()
	c.quotes = append(c.quotes, q)
	c.mu.Unlock()
}

func (c *collectSink) snapshot() []book.Quote {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]book.Quote(nil), c.quotes...)
}

func quoteAt(ts uint64) book.Quote {
	return book.Quote{Time: ts, Symbol: "A",
		Bid: book.QuoteSide{Price: book.UndefPrice},
		Ask: book.QuoteSide{Price: book.UndefPrice}}
}

func TestPipelineDeliversInOrder(t *testing.T) {
	sink := &collectSink{}
	p := New(64, sink, zap.NewNop().Sugar())
	p.Start()

	const n = 50
	for i := uint64(0); i < n; i++ {
		p.Enqueue(quoteAt(i))
	}
	p.Shutdown()

	got := sink.snapshot()
	require.Len(t, got, n)
	for i, q := range got {
		assert.Equal(t, uint64(i), q.Time, "quote %d out of order", i)
	}
	assert.Zero(t, p.Overwrites())
}

func TestPipelineDrainsOnShutdown(t *testing.T) {
	// Slow sink: most quotes are still buffered when Shutdown is
	// called; all of them must still reach the sink exactly once.
	sink := &collectSink{delay: time.Millisecond}
	p := New(128, sink, zap.NewNop().Sugar())
	p.Start()

	const n = 40
	for i := uint64(0); i < n; i++ {
		p.Enqueue(quoteAt(i))
	}
	p.Shutdown()

	got := sink.snapshot()
	require.Len(t, got, n)
	for i, q := range got {
		assert.Equal(t, uint64(i), q.Time)
	}
}

func TestPipelineOverwriteWhenFull(t *testing.T) {
	// Consumer not started yet: fill past capacity, the oldest quotes
	// are overwritten and the rest arrive in order.
	sink := &collectSink{}
	p := New(2, sink, zap.NewNop().Sugar())

	p.Enqueue(quoteAt(1))
	p.Enqueue(quoteAt(2))
	p.Enqueue(quoteAt(3))

	assert.Equal(t, uint64(1), p.Overwrites())

	p.Start()
	p.Shutdown()

	got := sink.snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, uint64(2), got[0].Time)
	assert.Equal(t, uint64(3), got[1].Time)
}

func TestPipelineShutdownWithEmptyBuffer(t *testing.T) {
	sink := &collectSink{}
	p := New(8, sink, zap.NewNop().Sugar())
	p.Start()

	done := make(chan struct{})
	go func() {
		p.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown with empty buffer did not terminate the consumer")
	}
	assert.Empty(t, sink.snapshot())
}

func TestPipelineEnqueueAfterShutdownPanics(t *testing.T) {
	p := New(8, &collectSink{}, zap.NewNop().Sugar())
	p.Start()
	p.Shutdown()

	require.Panics(t, func() { p.Enqueue(quoteAt(1)) })
}
