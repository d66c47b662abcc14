// Package sink provides the terminal consumers of the quote stream:
// CSV rendering, NATS publishing, the durable Kafka outbox, and a
// fanout combinator. All implement book.Sink.
package sink

import "l1feed/domain/book"

// Fanout forwards each quote to every member sink in order.
type Fanout []book.Sink

func (f Fanout) Accept(q book.Quote) {
	for _, s := range f {
		s.Accept(q)
	}
}
