package book

// QuoteSide is one side's top of book: best price (UndefPrice when the
// side is empty), aggregate volume and order count at that price.
type QuoteSide struct {
	Price  int64
	Volume int64
	Count  int
}

func (s QuoteSide) Defined() bool { return s.Price != UndefPrice }

// Quote is an immutable L1 snapshot, produced once per top-of-book
// change at the timestamp of the triggering event.
type Quote struct {
	Time   uint64
	Symbol string
	Bid    QuoteSide
	Ask    QuoteSide
}

// BySide returns the requested side of the quote.
func (q Quote) BySide(s Side) QuoteSide {
	if s == Bid {
		return q.Bid
	}
	return q.Ask
}

// Sink receives one quote per top-of-book change. Implementations must
// not block the book's caller for unbounded time.
type Sink interface {
	Accept(Quote)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(Quote)

func (f SinkFunc) Accept(q Quote) { f(q) }
