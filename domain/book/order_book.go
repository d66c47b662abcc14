package book

import "fmt"

// Book is the per-instrument engine: one SideTree per side, an id
// registry for O(1) cancel/execute lookup, and the last emitted quote.
//
// Book is not thread-safe. It performs no locking internally and must
// be driven from a single event-processing goroutine (or externally
// synchronized by symbol).
type Book struct {
	symbol string
	sides  [2]*SideTree
	orders map[int64]*Order
	last   Quote
	sink   Sink
}

// New creates an empty book for symbol. No sink is attached; quotes
// are dropped until SetSink is called.
func New(symbol string) *Book {
	b := &Book{
		symbol: symbol,
		orders: make(map[int64]*Order),
		last: Quote{
			Symbol: symbol,
			Bid:    QuoteSide{Price: UndefPrice},
			Ask:    QuoteSide{Price: UndefPrice},
		},
	}
	b.sides[Bid] = NewSideTree(Bid)
	b.sides[Ask] = NewSideTree(Ask)
	return b
}

func (b *Book) Symbol() string { return b.symbol }

// SetSink attaches the quote sink. Pass nil to detach.
func (b *Book) SetSink(s Sink) { b.sink = s }

// LastQuote returns the most recently emitted quote (or the initial
// undefined quote if nothing has been emitted yet).
func (b *Book) LastQuote() Quote { return b.last }

// touchesTop is the conservative best-change predicate, evaluated
// before the mutation: true when the side has no best price, when the
// price equals the current best, or when it is strictly better under
// the side ordering. It deliberately also fires when an event merely
// changes depth at the already-best level.
func (b *Book) touchesTop(side Side, price int64) bool {
	best := b.last.BySide(side).Price
	return best == UndefPrice || price == best || b.sides[side].Better(price, best)
}

// AddOrder inserts a new resting order and emits a quote at the
// order's exchange timestamp when the top of book may have changed.
func (b *Book) AddOrder(o Order) {
	touched := b.touchesTop(o.Side, o.Price)

	lvl := b.sides[o.Side].Upsert(o.Price)
	resident := &Order{
		ID:       o.ID,
		ExchTime: o.ExchTime,
		Price:    o.Price,
		Qty:      o.Qty,
		Side:     o.Side,
		Symbol:   o.Symbol,
	}
	lvl.append(resident)
	b.orders[o.ID] = resident

	if touched {
		b.emit(o.ExchTime)
	}
}

// RemoveOrder cancels the order with the given id, emitting a quote at
// ts when the top of book may have changed.
func (b *Book) RemoveOrder(id int64, ts uint64) error {
	o, ok := b.orders[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownOrder, id)
	}
	b.remove(o, ts)
	return nil
}

func (b *Book) remove(o *Order, ts uint64) {
	touched := b.touchesTop(o.Side, o.Price)

	lvl := b.sides[o.Side].Find(o.Price)
	lvl.unlink(o)
	if lvl.Count == 0 {
		b.sides[o.Side].Delete(o.Price)
	}
	delete(b.orders, o.ID)

	if touched {
		b.emit(ts)
	}
}

// ExecuteOrder applies an execution of execQty against the resting
// order. A full fill removes the order; a partial fill decrements the
// remaining quantity and the level volume. Either path emits at most
// one quote per call; successive executions against the same order
// each emit their own quote.
func (b *Book) ExecuteOrder(id int64, execQty int64, ts uint64) error {
	o, ok := b.orders[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownOrder, id)
	}
	if execQty > o.Qty {
		return fmt.Errorf("%w: exec %d, remaining %d (order %d)", ErrInvalidExecution, execQty, o.Qty, id)
	}
	if execQty == o.Qty {
		b.remove(o, ts)
		return nil
	}

	touched := b.touchesTop(o.Side, o.Price)
	o.Qty -= execQty
	b.sides[o.Side].Find(o.Price).Volume -= execQty
	if touched {
		b.emit(ts)
	}
	return nil
}

// OrderByID returns a copy of the resting order with the given id.
func (b *Book) OrderByID(id int64) (Order, error) {
	o, ok := b.orders[id]
	if !ok {
		return Order{}, fmt.Errorf("%w: no order with id %d", ErrNotFound, id)
	}
	cp := *o
	cp.next = nil
	cp.prev = nil
	return cp, nil
}

// LevelAtRank returns the k-th best level on the side (rank 0 = best).
func (b *Book) LevelAtRank(side Side, k int) (*PriceLevel, error) {
	lvl := b.sides[side].AtRank(k)
	if lvl == nil {
		return nil, fmt.Errorf("%w: no %s level at rank %d", ErrNotFound, side, k)
	}
	return lvl, nil
}

// LevelAtPrice returns the level at the exact price on the side.
func (b *Book) LevelAtPrice(side Side, price int64) (*PriceLevel, error) {
	lvl := b.sides[side].Find(price)
	if lvl == nil {
		return nil, fmt.Errorf("%w: no %s level at %s", ErrNotFound, side, PriceDecimal(price))
	}
	return lvl, nil
}

// emit reads the top of book after the triggering mutation has been
// fully applied, caches the quote and hands it to the sink.
func (b *Book) emit(ts uint64) {
	q := Quote{
		Time:   ts,
		Symbol: b.symbol,
		Bid:    b.topOf(Bid),
		Ask:    b.topOf(Ask),
	}
	b.last = q
	if b.sink != nil {
		b.sink.Accept(q)
	}
}

func (b *Book) topOf(s Side) QuoteSide {
	if lvl := b.sides[s].Best(); lvl != nil {
		return QuoteSide{Price: lvl.Price, Volume: lvl.Volume, Count: lvl.Count}
	}
	return QuoteSide{Price: UndefPrice}
}
