package book

import "fmt"

// PriceLevel aggregates all resting orders at one price on one side.
// Orders are kept in arrival order in an intrusive doubly-linked list.
// Invariants: Volume is the sum of member quantities, Count the list
// length, and a level with Count == 0 is never resident in its tree.
type PriceLevel struct {
	Price  int64
	Volume int64
	Count  int

	head *Order
	tail *Order
}

func (p *PriceLevel) append(o *Order) {
	if p.head == nil {
		p.head = o
		p.tail = o
	} else {
		p.tail.next = o
		o.prev = p.tail
		p.tail = o
	}
	p.Volume += o.Qty
	p.Count++
}

func (p *PriceLevel) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		p.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		p.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	p.Volume -= o.Qty
	p.Count--
}

// Front returns the oldest order at this level, nil when empty.
func (p *PriceLevel) Front() *Order { return p.head }

// ForEach visits the level's orders in arrival order until fn returns false.
func (p *PriceLevel) ForEach(fn func(*Order) bool) {
	for n := p.head; n != nil; n = n.next {
		if !fn(n) {
			return
		}
	}
}

func (p *PriceLevel) String() string {
	return fmt.Sprintf("{price:%s,volume:%d,count:%d}", PriceDecimal(p.Price), p.Volume, p.Count)
}
