package book

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// PriceFactor is the fixed-point scale applied to external decimal prices.
// All internal arithmetic and comparisons use the scaled integer form.
const (
	PriceFactor = 10000
	priceExp    = 4
)

// UndefPrice marks a side with no resting levels.
const UndefPrice int64 = math.MaxInt64

type Side int

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	if s == Bid {
		return "bid"
	}
	return "ask"
}

// ParseSide maps the feed's side tag ("B"/"S") to a Side.
func ParseSide(tag string) (Side, error) {
	switch tag {
	case "B":
		return Bid, nil
	case "S":
		return Ask, nil
	default:
		return Bid, fmt.Errorf("unknown side %q", tag)
	}
}

// PriceDecimal converts a fixed-point price back to its exact decimal form.
func PriceDecimal(p int64) decimal.Decimal {
	return decimal.New(p, -priceExp)
}

// Order is a resting order. Qty is the remaining quantity and is the only
// field mutated after insertion (partial executions decrement it).
type Order struct {
	ID       int64
	ExchTime uint64
	Price    int64
	Qty      int64
	Side     Side
	Symbol   string

	next *Order
	prev *Order
}

func (o *Order) String() string {
	return fmt.Sprintf("{id:%d,exchTime:%d,price:%s,qty:%d,side:%s,symbol:%s}",
		o.ID, o.ExchTime, PriceDecimal(o.Price), o.Qty, o.Side, o.Symbol)
}
