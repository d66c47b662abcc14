// Package feed decodes the upstream order-event stream. Each line is a
// tag followed by a JSON payload, for example:
//
//	NewOrder: {"exchTime":1725412500115000,"orderId":1591,"price":113.26,"qty":100,"recvTime":1725413100093350,"side":"S","symbol":"E"}
//	OrderCanceled: {"exchTime":1725412516673000,"orderId":36941,"recvTime":1725413100093350,"symbol":"E"}
//	OrderExecuted: {"exchTime":1725413100000000,"execQty":50,"leavesQty":0,"orderId":78849,"recvTime":1725413100693106,"symbol":"F"}
//	Trade: {"exchTime":1725413100000000,"price":118.7,"qty":50,"recvTime":1725413100693106,"symbol":"F","tradeId":"36581","tradeTime":1725413100000000}
//
// Field scanning is hand-written on easyjson's lexer; external decimal
// prices are converted to the fixed-point integer form on the way in.
package feed

import "l1feed/domain/book"

type Kind uint8

const (
	KindUnknown Kind = iota
	KindNewOrder
	KindOrderCanceled
	KindOrderExecuted
	KindTrade
)

func (k Kind) String() string {
	switch k {
	case KindNewOrder:
		return "NewOrder"
	case KindOrderCanceled:
		return "OrderCanceled"
	case KindOrderExecuted:
		return "OrderExecuted"
	case KindTrade:
		return "Trade"
	default:
		return "Unknown"
	}
}

// Event is one decoded feed record. Which fields are populated depends
// on Kind; Price is already in fixed-point form.
type Event struct {
	Kind      Kind
	ExchTime  uint64
	RecvTime  uint64
	OrderID   int64
	Price     int64
	Qty       int64
	ExecQty   int64
	LeavesQty int64
	Side      book.Side
	Symbol    string
	TradeID   string
}
