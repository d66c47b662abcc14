package feed

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mailru/easyjson/jlexer"
	"github.com/shopspring/decimal"

	"l1feed/domain/book"
)

var (
	// ErrUnknownTag marks a line whose event tag is not recognized.
	// Such lines are reported and skipped, never fatal.
	ErrUnknownTag = errors.New("unknown event tag")

	// ErrMalformed marks a line whose payload could not be decoded.
	ErrMalformed = errors.New("malformed event")
)

var priceScale = decimal.NewFromInt(book.PriceFactor)

// DecodeLine parses one feed line of the form "Tag: {json}".
func DecodeLine(line []byte) (Event, error) {
	line = bytes.TrimSpace(line)
	sp := bytes.IndexByte(line, ' ')
	if sp < 0 {
		return Event{}, fmt.Errorf("%w: no payload in %q", ErrMalformed, line)
	}
	tag := bytes.TrimSuffix(line[:sp], []byte(":"))

	var kind Kind
	switch string(tag) {
	case "NewOrder":
		kind = KindNewOrder
	case "OrderCanceled":
		kind = KindOrderCanceled
	case "OrderExecuted":
		kind = KindOrderExecuted
	case "Trade":
		kind = KindTrade
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}

	ev := Event{Kind: kind}
	if err := decodePayload(line[sp+1:], &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %s payload: %v", ErrMalformed, kind, err)
	}
	return ev, nil
}

func decodePayload(data []byte, ev *Event) error {
	in := jlexer.Lexer{Data: data}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "exchTime":
			ev.ExchTime = in.Uint64()
		case "recvTime":
			ev.RecvTime = in.Uint64()
		case "orderId":
			ev.OrderID = in.Int64()
		case "qty":
			ev.Qty = in.Int64()
		case "execQty":
			ev.ExecQty = in.Int64()
		case "leavesQty":
			ev.LeavesQty = in.Int64()
		case "price":
			num := in.JsonNumber()
			if in.Error() == nil {
				px, err := toFixedPoint(num.String())
				if err != nil {
					in.AddError(err)
				} else {
					ev.Price = px
				}
			}
		case "side":
			side, err := book.ParseSide(in.String())
			if in.Error() == nil && err != nil {
				in.AddError(err)
			}
			ev.Side = side
		case "symbol":
			ev.Symbol = in.String()
		case "tradeId":
			ev.TradeID = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	in.Consumed()
	return in.Error()
}

// toFixedPoint converts the external decimal price to the internal
// scaled integer, rounding to nearest. Decimal arithmetic keeps
// fractional cents exact where float64 multiplication would not.
func toFixedPoint(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("price %q: %w", s, err)
	}
	return d.Mul(priceScale).Round(0).IntPart(), nil
}
