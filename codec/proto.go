package codec

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"l1feed/domain/book"
)

// Proto encodes quotes in protobuf wire format, written directly with
// protowire so no generated stubs are needed for a message this small.
//
// Field numbers:
//
//	1 time       varint
//	2 symbol     bytes
//	3 bid_price  varint
//	4 bid_volume varint
//	5 bid_count  varint
//	6 ask_price  varint
//	7 ask_volume varint
//	8 ask_count  varint
type Proto struct{}

const (
	fieldTime      protowire.Number = 1
	fieldSymbol    protowire.Number = 2
	fieldBidPrice  protowire.Number = 3
	fieldBidVolume protowire.Number = 4
	fieldBidCount  protowire.Number = 5
	fieldAskPrice  protowire.Number = 6
	fieldAskVolume protowire.Number = 7
	fieldAskCount  protowire.Number = 8
)

func (Proto) Marshal(q book.Quote) ([]byte, error) {
	b := make([]byte, 0, 64)
	b = protowire.AppendTag(b, fieldTime, protowire.VarintType)
	b = protowire.AppendVarint(b, q.Time)
	b = protowire.AppendTag(b, fieldSymbol, protowire.BytesType)
	b = protowire.AppendString(b, q.Symbol)
	b = appendSide(b, fieldBidPrice, q.Bid)
	b = appendSide(b, fieldAskPrice, q.Ask)
	return b, nil
}

func appendSide(b []byte, base protowire.Number, s book.QuoteSide) []byte {
	b = protowire.AppendTag(b, base, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(s.Price))
	b = protowire.AppendTag(b, base+1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(s.Volume))
	b = protowire.AppendTag(b, base+2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(s.Count))
	return b
}

func (Proto) Unmarshal(data []byte) (book.Quote, error) {
	var q book.Quote
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return book.Quote{}, fmt.Errorf("proto unmarshal: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return book.Quote{}, fmt.Errorf("proto unmarshal: %w", protowire.ParseError(n))
			}
			data = data[n:]
			switch num {
			case fieldTime:
				q.Time = v
			case fieldBidPrice:
				q.Bid.Price = int64(v)
			case fieldBidVolume:
				q.Bid.Volume = int64(v)
			case fieldBidCount:
				q.Bid.Count = int(v)
			case fieldAskPrice:
				q.Ask.Price = int64(v)
			case fieldAskVolume:
				q.Ask.Volume = int64(v)
			case fieldAskCount:
				q.Ask.Count = int(v)
			}
		case protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return book.Quote{}, fmt.Errorf("proto unmarshal: %w", protowire.ParseError(n))
			}
			data = data[n:]
			if num == fieldSymbol {
				q.Symbol = v
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return book.Quote{}, fmt.Errorf("proto unmarshal: %w", protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return q, nil
}
