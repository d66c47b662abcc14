package codec

import (
	"encoding/json"
	"fmt"

	"l1feed/domain/book"
)

// JSON encodes quotes with the standard library encoder.
type JSON struct{}

type jsonQuote struct {
	Time   uint64        `json:"time"`
	Symbol string        `json:"symbol"`
	Bid    jsonQuoteSide `json:"bid"`
	Ask    jsonQuoteSide `json:"ask"`
}

type jsonQuoteSide struct {
	Price  int64 `json:"price"`
	Volume int64 `json:"volume"`
	Count  int   `json:"count"`
}

func (JSON) Marshal(q book.Quote) ([]byte, error) {
	data, err := json.Marshal(jsonQuote{
		Time:   q.Time,
		Symbol: q.Symbol,
		Bid:    jsonQuoteSide(q.Bid),
		Ask:    jsonQuoteSide(q.Ask),
	})
	if err != nil {
		return nil, fmt.Errorf("json marshal error: %w", err)
	}
	return data, nil
}

func (JSON) Unmarshal(data []byte) (book.Quote, error) {
	var jq jsonQuote
	if err := json.Unmarshal(data, &jq); err != nil {
		return book.Quote{}, fmt.Errorf("json unmarshal error: %w", err)
	}
	return book.Quote{
		Time:   jq.Time,
		Symbol: jq.Symbol,
		Bid:    book.QuoteSide(jq.Bid),
		Ask:    book.QuoteSide(jq.Ask),
	}, nil
}
