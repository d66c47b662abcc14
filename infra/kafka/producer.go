// Package kafka publishes the trade tape. Trade events carry no book
// action; they are forwarded to a Kafka topic keyed by symbol for any
// downstream consumer that wants prints alongside quotes.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"l1feed/domain/book"
	"l1feed/feed"
)

type TradeTape struct {
	writer *kafka.Writer
}

func NewTradeTape(brokers []string, topic string) *TradeTape {
	return &TradeTape{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

type tradeRecord struct {
	TradeID  string `json:"tradeId"`
	Symbol   string `json:"symbol"`
	Price    string `json:"price"`
	Qty      int64  `json:"qty"`
	ExchTime uint64 `json:"exchTime"`
}

func (t *TradeTape) PublishTrade(ctx context.Context, ev feed.Event) error {
	rec := tradeRecord{
		TradeID:  ev.TradeID,
		Symbol:   ev.Symbol,
		Price:    book.PriceDecimal(ev.Price).String(),
		Qty:      ev.Qty,
		ExchTime: ev.ExchTime,
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return t.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Symbol),
		Value: value,
	})
}

func (t *TradeTape) Close() error {
	return t.writer.Close()
}
