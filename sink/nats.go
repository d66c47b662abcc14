package sink

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"l1feed/codec"
	"l1feed/domain/book"
)

// NATS publishes each quote on subject.<symbol>. Publish errors are
// logged and dropped; the quote path must never stall on the bus.
type NATS struct {
	nc      *nats.Conn
	subject string
	codec   codec.Codec
	log     *zap.SugaredLogger
}

func NewNATS(url, subject, clientName string, c codec.Codec, log *zap.SugaredLogger) (*NATS, error) {
	nc, err := nats.Connect(url, nats.Name(clientName))
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return &NATS{nc: nc, subject: subject, codec: c, log: log}, nil
}

func (n *NATS) Accept(q book.Quote) {
	data, err := n.codec.Marshal(q)
	if err != nil {
		n.log.Errorw("quote encode failed", "symbol", q.Symbol, "err", err)
		return
	}
	if err := n.nc.Publish(n.subject+"."+q.Symbol, data); err != nil {
		n.log.Warnw("nats publish failed", "symbol", q.Symbol, "err", err)
	}
}

func (n *NATS) Close() error {
	if err := n.nc.Drain(); err != nil {
		return err
	}
	return nil
}
