package sink

import (
	"go.uber.org/zap"

	"l1feed/codec"
	"l1feed/domain/book"
	"l1feed/infra/outbox"
	"l1feed/infra/sequence"
)

// Outbox assigns each quote a delivery sequence and stores the encoded
// payload in the durable outbox for the Kafka broadcaster to drain.
type Outbox struct {
	ob    *outbox.Outbox
	codec codec.Codec
	seq   *sequence.Sequencer
	log   *zap.SugaredLogger
}

func NewOutbox(ob *outbox.Outbox, c codec.Codec, seq *sequence.Sequencer, log *zap.SugaredLogger) *Outbox {
	return &Outbox{ob: ob, codec: c, seq: seq, log: log}
}

func (s *Outbox) Accept(q book.Quote) {
	data, err := s.codec.Marshal(q)
	if err != nil {
		s.log.Errorw("quote encode failed", "symbol", q.Symbol, "err", err)
		return
	}
	seq := s.seq.Next()
	if err := s.ob.Put(seq, data); err != nil {
		s.log.Errorw("outbox write failed", "seq", seq, "err", err)
	}
}
