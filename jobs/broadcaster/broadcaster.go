// Package broadcaster drains the quote outbox to Kafka off the hot
// path. A periodic scan picks up every record not yet acked, marks it
// SENT, publishes, then marks it ACKED; failures stay pending and are
// retried on the next tick.
package broadcaster

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"l1feed/infra/outbox"
)

type Broadcaster struct {
	outbox   *outbox.Outbox
	producer sarama.SyncProducer
	topic    string
	interval time.Duration
	log      *zap.SugaredLogger
}

func New(
	ob *outbox.Outbox,
	brokers []string,
	topic string,
	clientID string,
	interval time.Duration,
	log *zap.SugaredLogger,
) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Broadcaster{
		outbox:   ob,
		producer: producer,
		topic:    topic,
		interval: interval,
		log:      log,
	}, nil
}

// Start launches the periodic flush loop; it stops when ctx is done.
func (b *Broadcaster) Start(ctx context.Context) {
	b.log.Infow("quote broadcaster started", "topic", b.topic, "interval", b.interval)
	go func() {
		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.FlushOnce()
			}
		}
	}()
}

// FlushOnce publishes every pending outbox record once.
func (b *Broadcaster) FlushOnce() {
	_ = b.outbox.ScanPending(func(rec *outbox.Record) error {
		now := time.Now().UnixNano()
		_ = b.outbox.MarkSent(rec.Seq, now)

		msg := &sarama.ProducerMessage{
			Topic: b.topic,
			Value: sarama.ByteEncoder(rec.Payload),
		}
		if _, _, err := b.producer.SendMessage(msg); err != nil {
			b.log.Warnw("kafka publish failed, will retry", "seq", rec.Seq, "err", err)
			_ = b.outbox.MarkFailed(rec.Seq, now)
			return nil
		}

		return b.outbox.MarkAcked(rec.Seq)
	})
}

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
