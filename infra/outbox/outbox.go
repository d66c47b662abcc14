// Package outbox persists the delivery state of emitted quotes so the
// Kafka broadcaster can retry across restarts without re-reading the
// feed. One record per quote sequence, state machine NEW -> SENT ->
// ACKED (FAILED re-enters the pending scan).
package outbox

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

type State uint8

const (
	StateNew State = iota
	StateSent
	StateAcked
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateSent:
		return "SENT"
	case StateAcked:
		return "ACKED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

type Record struct {
	Seq         uint64
	State       State
	Retries     uint32
	LastAttempt int64
	Payload     []byte
}

// binary encoding: [state:1][retries:4][lastAttempt:8][payload...]
func encodeRecord(r Record) []byte {
	buf := make([]byte, 1+4+8+len(r.Payload))
	buf[0] = byte(r.State)
	binary.BigEndian.PutUint32(buf[1:5], r.Retries)
	binary.BigEndian.PutUint64(buf[5:13], uint64(r.LastAttempt))
	copy(buf[13:], r.Payload)
	return buf
}

func decodeRecord(seq uint64, b []byte) (Record, error) {
	if len(b) < 13 {
		return Record{}, errors.New("invalid outbox record length")
	}
	payload := make([]byte, len(b)-13)
	copy(payload, b[13:])
	return Record{
		Seq:         seq,
		State:       State(b[0]),
		Retries:     binary.BigEndian.Uint32(b[1:5]),
		LastAttempt: int64(binary.BigEndian.Uint64(b[5:13])),
		Payload:     payload,
	}, nil
}

var keyPrefix = []byte("quote/")

func keyFor(seq uint64) []byte {
	key := make([]byte, len(keyPrefix)+8)
	copy(key, keyPrefix)
	binary.BigEndian.PutUint64(key[len(keyPrefix):], seq)
	return key
}

type Outbox struct {
	db *pebble.DB
}

func Open(dir string) (*Outbox, error) {
	db, err := pebble.Open(dir, &pebble.Options{
		DisableWAL: false, // delivery state must survive restarts
	})
	if err != nil {
		return nil, err
	}
	return &Outbox{db: db}, nil
}

func (o *Outbox) Close() error {
	return o.db.Close()
}

// Put stores a freshly emitted quote payload in state NEW.
func (o *Outbox) Put(seq uint64, payload []byte) error {
	rec := Record{State: StateNew, Payload: payload}
	return o.db.Set(keyFor(seq), encodeRecord(rec), pebble.Sync)
}

// MarkSent records a delivery attempt.
func (o *Outbox) MarkSent(seq uint64, at int64) error {
	return o.update(seq, func(r *Record) {
		r.State = StateSent
		r.Retries++
		r.LastAttempt = at
	})
}

// MarkAcked records broker acknowledgement; the record leaves the
// pending scan for good.
func (o *Outbox) MarkAcked(seq uint64) error {
	return o.update(seq, func(r *Record) { r.State = StateAcked })
}

// MarkFailed returns the record to the pending scan for a later retry.
func (o *Outbox) MarkFailed(seq uint64, at int64) error {
	return o.update(seq, func(r *Record) {
		r.State = StateFailed
		r.LastAttempt = at
	})
}

func (o *Outbox) update(seq uint64, mutate func(*Record)) error {
	key := keyFor(seq)
	val, closer, err := o.db.Get(key)
	if err != nil {
		return fmt.Errorf("outbox seq %d: %w", seq, err)
	}
	rec, err := decodeRecord(seq, val)
	_ = closer.Close()
	if err != nil {
		return err
	}
	mutate(&rec)
	return o.db.Set(key, encodeRecord(rec), pebble.Sync)
}

// Get returns the record for seq.
func (o *Outbox) Get(seq uint64) (Record, error) {
	val, closer, err := o.db.Get(keyFor(seq))
	if err != nil {
		return Record{}, fmt.Errorf("outbox seq %d: %w", seq, err)
	}
	defer closer.Close()
	return decodeRecord(seq, val)
}

// MaxSeq returns the highest stored sequence, or 0 when the outbox is
// empty. Used to seed the sequencer after a restart.
func (o *Outbox) MaxSeq() (uint64, error) {
	upper := append([]byte{}, keyPrefix...)
	upper[len(upper)-1]++
	iter, err := o.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: upper,
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	if !iter.Last() {
		return 0, iter.Error()
	}
	key := iter.Key()
	if len(key) != len(keyPrefix)+8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(key[len(keyPrefix):]), nil
}

// ScanPending visits every record not yet acked, in sequence order.
// Returning an error from fn stops the scan.
func (o *Outbox) ScanPending(fn func(*Record) error) error {
	upper := append([]byte{}, keyPrefix...)
	upper[len(upper)-1]++ // "quote/" -> "quote0", the prefix successor
	iter, err := o.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: upper,
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		if len(key) != len(keyPrefix)+8 {
			continue
		}
		seq := binary.BigEndian.Uint64(key[len(keyPrefix):])
		rec, err := decodeRecord(seq, iter.Value())
		if err != nil {
			continue
		}
		if rec.State == StateAcked {
			continue
		}
		if err := fn(&rec); err != nil {
			return err
		}
	}
	return iter.Error()
}
