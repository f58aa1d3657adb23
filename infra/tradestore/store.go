// Package tradestore is a durable outbox for executed trades. Records
// move Pending → Sent → Acked as the broadcaster publishes them; book
// state itself is never persisted here.
package tradestore

import (
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
)

type Store struct {
	db *pebble.DB
}

func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open trade store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append records a freshly executed trade as Pending.
func (s *Store) Append(r Record) error {
	r.State = StatePending
	r.Retries = 0
	return s.db.Set(keyFor(r.Seq), encodeRecord(r), pebble.Sync)
}

// Get returns the record for a trade sequence number.
func (s *Store) Get(seq uint64) (Record, error) {
	val, closer, err := s.db.Get(keyFor(seq))
	if err != nil {
		return Record{}, err
	}
	defer closer.Close()
	return decodeRecord(val)
}

// MarkSent flags a record as handed to the producer and counts the
// attempt.
func (s *Store) MarkSent(seq uint64) error {
	return s.update(seq, func(r *Record) {
		r.State = StateSent
		r.Retries++
		r.Unix = time.Now().UnixNano()
	})
}

// MarkAcked flags a record as confirmed by the broker.
func (s *Store) MarkAcked(seq uint64) error {
	return s.update(seq, func(r *Record) {
		r.State = StateAcked
	})
}

// Requeue returns a record to Pending for another publish attempt,
// keeping its retry count.
func (s *Store) Requeue(seq uint64) error {
	return s.update(seq, func(r *Record) {
		r.State = StatePending
	})
}

// Delete removes an acked record during cleanup.
func (s *Store) Delete(seq uint64) error {
	return s.db.Delete(keyFor(seq), pebble.Sync)
}

// ScanState visits every record in the given state in trade order.
func (s *Store) ScanState(state State, fn func(Record) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("trade/"),
		UpperBound: []byte("trade/~"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		rec, err := decodeRecord(iter.Value())
		if err != nil {
			return err
		}
		if rec.State != state {
			continue
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (s *Store) update(seq uint64, mutate func(*Record)) error {
	rec, err := s.Get(seq)
	if err != nil {
		return err
	}
	mutate(&rec)
	return s.db.Set(keyFor(seq), encodeRecord(rec), pebble.Sync)
}

func keyFor(seq uint64) []byte {
	return []byte(fmt.Sprintf("trade/%020d", seq))
}
