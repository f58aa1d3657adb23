// Package broadcaster drains the trade outbox and publishes executed
// trades to Kafka. Delivery is at-least-once: a record is marked Sent
// before the produce attempt and Acked only after the broker confirms,
// so a crash between the two replays the trade on the next pass.
package broadcaster

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"helix/infra/tradestore"
)

// Event is the wire form of one executed trade.
type Event struct {
	V     int    `json:"v"`
	Seq   uint64 `json:"seq"`
	Buy   uint64 `json:"buy"`
	Sell  uint64 `json:"sell"`
	Price int64  `json:"price"`
	Qty   int64  `json:"qty"`
	Unix  int64  `json:"ts"`
}

type Broadcaster struct {
	store    *tradestore.Store
	producer sarama.SyncProducer
	topic    string
	interval time.Duration
	log      *zap.Logger
}

// New wires a broadcaster onto an existing producer. The caller owns
// broker configuration; see ProducerConfig for the expected settings.
func New(
	store *tradestore.Store,
	producer sarama.SyncProducer,
	topic string,
	interval time.Duration,
	log *zap.Logger,
) *Broadcaster {
	if log == nil {
		log = zap.NewNop()
	}
	return &Broadcaster{
		store:    store,
		producer: producer,
		topic:    topic,
		interval: interval,
		log:      log,
	}
}

// ProducerConfig is the sarama configuration the broadcaster expects:
// synchronous sends with full-ISR acks, bounded retries.
func ProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	return cfg
}

// Run publishes pending trades on a ticker until the context ends.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.log.Info("broadcaster started", zap.String("topic", b.topic))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.PublishPending()
		}
	}
}

// PublishPending performs one drain pass over the outbox.
func (b *Broadcaster) PublishPending() {
	err := b.store.ScanState(tradestore.StatePending, func(rec tradestore.Record) error {
		if err := b.store.MarkSent(rec.Seq); err != nil {
			return err
		}

		payload, err := json.Marshal(Event{
			V:     1,
			Seq:   rec.Seq,
			Buy:   rec.BuyID,
			Sell:  rec.SellID,
			Price: rec.Price,
			Qty:   rec.Qty,
			Unix:  rec.Unix,
		})
		if err != nil {
			return err
		}

		_, _, err = b.producer.SendMessage(&sarama.ProducerMessage{
			Topic: b.topic,
			Key:   sarama.StringEncoder(strconv.FormatUint(rec.Seq, 10)),
			Value: sarama.ByteEncoder(payload),
		})
		if err != nil {
			b.log.Warn("trade publish failed", zap.Uint64("seq", rec.Seq), zap.Error(err))
			return b.store.Requeue(rec.Seq)
		}

		return b.store.MarkAcked(rec.Seq)
	})
	if err != nil {
		b.log.Error("outbox scan failed", zap.Error(err))
	}
}

// RecoverSent requeues records stranded in Sent by a crash between
// produce and ack. Call once on startup, before Run.
func (b *Broadcaster) RecoverSent() error {
	return b.store.ScanState(tradestore.StateSent, func(rec tradestore.Record) error {
		return b.store.Requeue(rec.Seq)
	})
}

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
