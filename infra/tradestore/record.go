package tradestore

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// State tracks a trade record through the broadcast pipeline.
type State uint8

const (
	StatePending State = iota
	StateSent
	StateAcked
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateSent:
		return "SENT"
	case StateAcked:
		return "ACKED"
	default:
		return "UNKNOWN"
	}
}

// Record is one executed trade in the outbox.
type Record struct {
	Seq     uint64
	BuyID   uint64
	SellID  uint64
	Price   int64
	Qty     int64
	Unix    int64
	State   State
	Retries uint32
}

var ErrCorruptRecord = errors.New("corrupt trade record")

// binary layout:
// [state:1][retries:4][seq:8][buy:8][sell:8][price:8][qty:8][unix:8][crc:4]
const recordSize = 1 + 4 + 6*8 + 4

func encodeRecord(r Record) []byte {
	buf := make([]byte, recordSize)
	buf[0] = byte(r.State)
	binary.BigEndian.PutUint32(buf[1:5], r.Retries)
	binary.BigEndian.PutUint64(buf[5:13], r.Seq)
	binary.BigEndian.PutUint64(buf[13:21], r.BuyID)
	binary.BigEndian.PutUint64(buf[21:29], r.SellID)
	binary.BigEndian.PutUint64(buf[29:37], uint64(r.Price))
	binary.BigEndian.PutUint64(buf[37:45], uint64(r.Qty))
	binary.BigEndian.PutUint64(buf[45:53], uint64(r.Unix))
	sum := crc32.ChecksumIEEE(buf[:recordSize-4])
	binary.BigEndian.PutUint32(buf[recordSize-4:], sum)
	return buf
}

func decodeRecord(b []byte) (Record, error) {
	if len(b) != recordSize {
		return Record{}, ErrCorruptRecord
	}
	sum := binary.BigEndian.Uint32(b[recordSize-4:])
	if crc32.ChecksumIEEE(b[:recordSize-4]) != sum {
		return Record{}, ErrCorruptRecord
	}
	return Record{
		State:   State(b[0]),
		Retries: binary.BigEndian.Uint32(b[1:5]),
		Seq:     binary.BigEndian.Uint64(b[5:13]),
		BuyID:   binary.BigEndian.Uint64(b[13:21]),
		SellID:  binary.BigEndian.Uint64(b[21:29]),
		Price:   int64(binary.BigEndian.Uint64(b[29:37])),
		Qty:     int64(binary.BigEndian.Uint64(b[37:45])),
		Unix:    int64(binary.BigEndian.Uint64(b[45:53])),
	}, nil
}
