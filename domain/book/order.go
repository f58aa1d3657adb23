package book

import "time"

type Side int

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	if s == Bid {
		return "bid"
	}
	return "ask"
}

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

type OrderType int

const (
	Limit OrderType = iota
	Market
)

func (t OrderType) String() string {
	if t == Market {
		return "market"
	}
	return "limit"
}

// Order is an order as handed to the matching core. IDs are
// caller-assigned and never reused. Price is in integer ticks and is
// ignored for Market orders. Qty is the remaining quantity; an order
// whose quantity reaches zero is retired immediately and is never
// observable through the book.
type Order struct {
	ID        uint64
	Type      OrderType
	Side      Side
	Price     int64
	Qty       int64
	SeqID     uint64
	Timestamp time.Time
}

// Quote is a value copy of the order at the head of a priority level.
// It is a snapshot, not a handle: mutating the underlying order is done
// through Cancel and ModifyQuantity, never through the Quote.
type Quote struct {
	ID    uint64
	Price int64
	Qty   int64
}

// LevelSummary describes one price level for depth walks.
type LevelSummary struct {
	Price    int64
	TotalQty int64
	Orders   int
}
