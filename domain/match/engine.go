package match

import (
	"time"

	"helix/domain/book"
	"helix/infra/sequence"
)

// Engine matches incoming orders against a Book. It is a single-writer
// state machine: ProcessOrder and CancelOrder must never overlap on the
// same Engine. Callers needing concurrent submission serialize above it
// (see service.OrderService).
type Engine struct {
	book     *book.Book
	arrivals *sequence.Sequencer
	tradeSeq uint64
}

func NewEngine() *Engine {
	return &Engine{
		book:     book.New(),
		arrivals: sequence.New(0),
	}
}

// Book exposes the underlying book for read-only depth walks.
func (e *Engine) Book() *book.Book { return e.book }

// ProcessOrder stamps the order's arrival and matches it, returning
// the trades in consumption order. Malformed orders (non-positive
// quantity, non-positive limit price, or an ID still resting on the
// book) are rejected at this boundary: no trades, no book mutation.
func (e *Engine) ProcessOrder(o book.Order) ([]Trade, error) {
	if o.Qty <= 0 {
		return nil, book.ErrInvalidQty
	}
	if o.Type == book.Limit && o.Price <= 0 {
		return nil, book.ErrInvalidPrice
	}
	if e.book.Contains(o.ID) {
		return nil, book.ErrDuplicateID
	}
	o.SeqID = e.arrivals.Next()
	o.Timestamp = time.Now()

	if o.Type == book.Market {
		return e.matchMarket(&o), nil
	}
	return e.matchLimit(&o), nil
}

// CancelOrder removes a resting order. False means the ID was not
// resident: already filled, already cancelled, or never submitted.
func (e *Engine) CancelOrder(id uint64) bool {
	return e.book.Cancel(id)
}

func (e *Engine) HasBids() bool { return e.book.HasBids() }
func (e *Engine) HasAsks() bool { return e.book.HasAsks() }

func (e *Engine) BestBid() (int64, bool) { return e.book.BestBid() }
func (e *Engine) BestAsk() (int64, bool) { return e.book.BestAsk() }

// matchMarket sweeps the opposing side with no price check until the
// order is filled or liquidity runs out. Leftover quantity is
// discarded; market orders never rest.
func (e *Engine) matchMarket(o *book.Order) []Trade {
	var trades []Trade
	for o.Qty > 0 {
		q, ok := e.peekOpposite(o.Side)
		if !ok {
			break
		}
		trades = append(trades, e.execute(o, q))
	}
	return trades
}

// matchLimit crosses while the opposing priority price satisfies the
// limit, then rests any remainder. This is the only path by which a
// new resting order enters the book.
func (e *Engine) matchLimit(o *book.Order) []Trade {
	var trades []Trade
	for o.Qty > 0 {
		q, ok := e.peekOpposite(o.Side)
		if !ok {
			break
		}
		if o.Side == book.Bid && q.Price > o.Price {
			break
		}
		if o.Side == book.Ask && q.Price < o.Price {
			break
		}
		trades = append(trades, e.execute(o, q))
	}
	if o.Qty > 0 {
		// Validated on entry, cannot fail here.
		_ = e.book.AddResting(*o)
	}
	return trades
}

func (e *Engine) peekOpposite(s book.Side) (book.Quote, bool) {
	if s == book.Bid {
		return e.book.PeekBestAsk()
	}
	return e.book.PeekBestBid()
}

// execute fills the incoming order against the resting head quote at
// the resting price. A fully consumed resting order is retired through
// Cancel; a partial fill shrinks it in place, keeping its position.
func (e *Engine) execute(o *book.Order, q book.Quote) Trade {
	qty := min(o.Qty, q.Qty)
	o.Qty -= qty
	if qty == q.Qty {
		e.book.Cancel(q.ID)
	} else {
		e.book.ModifyQuantity(q.ID, q.Qty-qty)
	}
	e.tradeSeq++
	t := Trade{Seq: e.tradeSeq, Price: q.Price, Qty: qty}
	if o.Side == book.Bid {
		t.BuyID, t.SellID = o.ID, q.ID
	} else {
		t.BuyID, t.SellID = q.ID, o.ID
	}
	return t
}
