package book

import "errors"

var (
	// ErrNotLimit rejects Market orders offered directly to the book;
	// only Limit orders ever rest.
	ErrNotLimit = errors.New("only limit orders may rest on the book")
	// ErrDuplicateID rejects an ID that is already resident.
	ErrDuplicateID = errors.New("order id already resting")
	ErrInvalidPrice = errors.New("non-positive price")
	ErrInvalidQty   = errors.New("non-positive quantity")
)

// Book holds the resting orders of one instrument: a level tree per
// side plus an ID index into the shared arena.
type Book struct {
	bids  *levelTree
	asks  *levelTree
	index map[uint64]*orderNode
	slots arena
}

func New() *Book {
	return &Book{
		bids:  newLevelTree(),
		asks:  newLevelTree(),
		index: make(map[uint64]*orderNode),
	}
}

// AddResting appends a Limit order to the tail of its price level,
// creating the level if absent. The order is copied into the arena; the
// caller's value is not retained.
func (b *Book) AddResting(o Order) error {
	if o.Type != Limit {
		return ErrNotLimit
	}
	if o.Qty <= 0 {
		return ErrInvalidQty
	}
	if o.Price <= 0 {
		return ErrInvalidPrice
	}
	if _, dup := b.index[o.ID]; dup {
		return ErrDuplicateID
	}
	n := b.slots.alloc(o)
	b.tree(o.Side).upsert(o.Price).enqueue(n)
	b.index[o.ID] = n
	return nil
}

// Cancel removes the order from its level and the ID index. An absent
// ID is a normal outcome, not an error: it reports false.
func (b *Book) Cancel(id uint64) bool {
	n, ok := b.index[id]
	if !ok {
		return false
	}
	b.retire(n)
	return true
}

// ModifyQuantity updates a resident order's remaining quantity in
// place, preserving its queue position. Quantity must stay positive; a
// fill that empties an order goes through Cancel instead.
func (b *Book) ModifyQuantity(id uint64, qty int64) bool {
	if qty <= 0 {
		return false
	}
	n, ok := b.index[id]
	if !ok {
		return false
	}
	n.level.totalQty += qty - n.order.Qty
	n.order.Qty = qty
	return true
}

func (b *Book) Contains(id uint64) bool {
	_, ok := b.index[id]
	return ok
}

// Len is the number of resting orders across both sides.
func (b *Book) Len() int { return len(b.index) }

func (b *Book) HasBids() bool { return b.bids.len() > 0 }
func (b *Book) HasAsks() bool { return b.asks.len() > 0 }

// BidLevels and AskLevels are the distinct non-empty price counts per
// side, maintained by the level trees.
func (b *Book) BidLevels() int { return b.bids.len() }
func (b *Book) AskLevels() int { return b.asks.len() }

// BestBid is the highest resting bid price.
func (b *Book) BestBid() (int64, bool) {
	lvl := b.bids.max()
	if lvl == nil {
		return 0, false
	}
	return lvl.price, true
}

// BestAsk is the lowest resting ask price.
func (b *Book) BestAsk() (int64, bool) {
	lvl := b.asks.min()
	if lvl == nil {
		return 0, false
	}
	return lvl.price, true
}

// PeekBestBid returns a copy of the FIFO head of the priority bid
// level: the order that has waited longest at the highest price.
func (b *Book) PeekBestBid() (Quote, bool) {
	return peek(b.bids.max())
}

// PeekBestAsk returns a copy of the FIFO head of the priority ask
// level.
func (b *Book) PeekBestAsk() (Quote, bool) {
	return peek(b.asks.min())
}

// WalkBids visits bid levels best to worst until fn returns false.
func (b *Book) WalkBids(fn func(LevelSummary) bool) {
	b.bids.descend(func(lvl *priceLevel) bool { return fn(lvl.summary()) })
}

// WalkAsks visits ask levels best to worst until fn returns false.
func (b *Book) WalkAsks(fn func(LevelSummary) bool) {
	b.asks.ascend(func(lvl *priceLevel) bool { return fn(lvl.summary()) })
}

func (b *Book) tree(s Side) *levelTree {
	if s == Bid {
		return b.bids
	}
	return b.asks
}

// retire unlinks a node, drops its level if emptied, and recycles the
// slot. Level removal is immediate so best-price queries never see a
// stale empty level.
func (b *Book) retire(n *orderNode) {
	lvl := n.level
	side := n.order.Side
	id := n.order.ID
	lvl.unlink(n)
	if lvl.empty() {
		b.tree(side).remove(lvl.price)
	}
	delete(b.index, id)
	b.slots.release(n)
}

func peek(lvl *priceLevel) (Quote, bool) {
	if lvl == nil || lvl.head == nil {
		return Quote{}, false
	}
	o := &lvl.head.order
	return Quote{ID: o.ID, Price: o.Price, Qty: o.Qty}, true
}
