package book

// orderNode is an arena slot holding one resting order. The level FIFO
// and the ID index both point at the same node, which the book owns for
// the order's whole resident life.
type orderNode struct {
	order Order
	level *priceLevel
	next  *orderNode
	prev  *orderNode
}

// arena is a free-list of order slots. Retired slots are recycled so a
// steady-state book allocates nothing on the hot path.
type arena struct {
	free *orderNode
}

func (a *arena) alloc(o Order) *orderNode {
	n := a.free
	if n == nil {
		n = &orderNode{}
	} else {
		a.free = n.next
	}
	n.order = o
	n.level = nil
	n.next = nil
	n.prev = nil
	return n
}

func (a *arena) release(n *orderNode) {
	n.order = Order{}
	n.level = nil
	n.prev = nil
	n.next = a.free
	a.free = n
}
