package book

// priceLevel is the FIFO queue of resting orders at one exact price.
// A level exists in its side's tree iff the queue is non-empty.
type priceLevel struct {
	price      int64
	head       *orderNode
	tail       *orderNode
	totalQty   int64
	orderCount int
}

func (p *priceLevel) enqueue(n *orderNode) {
	if p.head == nil {
		p.head = n
		p.tail = n
	} else {
		p.tail.next = n
		n.prev = p.tail
		p.tail = n
	}
	n.level = p
	p.totalQty += n.order.Qty
	p.orderCount++
}

func (p *priceLevel) unlink(n *orderNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		p.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		p.tail = n.prev
	}
	p.totalQty -= n.order.Qty
	p.orderCount--
}

func (p *priceLevel) empty() bool { return p.head == nil }

func (p *priceLevel) summary() LevelSummary {
	return LevelSummary{Price: p.price, TotalQty: p.totalQty, Orders: p.orderCount}
}
