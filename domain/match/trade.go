package match

// Trade is one fill between an incoming order and a resting order.
// Price is always the resting order's price: the liquidity provider
// sets the terms. Trades are immutable once produced; Seq orders them
// by consumption within a book's lifetime.
type Trade struct {
	Seq    uint64
	BuyID  uint64
	SellID uint64
	Price  int64
	Qty    int64
}
