package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helix/domain/book"
)

func px(units int64) int64 { return units * book.TickFactor }

func lim(id uint64, side book.Side, price, qty int64) book.Order {
	return book.Order{ID: id, Type: book.Limit, Side: side, Price: px(price), Qty: qty}
}

func mkt(id uint64, side book.Side, qty int64) book.Order {
	return book.Order{ID: id, Type: book.Market, Side: side, Qty: qty}
}

func mustProcess(t *testing.T, e *Engine, o book.Order) []Trade {
	t.Helper()
	trades, err := e.ProcessOrder(o)
	require.NoError(t, err)
	return trades
}

func TestEngine_RestingLimitDoesNotTrade(t *testing.T) {
	e := NewEngine()

	trades := mustProcess(t, e, lim(1, book.Bid, 100, 10))
	assert.Empty(t, trades)
	require.True(t, e.HasBids())

	price, ok := e.BestBid()
	require.True(t, ok)
	assert.Equal(t, px(100), price)
}

func TestEngine_FullFillAtRestingPrice(t *testing.T) {
	e := NewEngine()
	mustProcess(t, e, lim(1, book.Ask, 101, 10))

	// Buyer willing to pay 102 still trades at the resting 101.
	trades := mustProcess(t, e, lim(2, book.Bid, 102, 10))
	require.Len(t, trades, 1)
	assert.Equal(t, uint64(2), trades[0].BuyID)
	assert.Equal(t, uint64(1), trades[0].SellID)
	assert.Equal(t, px(101), trades[0].Price)
	assert.Equal(t, int64(10), trades[0].Qty)

	assert.False(t, e.HasAsks())
	assert.False(t, e.HasBids())
}

func TestEngine_PartialFillRestsRemainder(t *testing.T) {
	e := NewEngine()
	mustProcess(t, e, lim(1, book.Ask, 101, 4))

	trades := mustProcess(t, e, lim(2, book.Bid, 101, 10))
	require.Len(t, trades, 1)
	assert.Equal(t, int64(4), trades[0].Qty)

	// Remainder of 6 rests as the new best bid.
	q, ok := e.Book().PeekBestBid()
	require.True(t, ok)
	assert.Equal(t, uint64(2), q.ID)
	assert.Equal(t, int64(6), q.Qty)
	assert.False(t, e.HasAsks())
}

func TestEngine_PartialFillShrinksRestingInPlace(t *testing.T) {
	e := NewEngine()
	mustProcess(t, e, lim(1, book.Ask, 101, 10))

	trades := mustProcess(t, e, lim(2, book.Bid, 101, 4))
	require.Len(t, trades, 1)
	assert.Equal(t, int64(4), trades[0].Qty)

	q, ok := e.Book().PeekBestAsk()
	require.True(t, ok)
	assert.Equal(t, uint64(1), q.ID)
	assert.Equal(t, int64(6), q.Qty)
}

func TestEngine_SweepAcrossLevels(t *testing.T) {
	e := NewEngine()
	mustProcess(t, e, lim(1, book.Ask, 101, 5))
	mustProcess(t, e, lim(2, book.Ask, 102, 5))
	mustProcess(t, e, lim(3, book.Ask, 103, 5))

	trades := mustProcess(t, e, lim(4, book.Bid, 102, 12))
	require.Len(t, trades, 2)
	assert.Equal(t, px(101), trades[0].Price)
	assert.Equal(t, int64(5), trades[0].Qty)
	assert.Equal(t, px(102), trades[1].Price)
	assert.Equal(t, int64(5), trades[1].Qty)

	// 2 left over, 103 is beyond the limit: remainder rests at 102.
	q, ok := e.Book().PeekBestBid()
	require.True(t, ok)
	assert.Equal(t, uint64(4), q.ID)
	assert.Equal(t, int64(2), q.Qty)

	best, ok := e.BestAsk()
	require.True(t, ok)
	assert.Equal(t, px(103), best)
}

func TestEngine_PricePriority(t *testing.T) {
	e := NewEngine()
	mustProcess(t, e, lim(1, book.Ask, 103, 5))
	mustProcess(t, e, lim(2, book.Ask, 101, 5))
	mustProcess(t, e, lim(3, book.Ask, 102, 5))

	trades := mustProcess(t, e, mkt(4, book.Bid, 15))
	require.Len(t, trades, 3)
	assert.Equal(t, []uint64{2, 3, 1}, []uint64{trades[0].SellID, trades[1].SellID, trades[2].SellID})
}

func TestEngine_TimePriorityWithinLevel(t *testing.T) {
	e := NewEngine()
	mustProcess(t, e, lim(1, book.Bid, 100, 5))
	mustProcess(t, e, lim(2, book.Bid, 100, 5))
	mustProcess(t, e, lim(3, book.Bid, 100, 5))

	trades := mustProcess(t, e, mkt(4, book.Ask, 12))
	require.Len(t, trades, 3)
	assert.Equal(t, uint64(1), trades[0].BuyID)
	assert.Equal(t, uint64(2), trades[1].BuyID)
	assert.Equal(t, uint64(3), trades[2].BuyID)
	assert.Equal(t, int64(2), trades[2].Qty)

	// Order 3 keeps its queue position with 3 remaining.
	q, ok := e.Book().PeekBestBid()
	require.True(t, ok)
	assert.Equal(t, uint64(3), q.ID)
	assert.Equal(t, int64(3), q.Qty)
}

func TestEngine_MarketLeftoverDiscarded(t *testing.T) {
	e := NewEngine()
	mustProcess(t, e, lim(1, book.Ask, 101, 5))

	trades := mustProcess(t, e, mkt(2, book.Bid, 20))
	require.Len(t, trades, 1)
	assert.Equal(t, int64(5), trades[0].Qty)

	// The unfilled 15 never rests anywhere.
	assert.False(t, e.HasBids())
	assert.False(t, e.HasAsks())
	assert.False(t, e.Book().Contains(2))
}

func TestEngine_MarketAgainstEmptyBook(t *testing.T) {
	e := NewEngine()
	trades := mustProcess(t, e, mkt(1, book.Bid, 10))
	assert.Empty(t, trades)
	assert.Equal(t, 0, e.Book().Len())
}

func TestEngine_NonCrossingLimitsCoexist(t *testing.T) {
	e := NewEngine()
	mustProcess(t, e, lim(1, book.Bid, 100, 10))
	trades := mustProcess(t, e, lim(2, book.Ask, 105, 10))
	assert.Empty(t, trades)
	assert.True(t, e.HasBids())
	assert.True(t, e.HasAsks())
}

func TestEngine_QuantityConservation(t *testing.T) {
	e := NewEngine()
	const resting = int64(30)
	mustProcess(t, e, lim(1, book.Ask, 101, 10))
	mustProcess(t, e, lim(2, book.Ask, 101, 10))
	mustProcess(t, e, lim(3, book.Ask, 102, 10))

	trades := mustProcess(t, e, lim(4, book.Bid, 102, 25))
	var executed int64
	for _, tr := range trades {
		executed += tr.Qty
	}
	var remaining int64
	e.Book().WalkAsks(func(l book.LevelSummary) bool {
		remaining += l.TotalQty
		return true
	})
	assert.Equal(t, resting, executed+remaining)
}

func TestEngine_TradeSeqMonotonic(t *testing.T) {
	e := NewEngine()
	for i := 0; i < 5; i++ {
		mustProcess(t, e, lim(uint64(i+1), book.Ask, 101, 1))
	}
	trades := mustProcess(t, e, mkt(10, book.Bid, 5))
	require.Len(t, trades, 5)
	for i, tr := range trades {
		assert.Equal(t, uint64(i+1), tr.Seq)
	}
}

func TestEngine_CancelIsIdempotent(t *testing.T) {
	e := NewEngine()
	mustProcess(t, e, lim(1, book.Bid, 100, 10))

	assert.True(t, e.CancelOrder(1))
	assert.False(t, e.CancelOrder(1))
	assert.False(t, e.CancelOrder(999))
}

func TestEngine_RejectsMalformed(t *testing.T) {
	e := NewEngine()

	_, err := e.ProcessOrder(lim(1, book.Bid, 100, 0))
	assert.ErrorIs(t, err, book.ErrInvalidQty)

	_, err = e.ProcessOrder(book.Order{ID: 1, Type: book.Limit, Side: book.Bid, Price: 0, Qty: 5})
	assert.ErrorIs(t, err, book.ErrInvalidPrice)

	mustProcess(t, e, lim(1, book.Bid, 100, 10))
	_, err = e.ProcessOrder(lim(1, book.Ask, 200, 5))
	assert.ErrorIs(t, err, book.ErrDuplicateID)

	// Reusing the ID of a departed order is allowed.
	require.True(t, e.CancelOrder(1))
	mustProcess(t, e, lim(1, book.Bid, 100, 10))
}
