package service

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"helix/domain/book"
	"helix/domain/match"
	"helix/infra/metrics"
	"helix/infra/tradestore"
)

// TradeJournal receives every executed trade. Satisfied by
// *tradestore.Store.
type TradeJournal interface {
	Append(tradestore.Record) error
}

// TickPublisher carries top-of-book payloads to the market-data topic.
// Satisfied by *kafka.Producer.
type TickPublisher interface {
	Send(ctx context.Context, key, value []byte) error
}

// FeedPublisher fans tick frames out to live subscribers. Satisfied by
// *marketdata.Hub.
type FeedPublisher interface {
	Broadcast(payload []byte)
}

// Tick is the top-of-book snapshot emitted after every write.
type Tick struct {
	Seq       uint64 `json:"seq"`
	BestBid   string `json:"best_bid,omitempty"`
	BestAsk   string `json:"best_ask,omitempty"`
	LastPrice string `json:"last_price,omitempty"`
	LastQty   int64  `json:"last_qty,omitempty"`
	Unix      int64  `json:"ts"`
}

// Level is one aggregated price level in a depth view.
type Level struct {
	Price string `json:"price"`
	Qty   int64  `json:"qty"`
	Count int    `json:"count"`
}

// Depth is a bounded view of both sides, best first.
type Depth struct {
	Bids []Level `json:"bids"`
	Asks []Level `json:"asks"`
}

// OrderService wires the engine to its collaborators. journal, ticks,
// feed, and m may be nil; the corresponding side effect is skipped.
type OrderService struct {
	mu      sync.Mutex
	engine  *match.Engine
	journal TradeJournal
	ticks   TickPublisher
	feed    FeedPublisher
	m       *metrics.Metrics
	log     *zap.Logger
	tickSeq uint64
}

func New(
	engine *match.Engine,
	journal TradeJournal,
	ticks TickPublisher,
	feed FeedPublisher,
	m *metrics.Metrics,
	log *zap.Logger,
) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		engine:  engine,
		journal: journal,
		ticks:   ticks,
		feed:    feed,
		m:       m,
		log:     log,
	}
}

// PlaceOrder submits one order and returns its trades in consumption
// order. The lock makes the engine's multi-step match loop atomic with
// respect to other callers.
func (s *OrderService) PlaceOrder(ctx context.Context, o book.Order) ([]match.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	trades, err := s.engine.ProcessOrder(o)
	elapsed := time.Since(start)

	if s.m != nil {
		s.m.ProcessLatency.Observe(elapsed.Seconds())
		if err != nil {
			s.m.OrdersRejected.Inc()
		} else {
			s.m.OrdersProcessed.Inc()
		}
		s.m.TradesExecuted.Add(float64(len(trades)))
		s.observeBook()
	}
	if err != nil {
		s.log.Warn("order rejected", zap.Uint64("order_id", o.ID), zap.Error(err))
		return nil, err
	}

	now := time.Now().UnixNano()
	for _, t := range trades {
		s.journalTrade(t, now)
	}
	s.publishTick(ctx, trades, now)

	s.log.Debug("order processed",
		zap.Uint64("order_id", o.ID),
		zap.String("side", o.Side.String()),
		zap.String("type", o.Type.String()),
		zap.Int("trades", len(trades)),
		zap.Duration("elapsed", elapsed),
	)
	return trades, nil
}

// CancelOrder removes a resting order; false means not resident.
func (s *OrderService) CancelOrder(ctx context.Context, id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.engine.CancelOrder(id)
	if s.m != nil {
		if ok {
			s.m.CancelHits.Inc()
		} else {
			s.m.CancelMisses.Inc()
		}
		s.observeBook()
	}
	if ok {
		s.publishTick(ctx, nil, time.Now().UnixNano())
	}
	return ok
}

func (s *OrderService) BestBid() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.BestBid()
}

func (s *OrderService) BestAsk() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.BestAsk()
}

// BookDepth aggregates up to maxLevels per side, best first.
func (s *OrderService) BookDepth(maxLevels int) Depth {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := Depth{Bids: make([]Level, 0, maxLevels), Asks: make([]Level, 0, maxLevels)}
	s.engine.Book().WalkBids(func(l book.LevelSummary) bool {
		d.Bids = append(d.Bids, toLevel(l))
		return len(d.Bids) < maxLevels
	})
	s.engine.Book().WalkAsks(func(l book.LevelSummary) bool {
		d.Asks = append(d.Asks, toLevel(l))
		return len(d.Asks) < maxLevels
	})
	return d
}

func (s *OrderService) journalTrade(t match.Trade, now int64) {
	if s.journal == nil {
		return
	}
	err := s.journal.Append(tradestore.Record{
		Seq:    t.Seq,
		BuyID:  t.BuyID,
		SellID: t.SellID,
		Price:  t.Price,
		Qty:    t.Qty,
		Unix:   now,
	})
	if err != nil {
		s.log.Error("trade journal append failed", zap.Uint64("seq", t.Seq), zap.Error(err))
	}
}

func (s *OrderService) publishTick(ctx context.Context, trades []match.Trade, now int64) {
	if s.ticks == nil && s.feed == nil {
		return
	}

	s.tickSeq++
	tick := Tick{Seq: s.tickSeq, Unix: now}
	if bid, ok := s.engine.BestBid(); ok {
		tick.BestBid = book.FromTicks(bid).String()
	}
	if ask, ok := s.engine.BestAsk(); ok {
		tick.BestAsk = book.FromTicks(ask).String()
	}
	if n := len(trades); n > 0 {
		last := trades[n-1]
		tick.LastPrice = book.FromTicks(last.Price).String()
		tick.LastQty = last.Qty
	}

	payload, err := json.Marshal(tick)
	if err != nil {
		return
	}
	if s.ticks != nil {
		key := []byte(strconv.FormatUint(tick.Seq, 10))
		if err := s.ticks.Send(ctx, key, payload); err != nil {
			s.log.Warn("tick publish failed", zap.Uint64("seq", tick.Seq), zap.Error(err))
		}
	}
	if s.feed != nil {
		s.feed.Broadcast(payload)
	}
}

// observeBook refreshes the book gauges. Level counts come straight
// from the trees, so this stays O(1) on the write path.
func (s *OrderService) observeBook() {
	b := s.engine.Book()
	s.m.RestingOrders.Set(float64(b.Len()))
	s.m.BookLevels.WithLabelValues("bid").Set(float64(b.BidLevels()))
	s.m.BookLevels.WithLabelValues("ask").Set(float64(b.AskLevels()))
}

func toLevel(l book.LevelSummary) Level {
	return Level{
		Price: book.FromTicks(l.Price).String(),
		Qty:   l.TotalQty,
		Count: l.Orders,
	}
}
