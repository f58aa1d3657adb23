// Command helix-bench measures per-operation latency of the matching
// core outside the test harness: wall-clock samples over large batches,
// reported as median, mean, and p99.
package main

import (
	"flag"
	"fmt"
	"slices"
	"time"

	"helix/domain/book"
	"helix/domain/match"
)

func main() {
	ops := flag.Int("ops", 100_000, "operations per scenario")
	flag.Parse()

	report("add limit order", benchAddLimit(*ops))
	report("crossing match", benchCrossingMatch(*ops))
	report("market sweep", benchMarketSweep(*ops))
	report("cancel order", benchCancel(*ops))
}

func priceAt(i int) int64 {
	return int64(100+i%100) * book.TickFactor
}

func sideAt(i int) book.Side {
	if i%2 == 0 {
		return book.Bid
	}
	return book.Ask
}

// benchAddLimit spreads non-crossing limit orders across 100 price
// levels on alternating sides. Bids sit at 100..199, asks at 300..399,
// so nothing ever matches and every op exercises the insert path.
func benchAddLimit(ops int) []time.Duration {
	e := match.NewEngine()
	samples := make([]time.Duration, 0, ops)
	for i := 0; i < ops; i++ {
		o := book.Order{
			ID:    uint64(i + 1),
			Type:  book.Limit,
			Side:  sideAt(i),
			Price: priceAt(i),
			Qty:   10,
		}
		if o.Side == book.Ask {
			o.Price += 200 * book.TickFactor
		}
		start := time.Now()
		e.ProcessOrder(o)
		samples = append(samples, time.Since(start))
	}
	return samples
}

// benchCrossingMatch rests one ask and times the buy that consumes it,
// on a fresh engine per iteration so the book never accumulates state.
func benchCrossingMatch(ops int) []time.Duration {
	samples := make([]time.Duration, 0, ops)
	for i := 0; i < ops; i++ {
		e := match.NewEngine()
		e.ProcessOrder(book.Order{
			ID: 1, Type: book.Limit, Side: book.Ask,
			Price: 100 * book.TickFactor, Qty: 10,
		})
		buy := book.Order{
			ID: 2, Type: book.Limit, Side: book.Bid,
			Price: 100 * book.TickFactor, Qty: 10,
		}
		start := time.Now()
		e.ProcessOrder(buy)
		samples = append(samples, time.Since(start))
	}
	return samples
}

// benchMarketSweep times a market order that walks ten resting levels.
func benchMarketSweep(ops int) []time.Duration {
	samples := make([]time.Duration, 0, ops)
	for i := 0; i < ops; i++ {
		e := match.NewEngine()
		for j := 0; j < 10; j++ {
			e.ProcessOrder(book.Order{
				ID: uint64(j + 1), Type: book.Limit, Side: book.Ask,
				Price: int64(100+j) * book.TickFactor, Qty: 1,
			})
		}
		sweep := book.Order{ID: 11, Type: book.Market, Side: book.Bid, Qty: 10}
		start := time.Now()
		e.ProcessOrder(sweep)
		samples = append(samples, time.Since(start))
	}
	return samples
}

// benchCancel prefills the book, then times removal of every order.
func benchCancel(ops int) []time.Duration {
	e := match.NewEngine()
	for i := 0; i < ops; i++ {
		o := book.Order{
			ID:    uint64(i + 1),
			Type:  book.Limit,
			Side:  sideAt(i),
			Price: priceAt(i),
			Qty:   10,
		}
		if o.Side == book.Ask {
			o.Price += 200 * book.TickFactor
		}
		e.ProcessOrder(o)
	}
	samples := make([]time.Duration, 0, ops)
	for i := 0; i < ops; i++ {
		id := uint64(i + 1)
		start := time.Now()
		e.CancelOrder(id)
		samples = append(samples, time.Since(start))
	}
	return samples
}

func report(name string, samples []time.Duration) {
	slices.Sort(samples)
	var total time.Duration
	for _, s := range samples {
		total += s
	}
	n := len(samples)
	median := samples[n/2]
	mean := total / time.Duration(n)
	p99 := samples[n*99/100]
	fmt.Printf("%-20s ops=%d median=%v mean=%v p99=%v\n", name, n, median, mean, p99)
}
