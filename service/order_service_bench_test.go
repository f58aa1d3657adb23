package service

import (
	"context"
	"sync/atomic"
	"testing"

	"helix/domain/book"
	"helix/domain/match"
)

func BenchmarkPlaceOrder_Serialized(b *testing.B) {
	svc := New(match.NewEngine(), nil, nil, nil, nil, nil)
	ctx := context.Background()

	var id atomic.Uint64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			n := id.Add(1)
			side := book.Bid
			price := int64(100+n%100) * book.TickFactor
			if n%2 == 1 {
				side = book.Ask
				price += 200 * book.TickFactor
			}
			svc.PlaceOrder(ctx, book.Order{
				ID: n, Type: book.Limit, Side: side, Price: price, Qty: 10,
			})
		}
	})
}

func BenchmarkCancelOrder_Serialized(b *testing.B) {
	svc := New(match.NewEngine(), nil, nil, nil, nil, nil)
	ctx := context.Background()

	for i := 0; i < b.N; i++ {
		svc.PlaceOrder(ctx, book.Order{
			ID: uint64(i + 1), Type: book.Limit, Side: book.Bid,
			Price: int64(100+i%100) * book.TickFactor, Qty: 10,
		})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		svc.CancelOrder(ctx, uint64(i+1))
	}
}
