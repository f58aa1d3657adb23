package match

import (
	"testing"

	"helix/domain/book"
)

func BenchmarkProcessOrder_AddLimit(b *testing.B) {
	e := NewEngine()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		price := int64(100+i%100) * book.TickFactor
		side := book.Bid
		if i%2 == 1 {
			side = book.Ask
			price += 200 * book.TickFactor
		}
		e.ProcessOrder(book.Order{
			ID: uint64(i + 1), Type: book.Limit, Side: side, Price: price, Qty: 10,
		})
	}
}

func BenchmarkProcessOrder_CrossingMatch(b *testing.B) {
	e := NewEngine()
	price := int64(100) * book.TickFactor
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.ProcessOrder(book.Order{
			ID: uint64(2*i + 1), Type: book.Limit, Side: book.Ask, Price: price, Qty: 10,
		})
		e.ProcessOrder(book.Order{
			ID: uint64(2*i + 2), Type: book.Limit, Side: book.Bid, Price: price, Qty: 10,
		})
	}
}

func BenchmarkCancelOrder(b *testing.B) {
	e := NewEngine()
	for i := 0; i < b.N; i++ {
		e.ProcessOrder(book.Order{
			ID: uint64(i + 1), Type: book.Limit, Side: book.Bid,
			Price: int64(100+i%100) * book.TickFactor, Qty: 10,
		})
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.CancelOrder(uint64(i + 1))
	}
}
