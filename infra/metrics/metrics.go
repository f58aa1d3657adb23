// Package metrics exposes the engine's prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	OrdersProcessed prometheus.Counter
	OrdersRejected  prometheus.Counter
	TradesExecuted  prometheus.Counter
	CancelHits      prometheus.Counter
	CancelMisses    prometheus.Counter

	RestingOrders prometheus.Gauge
	BookLevels    *prometheus.GaugeVec

	ProcessLatency prometheus.Histogram
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		OrdersProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_processed_total",
			Help:      "Orders accepted by the matching engine.",
		}),
		OrdersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Orders rejected at the boundary (bad qty/price or duplicate id).",
		}),
		TradesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_executed_total",
			Help:      "Trades synthesized by the matching engine.",
		}),
		CancelHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancels_hit_total",
			Help:      "Cancels that removed a resting order.",
		}),
		CancelMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancels_miss_total",
			Help:      "Cancels for ids not resident (already filled or cancelled).",
		}),
		RestingOrders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resting_orders",
			Help:      "Orders currently resting across both sides.",
		}),
		BookLevels: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "book_levels",
			Help:      "Distinct price levels per side.",
		}, []string{"side"}),
		ProcessLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "process_order_seconds",
			Help:      "Wall time of one ProcessOrder call.",
			Buckets:   prometheus.ExponentialBuckets(100e-9, 4, 12),
		}),
	}

	registry.MustRegister(
		m.OrdersProcessed,
		m.OrdersRejected,
		m.TradesExecuted,
		m.CancelHits,
		m.CancelMisses,
		m.RestingOrders,
		m.BookLevels,
		m.ProcessLatency,
	)
	return m
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
