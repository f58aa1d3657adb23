// Package service is the only concurrent-safe write entry point into
// the matching core. It serializes PlaceOrder/CancelOrder over one
// engine, journals executed trades into the outbox, publishes
// top-of-book ticks, and records instrumentation. The domain packages
// below it stay single-writer and lock-free.
package service
