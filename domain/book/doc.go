// Package book implements the resting side of the matching core: a
// single-instrument limit order book indexed two ways. A red-black tree
// per side keys price levels by integer tick for priority traversal,
// and an order-ID index into a book-owned arena gives O(1) cancellation
// and quantity updates without scanning levels.
//
// The book is the sole owner and mutator of resident order state.
// Lookups hand out value copies (Quote); all mutation goes through the
// book's own entry points. The book is a single-writer structure and
// performs no locking of its own; callers that need concurrent access
// serialize above it (see the service package).
package book
