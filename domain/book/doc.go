// Package book maintains an in-memory limit order book per instrument
// from a stream of order-lifecycle events (new, cancel, execute). It
// keeps two red-black trees of price levels ordered best-first, an
// order-id registry for O(1) cancel and execute, and emits a top-of-book
// quote through an injected sink whenever the best price on either side
// may have changed.
//
// The book is a single-writer structure with no internal locking;
// asynchronous delivery of quotes is the pipeline package's concern.
package book
