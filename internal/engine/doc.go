// Package engine coordinates rebuilds and concurrent searches across all
// registered folder stores.
//
// Search fans one task out per participating store, bounded by a worker
// cap, and streams matching record batches back through a caller-supplied
// callback. Batches from different stores interleave arbitrarily; within a
// single store's stream, enumeration order is preserved. Cancellation is
// cooperative: every task polls the caller's flag and stops emitting once
// it flips.
//
// Rebuilds crawl a folder's tree into its store. A store mid-rebuild may
// serve stale or partial results to a concurrent search against the same
// store; the engine accepts this race rather than locking readers out.
package engine
