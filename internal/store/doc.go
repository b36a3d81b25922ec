// Package store provides the per-folder SQLite record stores.
//
// Each indexed root folder owns one database file holding a Record per
// filesystem entry discovered at the last rebuild. Rebuilds clear and
// repopulate a store in batched transactions; queries stream matching
// records back in batches with cooperative cancellation. Literal-mode
// filters are pushed down to the storage layer as LIKE/equality
// conditions backed by secondary indexes on name and extension, with
// the compiled filter remaining the authoritative per-record check.
//
// The database uses WAL mode for concurrent read performance. A query
// against a store that is mid-rebuild may observe partial contents;
// this read-during-rebuild race is accepted by design.
package store
