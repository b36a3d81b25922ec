// Package catalog maintains the registry of indexed root folders.
//
// The catalog is a SQLite database mapping each normalized root path to a
// stable store handle derived from the path. Every registered folder owns
// one physical store created at registration time and deleted on removal.
// The registry persists across restarts and is the single source of truth
// for which stores exist; mutations are serialized, while reads may run
// concurrently with in-flight queries.
package catalog
