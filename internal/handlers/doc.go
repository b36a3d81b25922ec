// Package handlers implements the collaborator-facing HTTP API.
//
// The handlers are a thin shell over the engine and catalog: folder
// registration, search, stats, rebuild triggering, and health reporting.
// All indexing and query semantics live in the engine; this layer only
// translates requests and streams results back as JSON.
package handlers
