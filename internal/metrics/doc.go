// Package metrics defines Prometheus metrics for the file search engine.
//
// Metrics cover the index rebuild pipeline (runs, durations, entries
// processed), per-store query activity, concurrent search fan-out, and the
// collaborator-facing HTTP surface. All metrics are registered with the
// default registry via promauto and exposed on the metrics endpoint.
package metrics
