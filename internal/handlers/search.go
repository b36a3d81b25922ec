package handlers

import (
	"net/http"
	"strconv"
	"sync/atomic"

	"file-search/internal/filter"
	"file-search/internal/logging"
	"file-search/internal/store"
)

const (
	defaultSearchLimit = 1000
	maxSearchLimit     = 10000
)

// searchResponse is the body returned by Search.
type searchResponse struct {
	Items     []store.Record `json:"items"`
	Count     int            `json:"count"`
	Truncated bool           `json:"truncated"`
}

// Search runs a filtered search across all indexed folders.
//
// Query parameters: name, ext, path (criteria groups, alternatives
// separated by comma/semicolon/space), pattern=true for regular
// expression mode, scope to restrict to one subtree, and limit for the
// maximum number of results. Disconnecting the client cancels the search.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	usePattern, _ := strconv.ParseBool(q.Get("pattern"))
	spec := filter.Compile(q.Get("name"), q.Get("ext"), q.Get("path"), usePattern)

	limit := defaultSearchLimit
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	ctx := r.Context()
	var full atomic.Bool

	cancelled := func() bool {
		return ctx.Err() != nil || full.Load()
	}

	items := make([]store.Record, 0, 64)
	onBatch := func(batch []store.Record) {
		items = append(items, batch...)
		if len(items) >= limit {
			full.Store(true)
		}
	}

	if err := h.eng.Search(spec, q.Get("scope"), cancelled, onBatch); err != nil {
		logging.Error("Search failed: %v", err)
		writeJSONError(w, "search failed", http.StatusInternalServerError)
		return
	}

	truncated := full.Load()
	if len(items) > limit {
		items = items[:limit]
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, searchResponse{Items: items, Count: len(items), Truncated: truncated})
}
