package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"file-search/internal/catalog"
	"file-search/internal/engine"
	"file-search/internal/logging"
	"file-search/internal/startup"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	cat       *catalog.Catalog
	eng       *engine.Engine
	startTime time.Time
}

// New creates a new Handlers instance.
func New(cat *catalog.Catalog, eng *engine.Engine) *Handlers {
	return &Handlers{
		cat:       cat,
		eng:       eng,
		startTime: time.Now(),
	}
}

// GetVersion returns build information.
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, startup.GetBuildInfo())
}

// writeJSON encodes v as JSON and writes it to the response writer.
// Encoding errors are logged; there is no way to recover mid-response.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}
