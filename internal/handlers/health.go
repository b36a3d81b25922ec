package handlers

import (
	"net/http"
	"runtime"
	"time"

	"file-search/internal/logging"
	"file-search/internal/startup"
)

const (
	statusHealthy    = "healthy"
	statusRebuilding = "rebuilding"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
	Rebuilding  bool   `json:"rebuilding"`
	LastRebuilt string `json:"lastRebuilt,omitempty"`

	EntriesIndexed int64 `json:"entriesIndexed"`
	TotalRecords   int64 `json:"totalRecords,omitempty"`
	FolderCount    int   `json:"folderCount"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:         statusHealthy,
		Version:        startup.Version,
		Uptime:         time.Since(h.startTime).Round(time.Second).String(),
		Rebuilding:     h.eng.IsRebuilding(),
		EntriesIndexed: h.eng.EntriesIndexed(),
		GoVersion:      runtime.Version(),
		NumCPU:         runtime.NumCPU(),
		NumGoroutine:   runtime.NumGoroutine(),
	}

	if response.Rebuilding {
		response.Status = statusRebuilding
	}

	if last := h.eng.LastRebuildTime(); !last.IsZero() {
		response.LastRebuilt = last.Format(time.RFC3339)
	}

	if stats, err := h.cat.Stats(); err == nil {
		response.TotalRecords = stats.TotalRecords
		response.FolderCount = stats.FolderCount
	} else {
		logging.Warn("HealthCheck: stats unavailable: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}

// LivenessCheck reports that the process is alive.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": "alive"})
}

// ReadinessCheck reports whether the catalog is reachable.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if _, err := h.cat.ListFolders(); err != nil {
		writeJSONError(w, "catalog unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"status": "ready"})
}
