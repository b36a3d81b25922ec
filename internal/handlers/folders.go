package handlers

import (
	"encoding/json"
	"net/http"

	"file-search/internal/logging"
)

// folderRequest is the body for folder add/remove calls.
type folderRequest struct {
	Path string `json:"path"`
}

// folderOutcome is the response for a folder registration.
type folderOutcome struct {
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
}

// ListFolders returns all registered root folders.
func (h *Handlers) ListFolders(w http.ResponseWriter, _ *http.Request) {
	paths, err := h.cat.ListFolders()
	if err != nil {
		logging.Error("ListFolders failed: %v", err)
		writeJSONError(w, "failed to list folders", http.StatusInternalServerError)
		return
	}
	if paths == nil {
		paths = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{"folders": paths})
}

// AddFolder registers a new root folder. The outcome distinguishes a fresh
// registration from a duplicate and from a folder whose ancestor is
// already indexed, so the caller can warn the user about redundant
// coverage.
func (h *Handlers) AddFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeJSONError(w, "request body must be {\"path\": ...}", http.StatusBadRequest)
		return
	}

	outcome, err := h.cat.AddFolder(req.Path)
	if err != nil {
		logging.Error("AddFolder %s failed: %v", req.Path, err)
		writeJSONError(w, "failed to add folder", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, folderOutcome{Path: req.Path, Outcome: outcome.String()})
}

// RemoveFolder unregisters a root folder and drops its store. Removing an
// unknown path succeeds as a no-op.
func (h *Handlers) RemoveFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeJSONError(w, "request body must be {\"path\": ...}", http.StatusBadRequest)
		return
	}

	if err := h.cat.RemoveFolder(req.Path); err != nil {
		logging.Error("RemoveFolder %s failed: %v", req.Path, err)
		writeJSONError(w, "failed to remove folder", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": "removed", "path": req.Path})
}

// ClearFolders drops every store and empties the catalog.
func (h *Handlers) ClearFolders(w http.ResponseWriter, _ *http.Request) {
	if err := h.cat.ClearAll(); err != nil {
		logging.Error("ClearFolders failed: %v", err)
		writeJSONError(w, "failed to clear catalog", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": "cleared"})
}

// GetStats returns aggregate record and folder counts.
func (h *Handlers) GetStats(w http.ResponseWriter, _ *http.Request) {
	stats, err := h.cat.Stats()
	if err != nil {
		logging.Error("GetStats failed: %v", err)
		writeJSONError(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, stats)
}

// TriggerRebuild starts a rebuild. With a body naming a path, only that
// folder is rebuilt synchronously; with no path, a full rebuild of all
// folders starts in the background.
func (h *Handlers) TriggerRebuild(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	w.Header().Set("Content-Type", "application/json")

	if req.Path != "" {
		count, err := h.eng.RebuildFolder(req.Path, nil)
		if err != nil {
			logging.Error("Rebuild of %s failed: %v", req.Path, err)
			writeJSONError(w, "rebuild failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{"status": "rebuilt", "path": req.Path, "records": count})
		return
	}

	go h.eng.RebuildAll(nil)
	writeJSON(w, map[string]string{"status": "rebuild started"})
}
