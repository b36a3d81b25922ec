package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"file-search/internal/catalog"
	"file-search/internal/engine"
)

func newTestHandlers(t *testing.T) (*Handlers, *catalog.Catalog, *engine.Engine) {
	t.Helper()

	cat, err := catalog.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open catalog: %v", err)
	}
	t.Cleanup(func() {
		if err := cat.Close(); err != nil {
			t.Logf("close error: %v", err)
		}
	})

	eng := engine.New(cat)
	return New(cat, eng), cat, eng
}

// indexedFolder creates a directory with files, registers it, and rebuilds
// its store.
func indexedFolder(t *testing.T, cat *catalog.Catalog, eng *engine.Engine, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if _, err := cat.AddFolder(dir); err != nil {
		t.Fatalf("AddFolder failed: %v", err)
	}
	if _, err := eng.RebuildFolder(dir, nil); err != nil {
		t.Fatalf("RebuildFolder failed: %v", err)
	}
	return dir
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestAddFolderEndpoint(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	dir := t.TempDir()

	body := strings.NewReader(fmt.Sprintf(`{"path": %q}`, dir))
	rec := httptest.NewRecorder()
	h.AddFolder(rec, httptest.NewRequest("POST", "/api/folders", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out folderOutcome
	decodeBody(t, rec, &out)
	if out.Outcome != "added" {
		t.Errorf("Expected outcome added, got %q", out.Outcome)
	}

	// Registering the same folder again reports the duplicate.
	rec = httptest.NewRecorder()
	h.AddFolder(rec, httptest.NewRequest("POST", "/api/folders", strings.NewReader(fmt.Sprintf(`{"path": %q}`, dir))))
	decodeBody(t, rec, &out)
	if out.Outcome != "already-present" {
		t.Errorf("Expected outcome already-present, got %q", out.Outcome)
	}
}

func TestAddFolderBadRequest(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	for _, body := range []string{"", "{}", "not json"} {
		rec := httptest.NewRecorder()
		h.AddFolder(rec, httptest.NewRequest("POST", "/api/folders", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestListFoldersEndpoint(t *testing.T) {
	h, cat, eng := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ListFolders(rec, httptest.NewRequest("GET", "/api/folders", nil))

	var out struct {
		Folders []string `json:"folders"`
	}
	decodeBody(t, rec, &out)
	if out.Folders == nil || len(out.Folders) != 0 {
		t.Errorf("Expected empty folder array, got %v", out.Folders)
	}

	dir := indexedFolder(t, cat, eng, "a.txt")

	rec = httptest.NewRecorder()
	h.ListFolders(rec, httptest.NewRequest("GET", "/api/folders", nil))
	decodeBody(t, rec, &out)
	if len(out.Folders) != 1 || out.Folders[0] != dir {
		t.Errorf("Expected [%s], got %v", dir, out.Folders)
	}
}

func TestRemoveFolderEndpoint(t *testing.T) {
	h, cat, eng := newTestHandlers(t)
	dir := indexedFolder(t, cat, eng, "a.txt")

	body := strings.NewReader(fmt.Sprintf(`{"path": %q}`, dir))
	rec := httptest.NewRecorder()
	h.RemoveFolder(rec, httptest.NewRequest("DELETE", "/api/folders", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	paths, err := cat.ListFolders()
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("Expected folder removed, got %v", paths)
	}
}

func TestClearFoldersEndpoint(t *testing.T) {
	h, cat, eng := newTestHandlers(t)
	indexedFolder(t, cat, eng, "a.txt")
	indexedFolder(t, cat, eng, "b.txt")

	rec := httptest.NewRecorder()
	h.ClearFolders(rec, httptest.NewRequest("POST", "/api/folders/clear", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	paths, err := cat.ListFolders()
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("Expected empty catalog, got %v", paths)
	}
}

func TestSearchEndpoint(t *testing.T) {
	h, cat, eng := newTestHandlers(t)
	indexedFolder(t, cat, eng, "report.txt", "summary.txt", "image.png")

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest("GET", "/api/search?ext=txt", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out searchResponse
	decodeBody(t, rec, &out)
	if out.Count != 2 || len(out.Items) != 2 {
		t.Fatalf("Expected 2 .txt results, got count=%d items=%d", out.Count, len(out.Items))
	}
	if out.Truncated {
		t.Error("Expected untruncated results")
	}
	for _, item := range out.Items {
		if item.Extension != ".txt" {
			t.Errorf("Unexpected extension %s", item.Extension)
		}
	}
}

func TestSearchEndpointLimit(t *testing.T) {
	h, cat, eng := newTestHandlers(t)

	names := make([]string, 30)
	for i := range names {
		names[i] = fmt.Sprintf("file_%02d.txt", i)
	}
	indexedFolder(t, cat, eng, names...)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest("GET", "/api/search?limit=10", nil))

	var out searchResponse
	decodeBody(t, rec, &out)
	if len(out.Items) != 10 {
		t.Errorf("Expected 10 items with limit=10, got %d", len(out.Items))
	}
	if !out.Truncated {
		t.Error("Expected truncated flag when the limit cuts off results")
	}
}

func TestSearchEndpointPatternMode(t *testing.T) {
	h, cat, eng := newTestHandlers(t)
	indexedFolder(t, cat, eng, "test_alpha.txt", "alpha_test.txt")

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest("GET", "/api/search?name=%5Etest&pattern=true", nil))

	var out searchResponse
	decodeBody(t, rec, &out)
	if out.Count != 1 {
		t.Fatalf("Expected 1 anchored match, got %d", out.Count)
	}
	if out.Items[0].Name != "test_alpha.txt" {
		t.Errorf("Expected test_alpha.txt, got %s", out.Items[0].Name)
	}
}

func TestTriggerRebuildEndpointForPath(t *testing.T) {
	h, cat, _ := newTestHandlers(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := cat.AddFolder(dir); err != nil {
		t.Fatalf("AddFolder failed: %v", err)
	}

	body := strings.NewReader(fmt.Sprintf(`{"path": %q}`, dir))
	rec := httptest.NewRecorder()
	h.TriggerRebuild(rec, httptest.NewRequest("POST", "/api/reindex", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Status  string  `json:"status"`
		Records float64 `json:"records"`
	}
	decodeBody(t, rec, &out)
	if out.Status != "rebuilt" || out.Records != 1 {
		t.Errorf("Unexpected rebuild response: %+v", out)
	}
}

func TestStatsEndpoint(t *testing.T) {
	h, cat, eng := newTestHandlers(t)
	indexedFolder(t, cat, eng, "a.txt", "b.txt")

	rec := httptest.NewRecorder()
	h.GetStats(rec, httptest.NewRequest("GET", "/api/stats", nil))

	var out catalog.Stats
	decodeBody(t, rec, &out)
	if out.FolderCount != 1 || out.TotalRecords != 2 {
		t.Errorf("Expected 1 folder / 2 records, got %+v", out)
	}
}

func TestHealthEndpoints(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from health, got %d", rec.Code)
	}
	var health HealthResponse
	decodeBody(t, rec, &health)
	if health.Status != "healthy" {
		t.Errorf("Expected healthy status, got %q", health.Status)
	}

	rec = httptest.NewRecorder()
	h.LivenessCheck(rec, httptest.NewRequest("GET", "/livez", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from livez, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from readyz, got %d", rec.Code)
	}
}
