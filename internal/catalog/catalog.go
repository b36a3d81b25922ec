package catalog

import (
	"crypto/md5" //nolint:gosec // MD5 derives stable store handles, not security material
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"file-search/internal/logging"
	"file-search/internal/metrics"
	"file-search/internal/store"
)

// Outcome reports the result of registering a folder.
type Outcome int

const (
	// Added means the folder was registered and a fresh store created.
	Added Outcome = iota
	// AlreadyPresent means the exact folder was registered before; the
	// call was a no-op.
	AlreadyPresent
	// ParentPresent means the folder was registered, but an already
	// registered ancestor folder covers it. Advisory only.
	ParentPresent
)

// String returns a human-readable outcome description.
func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case AlreadyPresent:
		return "already-present"
	case ParentPresent:
		return "parent-already-present"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

// Folder is one registry entry.
type Folder struct {
	Path   string `json:"path"`
	Handle string `json:"handle"`
}

// Stats aggregates record counts across all registered stores.
type Stats struct {
	TotalRecords int64 `json:"totalRecords"`
	FolderCount  int   `json:"folderCount"`
}

// Catalog is the persistent registry of indexed root folders.
type Catalog struct {
	db  *sql.DB
	dir string
	mu  sync.Mutex
}

// Open opens the catalog database inside dataDir, creating the directory
// and schema as needed. A catalog that cannot be opened is a hard failure:
// without it no folder operation is possible.
func Open(dataDir string) (*Catalog, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS folders (
		path TEXT NOT NULL PRIMARY KEY,
		handle TEXT NOT NULL UNIQUE,
		added_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);
	`
	if _, err := db.Exec(schema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close catalog after schema failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	c := &Catalog{db: db, dir: dataDir}
	c.updateFolderGauge()
	logging.Info("Catalog opened at %s", dbPath)
	return c, nil
}

// Close closes the catalog database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Dir returns the directory holding the catalog and its stores.
func (c *Catalog) Dir() string { return c.dir }

// AddFolder registers a root folder. The path is normalized to absolute
// form. Registering an exact duplicate is a no-op reported as
// AlreadyPresent; a folder whose ancestor is already registered is still
// added but flagged ParentPresent so the caller can warn the user. A fresh,
// not-yet-crawled physical store is created on success.
func (c *Catalog) AddFolder(path string) (Outcome, error) {
	normalized, err := normalize(path)
	if err != nil {
		return Added, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	folders, err := c.list()
	if err != nil {
		return Added, err
	}

	outcome := Added
	for _, f := range folders {
		if f.Path == normalized {
			return AlreadyPresent, nil
		}
		if isAncestor(f.Path, normalized) {
			outcome = ParentPresent
		}
	}

	handle := HandleFor(normalized)

	// Create the physical store up front so every registry entry has one.
	st, err := store.Open(c.dir, handle)
	if err != nil {
		return Added, fmt.Errorf("failed to create store for %s: %w", normalized, err)
	}
	if err := st.Close(); err != nil {
		logging.Warn("Error closing freshly created store %s: %v", handle, err)
	}

	if _, err := c.db.Exec("INSERT INTO folders (path, handle) VALUES (?, ?)", normalized, handle); err != nil {
		return Added, fmt.Errorf("failed to register folder %s: %w", normalized, err)
	}

	c.updateFolderGauge()
	logging.Info("Registered folder %s (store %s, %s)", normalized, handle, outcome)
	return outcome, nil
}

// RemoveFolder deletes a folder's registry entry and drops its physical
// store. Removing a path that is not registered is a no-op.
func (c *Catalog) RemoveFolder(path string) error {
	normalized, err := normalize(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var handle string
	err = c.db.QueryRow("SELECT handle FROM folders WHERE path = ?", normalized).Scan(&handle)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up folder %s: %w", normalized, err)
	}

	if _, err := c.db.Exec("DELETE FROM folders WHERE path = ?", normalized); err != nil {
		return fmt.Errorf("failed to unregister folder %s: %w", normalized, err)
	}

	c.dropStore(handle)
	c.updateFolderGauge()
	logging.Info("Removed folder %s (store %s)", normalized, handle)
	return nil
}

// ClearAll drops every physical store and empties the registry.
// Irreversible.
func (c *Catalog) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	folders, err := c.list()
	if err != nil {
		return err
	}

	for _, f := range folders {
		c.dropStore(f.Handle)
	}

	if _, err := c.db.Exec("DELETE FROM folders"); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	c.updateFolderGauge()
	logging.Info("Catalog cleared (%d folders dropped)", len(folders))
	return nil
}

// dropStore physically deletes a store, logging rather than propagating
// failures: a store that cannot be dropped must not block catalog mutation.
func (c *Catalog) dropStore(handle string) {
	st, err := store.Open(c.dir, handle)
	if err != nil {
		logging.Warn("Error opening store %s for drop: %v", handle, err)
		return
	}
	if err := st.Drop(); err != nil {
		logging.Warn("Error dropping store %s: %v", handle, err)
	}
}

// ListFolders returns all registered root paths.
func (c *Catalog) ListFolders() ([]string, error) {
	folders, err := c.Folders()
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(folders))
	for i, f := range folders {
		paths[i] = f.Path
	}
	return paths, nil
}

// Folders returns all registry entries, ordered by path.
func (c *Catalog) Folders() ([]Folder, error) {
	return c.list()
}

func (c *Catalog) list() ([]Folder, error) {
	rows, err := c.db.Query("SELECT path, handle FROM folders ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		var f Folder
		if err := rows.Scan(&f.Path, &f.Handle); err != nil {
			return nil, fmt.Errorf("failed to scan folder row: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// StoreFor opens the store for a registered root path. Returns an error if
// the path is not registered.
func (c *Catalog) StoreFor(path string) (*store.Store, error) {
	normalized, err := normalize(path)
	if err != nil {
		return nil, err
	}

	var handle string
	err = c.db.QueryRow("SELECT handle FROM folders WHERE path = ?", normalized).Scan(&handle)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("folder not indexed: %s", normalized)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up folder %s: %w", normalized, err)
	}

	return store.Open(c.dir, handle)
}

// OpenStore opens a store by handle.
func (c *Catalog) OpenStore(handle string) (*store.Store, error) {
	return store.Open(c.dir, handle)
}

// Stats aggregates record counts by opening each store. Best-effort: a
// store that fails to open or count contributes zero records.
func (c *Catalog) Stats() (Stats, error) {
	folders, err := c.Folders()
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{FolderCount: len(folders)}
	for _, f := range folders {
		st, err := store.Open(c.dir, f.Handle)
		if err != nil {
			logging.Warn("Stats: error opening store %s: %v", f.Handle, err)
			continue
		}
		n, err := st.Count()
		if err != nil {
			logging.Warn("Stats: error counting store %s: %v", f.Handle, err)
		} else {
			stats.TotalRecords += n
		}
		if err := st.Close(); err != nil {
			logging.Warn("Stats: error closing store %s: %v", f.Handle, err)
		}
	}
	return stats, nil
}

func (c *Catalog) updateFolderGauge() {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM folders").Scan(&n); err == nil {
		metrics.CatalogFolders.Set(float64(n))
	}
}

// HandleFor derives the stable store handle for a normalized root path.
func HandleFor(path string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(path))) //nolint:gosec // stable identifier, not security
}

// normalize converts a path to cleaned absolute form.
func normalize(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("empty folder path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// isAncestor reports whether ancestor is a proper ancestor directory of
// path.
func isAncestor(ancestor, path string) bool {
	if ancestor == path {
		return false
	}
	rel, err := filepath.Rel(ancestor, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "."
}
