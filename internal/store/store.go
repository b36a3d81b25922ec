package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"file-search/internal/filter"
	"file-search/internal/logging"
	"file-search/internal/metrics"
)

const (
	// Records inserted per transaction during a rebuild.
	rebuildBatchSize = 1000

	// Entries between progress callback invocations during a rebuild.
	progressInterval = 100

	// Records delivered per result callback invocation.
	queryBatchSize = 500

	// Rows between cancellation checks while scanning.
	cancelCheckInterval = 100

	defaultTimeout = 5 * time.Second
)

// WalkFunc enumerates filesystem entries into emit. Returning a non-nil
// error from emit stops the enumeration.
type WalkFunc func(emit func(Record) error) error

// Store is the persistent record table for one indexed root folder.
type Store struct {
	db     *sql.DB
	handle string
	path   string
}

// Open opens (creating if necessary) the store identified by handle inside
// dir and ensures its schema exists.
func Open(dir, handle string) (*Store, error) {
	dbPath := filepath.Join(dir, handle+".db")

	// busy_timeout prevents "database is locked" errors when a query runs
	// against a store that is being rebuilt.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", handle, err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, handle: handle, path: dbPath}

	if err := s.initialize(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close store after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}

	return s, nil
}

func (s *Store) initialize() error {
	// The *_lower columns hold Unicode-lowercased copies produced in Go at
	// insert time. SQLite's own LIKE/NOCASE folds ASCII only, so pushdown
	// conditions compare lowercased tokens against these columns instead.
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		path TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		extension TEXT NOT NULL DEFAULT '',
		size INTEGER NOT NULL DEFAULT 0,
		mod_time INTEGER NOT NULL,
		is_dir INTEGER NOT NULL DEFAULT 0,
		name_lower TEXT NOT NULL,
		extension_lower TEXT NOT NULL DEFAULT '',
		path_lower TEXT NOT NULL
	);

	-- Secondary indexes accelerate literal-mode pushdown filtering.
	CREATE INDEX IF NOT EXISTS idx_entries_name_lower ON entries(name_lower);
	CREATE INDEX IF NOT EXISTS idx_entries_extension_lower ON entries(extension_lower);
	`

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Handle returns the stable identifier of this store.
func (s *Store) Handle() string { return s.handle }

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Rebuild clears the store and repopulates it from walk, committing in
// batches and reporting progress periodically. Per-entry enumeration
// failures are the walker's concern; a walk error after partial inserts
// leaves the partial contents committed. Returns the number of records
// written.
func (s *Store) Rebuild(walk WalkFunc, onProgress func(count int64)) (int64, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("rebuild", start, err) }()

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin rebuild transaction: %w", err)
	}

	// Old records go away first so a full rebuild replaces, never merges.
	if _, err = tx.Exec("DELETE FROM entries"); err != nil {
		rollback(tx)
		return 0, fmt.Errorf("failed to clear store: %w", err)
	}

	insert := `
	INSERT OR REPLACE INTO entries (path, name, extension, size, mod_time, is_dir, name_lower, extension_lower, path_lower)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var count int64
	inBatch := 0

	walkErr := walk(func(rec Record) error {
		isDir := 0
		if rec.IsDir {
			isDir = 1
		}
		if _, insErr := tx.Exec(insert, rec.Path, rec.Name, rec.Extension, rec.Size, rec.ModTime.Unix(), isDir,
			strings.ToLower(rec.Name), strings.ToLower(rec.Extension), strings.ToLower(rec.Path)); insErr != nil {
			logging.Warn("Error inserting record %s: %v", rec.Path, insErr)
			return nil
		}

		count++
		inBatch++

		if onProgress != nil && count%progressInterval == 0 {
			onProgress(count)
		}

		if inBatch >= rebuildBatchSize {
			if commitErr := tx.Commit(); commitErr != nil {
				return fmt.Errorf("failed to commit rebuild batch: %w", commitErr)
			}
			var beginErr error
			tx, beginErr = s.db.BeginTx(context.Background(), nil)
			if beginErr != nil {
				return fmt.Errorf("failed to begin rebuild batch: %w", beginErr)
			}
			inBatch = 0
		}
		return nil
	})

	if walkErr != nil {
		rollback(tx)
		err = walkErr
		return count, walkErr
	}

	if err = tx.Commit(); err != nil {
		return count, fmt.Errorf("failed to commit rebuild: %w", err)
	}

	if onProgress != nil {
		onProgress(count)
	}

	metrics.StoreRowsWritten.Add(float64(count))
	return count, nil
}

func rollback(tx *sql.Tx) {
	if rbErr := tx.Rollback(); rbErr != nil {
		logging.Error("rollback failed: %v", rbErr)
	}
}

// QueryMatching streams records matching spec through onBatch in batches.
// When scopePrefix is non-empty, only records whose path lies under that
// prefix are returned. The cancelled callback is polled periodically; once
// it reports true the scan stops without error. Literal-mode specs are
// narrowed at the storage layer before the compiled filter is applied to
// each candidate.
func (s *Store) QueryMatching(spec *filter.Spec, scopePrefix string, onBatch func([]Record), cancelled func() bool) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("query", start, err) }()

	query, args := buildQuery(spec, scopePrefix)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("store query failed: %w", err)
	}
	defer rows.Close()

	batch := make([]Record, 0, queryBatchSize)
	scanned := 0

	for rows.Next() {
		scanned++
		if scanned%cancelCheckInterval == 0 && cancelled != nil && cancelled() {
			return nil
		}

		var rec Record
		var modTime int64
		var isDir int
		if err = rows.Scan(&rec.Path, &rec.Name, &rec.Extension, &rec.Size, &modTime, &isDir); err != nil {
			return fmt.Errorf("store scan failed: %w", err)
		}
		rec.ModTime = time.Unix(modTime, 0)
		rec.IsDir = isDir != 0

		// The SQL conditions are a coarse pre-filter; the compiled spec
		// remains the authoritative check.
		if scopePrefix != "" && !strings.HasPrefix(rec.Path, scopePrefix) {
			continue
		}
		if !spec.Matches(rec.Name, rec.Extension, rec.Path) {
			continue
		}

		batch = append(batch, rec)
		if len(batch) >= queryBatchSize {
			if cancelled != nil && cancelled() {
				return nil
			}
			onBatch(batch)
			batch = make([]Record, 0, queryBatchSize)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("store rows error: %w", err)
	}

	if len(batch) > 0 && (cancelled == nil || !cancelled()) {
		onBatch(batch)
	}
	return nil
}

// buildQuery assembles the SELECT with literal-mode pushdown conditions.
// Pattern-mode specs scan every row and rely on the compiled filter alone.
// Literal tokens arrive already lowercased and compare against the
// Go-lowercased shadow columns, keeping the pushdown a strict superset of
// the compiled filter for any casing, not just ASCII.
func buildQuery(spec *filter.Spec, scopePrefix string) (string, []interface{}) {
	query := "SELECT path, name, extension, size, mod_time, is_dir FROM entries"

	var conds []string
	var args []interface{}

	if scopePrefix != "" {
		conds = append(conds, `path LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(scopePrefix)+"%")
	}

	if !spec.UsePattern() {
		if toks := spec.NameTokens(); len(toks) > 0 {
			ors := make([]string, len(toks))
			for i, tok := range toks {
				ors[i] = `name_lower LIKE ? ESCAPE '\'`
				args = append(args, "%"+escapeLike(tok)+"%")
			}
			conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		}
		if toks := spec.ExtTokens(); len(toks) > 0 {
			ors := make([]string, len(toks))
			for i, tok := range toks {
				ors[i] = "extension_lower = ?"
				args = append(args, tok)
			}
			conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		}
		if toks := spec.PathTokens(); len(toks) > 0 {
			ors := make([]string, len(toks))
			for i, tok := range toks {
				ors[i] = `path_lower LIKE ? ESCAPE '\'`
				args = append(args, "%"+escapeLike(tok)+"%")
			}
			conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		}
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY rowid"

	return query, args
}

// escapeLike escapes LIKE metacharacters so tokens match themselves.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// Count returns the number of records in the store.
func (s *Store) Count() (int64, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("count", start, err) }()

	var n int64
	err = s.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n)
	return n, err
}

// Drop closes the store and deletes its database file along with the WAL
// sidecar files.
func (s *Store) Drop() error {
	if err := s.db.Close(); err != nil {
		logging.Warn("Error closing store %s before drop: %v", s.handle, err)
	}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete store %s: %w", s.handle, err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !os.IsNotExist(err) {
			logging.Warn("Error deleting store sidecar %s%s: %v", s.path, suffix, err)
		}
	}
	return nil
}

// recordQuery records store operation metrics.
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.StoreQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.StoreQueryDuration.WithLabelValues(operation).Observe(duration)
}
