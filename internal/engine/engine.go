package engine

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"file-search/internal/catalog"
	"file-search/internal/crawler"
	"file-search/internal/filter"
	"file-search/internal/logging"
	"file-search/internal/metrics"
	"file-search/internal/store"
	"file-search/internal/workers"
)

// Engine runs searches and rebuilds against the folder stores registered
// in a catalog. Construct one with New and share it; all methods are safe
// for concurrent use.
type Engine struct {
	cat    *catalog.Catalog
	fanout int

	rebuildMu       sync.Mutex
	isRebuilding    bool
	lastRebuildTime time.Time

	entriesIndexed atomic.Int64
}

// New creates an Engine over cat. The search fan-out cap is derived from
// available parallelism.
func New(cat *catalog.Catalog) *Engine {
	fanout := workers.SearchFanout()
	metrics.SearchFanoutWorkers.Set(float64(fanout))
	return &Engine{cat: cat, fanout: fanout}
}

// participant is one store taking part in a search, with an optional path
// prefix restricting matches when the store root is a proper ancestor of
// the scope.
type participant struct {
	folder catalog.Folder
	prefix string
}

// Search streams records matching spec from every relevant store through
// onBatch. When scopePath is non-empty, only stores overlapping that
// subtree participate. The call blocks until all store tasks finish or
// observe cancellation; onBatch invocations are serialized, but batches
// from different stores interleave in arbitrary order. A single store's
// failure is logged and contributes zero results.
func (e *Engine) Search(spec *filter.Spec, scopePath string, cancelled func() bool, onBatch func([]store.Record)) error {
	start := time.Now()
	metrics.SearchesTotal.Inc()
	defer func() { metrics.SearchDuration.Observe(time.Since(start).Seconds()) }()

	folders, err := e.cat.Folders()
	if err != nil {
		return fmt.Errorf("failed to list indexed folders: %w", err)
	}

	participants, err := selectParticipants(folders, scopePath)
	if err != nil {
		return err
	}

	if len(participants) == 0 {
		logging.Debug("Search matched no indexed folders (scope %q)", scopePath)
		return nil
	}

	// Serialize delivery so callers get one batch at a time.
	var deliverMu sync.Mutex
	deliver := func(batch []store.Record) {
		deliverMu.Lock()
		defer deliverMu.Unlock()
		onBatch(batch)
	}

	var g errgroup.Group
	g.SetLimit(e.fanout)

	for _, p := range participants {
		p := p
		g.Go(func() error {
			if cancelled != nil && cancelled() {
				return nil
			}
			e.searchStore(p, spec, deliver, cancelled)
			return nil
		})
	}

	// Tasks never return errors; per-store failures are contained above.
	_ = g.Wait()

	if cancelled != nil && cancelled() {
		metrics.SearchCancellations.Inc()
	}

	logging.Debug("Search across %d stores completed in %v", len(participants), time.Since(start))
	return nil
}

// searchStore runs one store's scan, containing every failure.
func (e *Engine) searchStore(p participant, spec *filter.Spec, deliver func([]store.Record), cancelled func() bool) {
	st, err := e.cat.OpenStore(p.folder.Handle)
	if err != nil {
		metrics.SearchStoreErrors.Inc()
		logging.Warn("Search: error opening store for %s: %v", p.folder.Path, err)
		return
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logging.Warn("Search: error closing store for %s: %v", p.folder.Path, closeErr)
		}
	}()

	if err := st.QueryMatching(spec, p.prefix, deliver, cancelled); err != nil {
		metrics.SearchStoreErrors.Inc()
		logging.Warn("Search: store %s failed, treating as empty: %v", p.folder.Path, err)
	}
}

// selectParticipants picks the stores overlapping scopePath. A store whose
// root lies under the scope participates fully; a store whose root is a
// proper ancestor of the scope participates with a path-prefix
// restriction; everything else is skipped.
func selectParticipants(folders []catalog.Folder, scopePath string) ([]participant, error) {
	if scopePath == "" {
		participants := make([]participant, len(folders))
		for i, f := range folders {
			participants[i] = participant{folder: f}
		}
		return participants, nil
	}

	scope, err := filepath.Abs(scopePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scope path %s: %w", scopePath, err)
	}
	scope = filepath.Clean(scope)

	var participants []participant
	for _, f := range folders {
		switch {
		case f.Path == scope || isUnder(scope, f.Path):
			participants = append(participants, participant{folder: f})
		case isUnder(f.Path, scope):
			participants = append(participants, participant{
				folder: f,
				prefix: scope + string(filepath.Separator),
			})
		}
	}
	return participants, nil
}

// isUnder reports whether path lies strictly beneath root.
func isUnder(root, path string) bool {
	if root == path {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// RebuildFolder crawls path's tree into its store, replacing the previous
// contents. onProgress receives the running record count periodically.
// Returns the number of records written.
func (e *Engine) RebuildFolder(path string, onProgress func(count int64)) (int64, error) {
	start := time.Now()
	metrics.RebuildRunsTotal.Inc()

	st, err := e.cat.StoreFor(path)
	if err != nil {
		metrics.RebuildErrors.Inc()
		return 0, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logging.Warn("Rebuild: error closing store for %s: %v", path, closeErr)
		}
	}()

	root, err := filepath.Abs(path)
	if err != nil {
		metrics.RebuildErrors.Inc()
		return 0, fmt.Errorf("failed to resolve folder path %s: %w", path, err)
	}

	logging.Info("Rebuilding index for %s...", root)

	count, err := st.Rebuild(func(emit func(store.Record) error) error {
		return crawler.Walk(root, emit)
	}, onProgress)
	if err != nil {
		metrics.RebuildErrors.Inc()
		return count, fmt.Errorf("rebuild of %s failed: %w", root, err)
	}

	duration := time.Since(start)
	e.entriesIndexed.Add(count)
	metrics.RebuildEntriesProcessed.Add(float64(count))
	metrics.RebuildLastRunTimestamp.Set(float64(time.Now().Unix()))
	metrics.RebuildLastRunDuration.Set(duration.Seconds())

	e.rebuildMu.Lock()
	e.lastRebuildTime = time.Now()
	e.rebuildMu.Unlock()

	logging.Info("Rebuilt %s: %d records in %v", root, count, duration)
	return count, nil
}

// RebuildResult reports one folder's outcome from RebuildAll.
type RebuildResult struct {
	Path    string `json:"path"`
	Records int64  `json:"records"`
	Err     error  `json:"-"`
}

// RebuildAll rebuilds every registered folder sequentially. A folder that
// fails is reported in its result and does not stop the others. onProgress
// receives the cumulative record count across folders. Returns nil
// immediately if a bulk rebuild is already running.
func (e *Engine) RebuildAll(onProgress func(count int64)) []RebuildResult {
	if !e.tryStartRebuild() {
		logging.Info("Rebuild already in progress, skipping...")
		return nil
	}
	defer e.finishRebuild()

	metrics.RebuildIsRunning.Set(1)
	defer metrics.RebuildIsRunning.Set(0)

	folders, err := e.cat.ListFolders()
	if err != nil {
		logging.Error("RebuildAll: failed to list folders: %v", err)
		return nil
	}

	var results []RebuildResult
	var base int64

	for _, path := range folders {
		var progress func(int64)
		if onProgress != nil {
			offset := base
			progress = func(count int64) { onProgress(offset + count) }
		}

		count, err := e.RebuildFolder(path, progress)
		if err != nil {
			logging.Error("RebuildAll: %s failed: %v", path, err)
		}
		base += count
		results = append(results, RebuildResult{Path: path, Records: count, Err: err})
	}

	return results
}

func (e *Engine) tryStartRebuild() bool {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	if e.isRebuilding {
		return false
	}
	e.isRebuilding = true
	return true
}

func (e *Engine) finishRebuild() {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()
	e.isRebuilding = false
}

// IsRebuilding reports whether a bulk rebuild is in progress.
func (e *Engine) IsRebuilding() bool {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()
	return e.isRebuilding
}

// LastRebuildTime returns when the most recent rebuild finished.
func (e *Engine) LastRebuildTime() time.Time {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()
	return e.lastRebuildTime
}

// EntriesIndexed returns the total records written by rebuilds over the
// engine's lifetime.
func (e *Engine) EntriesIndexed() int64 {
	return e.entriesIndexed.Load()
}
