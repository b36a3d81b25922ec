package crawler

import (
	"io/fs"
	"path/filepath"

	"file-search/internal/logging"
	"file-search/internal/store"
)

// Walk traverses the tree rooted at root depth-first and calls emit for
// every file and directory beneath it. The root itself is not emitted.
// Per-entry stat failures are logged and skipped; only an error returned
// by emit stops the walk and is propagated to the caller.
func Walk(root string, emit func(store.Record) error) error {
	root = filepath.Clean(root)

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Warn("Error accessing path %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logging.Warn("Error getting info for %s: %v", path, err)
			return nil
		}

		rec := store.Record{
			Path:      path,
			Name:      d.Name(),
			Extension: filepath.Ext(d.Name()),
			ModTime:   info.ModTime(),
			IsDir:     d.IsDir(),
		}
		if !rec.IsDir {
			rec.Size = info.Size()
		}

		return emit(rec)
	})
}
