package store

import "time"

// Record is the normalized metadata for one filesystem entry. Path is the
// identity key within a store; re-indexing replaces records by path rather
// than merging them. Records are immutable once constructed.
type Record struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Extension string    `json:"extension"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"modTime"`
	IsDir     bool      `json:"isDir"`
}
