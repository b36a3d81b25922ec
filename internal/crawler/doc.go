// Package crawler enumerates filesystem trees for index rebuilds.
//
// Walk traverses a root folder depth-first, emitting one record per file
// and directory discovered beneath it. The crawler is a pure enumerator:
// it knows nothing about filters or stores, and every walk starts fresh.
// Entries that fail to stat (permissions, files deleted mid-walk) are
// skipped and the walk continues.
package crawler
