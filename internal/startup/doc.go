// Package startup handles configuration loading and startup logging for
// the file search service.
//
// Configuration comes from environment variables with sensible defaults.
// The package also carries build information injected at link time and the
// structured startup/shutdown log helpers used by main.
package startup
