package workers

import (
	"os"
	"runtime"
	"strconv"
)

// searchFanoutCeiling caps concurrent per-store search tasks regardless of
// CPU count, so a machine with many indexed folders does not fan out
// unboundedly.
const searchFanoutCeiling = 32

// Count returns a worker count scaled from available parallelism.
// The multiplier adjusts for task characteristics (1.0 CPU-bound, 2.0
// I/O-bound); limit caps the result, with 0 meaning no cap. The
// SEARCH_WORKERS environment variable overrides the calculation.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv("SEARCH_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)

	n := int(float64(available) * multiplier)
	if n < 1 {
		n = 1
	}
	if limit > 0 && n > limit {
		n = limit
	}
	return n
}

// SearchFanout returns the worker cap for concurrent store fan-out during
// a search: min(32, 4 x available parallelism). Store scans are I/O-heavy,
// so the multiplier oversubscribes the CPUs.
func SearchFanout() int {
	return Count(4.0, searchFanoutCeiling)
}
