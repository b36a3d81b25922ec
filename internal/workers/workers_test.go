package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	available := runtime.GOMAXPROCS(0)

	if got := Count(1.0, 0); got != available {
		t.Errorf("Count(1.0, 0) = %d, want %d", got, available)
	}

	if got := Count(1.0, 1); got != 1 {
		t.Errorf("Count(1.0, 1) = %d, want 1", got)
	}

	// A tiny multiplier must still yield at least one worker.
	if got := Count(0.001, 0); got != 1 {
		t.Errorf("Count(0.001, 0) = %d, want 1", got)
	}
}

func TestCountEnvOverride(t *testing.T) {
	t.Setenv("SEARCH_WORKERS", "7")
	if got := Count(1.0, 0); got != 7 {
		t.Errorf("Expected override to 7, got %d", got)
	}

	// The cap still applies to the override.
	if got := Count(1.0, 4); got != 4 {
		t.Errorf("Expected override capped at 4, got %d", got)
	}
}

func TestCountEnvOverrideInvalid(t *testing.T) {
	available := runtime.GOMAXPROCS(0)

	for _, bad := range []string{"zero", "-3", "0"} {
		t.Setenv("SEARCH_WORKERS", bad)
		if got := Count(1.0, 0); got != available {
			t.Errorf("SEARCH_WORKERS=%q: got %d, want %d", bad, got, available)
		}
	}
}

func TestSearchFanout(t *testing.T) {
	got := SearchFanout()
	if got < 1 {
		t.Errorf("Expected at least 1 worker, got %d", got)
	}
	if got > searchFanoutCeiling {
		t.Errorf("Expected fan-out capped at %d, got %d", searchFanoutCeiling, got)
	}
}
