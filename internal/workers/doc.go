// Package workers determines worker pool sizes from available parallelism.
//
// Go 1.19+ sets GOMAXPROCS from container CPU limits, so sizing pools from
// runtime.GOMAXPROCS(0) respects cgroup constraints where runtime.NumCPU()
// would not. The SEARCH_WORKERS environment variable overrides the
// calculation for operators tuning a specific deployment.
package workers
