package util

import "runtime"

// GetOptimalPoolSize returns the pool size for CPU-bound parallel work
// (parser pools, file readers).
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
//   - Minimum 4: some parallelism even on weak machines
//   - 2x cores: CGO-heavy parsing blocks OS threads, so oversubscribe
//   - Maximum 32: caps per-language parser memory on big machines
func GetOptimalPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}
	return size
}
