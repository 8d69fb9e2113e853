package config

import (
	"runtime"
	"sync"
	"time"

	"isomesh/internal/meshing"
)

// GenerationSettings holds process-wide generation tuning.
type GenerationSettings struct {
	mu            sync.RWMutex
	compression   uint32
	workers       int
	slowThreshold time.Duration
}

var globalGenerationSettings = &GenerationSettings{
	compression:   meshing.DefaultCompression,
	workers:       1,                      // sequential batching
	slowThreshold: 250 * time.Millisecond, // log chunks slower than this
}

// GetCompression returns the default meshlet compression factor
func GetCompression() uint32 {
	globalGenerationSettings.mu.RLock()
	defer globalGenerationSettings.mu.RUnlock()
	return globalGenerationSettings.compression
}

// SetCompression sets the default compression factor. Zero restores the default.
func SetCompression(k uint32) {
	globalGenerationSettings.mu.Lock()
	defer globalGenerationSettings.mu.Unlock()
	if k == 0 {
		k = meshing.DefaultCompression
	}
	globalGenerationSettings.compression = k
}

// GetWorkers returns the default meshlet worker count
func GetWorkers() int {
	globalGenerationSettings.mu.RLock()
	defer globalGenerationSettings.mu.RUnlock()
	return globalGenerationSettings.workers
}

// SetWorkers sets the default worker count
func SetWorkers(n int) {
	globalGenerationSettings.mu.Lock()
	defer globalGenerationSettings.mu.Unlock()

	// Clamp to reasonable values
	if n < 1 {
		n = 1
	}
	if limit := runtime.NumCPU() * 4; n > limit {
		n = limit
	}

	globalGenerationSettings.workers = n
}

// GetSlowThreshold returns the duration above which chunk generation is logged
func GetSlowThreshold() time.Duration {
	globalGenerationSettings.mu.RLock()
	defer globalGenerationSettings.mu.RUnlock()
	return globalGenerationSettings.slowThreshold
}

// SetSlowThreshold sets the slow-generation log threshold. Zero disables logging.
func SetSlowThreshold(d time.Duration) {
	globalGenerationSettings.mu.Lock()
	defer globalGenerationSettings.mu.Unlock()
	globalGenerationSettings.slowThreshold = d
}
