// Package config defines service configuration structures and loading hooks.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory snapshot queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of timeline workers.
	WorkerCount int `koanf:"worker_count"`

	// SeenCacheSize sets the size of the snapshot dedupe cache.
	SeenCacheSize int `koanf:"seen_cache_size"`

	// ShardCount configures the number of shards in the timeline store.
	ShardCount int `koanf:"shard_count"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":9090",
		QueueSize:     10_000,
		WorkerCount:   runtime.NumCPU() * 2,
		SeenCacheSize: 100_000,
		ShardCount:    8,
	}
}
