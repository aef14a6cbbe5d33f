package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks snapshots served from a store.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapi_cache_hits_total",
			Help: "Total number of collections served from a snapshot",
		},
		[]string{"backend"}, // "file", "redis"
	)

	// CacheMisses tracks collections that had to be fetched.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapi_cache_misses_total",
			Help: "Total number of collections fetched because no snapshot existed",
		},
		[]string{"backend"},
	)

	// SnapshotSize tracks the encoded size of the latest snapshot per collection.
	SnapshotSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "swapi_cache_snapshot_bytes",
			Help: "Size of the most recent snapshot in bytes",
		},
		[]string{"collection"},
	)

	// CacheErrors tracks store operation errors.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapi_cache_errors_total",
			Help: "Total number of snapshot store errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
