// Package metrics exposes the Prometheus registry the reader's metrics are
// registered on. Metrics are declared in their own packages (client,
// pagination, cache) via promauto; this package only gathers and exports.
//
// A one-shot CLI run has no scrape endpoint, so metrics are written in the
// node-exporter textfile format when a textfile path is configured.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the registerer all promauto metrics land on.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads back everything registered on Registry.
var Gatherer prometheus.Gatherer = prometheus.DefaultGatherer

// WriteTextfile gathers Gatherer and writes it to path in the Prometheus
// text exposition format. The file is written atomically.
func WriteTextfile(path string) error {
	if path == "" {
		return fmt.Errorf("metrics textfile path is required")
	}
	if err := prometheus.WriteToTextfile(path, Gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - swapi_requests_total{collection, status} (Counter): Page requests by collection and HTTP status
//   - swapi_request_duration_seconds{collection} (Histogram): Page request duration
//   - swapi_errors_total{class} (Counter): Fetch errors by class (client, server, network, decode)
//
// Pagination Metrics (pkg/pagination):
//   - swapi_pages_fetched_total{endpoint} (Counter): Pages fetched per collection
//   - swapi_count_mismatches_total{endpoint} (Counter): Collections whose record total differed from the declared count
//
// Cache Metrics (pkg/cache):
//   - swapi_cache_hits_total{backend} (Counter): Collections served from a snapshot
//   - swapi_cache_misses_total{backend} (Counter): Collections fetched because no snapshot existed
//   - swapi_cache_snapshot_bytes{collection} (Gauge): Size of the most recent snapshot written
//   - swapi_cache_errors_total{operation} (Counter): Snapshot store errors
//
// Example Prometheus Queries:
//
//   # Snapshot hit ratio over the last day of runs
//   sum(increase(swapi_cache_hits_total[1d])) /
//   (sum(increase(swapi_cache_hits_total[1d])) + sum(increase(swapi_cache_misses_total[1d])))
//
//   # Upstream pages per collection
//   swapi_pages_fetched_total
