// Package cache keeps one snapshot per SWAPI collection so that a run only
// hits the network for collections it has never seen.
//
// The Manager implements the obtain-or-fetch rule:
//
//   - Look the collection up in a Store.
//   - Present snapshot: return it as is, no network call, even if upstream changed.
//   - Absent snapshot: fetch every page, save the whole collection in one
//     operation, return it.
//
// Snapshots are never refreshed automatically; they live until purged.
//
// # Basic Usage
//
//	store, err := cache.NewFileStore("./_data")
//	if err != nil {
//		return err
//	}
//
//	manager := cache.NewManager(store, fetcher, swapiClient)
//	people, err := manager.Obtain(ctx, swapi.People)
//
// # Stores
//
// FileStore writes {dir}/{collection}.json atomically (temp file, fsync,
// rename) so an interrupted run never leaves a truncated snapshot behind.
//
// RedisStore keeps the same JSON array under swapi:collection:{collection}
// with no expiry, which lets several machines share one warm cache.
//
// # Metrics
//
//   - swapi_cache_hits_total{backend} - snapshots served from the store
//   - swapi_cache_misses_total{backend} - snapshots fetched from the API
//   - swapi_cache_snapshot_bytes{collection} - size of the last snapshot written
//   - swapi_cache_errors_total{operation} - store failures
package cache
