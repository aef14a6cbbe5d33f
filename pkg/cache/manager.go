package cache

import (
	"context"
	"fmt"

	"github.com/Sternrassler/swapi-reader/pkg/swapi"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Fetcher retrieves a complete collection starting at its first page.
type Fetcher interface {
	FetchAll(ctx context.Context, startURL string) (swapi.Collection, error)
}

// URLResolver maps a collection to its first page.
type URLResolver interface {
	CollectionURL(name swapi.Name) string
}

// Manager implements obtain-or-fetch over a Store.
type Manager struct {
	store   Store
	fetcher Fetcher
	urls    URLResolver
	logger  zerolog.Logger
}

// NewManager creates a new cache manager.
func NewManager(store Store, fetcher Fetcher, urls URLResolver) *Manager {
	if store == nil || fetcher == nil || urls == nil {
		panic("cache manager needs a store, a fetcher and a url resolver")
	}
	return &Manager{
		store:   store,
		fetcher: fetcher,
		urls:    urls,
		logger:  log.With().Str("component", "cache").Str("backend", store.Backend()).Logger(),
	}
}

// Obtain returns the stored snapshot of name, or fetches, saves and returns
// the collection when no snapshot exists.
func (m *Manager) Obtain(ctx context.Context, name swapi.Name) (swapi.Collection, error) {
	snap, err := m.store.Lookup(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", name, err)
	}

	switch snap.State {
	case StatePresent:
		CacheHits.WithLabelValues(m.store.Backend()).Inc()
		m.logger.Debug().
			Str("collection", string(name)).
			Int("records", len(snap.Records)).
			Str("size", humanize.Bytes(uint64(snap.Size))).
			Msg("Snapshot hit")
		return snap.Records, nil

	case StateAbsent:
		CacheMisses.WithLabelValues(m.store.Backend()).Inc()
		m.logger.Debug().Str("collection", string(name)).Msg("Snapshot miss")
	}

	records, err := m.fetcher.FetchAll(ctx, m.urls.CollectionURL(name))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}

	size, err := m.store.Save(ctx, name, records)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", name, err)
	}
	SnapshotSize.WithLabelValues(string(name)).Set(float64(size))

	m.logger.Info().
		Str("collection", string(name)).
		Int("records", len(records)).
		Str("size", humanize.Bytes(uint64(size))).
		Msg("Snapshot written")

	return records, nil
}

// Purge deletes the snapshot of name so the next Obtain fetches it again.
func (m *Manager) Purge(ctx context.Context, name swapi.Name) error {
	if err := m.store.Delete(ctx, name); err != nil {
		return err
	}
	m.logger.Info().Str("collection", string(name)).Msg("Snapshot purged")
	return nil
}

// Load obtains every collection in fetch order.
func (m *Manager) Load(ctx context.Context) (swapi.Dataset, error) {
	var ds swapi.Dataset
	for _, name := range swapi.All() {
		m.logger.Info().Str("collection", string(name)).Msg("Loading collection")
		records, err := m.Obtain(ctx, name)
		if err != nil {
			return swapi.Dataset{}, err
		}
		ds.Set(name, records)
	}
	return ds, nil
}
