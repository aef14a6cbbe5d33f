// Package index builds the URL-keyed lookup tables the reports join over.
package index

import (
	"github.com/Sternrassler/swapi-reader/pkg/swapi"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Identifier maps a record's canonical URL to the record.
type Identifier struct {
	kind    string
	records map[string]swapi.Record
}

// Residency maps a person URL to the planet listing them as a resident.
type Residency map[string]swapi.Record

// Indexes bundles every table built for a run.
type Indexes struct {
	Films     Identifier
	People    Identifier
	Planets   Identifier
	Species   Identifier
	Starships Identifier
	Vehicles  Identifier
	Residency Residency
}

func logger() zerolog.Logger {
	return log.With().Str("component", "index").Logger()
}

// Build indexes c by url in collection order. A repeated url keeps the
// later record. Records without a url are skipped.
func Build(kind swapi.Name, c swapi.Collection) Identifier {
	l := logger()
	idx := Identifier{kind: string(kind), records: make(map[string]swapi.Record, len(c))}
	for _, r := range c {
		u := r.URL()
		if u == "" {
			l.Warn().Str("collection", string(kind)).Str("name", r.Name()).Msg("Record without url skipped")
			continue
		}
		if _, dup := idx.records[u]; dup {
			l.Warn().Str("collection", string(kind)).Str("url", u).Msg("Duplicate identifier, later record wins")
		}
		idx.records[u] = r
	}
	return idx
}

// Get returns the record stored under url.
func (i Identifier) Get(url string) (swapi.Record, bool) {
	r, ok := i.records[url]
	return r, ok
}

// Lookup returns the record stored under url or a *LookupError naming the
// referring record.
func (i Identifier) Lookup(url, referrer string) (swapi.Record, error) {
	r, ok := i.records[url]
	if !ok {
		return nil, &LookupError{Index: i.kind, Key: url, Referrer: referrer}
	}
	return r, nil
}

// Len returns the number of indexed records.
func (i Identifier) Len() int {
	return len(i.records)
}

// Kind returns the collection the index was built from.
func (i Identifier) Kind() string {
	return i.kind
}

// BuildResidency maps each resident listed by a planet to that planet. When
// two planets list the same person the later planet wins and the conflict
// is logged.
func BuildResidency(planets swapi.Collection) Residency {
	l := logger()
	res := make(Residency)
	// position of the planet currently holding each person
	owner := make(map[string]int)
	for i, planet := range planets {
		for _, person := range planet.Strings("residents") {
			if prev, ok := owner[person]; ok && prev != i {
				l.Warn().
					Str("person", person).
					Str("previous_planet", res[person].Name()).
					Int("previous_position", prev).
					Str("planet", planet.Name()).
					Int("position", i).
					Msg("Resident listed by two planets, later planet wins")
			}
			owner[person] = i
			res[person] = planet
		}
	}
	return res
}

// HomePlanet returns the planet listing person as a resident.
func (r Residency) HomePlanet(person string) (swapi.Record, bool) {
	p, ok := r[person]
	return p, ok
}

// BuildAll builds every index from a loaded dataset.
func BuildAll(ds swapi.Dataset) Indexes {
	idx := Indexes{
		Films:     Build(swapi.Films, ds.Films),
		People:    Build(swapi.People, ds.People),
		Planets:   Build(swapi.Planets, ds.Planets),
		Species:   Build(swapi.Species, ds.Species),
		Starships: Build(swapi.Starships, ds.Starships),
		Vehicles:  Build(swapi.Vehicles, ds.Vehicles),
		Residency: BuildResidency(ds.Planets),
	}

	l := logger()
	l.Debug().
		Int("films", idx.Films.Len()).
		Int("people", idx.People.Len()).
		Int("planets", idx.Planets.Len()).
		Int("species", idx.Species.Len()).
		Int("starships", idx.Starships.Len()).
		Int("vehicles", idx.Vehicles.Len()).
		Int("residents", len(idx.Residency)).
		Msg("Indexes built")

	return idx
}
