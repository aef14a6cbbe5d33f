// Package report renders the two cross-reference reports over a loaded
// dataset:
//
//	-- people => planet / starships --
//	Luke Skywalker=> planet: Tatooine / starships: ['X-wing', 'Imperial shuttle']
//
//	-- planet => species --
//	Tatooine=> {'Droid', 'Human'}
//
// Reports only read the indexes. A lookup failure aborts the report that
// hit it. Under MissingMark an unresolved starship is rendered as Unknown
// and unresolved residents or species are left out of the species set.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/Sternrassler/swapi-reader/pkg/index"
	"github.com/Sternrassler/swapi-reader/pkg/logging"
	"github.com/Sternrassler/swapi-reader/pkg/swapi"
)

const (
	// NotAvailable is printed for a person no planet lists as a resident.
	// A person may have no residency at all, or live on a planet that was
	// not imported.
	NotAvailable = "n/a"

	// Unknown replaces a starship name whose identifier is missing from the
	// starship index when the policy is MissingMark.
	Unknown = "unknown"

	peopleHeader = "-- people => planet / starships -- "
	planetHeader = "\n-- planet => species --"
)

// MissingPolicy decides what happens when a referenced identifier is not
// in its index.
type MissingPolicy int

const (
	// MissingFail aborts with the *index.LookupError.
	MissingFail MissingPolicy = iota
	// MissingMark logs a warning, renders unresolved starships as Unknown
	// and leaves unresolved residents and species out of species sets.
	MissingMark
)

// String returns the policy name.
func (p MissingPolicy) String() string {
	switch p {
	case MissingFail:
		return "fail"
	case MissingMark:
		return "mark"
	default:
		return fmt.Sprintf("MissingPolicy(%d)", int(p))
	}
}

// Generator writes reports over a fixed set of indexes.
type Generator struct {
	Indexes index.Indexes
	Policy  MissingPolicy
}

// New returns a Generator over idx.
func New(idx index.Indexes, policy MissingPolicy) *Generator {
	return &Generator{Indexes: idx, Policy: policy}
}

// Write prints both reports for ds. Report B is not started if Report A
// fails.
func (g *Generator) Write(w io.Writer, ds swapi.Dataset) error {
	if err := g.PeoplePlanets(w, ds.People); err != nil {
		return fmt.Errorf("people report: %w", err)
	}
	if err := g.PlanetSpecies(w, ds.Planets); err != nil {
		return fmt.Errorf("planet report: %w", err)
	}
	return nil
}

// PeoplePlanets prints each person, in collection order, with their home
// planet and the names of their starships.
func (g *Generator) PeoplePlanets(w io.Writer, people swapi.Collection) error {
	if _, err := fmt.Fprintln(w, peopleHeader); err != nil {
		return err
	}

	for _, person := range people {
		planet := NotAvailable
		if home, ok := g.Indexes.Residency.HomePlanet(person.URL()); ok {
			if n := home.Name(); n != "" {
				planet = n
			}
		}

		refs := person.Strings("starships")
		ships := make([]string, 0, len(refs))
		for _, ref := range refs {
			name, err := g.resolve(g.Indexes.Starships, ref, person.URL())
			if err != nil {
				return err
			}
			ships = append(ships, name)
		}

		if _, err := fmt.Fprintf(w, "%s=> planet: %s / starships: %s\n", person.Name(), planet, formatList(ships)); err != nil {
			return err
		}
	}
	return nil
}

// PlanetSpecies prints each planet, in collection order, whose residents
// belong to more than one species.
func (g *Generator) PlanetSpecies(w io.Writer, planets swapi.Collection) error {
	if _, err := fmt.Fprintln(w, planetHeader); err != nil {
		return err
	}

	for _, planet := range planets {
		species, err := g.residentSpecies(planet)
		if err != nil {
			return err
		}
		if len(species) <= 1 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s=> %s\n", planet.Name(), formatSet(species)); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) residentSpecies(planet swapi.Record) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	for _, ref := range planet.Strings("residents") {
		person, err := g.Indexes.People.Lookup(ref, planet.URL())
		if err != nil {
			if g.Policy == MissingMark {
				g.warnMissing(err)
				continue
			}
			return nil, err
		}
		for _, s := range person.Strings("species") {
			species, err := g.Indexes.Species.Lookup(s, person.URL())
			if err != nil {
				// An unresolved species is not a distinct species.
				if g.Policy == MissingMark {
					g.warnMissing(err)
					continue
				}
				return nil, err
			}
			set[species.Name()] = struct{}{}
		}
	}
	return set, nil
}

func (g *Generator) resolve(idx index.Identifier, url, referrer string) (string, error) {
	r, err := idx.Lookup(url, referrer)
	if err == nil {
		return r.Name(), nil
	}
	if g.Policy != MissingMark {
		return "", err
	}
	g.warnMissing(err)
	return Unknown, nil
}

func (g *Generator) warnMissing(err error) {
	logger := logging.NewLogger("report")
	ev := logger.Warn().Err(err)
	var le *index.LookupError
	if errors.As(err, &le) {
		ev = ev.Str("index", le.Index).Str("key", le.Key).Str("referrer", le.Referrer)
	}
	ev.Msg("Missing identifier tolerated")
}
