// Package swapi defines the record and collection types shared by the
// fetch, cache, index and report stages.
package swapi

// Name identifies one SWAPI resource collection.
type Name string

const (
	Films     Name = "films"
	People    Name = "people"
	Planets   Name = "planets"
	Species   Name = "species"
	Starships Name = "starships"
	Vehicles  Name = "vehicles"
)

// All returns every collection in fetch order.
// The order only affects the order in which snapshots are populated.
func All() []Name {
	return []Name{Films, People, Planets, Species, Starships, Vehicles}
}

// Record is one decoded SWAPI object. Values are whatever encoding/json
// produces for an untyped document: string, float64, []any, map[string]any.
type Record map[string]any

// URL returns the canonical identifier of the record.
func (r Record) URL() string {
	return r.str("url")
}

// Name returns the display name. Films carry "title" instead of "name".
func (r Record) Name() string {
	if n := r.str("name"); n != "" {
		return n
	}
	return r.str("title")
}

// Strings returns a list-of-identifiers field such as "residents" or
// "starships". Missing keys and non-list values yield nil; non-string
// list members are skipped.
func (r Record) Strings(key string) []string {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (r Record) str(key string) string {
	s, _ := r[key].(string)
	return s
}

// Collection is the ordered list of records of one resource type.
type Collection []Record

// Dataset holds the six collections of a run. It is built once by the
// load stage and only read afterwards.
type Dataset struct {
	Films     Collection
	People    Collection
	Planets   Collection
	Species   Collection
	Starships Collection
	Vehicles  Collection
}

// Set stores c under name. Unknown names are ignored.
func (d *Dataset) Set(name Name, c Collection) {
	switch name {
	case Films:
		d.Films = c
	case People:
		d.People = c
	case Planets:
		d.Planets = c
	case Species:
		d.Species = c
	case Starships:
		d.Starships = c
	case Vehicles:
		d.Vehicles = c
	}
}

// Get returns the collection stored under name.
func (d Dataset) Get(name Name) Collection {
	switch name {
	case Films:
		return d.Films
	case People:
		return d.People
	case Planets:
		return d.Planets
	case Species:
		return d.Species
	case Starships:
		return d.Starships
	case Vehicles:
		return d.Vehicles
	default:
		return nil
	}
}
