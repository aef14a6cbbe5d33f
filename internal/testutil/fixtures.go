package testutil

import (
	"strconv"

	"github.com/Sternrassler/swapi-reader/pkg/swapi"
)

const fixtureRoot = "https://swapi.dev/api/"

func ref(kind string, id int) string {
	return fixtureRoot + kind + "/" + strconv.Itoa(id) + "/"
}

func refs(kind string, ids ...int) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, ref(kind, id))
	}
	return out
}

// Fixture returns a small, internally consistent SWAPI dataset keyed by
// collection name.
//
// Tatooine hosts a Human and a Droid, Naboo hosts a Human, a Gungan and a
// Droid, Alderaan hosts only Humans. Chewbacca has no residency entry.
func Fixture() map[string][]map[string]any {
	return map[string][]map[string]any{
		"films": {
			{"title": "A New Hope", "url": ref("films", 1),
				"characters": refs("people", 1, 2, 3, 4, 5), "planets": refs("planets", 1, 2),
				"starships": refs("starships", 2, 12), "vehicles": refs("vehicles", 4), "species": refs("species", 1, 2)},
			{"title": "The Phantom Menace", "url": ref("films", 4),
				"characters": refs("people", 6, 7), "planets": refs("planets", 1, 8),
				"starships": []any{}, "vehicles": []any{}, "species": refs("species", 1, 12)},
		},
		"people": {
			{"name": "Luke Skywalker", "url": ref("people", 1), "species": refs("species", 1),
				"starships": refs("starships", 12, 22), "vehicles": refs("vehicles", 14)},
			{"name": "C-3PO", "url": ref("people", 2), "species": refs("species", 2),
				"starships": []any{}, "vehicles": []any{}},
			{"name": "R2-D2", "url": ref("people", 3), "species": refs("species", 2),
				"starships": []any{}, "vehicles": []any{}},
			{"name": "Leia Organa", "url": ref("people", 5), "species": refs("species", 1),
				"starships": []any{}, "vehicles": refs("vehicles", 30)},
			{"name": "Padmé Amidala", "url": ref("people", 35), "species": refs("species", 1),
				"starships": refs("starships", 39), "vehicles": []any{}},
			{"name": "Jar Jar Binks", "url": ref("people", 36), "species": refs("species", 12),
				"starships": []any{}, "vehicles": []any{}},
			{"name": "Chewbacca", "url": ref("people", 13), "species": refs("species", 3),
				"starships": refs("starships", 10, 22), "vehicles": []any{}},
			{"name": "Bail Prestor Organa", "url": ref("people", 68), "species": refs("species", 1),
				"starships": []any{}, "vehicles": []any{}},
		},
		"planets": {
			{"name": "Tatooine", "url": ref("planets", 1),
				"residents": refs("people", 1, 2), "films": refs("films", 1, 4)},
			{"name": "Alderaan", "url": ref("planets", 2),
				"residents": refs("people", 5, 68), "films": refs("films", 1)},
			{"name": "Naboo", "url": ref("planets", 8),
				"residents": refs("people", 3, 35, 36), "films": refs("films", 4)},
			{"name": "Hoth", "url": ref("planets", 4),
				"residents": []any{}, "films": []any{}},
		},
		"species": {
			{"name": "Human", "url": ref("species", 1), "people": refs("people", 1, 5, 35, 68)},
			{"name": "Droid", "url": ref("species", 2), "people": refs("people", 2, 3)},
			{"name": "Wookie", "url": ref("species", 3), "people": refs("people", 13)},
			{"name": "Gungan", "url": ref("species", 12), "people": refs("people", 36)},
		},
		"starships": {
			{"name": "CR90 corvette", "url": ref("starships", 2)},
			{"name": "Millennium Falcon", "url": ref("starships", 10)},
			{"name": "X-wing", "url": ref("starships", 12)},
			{"name": "Imperial shuttle", "url": ref("starships", 22)},
			{"name": "H-type Nubian yacht", "url": ref("starships", 39)},
		},
		"vehicles": {
			{"name": "Sand Crawler", "url": ref("vehicles", 4)},
			{"name": "Snowspeeder", "url": ref("vehicles", 14)},
			{"name": "Sail barge", "url": ref("vehicles", 30)},
		},
	}
}

// ServeFixture registers every fixture collection on the mock.
func (m *MockSWAPI) ServeFixture(pageSize int) map[string][]map[string]any {
	data := Fixture()
	for name, records := range data {
		m.SetCollection(name, records, pageSize)
	}
	return data
}

// FixtureDataset returns Fixture as a decoded dataset.
func FixtureDataset() swapi.Dataset {
	var ds swapi.Dataset
	for name, records := range Fixture() {
		c := make(swapi.Collection, 0, len(records))
		for _, r := range records {
			c = append(c, swapi.Record(r))
		}
		ds.Set(swapi.Name(name), c)
	}
	return ds
}

// FixtureReport is the complete report output for Fixture.
const FixtureReport = `-- people => planet / starships -- 
Luke Skywalker=> planet: Tatooine / starships: ['X-wing', 'Imperial shuttle']
C-3PO=> planet: Tatooine / starships: []
R2-D2=> planet: Naboo / starships: []
Leia Organa=> planet: Alderaan / starships: []
Padmé Amidala=> planet: Naboo / starships: ['H-type Nubian yacht']
Jar Jar Binks=> planet: Naboo / starships: []
Chewbacca=> planet: n/a / starships: ['Millennium Falcon', 'Imperial shuttle']
Bail Prestor Organa=> planet: Alderaan / starships: []

-- planet => species --
Tatooine=> {'Droid', 'Human'}
Naboo=> {'Droid', 'Gungan', 'Human'}
`
