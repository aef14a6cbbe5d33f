package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Sternrassler/swapi-reader/internal/testutil"
	"github.com/Sternrassler/swapi-reader/pkg/index"
	"github.com/Sternrassler/swapi-reader/pkg/swapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(v ...string) []any {
	out := make([]any, len(v))
	for i, s := range v {
		out[i] = s
	}
	return out
}

func generator(ds swapi.Dataset, policy MissingPolicy) *Generator {
	return New(index.BuildAll(ds), policy)
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestPlanetSpecies_Tatooine(t *testing.T) {
	ds := swapi.Dataset{
		Planets: swapi.Collection{{"name": "Tatooine", "residents": ids("p1", "p2"), "url": "planets/1"}},
		People: swapi.Collection{
			{"url": "p1", "species": ids("s1")},
			{"url": "p2", "species": ids("s2")},
		},
		Species: swapi.Collection{
			{"url": "s1", "name": "Human"},
			{"url": "s2", "name": "Hutt"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, generator(ds, MissingFail).PlanetSpecies(&buf, ds.Planets))

	out := lines(buf.String())
	assert.Equal(t, []string{"", "-- planet => species --", "Tatooine=> {'Human', 'Hutt'}"}, out)
}

func TestPeoplePlanets_NoResidencyNoStarships(t *testing.T) {
	ds := swapi.Dataset{
		People: swapi.Collection{{"name": "Drifter", "url": "p9", "starships": ids()}},
	}

	var buf bytes.Buffer
	require.NoError(t, generator(ds, MissingFail).PeoplePlanets(&buf, ds.People))

	out := lines(buf.String())
	require.Len(t, out, 2)
	assert.Equal(t, "-- people => planet / starships -- ", out[0])
	assert.Equal(t, "Drifter=> planet: n/a / starships: []", out[1])
}

func TestPeoplePlanets_MissingStarshipsField(t *testing.T) {
	ds := swapi.Dataset{People: swapi.Collection{{"name": "Yoda", "url": "p20"}}}

	var buf bytes.Buffer
	require.NoError(t, generator(ds, MissingFail).PeoplePlanets(&buf, ds.People))
	assert.Contains(t, buf.String(), "Yoda=> planet: n/a / starships: []\n")
}

func TestPlanetSpecies_CardinalityFilter(t *testing.T) {
	ds := swapi.Dataset{
		Planets: swapi.Collection{
			{"name": "Alderaan", "url": "planets/2", "residents": ids("p1", "p2", "p3")},
			{"name": "Hoth", "url": "planets/4", "residents": ids()},
			{"name": "Kashyyyk", "url": "planets/14", "residents": ids("p4")},
			{"name": "Naboo", "url": "planets/8", "residents": ids("p1", "p5")},
		},
		People: swapi.Collection{
			{"url": "p1", "species": ids("s1")},
			{"url": "p2", "species": ids("s1")},
			{"url": "p3", "species": ids()},
			{"url": "p4", "species": ids("s3")},
			{"url": "p5", "species": ids("s12")},
		},
		Species: swapi.Collection{
			{"url": "s1", "name": "Human"},
			{"url": "s3", "name": "Wookie"},
			{"url": "s12", "name": "Gungan"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, generator(ds, MissingFail).PlanetSpecies(&buf, ds.Planets))

	out := buf.String()
	assert.NotContains(t, out, "Alderaan")
	assert.NotContains(t, out, "Hoth")
	assert.NotContains(t, out, "Kashyyyk")
	assert.Contains(t, out, "Naboo=> {'Gungan', 'Human'}\n")
}

func TestPeoplePlanets_MissingStarship(t *testing.T) {
	ds := swapi.Dataset{
		People:    swapi.Collection{{"name": "Lando", "url": "p25", "starships": ids("ss10", "ss404")}},
		Starships: swapi.Collection{{"name": "Millennium Falcon", "url": "ss10"}},
	}

	t.Run("fail", func(t *testing.T) {
		var buf bytes.Buffer
		err := generator(ds, MissingFail).PeoplePlanets(&buf, ds.People)
		require.Error(t, err)
		assert.True(t, errors.Is(err, index.ErrNotFound))

		var le *index.LookupError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, "starships", le.Index)
		assert.Equal(t, "ss404", le.Key)
		assert.Equal(t, "p25", le.Referrer)
		assert.NotContains(t, buf.String(), "Lando")
	})

	t.Run("mark", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, generator(ds, MissingMark).PeoplePlanets(&buf, ds.People))
		assert.Contains(t, buf.String(), "Lando=> planet: n/a / starships: ['Millennium Falcon', 'unknown']\n")
	})
}

func TestPlanetSpecies_MissingReferences(t *testing.T) {
	ds := swapi.Dataset{
		Planets: swapi.Collection{{"name": "Bespin", "url": "planets/6", "residents": ids("p1", "p2", "p404")}},
		People: swapi.Collection{
			{"url": "p1", "species": ids("s1")},
			{"url": "p2", "species": ids("s404")},
		},
		Species: swapi.Collection{{"url": "s1", "name": "Human"}},
	}

	t.Run("fail", func(t *testing.T) {
		err := generator(ds, MissingFail).PlanetSpecies(&bytes.Buffer{}, ds.Planets)
		var le *index.LookupError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, "species", le.Index)
		assert.Equal(t, "s404", le.Key)
	})

	t.Run("mark drops unresolved species from the set", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, generator(ds, MissingMark).PlanetSpecies(&buf, ds.Planets))
		assert.NotContains(t, buf.String(), "Bespin")
		assert.NotContains(t, buf.String(), Unknown)
	})
}

func TestPlanetSpecies_MissingResident(t *testing.T) {
	ds := swapi.Dataset{
		Planets: swapi.Collection{{"name": "Endor", "url": "planets/7", "residents": ids("p1", "p2", "p404")}},
		People: swapi.Collection{
			{"url": "p1", "species": ids("s1")},
			{"url": "p2", "species": ids("s9")},
		},
		Species: swapi.Collection{
			{"url": "s1", "name": "Human"},
			{"url": "s9", "name": "Ewok"},
		},
	}

	t.Run("fail", func(t *testing.T) {
		var buf bytes.Buffer
		err := generator(ds, MissingFail).PlanetSpecies(&buf, ds.Planets)
		assert.True(t, errors.Is(err, index.ErrNotFound))

		var le *index.LookupError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, "people", le.Index)
		assert.Equal(t, "p404", le.Key)
		assert.Equal(t, "planets/7", le.Referrer)
		assert.NotContains(t, buf.String(), "Endor")
	})

	t.Run("mark", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, generator(ds, MissingMark).PlanetSpecies(&buf, ds.Planets))
		assert.Contains(t, buf.String(), "Endor=> {'Ewok', 'Human'}\n")
	})
}

func TestPlanetSpecies_MarkKeepsRealSpeciesCount(t *testing.T) {
	ds := swapi.Dataset{
		Planets: swapi.Collection{
			{"name": "Alderaan", "url": "planets/2", "residents": ids("p1", "p2")},
			{"name": "Naboo", "url": "planets/8", "residents": ids("p1", "p3")},
		},
		People: swapi.Collection{
			{"url": "p1", "species": ids("s1")},
			{"url": "p2", "species": ids("s1", "s404")},
			{"url": "p3", "species": ids("s12", "s404")},
		},
		Species: swapi.Collection{
			{"url": "s1", "name": "Human"},
			{"url": "s12", "name": "Gungan"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, generator(ds, MissingMark).PlanetSpecies(&buf, ds.Planets))
	assert.Equal(t, "\n-- planet => species --\nNaboo=> {'Gungan', 'Human'}\n", buf.String())
}

func TestWrite_Fixture(t *testing.T) {
	ds := testutil.FixtureDataset()

	var buf bytes.Buffer
	require.NoError(t, generator(ds, MissingFail).Write(&buf, ds))
	assert.Equal(t, testutil.FixtureReport, buf.String())
}

func TestWrite_StopsAfterPeopleFailure(t *testing.T) {
	ds := testutil.FixtureDataset()
	ds.Starships = ds.Starships[:1]

	var buf bytes.Buffer
	err := generator(ds, MissingFail).Write(&buf, ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "people report")
	assert.NotContains(t, buf.String(), "-- planet => species --")
}

func TestMissingPolicy_String(t *testing.T) {
	assert.Equal(t, "fail", MissingFail.String())
	assert.Equal(t, "mark", MissingMark.String())
	assert.Equal(t, "MissingPolicy(7)", MissingPolicy(7).String())
}
