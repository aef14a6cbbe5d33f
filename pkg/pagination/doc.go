// Package pagination follows SWAPI "next" link chains and concatenates the
// results of every page into one ordered collection.
//
// Each page is a JSON object:
//
//	{"count": 82, "next": "https://swapi.dev/api/people/?page=2", "previous": null, "results": [...]}
//
// Pages are requested one after another; the chain ends when "next" is
// null, absent or empty. Example usage:
//
//	fetcher := pagination.NewFetcher(swapiClient, pagination.DefaultConfig())
//	people, err := fetcher.FetchAll(ctx, swapiClient.CollectionURL(swapi.People))
//
// The fetcher:
//   - Appends "results" of every page in chain order
//   - Rejects pages without a "results" array and non-JSON bodies (ErrMalformedPage)
//   - Rejects chains whose "next" link points back at a visited page
//   - Compares the last declared "count" with the number of records collected,
//     logging a warning on mismatch or failing with ErrCountMismatch in strict mode
package pagination
