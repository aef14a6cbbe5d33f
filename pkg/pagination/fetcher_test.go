package pagination

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Sternrassler/swapi-reader/internal/testutil"
	"github.com/Sternrassler/swapi-reader/pkg/client"
	"github.com/Sternrassler/swapi-reader/pkg/swapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPages serves canned bodies by URL and records the request order.
type stubPages struct {
	bodies map[string]string
	errs   map[string]error
	calls  []string
}

func (s *stubPages) FetchPage(_ context.Context, url string) ([]byte, error) {
	s.calls = append(s.calls, url)
	if err, ok := s.errs[url]; ok {
		return nil, err
	}
	body, ok := s.bodies[url]
	if !ok {
		return nil, fmt.Errorf("no stub for %s", url)
	}
	return []byte(body), nil
}

func TestFetchAll_FollowsNextChain(t *testing.T) {
	stub := &stubPages{bodies: map[string]string{
		"p1": `{"count":3,"next":"p2","results":[{"url":"a"},{"url":"b"}]}`,
		"p2": `{"count":3,"next":"p3","results":[]}`,
		"p3": `{"count":3,"next":null,"results":[{"url":"c"}]}`,
	}}

	got, err := NewFetcher(stub, DefaultConfig()).FetchAll(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, []string{"p1", "p2", "p3"}, stub.calls)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].URL())
	assert.Equal(t, "b", got[1].URL())
	assert.Equal(t, "c", got[2].URL())
}

func TestFetchAll_TerminalConditions(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"null next", `{"count":1,"next":null,"results":[{"url":"a"}]}`},
		{"absent next", `{"count":1,"results":[{"url":"a"}]}`},
		{"empty next", `{"count":1,"next":"","results":[{"url":"a"}]}`},
		{"non-string next", `{"count":1,"next":false,"results":[{"url":"a"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubPages{bodies: map[string]string{"start": tt.body}}
			got, err := NewFetcher(stub, DefaultConfig()).FetchAll(context.Background(), "start")
			require.NoError(t, err)
			assert.Len(t, got, 1)
			assert.Equal(t, []string{"start"}, stub.calls)
		})
	}
}

func TestFetchAll_EmptyCollection(t *testing.T) {
	stub := &stubPages{bodies: map[string]string{"start": `{"count":0,"next":null,"results":[]}`}}

	got, err := NewFetcher(stub, DefaultConfig()).FetchAll(context.Background(), "start")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFetchAll_MalformedPages(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>502 Bad Gateway</html>`},
		{"missing results", `{"count":1,"next":null}`},
		{"results not array", `{"count":1,"next":null,"results":{"url":"a"}}`},
		{"results null", `{"count":0,"next":null,"results":null}`},
		{"non-object result", `{"count":1,"next":null,"results":[1]}`},
		{"null result", `{"count":1,"next":null,"results":[null]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubPages{bodies: map[string]string{"start": tt.body}}
			_, err := NewFetcher(stub, DefaultConfig()).FetchAll(context.Background(), "start")
			assert.ErrorIs(t, err, ErrMalformedPage)
		})
	}
}

func TestFetchAll_RejectsCycle(t *testing.T) {
	stub := &stubPages{bodies: map[string]string{
		"p1": `{"count":2,"next":"p2","results":[{"url":"a"}]}`,
		"p2": `{"count":2,"next":"p1","results":[{"url":"b"}]}`,
	}}

	_, err := NewFetcher(stub, DefaultConfig()).FetchAll(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrMalformedPage)
	assert.Equal(t, []string{"p1", "p2"}, stub.calls)
}

func TestFetchAll_PropagatesFetchError(t *testing.T) {
	boom := errors.New("connection reset")
	stub := &stubPages{
		bodies: map[string]string{"p1": `{"count":2,"next":"p2","results":[{"url":"a"}]}`},
		errs:   map[string]error{"p2": boom},
	}

	_, err := NewFetcher(stub, DefaultConfig()).FetchAll(context.Background(), "p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fetch page 2 of p1")
}

func TestFetchAll_CountMismatch(t *testing.T) {
	body := `{"count":5,"next":null,"results":[{"url":"a"},{"url":"b"}]}`

	t.Run("lenient", func(t *testing.T) {
		stub := &stubPages{bodies: map[string]string{"start": body}}
		got, err := NewFetcher(stub, Config{StrictCount: false}).FetchAll(context.Background(), "start")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("strict", func(t *testing.T) {
		stub := &stubPages{bodies: map[string]string{"start": body}}
		_, err := NewFetcher(stub, Config{StrictCount: true}).FetchAll(context.Background(), "start")
		assert.ErrorIs(t, err, ErrCountMismatch)
	})

	t.Run("missing count is not checked", func(t *testing.T) {
		stub := &stubPages{bodies: map[string]string{"start": `{"next":null,"results":[{"url":"a"}]}`}}
		got, err := NewFetcher(stub, Config{StrictCount: true}).FetchAll(context.Background(), "start")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestParsePage(t *testing.T) {
	page, err := ParsePage([]byte(`{"count":82,"next":"https://swapi.dev/api/people/?page=2","previous":null,"results":[{"name":"Luke Skywalker","url":"u1"}]}`))
	require.NoError(t, err)
	assert.Equal(t, int64(82), page.Count)
	assert.Equal(t, "https://swapi.dev/api/people/?page=2", page.Next)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Luke Skywalker", page.Results[0].Name())
}

// No record is lost across pages for any page size.
func TestFetchAll_AgainstMockServer(t *testing.T) {
	records := make([]map[string]any, 0, 23)
	for i := 1; i <= 23; i++ {
		records = append(records, map[string]any{
			"name": fmt.Sprintf("person %d", i),
			"url":  fmt.Sprintf("https://swapi.dev/api/people/%d/", i),
		})
	}

	for _, pageSize := range []int{1, 5, 10, 23, 50} {
		t.Run(fmt.Sprintf("page_size_%d", pageSize), func(t *testing.T) {
			mock := testutil.NewMockSWAPI()
			defer mock.Close()
			mock.SetCollection("people", records, pageSize)

			c, err := client.New(client.Config{BaseURL: mock.BaseURL(), UserAgent: "test/1.0"})
			require.NoError(t, err)

			got, err := NewFetcher(c, Config{StrictCount: true}).FetchAll(context.Background(), c.CollectionURL(swapi.People))
			require.NoError(t, err)
			require.Len(t, got, len(records))
			for i, r := range got {
				assert.Equal(t, records[i]["url"], r.URL())
			}

			wantPages := (len(records) + pageSize - 1) / pageSize
			assert.Equal(t, wantPages, mock.TotalRequests())
		})
	}
}

func TestFetchAll_MockServerError(t *testing.T) {
	mock := testutil.NewMockSWAPI()
	defer mock.Close()
	mock.SetResponse("/api/vehicles/", testutil.MockResponse{StatusCode: 500, Body: "oops"})

	c, err := client.New(client.Config{BaseURL: mock.BaseURL(), UserAgent: "test/1.0"})
	require.NoError(t, err)

	_, err = NewFetcher(c, DefaultConfig()).FetchAll(context.Background(), c.CollectionURL(swapi.Vehicles))
	var fe *client.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, client.ErrorClassServer, fe.Class)
}
