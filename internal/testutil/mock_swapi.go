// Package testutil provides testing utilities for the SWAPI reader.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// MockResponse defines a canned response for a path.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// collection is one paginated resource served by the mock.
type collection struct {
	records  []map[string]any
	pageSize int
	count    int
}

// MockSWAPI is a paginated SWAPI lookalike served over httptest.
type MockSWAPI struct {
	server      *httptest.Server
	mu          sync.RWMutex
	handlers    map[string]http.HandlerFunc
	collections map[string]*collection
	requests    map[string]int
	total       int
}

// NewMockSWAPI starts the mock server.
func NewMockSWAPI() *MockSWAPI {
	mock := &MockSWAPI{
		handlers:    make(map[string]http.HandlerFunc),
		collections: make(map[string]*collection),
		requests:    make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requests[r.URL.Path]++
		mock.total++
		handler, custom := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if custom {
			handler(w, r)
			return
		}
		mock.serveCollection(w, r)
	}))

	return mock
}

// URL returns the server root.
func (m *MockSWAPI) URL() string {
	return m.server.URL
}

// BaseURL returns the API root that collections hang off.
func (m *MockSWAPI) BaseURL() string {
	return m.server.URL + "/api"
}

// Close shuts down the mock server.
func (m *MockSWAPI) Close() {
	m.server.Close()
}

// SetCollection serves records under /api/{name}/ split into pages of pageSize.
func (m *MockSWAPI) SetCollection(name string, records []map[string]any, pageSize int) {
	if pageSize <= 0 {
		pageSize = 10
	}
	if records == nil {
		records = []map[string]any{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[name] = &collection{records: records, pageSize: pageSize, count: len(records)}
}

// SetDeclaredCount overrides the "count" field reported for a collection.
func (m *MockSWAPI) SetDeclaredCount(name string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.collections[name]; ok {
		c.count = count
	}
}

// SetHandler sets a custom handler for an exact path.
func (m *MockSWAPI) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for an exact path.
func (m *MockSWAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, _ *http.Request) {
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			_, _ = w.Write([]byte(resp.Body))
		}
	})
}

// RequestCount returns how many requests hit path.
func (m *MockSWAPI) RequestCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[path]
}

// TotalRequests returns the number of requests across all paths.
func (m *MockSWAPI) TotalRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}

// Reset clears request counters.
func (m *MockSWAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make(map[string]int)
	m.total = 0
}

// CollectionPath returns the request path of a collection's first page.
func CollectionPath(name string) string {
	return "/api/" + name + "/"
}

func (m *MockSWAPI) serveCollection(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	var (
		found *collection
		name  string
	)
	for n, c := range m.collections {
		if r.URL.Path == CollectionPath(n) {
			found, name = c, n
			break
		}
	}
	m.mu.RUnlock()

	if found == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Not found"}`))
		return
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail": "Invalid page."}`))
			return
		}
		page = n
	}

	start := (page - 1) * found.pageSize
	end := start + found.pageSize
	if start > len(found.records) || (start == len(found.records) && page > 1) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Invalid page."}`))
		return
	}
	if end > len(found.records) {
		end = len(found.records)
	}

	body := map[string]any{
		"count":    found.count,
		"next":     nil,
		"previous": nil,
		"results":  found.records[start:end],
	}
	if end < len(found.records) {
		body["next"] = fmt.Sprintf("%s%s?page=%d", m.server.URL, CollectionPath(name), page+1)
	}
	if page > 1 {
		body["previous"] = fmt.Sprintf("%s%s?page=%d", m.server.URL, CollectionPath(name), page-1)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}
