package pagination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/swapi-reader/pkg/swapi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

var (
	// ErrMalformedPage indicates a page body that is not a SWAPI list page.
	ErrMalformedPage = errors.New("malformed page")

	// ErrCountMismatch indicates the declared count differs from the records collected.
	ErrCountMismatch = errors.New("declared count does not match collected records")
)

var (
	pagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_pages_fetched_total",
		Help: "Total SWAPI list pages fetched by start endpoint",
	}, []string{"endpoint"})

	countMismatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_count_mismatches_total",
		Help: "Collections whose declared count differed from the records collected",
	}, []string{"endpoint"})
)

// Config holds fetcher configuration.
type Config struct {
	// StrictCount turns a count mismatch into ErrCountMismatch instead of a warning.
	StrictCount bool `yaml:"strict_count"`
}

// DefaultConfig only warns on count mismatches.
func DefaultConfig() Config {
	return Config{StrictCount: false}
}

// PageFetcher returns the raw body of a single page.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) ([]byte, error)
}

// Page is one decoded list page.
type Page struct {
	// Count is the declared collection size, -1 when the field is absent.
	Count   int64
	Next    string
	Results swapi.Collection
}

// Fetcher walks pagination chains sequentially.
type Fetcher struct {
	pages  PageFetcher
	config Config
	logger zerolog.Logger
}

// NewFetcher creates a new fetcher.
func NewFetcher(pages PageFetcher, config Config) *Fetcher {
	return &Fetcher{
		pages:  pages,
		config: config,
		logger: log.With().Str("component", "pagination").Logger(),
	}
}

// FetchAll follows the chain starting at startURL and returns every record
// in page order.
func (f *Fetcher) FetchAll(ctx context.Context, startURL string) (swapi.Collection, error) {
	start := time.Now()

	f.logger.Info().Str("endpoint", startURL).Msg("Fetching collection")

	var (
		out      = swapi.Collection{}
		declared = int64(-1)
		pages    int
		visited  = make(map[string]struct{})
	)

	for next := startURL; next != ""; {
		if _, seen := visited[next]; seen {
			return nil, fmt.Errorf("%w: next link %s revisits an earlier page", ErrMalformedPage, next)
		}
		visited[next] = struct{}{}

		body, err := f.pages.FetchPage(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d of %s: %w", pages+1, startURL, err)
		}

		page, err := ParsePage(body)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", next, err)
		}

		out = append(out, page.Results...)
		declared = page.Count
		next = page.Next
		pages++
		pagesFetched.WithLabelValues(startURL).Inc()

		f.logger.Debug().
			Str("endpoint", startURL).
			Int("page", pages).
			Int("results", len(page.Results)).
			Msg("Page fetched")
	}

	f.logger.Info().
		Str("endpoint", startURL).
		Int64("declared", declared).
		Int("actual", len(out)).
		Int("pages", pages).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	if declared >= 0 && declared != int64(len(out)) {
		countMismatches.WithLabelValues(startURL).Inc()
		if f.config.StrictCount {
			return nil, fmt.Errorf("%s: %w (declared %d, collected %d)", startURL, ErrCountMismatch, declared, len(out))
		}
		f.logger.Warn().
			Str("endpoint", startURL).
			Int64("declared", declared).
			Int("actual", len(out)).
			Msg("Declared count does not match collected records")
	}

	return out, nil
}

// ParsePage decodes one list page body.
func ParsePage(body []byte) (Page, error) {
	if !gjson.ValidBytes(body) {
		return Page{}, fmt.Errorf("%w: body is not valid JSON", ErrMalformedPage)
	}

	results := gjson.GetBytes(body, "results")
	if !results.IsArray() {
		return Page{}, fmt.Errorf("%w: missing results array", ErrMalformedPage)
	}

	var records swapi.Collection
	if err := json.Unmarshal([]byte(results.Raw), &records); err != nil {
		return Page{}, fmt.Errorf("%w: decode results: %v", ErrMalformedPage, err)
	}
	for i, r := range records {
		if r == nil {
			return Page{}, fmt.Errorf("%w: result %d is null", ErrMalformedPage, i)
		}
	}

	page := Page{Count: -1, Results: records}
	if c := gjson.GetBytes(body, "count"); c.Exists() && c.Type == gjson.Number {
		page.Count = c.Int()
	}
	if n := gjson.GetBytes(body, "next"); n.Type == gjson.String {
		page.Next = n.Str
	}

	return page, nil
}
