// Package client provides the HTTP client used to pull SWAPI pages.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/swapi-reader/pkg/swapi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public SWAPI root.
const DefaultBaseURL = "https://swapi.dev/api"

// Prometheus metrics for SWAPI requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_requests_total",
		Help: "Total SWAPI requests by collection and status",
	}, []string{"collection", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "swapi_request_duration_seconds",
		Help:    "SWAPI request duration in seconds by collection",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"collection"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_errors_total",
		Help: "Total SWAPI fetch errors by class",
	}, []string{"class"})
)

// Client issues GET requests against the SWAPI root.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root; collections live at {BaseURL}/{name}/.
	BaseURL string `yaml:"base_url"`

	// UserAgent is sent on every request.
	UserAgent string `yaml:"user_agent"`

	// Timeout bounds a single page request. Zero disables the timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns a configuration pointing at the public API.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: "swapi-reader/0.1.0",
		Timeout:   30 * time.Second,
	}
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http(s) (got %q)", cfg.BaseURL)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		config:     cfg,
		logger:     log.With().Str("component", "client").Logger(),
	}, nil
}

// CollectionURL returns the first page of a collection.
func (c *Client) CollectionURL(name swapi.Name) string {
	u := *c.baseURL
	u.Path = path.Join(u.Path, string(name)) + "/"
	return u.String()
}

// FetchPage GETs rawURL and returns the body of a 2xx response.
func (c *Client) FetchPage(ctx context.Context, rawURL string) ([]byte, error) {
	collection := c.collectionLabel(rawURL)

	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(collection).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Class: ErrorClassClient, Message: "create request", Err: err}
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", rawURL).Msg("Requesting page")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(collection, "network_error").Inc()
		return nil, &FetchError{URL: rawURL, Class: ErrorClassNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(collection, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		class := classifyStatus(resp.StatusCode)
		errorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Warn().
			Str("url", rawURL).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("SWAPI request error")
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Class: class, Message: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Class: ErrorClassDecode, Message: "read body", Err: err}
	}

	return body, nil
}

// collectionLabel extracts the collection segment for metric labels so
// page query strings do not blow up label cardinality.
func (c *Client) collectionLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	rest := strings.TrimPrefix(u.Path, c.baseURL.Path)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "root"
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
