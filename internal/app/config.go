package app

import (
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Sternrassler/swapi-reader/pkg/client"
	"github.com/Sternrassler/swapi-reader/pkg/logging"
	"github.com/Sternrassler/swapi-reader/pkg/pagination"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// DataDirName is the snapshot directory created next to the executable.
const DataDirName = "_data"

// Config represents the application configuration.
type Config struct {
	Log     logging.Config    `yaml:"log"`
	API     client.Config     `yaml:"api"`
	Cache   CacheConfig       `yaml:"cache"`
	Report  ReportConfig      `yaml:"report"`
	Fetch   pagination.Config `yaml:"fetch"`
	Metrics MetricsConfig     `yaml:"metrics"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	errs := validation.Errors{
		"log.level": validation.Validate(string(c.Log.Level),
			validation.Required,
			validation.In("debug", "info", "warn", "warning", "error"),
		),
		"api.base_url":   validation.Validate(c.API.BaseURL, validation.Required, is.RequestURL),
		"api.user_agent": validation.Validate(c.API.UserAgent, validation.Required),
		"api.timeout":    validation.Validate(c.API.Timeout, validation.Min(time.Duration(0))),
	}
	if err := errs.Filter(); err != nil {
		return err
	}
	return c.Cache.Validate()
}

// CacheConfig selects where collection snapshots live.
type CacheConfig struct {
	Backend string      `yaml:"backend"`
	Dir     string      `yaml:"dir"`
	Redis   RedisConfig `yaml:"redis"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendFile, BackendRedis)),
		validation.Field(&c.Dir, validation.When(c.Backend == BackendFile, validation.Required)),
	); err != nil {
		return err
	}
	if c.Backend == BackendRedis {
		return c.Redis.Validate()
	}
	return nil
}

// RedisConfig holds the redis connection used by the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Validate validates the redis configuration.
func (c *RedisConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.DB, validation.Min(0), validation.Max(15)),
	)
}

// ReportConfig controls report rendering.
type ReportConfig struct {
	// TolerateMissing renders unresolved identifiers as "unknown" instead
	// of aborting the run.
	TolerateMissing bool `yaml:"tolerate_missing"`
}

// MetricsConfig controls the metrics export.
type MetricsConfig struct {
	// Textfile is written in Prometheus text format when non-empty.
	Textfile string `yaml:"textfile"`
}

// DefaultDataDir returns the _data directory next to the running binary,
// or ./_data when the executable path cannot be resolved.
func DefaultDataDir() string {
	exe, err := os.Executable()
	if err != nil {
		return DataDirName
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DataDirName)
}

// NewDefaultConfig returns a new Config with the no-argument behaviour:
// public API, file snapshots next to the binary, strict lookups.
func NewDefaultConfig() *Config {
	return &Config{
		Log:   logging.DefaultConfig(),
		API:   client.DefaultConfig(),
		Fetch: pagination.DefaultConfig(),
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     DefaultDataDir(),
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
	}
}
