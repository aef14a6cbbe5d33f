// Command swapi-reader loads the SWAPI films, people, planets, species,
// starships and vehicles collections, caching each one as a local snapshot,
// and prints who lives where with which starships and which planets host
// more than one species.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/Sternrassler/swapi-reader/internal/app"
	"github.com/Sternrassler/swapi-reader/internal/config"
	"github.com/Sternrassler/swapi-reader/pkg/logging"
)

const defaultConfigFile = "swapi-reader.yaml"

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := app.NewDefaultConfig()

	configPath := cmd.String("config")
	if cmd.IsSet("config") {
		if err := config.Load(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	} else if err := config.LoadOptional(configPath, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	applyFlags(cmd, cfg)

	opts := []app.Option{
		app.WithConfig(cfg),
		app.WithRefresh(cmd.Bool("refresh")),
	}
	if w := cmd.Root().Writer; w != nil {
		opts = append(opts, app.WithOutput(w))
	}

	if err := app.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// applyFlags overrides file values with flags given on the command line or
// through the environment.
func applyFlags(cmd *cli.Command, cfg *app.Config) {
	if cmd.IsSet("data-dir") {
		cfg.Cache.Dir = cmd.String("data-dir")
	}
	if cmd.IsSet("base-url") {
		cfg.API.BaseURL = cmd.String("base-url")
	}
	if cmd.IsSet("timeout") {
		cfg.API.Timeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("cache") {
		cfg.Cache.Backend = cmd.String("cache")
	}
	if cmd.IsSet("redis-addr") {
		cfg.Cache.Redis.Addr = cmd.String("redis-addr")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = logging.LogLevel(cmd.String("log-level"))
	}
	if cmd.IsSet("log-pretty") {
		cfg.Log.Pretty = cmd.Bool("log-pretty")
	}
	if cmd.IsSet("tolerate-missing") {
		cfg.Report.TolerateMissing = cmd.Bool("tolerate-missing")
	}
	if cmd.IsSet("strict-count") {
		cfg.Fetch.StrictCount = cmd.Bool("strict-count")
	}
	if cmd.IsSet("metrics-file") {
		cfg.Metrics.Textfile = cmd.String("metrics-file")
	}
	if w := cmd.Root().ErrWriter; w != nil {
		cfg.Log.Output = w
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:   "swapi-reader",
		Usage:  "Fetch and cache SWAPI collections, then report residents, starships and species",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigFile,
				Value:       defaultConfigFile,
				Sources:     cli.EnvVars("SWAPI_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "Directory holding collection snapshots",
				DefaultText: "<binary dir>/" + app.DataDirName,
				Sources:     cli.EnvVars("SWAPI_DATA_DIR"),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "API root the collections are fetched from",
				Sources: cli.EnvVars("SWAPI_BASE_URL"),
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Timeout for a single page request (0 disables)",
				Sources: cli.EnvVars("SWAPI_TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "cache",
				Usage:   "Snapshot backend: file or redis",
				Value:   app.BackendFile,
				Sources: cli.EnvVars("SWAPI_CACHE_BACKEND"),
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "Redis address for the redis backend",
				Sources: cli.EnvVars("SWAPI_REDIS_ADDR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn, error",
				Value:   string(logging.LevelInfo),
				Sources: cli.EnvVars("SWAPI_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "log-pretty",
				Usage:   "Human readable console logs instead of JSON",
				Sources: cli.EnvVars("SWAPI_LOG_PRETTY"),
			},
			&cli.BoolFlag{
				Name:  "refresh",
				Usage: "Discard existing snapshots and fetch every collection again",
			},
			&cli.BoolFlag{
				Name:    "tolerate-missing",
				Usage:   "Print unknown for unresolved identifiers instead of failing",
				Sources: cli.EnvVars("SWAPI_TOLERATE_MISSING"),
			},
			&cli.BoolFlag{
				Name:    "strict-count",
				Usage:   "Fail when a collection's record total differs from its declared count",
				Sources: cli.EnvVars("SWAPI_STRICT_COUNT"),
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Write Prometheus metrics in textfile format on exit",
				Sources: cli.EnvVars("SWAPI_METRICS_FILE"),
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("application error")
		stop()
		os.Exit(1)
	}
}
