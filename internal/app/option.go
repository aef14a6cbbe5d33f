package app

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	out     io.Writer
	refresh bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOutput redirects the reports. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithRefresh purges every snapshot before loading, forcing a full fetch.
func WithRefresh(refresh bool) Option {
	return func(a *application) {
		a.refresh = refresh
	}
}
