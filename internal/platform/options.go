package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/pressroom/internal/config"
	"github.com/aretw0/pressroom/pkg/core"
	"github.com/aretw0/pressroom/pkg/publish"
)

// options holds the internal configuration for the engine.
type options struct {
	config     config.Config
	repository core.Repository
	publisher  publish.Publisher
	logger     *slog.Logger
	clock      func() time.Time
	mustExist  bool
}

// Option defines a functional option for configuring the engine.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		config: config.Default(),
	}
}

// WithConfig replaces the whole configuration, typically the result of config.Load.
// The root argument of New still wins over cfg.Root when non-empty.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. mock).
// If provided, the default filesystem adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithPublisher sets the external publisher. Defaults to the dry-run publisher.
func WithPublisher(p publish.Publisher) Option {
	return func(o *options) {
		o.publisher = p
	}
}

// WithClock overrides the time source used to stamp created dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithMustExist ensures the content root must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithStrictStatus rejects statuses outside the closed set.
func WithStrictStatus(strict bool) Option {
	return func(o *options) {
		o.config.Status.Strict = strict
	}
}

// WithFolders overrides the directory name of each state.
func WithFolders(f config.Folders) Option {
	return func(o *options) {
		o.config.Folders = f
	}
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".pressroom").
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config.SystemDir = name
	}
}

// WithPublishTimeout bounds each platform call.
func WithPublishTimeout(d time.Duration) Option {
	return func(o *options) {
		secs := int(d / time.Second)
		if secs < 1 {
			secs = 1
		}
		o.config.Publish.TimeoutSeconds = secs
	}
}

// WithConcurrency bounds parallel platform calls.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.config.Publish.Concurrency = n
	}
}
