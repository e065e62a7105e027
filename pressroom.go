package pressroom

import (
	"log/slog"
	"time"

	"github.com/aretw0/pressroom/internal/config"
	"github.com/aretw0/pressroom/internal/platform"
	"github.com/aretw0/pressroom/pkg/core"
	"github.com/aretw0/pressroom/pkg/publish"
)

// --- Types ---

// Engine bundles the lifecycle service and the publish coordinator.
type Engine = platform.Engine

// Config is the immutable configuration loaded at startup.
type Config = config.Config

// Folders names the directory of each state.
type Folders = config.Folders

// --- Configuration ---

// Option defines a functional option for configuring the engine.
type Option = platform.Option

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithPublisher sets the external publisher.
func WithPublisher(p publish.Publisher) Option {
	return platform.WithPublisher(p)
}

// WithClock overrides the time source used to stamp created dates.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithMustExist ensures the content root must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithStrictStatus rejects statuses outside the closed set.
func WithStrictStatus(strict bool) Option {
	return platform.WithStrictStatus(strict)
}

// WithFolders overrides the directory name of each state.
func WithFolders(f Folders) Option {
	return platform.WithFolders(f)
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".pressroom").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithPublishTimeout bounds each platform call.
func WithPublishTimeout(d time.Duration) Option {
	return platform.WithPublishTimeout(d)
}

// WithConcurrency bounds parallel platform calls.
func WithConcurrency(n int) Option {
	return platform.WithConcurrency(n)
}

// --- Factory ---

// New creates an Engine rooted at root.
func New(root string, opts ...Option) (*Engine, error) {
	return platform.New(root, opts...)
}

// Init initializes a repository explicitly.
func Init(root string, opts ...Option) (core.Repository, error) {
	return platform.Init(root, opts...)
}

// LoadConfig reads a pressroom.toml file; a missing file yields defaults.
func LoadConfig(path string) (Config, bool, error) {
	return config.Load(path)
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return config.Default()
}

// FindRoot recursively looks upwards for a content root indicator.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
