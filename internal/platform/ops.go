package platform

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/pressroom/pkg/adapters/fs"
	"github.com/aretw0/pressroom/pkg/core"
)

// Init builds and initializes the repository for root.
func Init(root string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initRepository(root, o)
}

func initRepository(root string, o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}

	if root == "" {
		root = o.config.Root
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve content root: %w", err)
	}
	o.config.Root = abs

	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	repo := fs.NewRepository(fs.Config{
		Path:      abs,
		Folders:   o.config.FolderMap(),
		Extension: o.config.Extension,
		SystemDir: o.config.SystemDir,
		MustExist: o.mustExist,
		Logger:    o.logger,
	})

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func logger(o *options) *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}
