// Package config loads the pressroom configuration file once at startup.
// The result is passed by value to the composition root; nothing reads the
// file again during a run.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/aretw0/pressroom/pkg/core"
)

// FileName is the configuration file looked up in the content root.
const FileName = "pressroom.toml"

// Folders names the directory of each state, relative to Root.
type Folders struct {
	Input      string `toml:"input"`
	Processing string `toml:"processing"`
	Output     string `toml:"output"`
	Queue      string `toml:"queue"`
}

// Publish contains settings for the publish fan-out.
type Publish struct {
	Concurrency     int      `toml:"concurrency"`
	TimeoutSeconds  int      `toml:"timeout_seconds"`
	Annotate        bool     `toml:"annotate"`
	ImageExtensions []string `toml:"image_extensions"`
	// Platforms the bundled dry-run publisher accepts. Empty means all.
	DryRunPlatforms []string `toml:"dry_run_platforms"`
}

// Status contains settings for status validation.
type Status struct {
	Strict bool `toml:"strict"`
}

// Config encapsulates all configuration values.
type Config struct {
	Root      string  `toml:"root"`
	Extension string  `toml:"extension"`
	SystemDir string  `toml:"system_dir"`
	Folders   Folders `toml:"folders"`
	Publish   Publish `toml:"publish"`
	Status    Status  `toml:"status"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Root:      ".",
		Extension: ".md",
		SystemDir: ".pressroom",
		Folders: Folders{
			Input:      string(core.StateInput),
			Processing: string(core.StateProcessing),
			Output:     string(core.StateOutput),
			Queue:      string(core.StateQueue),
		},
		Publish: Publish{
			Concurrency:     4,
			TimeoutSeconds:  30,
			Annotate:        true,
			ImageExtensions: []string{"jpg", "jpeg", "png", "webp"},
		},
	}
}

// Load parses and validates the file at path. A missing file yields the
// defaults; exists reports whether the file was found. A relative Root is
// resolved against the directory holding the file.
func Load(path string) (cfg Config, exists bool, err error) {
	cfg = Default()

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg.Root = filepath.Dir(path)
	case err != nil:
		return Config{}, false, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		exists = true
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return Config{}, false, fmt.Errorf("parse config %s: %w", path, err)
		}
		if !filepath.IsAbs(cfg.Root) {
			cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, exists, err
	}
	return cfg, exists, nil
}

func (c *Config) normalize() {
	c.Root = filepath.Clean(c.Root)
	if c.Extension != "" && !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	for i, ext := range c.Publish.ImageExtensions {
		c.Publish.ImageExtensions[i] = strings.TrimPrefix(strings.ToLower(ext), ".")
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Extension == "" || c.Extension == "." {
		return errors.New("extension must not be empty")
	}
	if c.SystemDir == "" {
		return errors.New("system_dir must not be empty")
	}

	seen := make(map[string]core.State, 4)
	for st, name := range c.FolderMap() {
		if name == "" {
			return fmt.Errorf("folders.%s must not be empty", st)
		}
		if filepath.IsAbs(name) {
			return fmt.Errorf("folders.%s must be relative to root", st)
		}
		dir := filepath.Clean(name)
		if other, dup := seen[dir]; dup {
			return fmt.Errorf("folders.%s and folders.%s share directory %q", other, st, dir)
		}
		seen[dir] = st
	}

	if c.Publish.Concurrency < 1 {
		return errors.New("publish.concurrency must be at least 1")
	}
	if c.Publish.TimeoutSeconds < 1 {
		return errors.New("publish.timeout_seconds must be at least 1")
	}
	if len(c.Publish.ImageExtensions) == 0 {
		return errors.New("publish.image_extensions must not be empty")
	}
	return nil
}

// FolderMap returns the state to directory mapping.
func (c Config) FolderMap() map[core.State]string {
	return map[core.State]string{
		core.StateInput:      c.Folders.Input,
		core.StateProcessing: c.Folders.Processing,
		core.StateOutput:     c.Folders.Output,
		core.StateQueue:      c.Folders.Queue,
	}
}

// Timeout returns the per-call publish timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Publish.TimeoutSeconds) * time.Second
}

// Encode renders the configuration as TOML, used by `pressroom init`. Root is
// written relative to dir, the directory that will hold the file.
func (c Config) Encode(dir string) ([]byte, error) {
	out := c
	out.Root = "."
	if rel, err := filepath.Rel(dir, c.Root); err == nil {
		out.Root = filepath.ToSlash(rel)
	}
	return toml.Marshal(out)
}
