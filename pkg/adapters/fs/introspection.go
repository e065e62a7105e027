package fs

import (
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/pressroom/pkg/core"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string                `json:"path"`
	SystemDir     string                `json:"system_dir"`
	Extension     string                `json:"extension"`
	Folders       map[core.State]string `json:"folders"`
	Sequence      uint64                `json:"sequence"`
	WatcherActive bool                  `json:"watcher_active"`
	LastScan      *time.Time            `json:"last_scan,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	folders := make(map[core.State]string, len(r.config.Folders))
	for st := range r.config.Folders {
		folders[st] = r.dir(st)
	}

	return RepositoryState{
		Path:          r.Path,
		SystemDir:     r.config.SystemDir,
		Extension:     r.config.Extension,
		Folders:       folders,
		Sequence:      r.seq.Last(),
		WatcherActive: r.watcherActive,
		LastScan:      r.lastScan,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "folder-store"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}

func (r *Repository) recordScan() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastScan = &now
}
