package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/pressroom/pkg/core"
)

// Watch reports changes to content files in every state folder until ctx is
// cancelled. A move between folders shows up as a DELETE in the source state
// followed by a CREATE in the destination.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	folders := make(map[string]core.State, 4)
	for _, st := range core.States() {
		dir := r.dir(st)
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		folders[filepath.Clean(dir)] = st
	}

	events := make(chan core.Event, 64)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer r.setWatcherActive(false)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				e, keep := r.mapEvent(event, folders)
				if !keep {
					continue
				}
				r.config.Logger.Debug("content event", "type", e.Type, "id", e.ID, "state", e.State)
				select {
				case events <- e:
				case <-ctx.Done():
					return nil
				}

			case wErr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				r.config.Logger.Error("fsnotify error", "error", wErr)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		r.config.Logger.Error("watcher panic", "error", err)
	}))

	return events, nil
}

func (r *Repository) mapEvent(event fsnotify.Event, folders map[string]core.State) (core.Event, bool) {
	name := filepath.Base(event.Name)
	if isTempFile(name) || !strings.HasSuffix(name, r.config.Extension) {
		return core.Event{}, false
	}

	st, ok := folders[filepath.Clean(filepath.Dir(event.Name))]
	if !ok {
		return core.Event{}, false
	}

	var t core.EventType
	switch {
	case event.Has(fsnotify.Create):
		t = core.EventCreate
	case event.Has(fsnotify.Write):
		t = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		t = core.EventDelete
	default:
		return core.Event{}, false
	}

	return core.Event{
		Type:      t,
		ID:        r.idOf(name),
		State:     st,
		Path:      event.Name,
		Timestamp: time.Now().Unix(),
	}, true
}
