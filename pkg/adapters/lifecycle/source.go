// Package lifecycle exposes folder change events as a lifecycle.Source so
// they can be consumed next to other supervised event streams.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/pressroom/pkg/core"
)

type folderSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource wraps a channel from Service.Watch.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &folderSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *folderSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx ends or the input channel closes, then
// closes the output channel.
func (s *folderSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
