// Package dryrun provides a Publisher that never leaves the machine.
// It logs what would be sent and returns a fabricated remote id, which makes
// it useful for rehearsing a publish run and for tests.
package dryrun

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aretw0/pressroom/pkg/publish"
)

// Publisher logs payloads instead of posting them.
type Publisher struct {
	logger    *slog.Logger
	platforms map[string]bool
}

// New creates a Publisher configured for the given platforms, or for every
// platform if none are given.
func New(logger *slog.Logger, platforms ...string) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{logger: logger}
	if len(platforms) > 0 {
		p.platforms = make(map[string]bool, len(platforms))
		for _, name := range platforms {
			p.platforms[name] = true
		}
	}
	return p
}

// IsConfigured implements publish.Publisher.
func (p *Publisher) IsConfigured(platform string) bool {
	if p.platforms == nil {
		return platform != ""
	}
	return p.platforms[platform]
}

// Post implements publish.Publisher.
func (p *Publisher) Post(ctx context.Context, platform string, payload publish.Payload) (publish.Result, error) {
	if err := ctx.Err(); err != nil {
		return publish.Result{}, err
	}
	if !p.IsConfigured(platform) {
		return publish.Result{}, fmt.Errorf("%s not configured", platform)
	}

	id := uuid.NewString()
	p.logger.Info("dry-run publish",
		"platform", platform,
		"title", payload.Title,
		"chars", len([]rune(payload.Text)),
		"images", len(payload.Images),
		"remote_id", id,
	)

	return publish.Result{
		Success:  true,
		RemoteID: id,
		URL:      fmt.Sprintf("dryrun://%s/%s", platform, id),
	}, nil
}

var _ publish.Publisher = (*Publisher)(nil)
