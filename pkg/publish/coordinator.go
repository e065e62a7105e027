// Package publish dispatches a content record to its target platforms.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/pressroom/pkg/core"
	"github.com/aretw0/pressroom/pkg/segment"
)

// PublishedKey is the metadata field that records successful platforms.
const PublishedKey = "published_to"

// DefaultImageExtensions is the cover lookup preference order.
var DefaultImageExtensions = []string{"jpg", "jpeg", "png", "webp"}

// Locator is the slice of the lifecycle manager the coordinator needs.
type Locator interface {
	Locate(ctx context.Context, id string) (core.Record, error)
	Media(ctx context.Context, id string, exts []string) ([]string, error)
	Annotate(ctx context.Context, id, key, value string) error
}

// Coordinator resolves a record's platforms, text and media and fans the
// platform calls out to a Publisher.
type Coordinator struct {
	locator     Locator
	publisher   Publisher
	logger      *slog.Logger
	concurrency int
	timeout     time.Duration
	imageExts   []string
	annotate    bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConcurrency bounds how many platform calls run at once.
func WithConcurrency(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithTimeout bounds each platform call.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithImageExtensions overrides the cover lookup order.
func WithImageExtensions(exts []string) Option {
	return func(c *Coordinator) {
		if len(exts) > 0 {
			c.imageExts = exts
		}
	}
}

// WithAnnotation records successful platforms in the record's metadata.
func WithAnnotation(enabled bool) Option {
	return func(c *Coordinator) {
		c.annotate = enabled
	}
}

// New creates a Coordinator.
func New(locator Locator, publisher Publisher, opts ...Option) *Coordinator {
	c := &Coordinator{
		locator:     locator,
		publisher:   publisher,
		logger:      slog.Default(),
		concurrency: 4,
		timeout:     30 * time.Second,
		imageExts:   DefaultImageExtensions,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Publish sends record id to platform, or to every platform listed in the
// record when platform is empty. A failing platform is reported in its Result
// and never stops the others; only lookup problems are returned as errors.
func (c *Coordinator) Publish(ctx context.Context, id, platform string) (map[string]Result, error) {
	rec, err := c.locator.Locate(ctx, id)
	if err != nil {
		return nil, err
	}

	targets := rec.Platforms
	if platform != "" {
		targets = []string{platform}
	}
	targets = core.UniquePlatforms(targets)
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w for %s", core.ErrNoPlatform, id)
	}

	sections := segment.Segment(rec.Body)

	images := rec.Images
	if len(images) == 0 {
		images, err = c.locator.Media(ctx, id, c.imageExts)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve media for %s: %w", id, err)
		}
	}

	results := make(map[string]Result, len(targets))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(c.concurrency)
	for _, p := range targets {
		payload := shape(p, rec.Title, segment.Text(sections, p, rec.Body), images)
		g.Go(func() error {
			res := c.dispatch(ctx, p, payload)
			mu.Lock()
			results[p] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	c.record(ctx, id, rec, targets, results)
	return results, nil
}

type outcome struct {
	res Result
	err error
}

func (c *Coordinator) dispatch(ctx context.Context, platform string, payload Payload) Result {
	if !c.publisher.IsConfigured(platform) {
		return failure(platform, errors.New("publisher not configured"))
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("publisher panic: %v", r)}
			}
		}()
		res, err := c.publisher.Post(callCtx, platform, payload)
		done <- outcome{res: res, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			c.logger.Warn("publish failed", "platform", platform, "error", o.err)
			return failure(platform, o.err)
		}
		if !o.res.Success {
			msg := o.res.Error
			if msg == "" {
				msg = "publisher reported no success"
			}
			c.logger.Warn("publish failed", "platform", platform, "error", msg)
			return failure(platform, errors.New(msg))
		}
		c.logger.Info("published", "platform", platform, "remote_id", o.res.RemoteID, "url", o.res.URL)
		return o.res

	case <-callCtx.Done():
		c.logger.Warn("publish timed out", "platform", platform, "timeout", c.timeout)
		return failure(platform, callCtx.Err())
	}
}

func failure(platform string, err error) Result {
	wrapped := fmt.Errorf("%w: %s: %v", core.ErrAdapterFailure, platform, err)
	return Result{Error: err.Error(), Err: wrapped}
}

// record annotates the record with the platforms that succeeded. Platforms
// already listed from earlier runs are kept first, new ones follow in
// dispatch order.
func (c *Coordinator) record(ctx context.Context, id string, rec core.Record, targets []string, results map[string]Result) {
	if !c.annotate {
		return
	}

	var ok []string
	for _, p := range targets {
		if results[p].Success {
			ok = append(ok, p)
		}
	}
	if len(ok) == 0 {
		return
	}

	published := core.UniquePlatforms(append(previouslyPublished(rec), ok...))
	value, err := json.Marshal(published)
	if err != nil {
		return
	}
	if err := c.locator.Annotate(ctx, id, PublishedKey, string(value)); err != nil {
		c.logger.Warn("failed to annotate published platforms", "id", id, "error", err)
	}
}

// previouslyPublished reads the existing annotation. It is written as a JSON
// list but may have been edited by hand, so any YAML flow list is accepted.
func previouslyPublished(rec core.Record) []string {
	raw, ok := rec.Lookup(PublishedKey)
	if !ok || raw == "" {
		return nil
	}
	var list []string
	if err := yaml.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	return list
}

// Readiness reports whether the publisher is configured for each platform.
func (c *Coordinator) Readiness(platforms []string) map[string]bool {
	out := make(map[string]bool, len(platforms))
	for _, p := range platforms {
		out[p] = c.publisher.IsConfigured(p)
	}
	return out
}
