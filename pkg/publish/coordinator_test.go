package publish

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pressroom/pkg/adapters/fs"
	"github.com/aretw0/pressroom/pkg/core"
	"github.com/aretw0/pressroom/pkg/segment"
)

type fakeLocator struct {
	rec       core.Record
	err       error
	media     []string
	mediaExts []string

	mu          sync.Mutex
	annotations map[string]string
}

func (f *fakeLocator) Locate(ctx context.Context, id string) (core.Record, error) {
	if f.err != nil {
		return core.Record{}, f.err
	}
	return f.rec, nil
}

func (f *fakeLocator) Media(ctx context.Context, id string, exts []string) ([]string, error) {
	f.mediaExts = exts
	return f.media, nil
}

func (f *fakeLocator) Annotate(ctx context.Context, id, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.annotations == nil {
		f.annotations = make(map[string]string)
	}
	f.annotations[key] = value
	return nil
}

// scriptedPublisher behaves per platform as told.
type scriptedPublisher struct {
	mu       sync.Mutex
	payloads map[string]Payload
	behave   map[string]func(ctx context.Context) (Result, error)
	missing  map[string]bool
}

func newScripted() *scriptedPublisher {
	return &scriptedPublisher{
		payloads: make(map[string]Payload),
		behave:   make(map[string]func(ctx context.Context) (Result, error)),
		missing:  make(map[string]bool),
	}
}

func (p *scriptedPublisher) IsConfigured(platform string) bool {
	return !p.missing[platform]
}

func (p *scriptedPublisher) Post(ctx context.Context, platform string, payload Payload) (Result, error) {
	p.mu.Lock()
	p.payloads[platform] = payload
	fn := p.behave[platform]
	p.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return Result{Success: true, RemoteID: platform + "-1"}, nil
}

func sampleRecord() core.Record {
	return core.Record{
		ID:        "001",
		Title:     "Launch",
		Status:    core.StatusQueued,
		Platforms: []string{segment.Twitter, segment.LinkedIn, segment.Zhihu},
		Body:      "intro\n# 🐦 t\nshort\n# 💼 l\nlong form",
	}
}

func TestPublish_FanOutIsolatesFailures(t *testing.T) {
	loc := &fakeLocator{rec: sampleRecord(), media: []string{"/img/001_cover.jpg"}}
	pub := newScripted()
	pub.behave[segment.LinkedIn] = func(ctx context.Context) (Result, error) {
		return Result{}, errors.New("401 unauthorized")
	}
	pub.behave[segment.Zhihu] = func(ctx context.Context) (Result, error) {
		panic("adapter bug")
	}

	c := New(loc, pub, WithAnnotation(true))
	results, err := c.Publish(context.Background(), "001", "")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[segment.Twitter].Success)
	assert.Equal(t, "twitter-1", results[segment.Twitter].RemoteID)

	assert.False(t, results[segment.LinkedIn].Success)
	assert.Contains(t, results[segment.LinkedIn].Error, "401")
	assert.ErrorIs(t, results[segment.LinkedIn].Err, core.ErrAdapterFailure)

	assert.False(t, results[segment.Zhihu].Success)
	assert.Contains(t, results[segment.Zhihu].Error, "panic")

	assert.Equal(t, `["twitter"]`, loc.annotations[PublishedKey])
}

func TestPublish_PayloadShape(t *testing.T) {
	loc := &fakeLocator{rec: sampleRecord(), media: []string{"/img/001_cover.jpg"}}
	pub := newScripted()

	_, err := New(loc, pub).Publish(context.Background(), "001", "")
	require.NoError(t, err)

	tw := pub.payloads[segment.Twitter]
	assert.Equal(t, "short", tw.Text)
	assert.Equal(t, map[string]string{"twitter_text": "short"}, tw.Fields)
	assert.Equal(t, []string{"/img/001_cover.jpg"}, tw.Images)

	li := pub.payloads[segment.LinkedIn]
	assert.Equal(t, "long form", li.Text)
	assert.Equal(t, "Launch", li.Fields["title"])

	zh := pub.payloads[segment.Zhihu]
	assert.Equal(t, sampleRecord().Body, zh.Text, "platform without a section gets the whole body")
	assert.Equal(t, DefaultImageExtensions, loc.mediaExts)
	assert.Nil(t, loc.annotations, "annotation is off by default")
}

func TestPublish_ExplicitPlatform(t *testing.T) {
	loc := &fakeLocator{rec: sampleRecord()}
	pub := newScripted()

	results, err := New(loc, pub).Publish(context.Background(), "001", "xiaohongshu")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results["xiaohongshu"].Success)
}

func TestPublish_MetadataImagesWin(t *testing.T) {
	rec := sampleRecord()
	rec.Images = []string{"a.png"}
	loc := &fakeLocator{rec: rec, media: []string{"ignored.jpg"}}
	pub := newScripted()

	_, err := New(loc, pub).Publish(context.Background(), "001", segment.Twitter)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, pub.payloads[segment.Twitter].Images)
	assert.Nil(t, loc.mediaExts, "media lookup skipped")
}

func TestPublish_Errors(t *testing.T) {
	t.Run("Not Found", func(t *testing.T) {
		loc := &fakeLocator{err: core.ErrNotFound}
		_, err := New(loc, newScripted()).Publish(context.Background(), "404", "")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("No Platform", func(t *testing.T) {
		rec := sampleRecord()
		rec.Platforms = nil
		_, err := New(&fakeLocator{rec: rec}, newScripted()).Publish(context.Background(), "001", "")
		assert.ErrorIs(t, err, core.ErrNoPlatform)
	})
}

func TestPublish_NotConfiguredAndUnsuccessful(t *testing.T) {
	loc := &fakeLocator{rec: sampleRecord()}
	pub := newScripted()
	pub.missing[segment.Twitter] = true
	pub.behave[segment.LinkedIn] = func(ctx context.Context) (Result, error) {
		return Result{Success: false, Error: "rate limited"}, nil
	}

	results, err := New(loc, pub, WithAnnotation(true)).Publish(context.Background(), "001", "")
	require.NoError(t, err)

	assert.False(t, results[segment.Twitter].Success)
	assert.Contains(t, results[segment.Twitter].Error, "not configured")
	assert.Equal(t, "rate limited", results[segment.LinkedIn].Error)
	assert.True(t, results[segment.Zhihu].Success)
	assert.Equal(t, `["zhihu"]`, loc.annotations[PublishedKey])
}

func TestPublish_Timeout(t *testing.T) {
	loc := &fakeLocator{rec: sampleRecord()}
	pub := newScripted()
	pub.behave[segment.Twitter] = func(ctx context.Context) (Result, error) {
		time.Sleep(2 * time.Second) // ignores ctx on purpose
		return Result{Success: true}, nil
	}

	start := time.Now()
	results, err := New(loc, pub, WithTimeout(50*time.Millisecond)).Publish(context.Background(), "001", "")
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, results[segment.Twitter].Success)
	assert.ErrorIs(t, results[segment.Twitter].Err, core.ErrAdapterFailure)
	assert.True(t, results[segment.LinkedIn].Success)
}

func TestPublish_ConcurrencyLimit(t *testing.T) {
	loc := &fakeLocator{rec: sampleRecord()}
	pub := newScripted()

	var mu sync.Mutex
	running, peak := 0, 0
	slow := func(ctx context.Context) (Result, error) {
		mu.Lock()
		running++
		if running > peak {
			peak = running
		}
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		running--
		mu.Unlock()
		return Result{Success: true}, nil
	}
	for _, p := range sampleRecord().Platforms {
		pub.behave[p] = slow
	}

	_, err := New(loc, pub, WithConcurrency(1)).Publish(context.Background(), "001", "")
	require.NoError(t, err)
	assert.Equal(t, 1, peak)
}

func TestReadiness(t *testing.T) {
	pub := newScripted()
	pub.missing[segment.Zhihu] = true
	got := New(&fakeLocator{}, pub).Readiness([]string{segment.Twitter, segment.Zhihu})
	assert.Equal(t, map[string]bool{segment.Twitter: true, segment.Zhihu: false}, got)
}

func TestPublish_MergesEarlierAnnotation(t *testing.T) {
	rec := sampleRecord()
	rec.Extra = []core.Field{{Key: PublishedKey, Value: `[twitter, linkedin]`}}
	loc := &fakeLocator{rec: rec}

	_, err := New(loc, newScripted(), WithAnnotation(true)).Publish(context.Background(), "001", segment.Zhihu)
	require.NoError(t, err)
	assert.Equal(t, `["twitter","linkedin","zhihu"]`, loc.annotations[PublishedKey])

	rec.Extra = []core.Field{{Key: PublishedKey, Value: `["zhihu"]`}}
	loc = &fakeLocator{rec: rec}
	_, err = New(loc, newScripted(), WithAnnotation(true)).Publish(context.Background(), "001", segment.Zhihu)
	require.NoError(t, err)
	assert.Equal(t, `["zhihu"]`, loc.annotations[PublishedKey], "no duplicates")
}

func TestPublish_UntitledRecordKeepsLeadingMarker(t *testing.T) {
	rec, err := fs.Codec{}.Parse([]byte("---\nid: 001\nplatforms: [twitter, linkedin]\n---\n# 🐦 Thread\nhello\n# 💼 Post\nlinked"))
	require.NoError(t, err)

	pub := newScripted()
	results, err := New(&fakeLocator{rec: rec}, pub).Publish(context.Background(), "001", "")
	require.NoError(t, err)
	require.True(t, results[segment.Twitter].Success)

	assert.Equal(t, "hello", pub.payloads[segment.Twitter].Text)
	assert.Equal(t, "linked", pub.payloads[segment.LinkedIn].Text)
}
