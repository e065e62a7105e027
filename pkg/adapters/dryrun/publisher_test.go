package dryrun

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pressroom/pkg/publish"
)

func TestPublisher_Post(t *testing.T) {
	var buf bytes.Buffer
	p := New(slog.New(slog.NewTextHandler(&buf, nil)))

	res, err := p.Post(context.Background(), "twitter", publish.Payload{Title: "T", Text: "héllo"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.RemoteID)
	assert.True(t, strings.HasPrefix(res.URL, "dryrun://twitter/"))
	assert.Contains(t, buf.String(), "chars=5")
}

func TestPublisher_Configured(t *testing.T) {
	all := New(nil)
	assert.True(t, all.IsConfigured("zhihu"))
	assert.False(t, all.IsConfigured(""))

	some := New(nil, "twitter")
	assert.True(t, some.IsConfigured("twitter"))
	assert.False(t, some.IsConfigured("linkedin"))

	_, err := some.Post(context.Background(), "linkedin", publish.Payload{})
	assert.Error(t, err)
}

func TestPublisher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil).Post(ctx, "twitter", publish.Payload{})
	assert.ErrorIs(t, err, context.Canceled)
}
