package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pressroom/internal/config"
	"github.com/aretw0/pressroom/pkg/core"
)

func TestNew_CreatesStateFolders(t *testing.T) {
	root := t.TempDir()

	eng, err := New(root)
	require.NoError(t, err)
	require.NotNil(t, eng.Service)
	require.NotNil(t, eng.Coordinator)

	for _, st := range core.States() {
		info, err := os.Stat(filepath.Join(root, string(st)))
		require.NoError(t, err, "state folder %s", st)
		assert.True(t, info.IsDir())
	}
	assert.Equal(t, root, eng.Config.Root)
}

func TestNew_CustomFolders(t *testing.T) {
	root := t.TempDir()
	fixed := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	eng, err := New(root,
		WithFolders(config.Folders{Input: "inbox", Processing: "wip", Output: "published", Queue: "scheduled"}),
		WithClock(func() time.Time { return fixed }),
	)
	require.NoError(t, err)

	id, err := eng.Service.Create(context.Background(), "Custom", nil, "body")
	require.NoError(t, err)
	assert.Equal(t, "001", id)

	data, err := os.ReadFile(filepath.Join(root, "inbox", "001_Custom.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `created: "2026-03-04"`)
}

func TestNew_StrictStatus(t *testing.T) {
	eng, err := New(t.TempDir(), WithStrictStatus(true))
	require.NoError(t, err)

	ctx := context.Background()
	id, err := eng.Service.Create(ctx, "Strict", nil, "")
	require.NoError(t, err)

	err = eng.Service.UpdateStatus(ctx, id, "whatever")
	assert.ErrorIs(t, err, core.ErrInvalidStatus)
	assert.NoError(t, eng.Service.UpdateStatus(ctx, id, core.StatusQueued))
}

func TestNew_MustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := New(missing, WithMustExist(true))
	assert.Error(t, err)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Folders.Queue = cfg.Folders.Input

	_, err := New(t.TempDir(), WithConfig(cfg))
	assert.Error(t, err)
}

func TestNew_CustomSystemDir(t *testing.T) {
	root := t.TempDir()
	eng, err := New(root, WithSystemDir(".custom-sys"))
	require.NoError(t, err)

	_, err = eng.Service.Create(context.Background(), "first", nil, "")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, ".custom-sys", "sequence.json"))
	assert.NoDirExists(t, filepath.Join(root, ".pressroom"))
}
