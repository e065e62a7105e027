package core_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pressroom/pkg/adapters/fs"
	"github.com/aretw0/pressroom/pkg/core"
)

func newFolderService(t *testing.T) (*core.Service, *fs.Repository) {
	t.Helper()
	repo := fs.NewRepository(fs.Config{Path: t.TempDir()})
	require.NoError(t, repo.Initialize(context.Background()))
	return core.NewService(repo, core.WithClock(fixedClock(2))), repo
}

func TestLifecycle_SequentialIDs(t *testing.T) {
	svc, repo := newFolderService(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		id, err := svc.Create(ctx, fmt.Sprintf("post %d", i), nil, "")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%03d", i), id)
	}

	rec, err := svc.Get(ctx, "005")
	require.NoError(t, err)
	require.NoError(t, os.Remove(rec.Source.Path))

	id, err := svc.Create(ctx, "after delete", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "006", id, "identifiers are never reused")

	next, err := svc.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "007", next)

	_, err = os.Stat(filepath.Join(repo.Dir(core.StateInput), "006_after delete.md"))
	assert.NoError(t, err)
}

func TestLifecycle_ConcurrentCreate(t *testing.T) {
	svc, _ := newFolderService(t)
	ctx := context.Background()

	const n = 20
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := svc.Create(ctx, fmt.Sprintf("post %d", i), nil, "")
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestLifecycle_UpdateStatusKeepsBody(t *testing.T) {
	svc, _ := newFolderService(t)
	ctx := context.Background()

	body := "Intro line\n\nstatus: drafting\n---\n# 🐦 Thread\ntweet"
	id, err := svc.Create(ctx, "Body check", []string{"twitter"}, body)
	require.NoError(t, err)

	rec, err := svc.Get(ctx, id)
	require.NoError(t, err)
	before, err := os.ReadFile(rec.Source.Path)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, id, core.StatusQueued))

	after, err := os.ReadFile(rec.Source.Path)
	require.NoError(t, err)
	assert.Equal(t,
		strings.Replace(string(before), "status: drafting", "status: queued", 1),
		string(after))

	rec, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, body, rec.Body)
	assert.Equal(t, core.StateInput, rec.Source.State)
}

func TestLifecycle_TransitionMovesFile(t *testing.T) {
	svc, repo := newFolderService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "Ship it", nil, "text")
	require.NoError(t, err)

	require.NoError(t, svc.Transition(ctx, id, core.StatusQueued))
	assert.FileExists(t, filepath.Join(repo.Dir(core.StateQueue), id+"_Ship it.md"))
	assert.NoFileExists(t, filepath.Join(repo.Dir(core.StateInput), id+"_Ship it.md"))

	rec, err := svc.Locate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusQueued, rec.Status)

	require.NoError(t, svc.Transition(ctx, id, core.StatusPublished))
	_, err = svc.Locate(ctx, id)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLifecycle_MoveConflict(t *testing.T) {
	svc, repo := newFolderService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "dup", nil, "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(repo.Dir(core.StateQueue), id+"_dup.md"), []byte("---\nid: "+id+"\n---\n"), 0644))

	err = svc.Move(ctx, id, core.StateInput, core.StateQueue)
	assert.ErrorIs(t, err, core.ErrMoveConflict)

	rec, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, core.StateInput, rec.Source.State)
	assert.Equal(t, core.StatusDrafting, rec.Status)
}

func TestLifecycle_ListFailsOnBadFile(t *testing.T) {
	svc, repo := newFolderService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "good", nil, "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(repo.Dir(core.StateInput), "099_bad.md"), []byte("---\nid: 099\n"), 0644))

	_, err = svc.List(ctx, core.StateInput, "")
	assert.ErrorIs(t, err, core.ErrInvalidRecord)
}

func TestLifecycle_State(t *testing.T) {
	svc, _ := newFolderService(t)
	st := svc.State().(core.ServiceState)
	assert.Equal(t, "folder-store", st.RepositoryType)
	assert.True(t, st.Watchable)
	assert.True(t, st.Sequenced)
}
