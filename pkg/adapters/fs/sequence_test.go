package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	root := t.TempDir()

	seq := newSequence(root, ".pressroom")
	require.NoError(t, seq.Load(), "missing file is an empty mark")
	assert.Equal(t, uint64(0), seq.Last())

	require.NoError(t, seq.Advance(7))
	require.NoError(t, seq.Advance(3), "lower values are ignored")

	reloaded := newSequence(root, ".pressroom")
	require.NoError(t, reloaded.Load())
	assert.Equal(t, uint64(7), reloaded.Last())
}

func TestSequence_Corrupted(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".pressroom", "sequence.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	assert.Error(t, newSequence(root, ".pressroom").Load())
}
