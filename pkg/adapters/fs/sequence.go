package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// sequenceState is the persisted high-water mark of issued identifiers.
type sequenceState struct {
	Version int       `json:"version"`
	Last    uint64    `json:"last"`
	Updated time.Time `json:"updated"`
}

// sequence remembers the largest identifier ever issued, so deleting the
// newest file does not make its number available again.
type sequence struct {
	Path  string // Path to {systemDir}/sequence.json
	state sequenceState
	mu    sync.RWMutex
}

func newSequence(root, systemDir string) *sequence {
	return &sequence{
		Path:  filepath.Join(root, systemDir, "sequence.json"),
		state: sequenceState{Version: 1},
	}
}

// Load reads the mark from disk. A missing file is an empty mark.
func (s *sequence) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		s.state = sequenceState{Version: 1}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read sequence: %w", err)
	}

	var st sequenceState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("corrupted sequence file %s: %w", s.Path, err)
	}
	s.state = st
	return nil
}

// Last returns the loaded high-water mark.
func (s *sequence) Last() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Last
}

// Advance raises the mark to n and persists it. Lower values are ignored.
func (s *sequence) Advance(n uint64) error {
	s.mu.Lock()
	if n <= s.state.Last {
		s.mu.Unlock()
		return nil
	}
	s.state.Last = n
	s.state.Updated = time.Now().UTC()
	data, err := json.MarshalIndent(s.state, "", "  ")
	s.mu.Unlock()

	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return err
	}
	return writeFileAtomic(s.Path, data, defaultFileMode)
}
