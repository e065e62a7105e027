package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gofrs/flock"

	"github.com/aretw0/pressroom/pkg/core"
)

// IDWidth is the zero-padded width of allocated identifiers.
const IDWidth = 3

// Repository implements core.Repository over four sibling state folders.
type Repository struct {
	Path   string
	config Config
	codec  Codec
	seq    *sequence
	flock  *flock.Flock

	mu            sync.RWMutex
	watcherActive bool
	lastScan      *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	Folders   map[core.State]string // State -> directory name relative to Path
	Extension string                // e.g. ".md"
	SystemDir string                // e.g. ".pressroom"
	MustExist bool
	Logger    *slog.Logger
}

// DefaultFolders maps every state to a directory of the same name.
func DefaultFolders() map[core.State]string {
	folders := make(map[core.State]string, 4)
	for _, st := range core.States() {
		folders[st] = string(st)
	}
	return folders
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Folders == nil {
		config.Folders = DefaultFolders()
	}
	if config.Extension == "" {
		config.Extension = ".md"
	}
	if !strings.HasPrefix(config.Extension, ".") {
		config.Extension = "." + config.Extension
	}
	if config.SystemDir == "" {
		config.SystemDir = ".pressroom"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Repository{
		Path:   config.Path,
		config: config,
		seq:    newSequence(config.Path, config.SystemDir),
		flock:  flock.New(filepath.Join(config.Path, config.SystemDir, "lock")),
	}
}

// Initialize creates the root, the state folders and the system directory.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("content root does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("content root is not a directory: %s", r.Path)
		}
	}

	dirs := []string{filepath.Join(r.Path, r.config.SystemDir)}
	for _, st := range core.States() {
		dirs = append(dirs, r.dir(st))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}
	return nil
}

// Dir returns the folder backing a state.
func (r *Repository) Dir(state core.State) string {
	return r.dir(state)
}

func (r *Repository) dir(state core.State) string {
	name, ok := r.config.Folders[state]
	if !ok || name == "" {
		name = string(state)
	}
	return filepath.Join(r.Path, name)
}

// FileRef is a content file found in a state folder.
type FileRef struct {
	State core.State
	Path  string
	Name  string
	ID    string // prefix of Name before the first "_"
}

// ListFolder returns the content files of a state sorted by name.
// A missing folder is empty.
func (r *Repository) ListFolder(state core.State) ([]FileRef, error) {
	dir := r.dir(state)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	pattern := "*" + r.config.Extension
	var refs []FileRef
	for _, e := range entries {
		if e.IsDir() || isTempFile(e.Name()) {
			continue
		}
		ok, err := doublestar.Match(pattern, e.Name())
		if err != nil {
			return nil, fmt.Errorf("bad content pattern %q: %w", pattern, err)
		}
		if !ok {
			continue
		}
		refs = append(refs, FileRef{
			State: state,
			Path:  filepath.Join(dir, e.Name()),
			Name:  e.Name(),
			ID:    r.idOf(e.Name()),
		})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func (r *Repository) idOf(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), r.config.Extension)
	prefix, _, _ := strings.Cut(stem, "_")
	return prefix
}

// Exists reports whether a file named {id}_* is present in state. Only a
// missing file is reported as false; listing failures are returned.
func (r *Repository) Exists(state core.State, id string) (bool, error) {
	_, err := r.Resolve(context.Background(), id, state)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, core.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Resolve returns the file backing id without parsing it, searching states in order.
func (r *Repository) Resolve(ctx context.Context, id string, states ...core.State) (core.SourceFile, error) {
	prefix := id + "_"
	for _, st := range states {
		if err := ctx.Err(); err != nil {
			return core.SourceFile{}, err
		}
		refs, err := r.ListFolder(st)
		if err != nil {
			return core.SourceFile{}, err
		}
		for _, ref := range refs {
			if strings.HasPrefix(ref.Name, prefix) {
				return core.SourceFile{Path: ref.Path, State: st}, nil
			}
		}
	}
	return core.SourceFile{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
}

// NextID scans every state folder for numeric prefixes and returns the
// successor of the largest one, or of the persisted high-water mark if that is
// larger. Non-numeric prefixes are ignored. The caller is expected to hold the
// store lock; concurrent callers without it can receive the same value.
func (r *Repository) NextID(ctx context.Context) (string, error) {
	if err := r.seq.Load(); err != nil {
		return "", err
	}
	highest := r.seq.Last()

	for _, st := range core.States() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		refs, err := r.ListFolder(st)
		if err != nil {
			return "", err
		}
		for _, ref := range refs {
			n, err := strconv.ParseUint(ref.ID, 10, 64)
			if err != nil {
				continue
			}
			if n > highest {
				highest = n
			}
		}
	}

	r.recordScan()
	return FormatID(highest + 1), nil
}

// Commit persists id as the new high-water mark.
func (r *Repository) Commit(ctx context.Context, id string) error {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return nil // non-numeric ids never affect allocation
	}
	return r.seq.Advance(n)
}

// FormatID zero-pads n to IDWidth digits.
func FormatID(n uint64) string {
	return fmt.Sprintf("%0*d", IDWidth, n)
}

// Scan parses every content file in state.
func (r *Repository) Scan(ctx context.Context, state core.State) ([]core.Record, error) {
	refs, err := r.ListFolder(state)
	if err != nil {
		return nil, err
	}

	recs := make([]core.Record, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.read(core.SourceFile{Path: ref.Path, State: state})
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Find parses the first file named {id}_* in states.
func (r *Repository) Find(ctx context.Context, id string, states ...core.State) (core.Record, error) {
	src, err := r.Resolve(ctx, id, states...)
	if err != nil {
		return core.Record{}, err
	}
	return r.read(src)
}

func (r *Repository) read(src core.SourceFile) (core.Record, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Record{}, fmt.Errorf("%w: %s", core.ErrNotFound, src.Path)
		}
		return core.Record{}, err
	}

	rec, err := r.codec.Parse(data)
	if err != nil {
		return core.Record{}, &core.RecordError{Path: src.Path, Err: err}
	}

	fileID := r.idOf(src.Path)
	if rec.ID == "" {
		rec.ID = fileID
	} else if rec.ID != fileID {
		return core.Record{}, &core.RecordError{
			Path: src.Path,
			Err:  fmt.Errorf("metadata id %q does not match file name id %q", rec.ID, fileID),
		}
	}

	rec.Source = src
	return rec, nil
}

// Create writes rec to {name}{ext} in state without overwriting.
func (r *Repository) Create(ctx context.Context, state core.State, name string, rec core.Record) (core.SourceFile, error) {
	if err := ctx.Err(); err != nil {
		return core.SourceFile{}, err
	}

	dir := r.dir(state)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return core.SourceFile{}, fmt.Errorf("failed to create directories: %w", err)
	}

	path := filepath.Join(dir, name+r.config.Extension)
	if _, err := os.Lstat(path); err == nil {
		return core.SourceFile{}, fmt.Errorf("%w: %s", core.ErrMoveConflict, path)
	}

	data, err := r.codec.Serialize(rec)
	if err != nil {
		return core.SourceFile{}, fmt.Errorf("failed to serialize record: %w", err)
	}

	if err := writeFileAtomic(path, data, defaultFileMode); err != nil {
		return core.SourceFile{}, fmt.Errorf("failed to write file: %w", err)
	}

	r.config.Logger.Debug("content file written", "path", path)
	return core.SourceFile{Path: path, State: state}, nil
}

// SetField rewrites one metadata line of src through a temp file and rename.
func (r *Repository) SetField(ctx context.Context, src core.SourceFile, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(src.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, src.Path)
		}
		return err
	}

	updated, err := r.codec.SetField(data, key, value)
	if err != nil {
		return &core.RecordError{Path: src.Path, Err: err}
	}

	return rewriteFileAtomic(src.Path, updated)
}

// Move renames the file backing id from one state folder into another.
// A missing source is ErrNotFound; an existing destination is ErrMoveConflict.
// Neither case touches the filesystem.
func (r *Repository) Move(ctx context.Context, id string, from, to core.State) (core.SourceFile, error) {
	src, err := r.Resolve(ctx, id, from)
	if err != nil {
		return core.SourceFile{}, err
	}

	dstDir := r.dir(to)
	dst := filepath.Join(dstDir, filepath.Base(src.Path))
	if _, err := os.Lstat(dst); err == nil {
		return core.SourceFile{}, fmt.Errorf("%w: %s", core.ErrMoveConflict, dst)
	} else if !errors.Is(err, os.ErrNotExist) {
		return core.SourceFile{}, err
	}

	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return core.SourceFile{}, fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.Rename(src.Path, dst); err != nil {
		return core.SourceFile{}, fmt.Errorf("failed to move file: %w", err)
	}

	r.config.Logger.Debug("content file moved", "from", src.Path, "to", dst)
	return core.SourceFile{Path: dst, State: to}, nil
}

// Media returns at most one image for id: {id}_cover.{ext} in extension
// preference order, otherwise the first {id}*.{ext} in the same order.
// Files whose name continues the id with another digit (0010 for 001) never match.
func (r *Repository) Media(ctx context.Context, state core.State, id string, exts []string) ([]string, error) {
	dir := r.dir(state)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	names := make(map[string]bool, len(entries))
	sorted := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names[e.Name()] = true
		sorted = append(sorted, e.Name())
	}
	sort.Strings(sorted)

	for _, ext := range exts {
		cover := id + "_cover." + strings.TrimPrefix(ext, ".")
		if names[cover] {
			return []string{filepath.Join(dir, cover)}, nil
		}
	}

	for _, ext := range exts {
		pattern := id + "*." + strings.TrimPrefix(ext, ".")
		for _, name := range sorted {
			ok, err := doublestar.Match(pattern, name)
			if err != nil {
				return nil, fmt.Errorf("bad media pattern %q: %w", pattern, err)
			}
			if ok && !continuesNumber(name, id) {
				return []string{filepath.Join(dir, name)}, nil
			}
		}
	}
	return nil, nil
}

func continuesNumber(name, id string) bool {
	if len(name) <= len(id) {
		return false
	}
	c := name[len(id)]
	return c >= '0' && c <= '9'
}

// Lock acquires the store-wide advisory lock, retrying until ctx is done.
func (r *Repository) Lock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Join(r.Path, r.config.SystemDir), 0755); err != nil {
		return nil, err
	}

	ok, err := r.flock.TryLockContext(ctx, 25*time.Millisecond)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("content store %s is locked", r.Path)
	}

	return func() {
		if err := r.flock.Unlock(); err != nil {
			r.config.Logger.Error("failed to release store lock", "error", err)
		}
	}, nil
}

var (
	_ core.Repository = (*Repository)(nil)
	_ core.Sequencer  = (*Repository)(nil)
	_ core.Resolver   = (*Repository)(nil)
	_ core.Watchable  = (*Repository)(nil)
)
