package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// StatusValidator decides whether a status may be written.
type StatusValidator func(next Status) error

// Service is the content lifecycle manager.
// It owns identifier allocation, status changes and folder moves, and keeps the
// metadata status and the folder placement in step for every mutating call.
type Service struct {
	repo     Repository
	logger   *slog.Logger
	now      func() time.Time
	validate StatusValidator

	mu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used by the service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp new records.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStatusValidator replaces the status validation hook.
func WithStatusValidator(v StatusValidator) ServiceOption {
	return func(s *Service) {
		if v != nil {
			s.validate = v
		}
	}
}

// StrictStatus rejects any status outside the closed set.
func StrictStatus(next Status) error {
	if !next.Known() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	return nil
}

// PermissiveStatus accepts any non-empty status and logs the unknown ones.
func PermissiveStatus(logger *slog.Logger) StatusValidator {
	return func(next Status) error {
		if next == "" {
			return fmt.Errorf("%w: empty status", ErrInvalidStatus)
		}
		if !next.Known() {
			logger.Warn("writing unknown status", "status", next)
		}
		return nil
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validate == nil {
		s.validate = PermissiveStatus(s.logger)
	}
	return s
}

// Repository exposes the underlying store.
func (s *Service) Repository() Repository {
	return s.repo
}

func (s *Service) lock(ctx context.Context) (func(), error) {
	s.mu.Lock()
	unlock, err := s.repo.Lock(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to acquire store lock: %w", err)
	}
	return func() {
		unlock()
		s.mu.Unlock()
	}, nil
}

// Create allocates an identifier and writes a new record into the input state.
// The file is named {id}_{first 20 characters of title}.
func (s *Service) Create(ctx context.Context, title string, platforms []string, body string) (string, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to allocate id: %w", err)
	}

	rec := Record{
		ID:        id,
		Title:     title,
		Status:    InitialStatus,
		Platforms: UniquePlatforms(platforms),
		Created:   s.now().Format(time.DateOnly),
		Body:      body,
	}

	src, err := s.repo.Create(ctx, StateInput, id+"_"+Slug(title), rec)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", id, err)
	}

	if seq, ok := s.repo.(Sequencer); ok {
		if err := seq.Commit(ctx, id); err != nil {
			return "", fmt.Errorf("failed to record id %s: %w", id, err)
		}
	}

	s.logger.Info("content created", "id", id, "path", src.Path)
	return id, nil
}

// List parses every record in state, optionally keeping only an exact status
// match, sorted ascending by created date.
func (s *Service) List(ctx context.Context, state State, status Status) ([]Record, error) {
	if !state.Valid() {
		return nil, fmt.Errorf("unknown state %q", state)
	}

	recs, err := s.repo.Scan(ctx, state)
	if err != nil {
		return nil, err
	}

	out := recs[:0]
	for _, r := range recs {
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Created != out[j].Created {
			return out[i].Created < out[j].Created
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateStatus rewrites only the status line of the record's metadata block.
// The file stays in its current folder; use Transition to move it as well.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) error {
	if err := s.validate(status); err != nil {
		return err
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	src, err := s.resolve(ctx, id, States()...)
	if err != nil {
		return err
	}

	if err := s.repo.SetField(ctx, src, "status", string(status)); err != nil {
		return fmt.Errorf("failed to update status of %s: %w", id, err)
	}

	s.logger.Info("status updated", "id", id, "status", status, "state", src.State)
	return nil
}

// Locate finds a record in the input, processing or queue states.
// Records in the output state are not returned.
func (s *Service) Locate(ctx context.Context, id string) (Record, error) {
	if err := ValidateID(id); err != nil {
		return Record{}, err
	}
	return s.repo.Find(ctx, id, LocateStates()...)
}

// Get finds a record in any state.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	if err := ValidateID(id); err != nil {
		return Record{}, err
	}
	return s.repo.Find(ctx, id, States()...)
}

// Move relocates a record between folders and rewrites its status to the
// destination's canonical status.
func (s *Service) Move(ctx context.Context, id string, from, to State) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("unknown state in move %q -> %q", from, to)
	}
	if err := ValidateID(id); err != nil {
		return err
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	return s.move(ctx, id, from, to, CanonicalStatus(to))
}

// Transition is the authoritative state change: it moves the record to the
// folder mapped from status and writes status into its metadata.
func (s *Service) Transition(ctx context.Context, id string, status Status) error {
	target, ok := status.State()
	if !ok {
		return fmt.Errorf("%w: %q has no folder", ErrInvalidStatus, status)
	}
	if err := s.validate(status); err != nil {
		return err
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	src, err := s.resolve(ctx, id, States()...)
	if err != nil {
		return err
	}

	if src.State == target {
		if err := s.repo.SetField(ctx, src, "status", string(status)); err != nil {
			return fmt.Errorf("failed to update status of %s: %w", id, err)
		}
		s.logger.Info("status updated", "id", id, "status", status, "state", target)
		return nil
	}

	return s.move(ctx, id, src.State, target, status)
}

// move assumes the lock is held. The folder is written first; if the status
// rewrite then fails the folder remains the source of truth.
func (s *Service) move(ctx context.Context, id string, from, to State, status Status) error {
	dst, err := s.repo.Move(ctx, id, from, to)
	if err != nil {
		return fmt.Errorf("failed to move %s from %s to %s: %w", id, from, to, err)
	}

	if err := s.repo.SetField(ctx, dst, "status", string(status)); err != nil {
		return fmt.Errorf("moved %s but failed to sync status: %w", id, err)
	}

	s.logger.Info("content moved", "id", id, "from", from, "to", to, "status", status)
	return nil
}

// Annotate writes an arbitrary metadata field using the same in-place rewrite
// as UpdateStatus.
func (s *Service) Annotate(ctx context.Context, id, key, value string) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	src, err := s.resolve(ctx, id, States()...)
	if err != nil {
		return err
	}

	if err := s.repo.SetField(ctx, src, key, value); err != nil {
		return fmt.Errorf("failed to annotate %s: %w", id, err)
	}
	s.logger.Debug("content annotated", "id", id, "key", key)
	return nil
}

// Media returns the images stored next to a record in the input state.
func (s *Service) Media(ctx context.Context, id string, exts []string) ([]string, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	return s.repo.Media(ctx, StateInput, id, exts)
}

// NextID previews the identifier the next Create would allocate.
func (s *Service) NextID(ctx context.Context) (string, error) {
	return s.repo.NextID(ctx)
}

// Watch observes changes in the state folders if supported.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx)
}

func (s *Service) resolve(ctx context.Context, id string, states ...State) (SourceFile, error) {
	if err := ValidateID(id); err != nil {
		return SourceFile{}, err
	}
	r, ok := s.repo.(Resolver)
	if ok {
		return r.Resolve(ctx, id, states...)
	}
	rec, err := s.repo.Find(ctx, id, states...)
	if err != nil {
		return SourceFile{}, err
	}
	return rec.Source, nil
}
