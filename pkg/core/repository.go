package core

import "context"

// Repository defines the contract for the folder-backed content store.
// The core never touches paths directly; it asks the repository to scan, find,
// write and move records between states.
type Repository interface {
	// Initialize ensures every state folder and the system directory exist.
	Initialize(ctx context.Context) error

	// NextID returns the next unused identifier across every state.
	// Callers must hold the lock returned by Lock and call Commit once the
	// identifier has been written to disk.
	NextID(ctx context.Context) (string, error)

	// Scan parses every content file in a state, in no particular order.
	Scan(ctx context.Context, state State) ([]Record, error)

	// Find parses the first file named {id}_* found in states, searched in order.
	// It returns ErrNotFound if none matches.
	Find(ctx context.Context, id string, states ...State) (Record, error)

	// Create serializes rec into a new file {name}{ext} in state.
	// An existing file with the same name is an ErrMoveConflict.
	Create(ctx context.Context, state State, name string, rec Record) (SourceFile, error)

	// SetField rewrites a single metadata line of src in place, leaving every
	// other line byte-identical.
	SetField(ctx context.Context, src SourceFile, key, value string) error

	// Move relocates the file backing id from one state to another.
	Move(ctx context.Context, id string, from, to State) (SourceFile, error)

	// Media returns image files in state belonging to id.
	Media(ctx context.Context, state State, id string, exts []string) ([]string, error)

	// Lock acquires the store-wide writer lock.
	Lock(ctx context.Context) (unlock func(), err error)
}

// Sequencer is implemented by repositories that persist a high-water mark so
// identifiers are never reissued after a file is deleted.
type Sequencer interface {
	Commit(ctx context.Context, id string) error
}

// Watchable defines an interface for repositories that can emit change events.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Resolver is implemented by repositories that can locate a record's file
// without parsing it. UpdateStatus relies on it so that a record with a damaged
// body can still have its status rewritten.
type Resolver interface {
	Resolve(ctx context.Context, id string, states ...State) (SourceFile, error)
}
