// Package core holds the content record model, the storage port and the
// lifecycle service that moves records between states.
package core

// State is a lifecycle stage backed by one folder on disk.
type State string

const (
	StateInput      State = "input"
	StateProcessing State = "processing"
	StateOutput     State = "output"
	StateQueue      State = "queue"
)

// States returns every state in search priority order.
func States() []State {
	return []State{StateInput, StateProcessing, StateOutput, StateQueue}
}

// LocateStates returns the states searched when resolving a record for publishing.
// The output state is excluded: published records are not published again.
func LocateStates() []State {
	return []State{StateInput, StateProcessing, StateQueue}
}

// Valid reports whether s is one of the four known states.
func (s State) Valid() bool {
	switch s {
	case StateInput, StateProcessing, StateOutput, StateQueue:
		return true
	}
	return false
}

// Status is the lifecycle label stored in a record's metadata block.
type Status string

const (
	StatusIdea       Status = "idea"
	StatusDrafting   Status = "drafting"
	StatusProcessing Status = "processing"
	StatusQueued     Status = "queued"
	StatusPublished  Status = "published"
)

// DefaultStatus is assumed when a file carries no status line.
const DefaultStatus = StatusIdea

// InitialStatus is written by Create.
const InitialStatus = StatusDrafting

var statusFolders = map[Status]State{
	StatusIdea:       StateInput,
	StatusDrafting:   StateInput,
	StatusProcessing: StateProcessing,
	StatusQueued:     StateQueue,
	StatusPublished:  StateOutput,
}

var folderStatuses = map[State]Status{
	StateInput:      StatusDrafting,
	StateProcessing: StatusProcessing,
	StateQueue:      StatusQueued,
	StateOutput:     StatusPublished,
}

// Statuses returns the closed set of known statuses in lifecycle order.
func Statuses() []Status {
	return []Status{StatusIdea, StatusDrafting, StatusProcessing, StatusQueued, StatusPublished}
}

// Known reports whether s belongs to the closed status set.
func (s Status) Known() bool {
	_, ok := statusFolders[s]
	return ok
}

// State returns the folder a record with this status belongs in.
func (s Status) State() (State, bool) {
	st, ok := statusFolders[s]
	return st, ok
}

// CanonicalStatus returns the status a record takes when it is moved into st.
func CanonicalStatus(st State) Status {
	return folderStatuses[st]
}

// SourceFile identifies the file backing a record.
// It is used for locating and rewriting only.
type SourceFile struct {
	Path  string `json:"path"`
	State State  `json:"state"`
}

// Field is a metadata line the codec does not interpret.
// Value holds the raw text after the colon so it can be written back unchanged.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Record is one unit of editorial content.
type Record struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Status    Status     `json:"status"`
	Platforms []string   `json:"platforms"`
	Created   string     `json:"created"`
	Images    []string   `json:"images,omitempty"`
	Extra     []Field    `json:"extra,omitempty"`
	Body      string     `json:"body"`
	Source    SourceFile `json:"source"`
}

// Lookup returns the raw value of an unrecognised metadata field.
func (r Record) Lookup(key string) (string, bool) {
	for _, f := range r.Extra {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// EventType represents the type of change in a state folder.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a content file.
type Event struct {
	Type      EventType
	ID        string
	State     State
	Path      string
	Timestamp int64 // Unix timestamp
}

// String renders the event for logs, e.g. "MODIFY queue/007".
func (e Event) String() string {
	return string(e.Type) + " " + string(e.State) + "/" + e.ID
}
