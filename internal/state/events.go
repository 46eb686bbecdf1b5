package state

import "time"

// EventKind classifies container notifications.
type EventKind string

// Event kinds.
const (
	EventChange      EventKind = "change"
	EventBatch       EventKind = "batch"
	EventInitialized EventKind = "initialized"
	EventReset       EventKind = "reset"
	EventImported    EventKind = "imported"
)

// Mutation sources. Loads are tagged distinctly so observers can tell a
// storage merge from a user edit.
const (
	SourceUser        = "user"
	SourceSystem      = "system"
	SourceCalculation = "calculation"
	SourceStorageLoad = "storage-load"
	SourceImport      = "import"
	SourceReset       = "reset"
)

// Event is delivered to broadcast subscribers on every committed change and
// lifecycle transition. Path and Value are set for EventChange only.
type Event struct {
	Time   time.Time
	Value  any
	Path   Path
	Source string
	Kind   EventKind
}

// Handle identifies one subscription for later removal.
type Handle int

// SubscribeOption tweaks subscription behavior.
type SubscribeOption func(*subscription)

// Immediate invokes the callback synchronously with the current value at
// subscribe time, before any future change.
func Immediate() SubscribeOption {
	return func(s *subscription) { s.immediate = true }
}

// subscription is one registered observer: either path-scoped (fn receives
// the new value) or broadcast (allFn receives the full event).
type subscription struct {
	fn        func(any)
	allFn     func(Event)
	path      Path
	immediate bool
}
