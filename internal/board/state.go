package board

// A Phase is the load state of a board.
type Phase int

// Load phases.
const (
	PhaseUnloaded Phase = iota
	PhaseLoading
	PhaseReady
	PhaseLoadFailed
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseLoadFailed:
		return "load-failed"
	default:
		return "unloaded"
	}
}

// A SyncState is the synchronization state of a loaded board.
// When several conditions hold, the first one of Interacting, Saving, Dirty is reported.
type SyncState int

// Sync states.
const (
	SyncIdle SyncState = iota
	SyncInteracting
	SyncDirty
	SyncSaving
)

// String implements fmt.Stringer.
func (s SyncState) String() string {
	switch s {
	case SyncInteracting:
		return "interacting"
	case SyncDirty:
		return "dirty"
	case SyncSaving:
		return "saving"
	default:
		return "idle"
	}
}

// A Status is a snapshot of the store state.
type Status struct {
	ID    string
	Phase Phase
	Sync  SyncState
	// Err is the load error when Phase is PhaseLoadFailed,
	// otherwise the error of the last failed push.
	Err error
	// Retry is true when a push failed and local changes are still unsaved.
	Retry bool
}
