package checklist

// ToggleState tracks an in-flight completion toggle. The optimistic record
// is visible while Pending; the upsert's outcome alone decides whether it is
// kept (Confirmed, server row authoritative) or discarded (RolledBack,
// pre-toggle snapshot restored).
type ToggleState int

const (
	TogglePending ToggleState = iota
	ToggleConfirmed
	ToggleRolledBack
)

func (s ToggleState) String() string {
	switch s {
	case TogglePending:
		return "pending"
	case ToggleConfirmed:
		return "confirmed"
	case ToggleRolledBack:
		return "rolled-back"
	}
	return "unknown"
}

// Toggle is the three-state transition for one item's completion flip.
type Toggle struct {
	state ToggleState
	prev  *CheckRecord // nil when no record existed before
	curr  CheckRecord
}

// NewToggle applies the optimistic record immediately; the returned Toggle
// is Pending and Record() already reflects next.
func NewToggle(prev *CheckRecord, next CheckRecord) *Toggle {
	var snapshot *CheckRecord
	if prev != nil {
		p := *prev
		snapshot = &p
	}
	return &Toggle{state: TogglePending, prev: snapshot, curr: next}
}

func (t *Toggle) State() ToggleState { return t.state }

// Record returns the record currently in effect: the optimistic one while
// Pending, the server row once Confirmed, the snapshot after a rollback
// (nil when no record existed before the toggle).
func (t *Toggle) Record() *CheckRecord {
	if t.state == ToggleRolledBack {
		return t.prev
	}
	rec := t.curr
	return &rec
}

// Confirm adopts the server-returned row; its timestamp and actor are
// authoritative over the optimistic placeholders.
func (t *Toggle) Confirm(server CheckRecord) {
	if t.state != TogglePending {
		return
	}
	t.curr = server
	t.state = ToggleConfirmed
}

// Rollback restores the pre-toggle snapshot.
func (t *Toggle) Rollback() {
	if t.state != TogglePending {
		return
	}
	t.state = ToggleRolledBack
}
