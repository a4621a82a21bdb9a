package rollback

import (
	"github.com/automoto/shipduel/components"
	"github.com/automoto/shipduel/shared/netconfig"
)

// LifecycleLedger records speculative entity creations and destructions so a
// rewind can retract them and a validation can make them permanent.
type LifecycleLedger struct {
	created   TentativeLog[components.Entity]
	destroyed TentativeLog[components.Entity]
}

func NewLifecycleLedger() *LifecycleLedger {
	return &LifecycleLedger{}
}

func (l *LifecycleLedger) RecordCreation(e components.Entity, frame netconfig.Frame) {
	l.created.Append(e, frame)
}

func (l *LifecycleLedger) RecordDestruction(e components.Entity, frame netconfig.Frame) {
	l.destroyed.Append(e, frame)
}

// IsProvisional reports whether e was created after the last reconciled frame.
func (l *LifecycleLedger) IsProvisional(e components.Entity) bool {
	return l.created.Contains(e)
}

// PendingCreations returns the unconfirmed creation records.
func (l *LifecycleLedger) PendingCreations() []Entry[components.Entity] {
	return l.created.Pending()
}

// PendingDestructions returns the unconfirmed destruction records.
func (l *LifecycleLedger) PendingDestructions() []Entry[components.Entity] {
	return l.destroyed.Pending()
}

// ReconcileToFrame brings the world's entity set in line with frame:
//   - destroy flags set after frame are lifted,
//   - entities created after frame are removed,
//   - entities destroyed at or before frame are removed for good,
//   - creations at or before frame are confirmed.
func (l *LifecycleLedger) ReconcileToFrame(w *components.World, frame netconfig.Frame) {
	for _, d := range l.destroyed.Abort(frame) {
		w.Restore(d.Value)
	}
	for _, c := range l.created.Abort(frame) {
		w.Remove(c.Value)
	}
	for _, d := range l.destroyed.Commit(frame) {
		w.Remove(d.Value)
	}
	l.created.Commit(frame)
}
