package dispatcher

import (
	"github.com/atomicstack/disasm-shell/internal/backend"
	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/state"
)

type Result struct {
	SnapshotUpdated bool
	Version         uint64
	Err             error
}

type Dispatcher struct {
	snapshots state.SnapshotStore
}

func New(s state.SnapshotStore) *Dispatcher {
	return &Dispatcher{snapshots: s}
}

// Handle applies evt to the store. A snapshot that is not newer than the
// stored one is ignored.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		res.Err = evt.Err
		return res
	}
	switch evt.Kind {
	case backend.KindSnapshot:
		if snap, ok := evt.Data.(*document.Snapshot); ok && snap != nil {
			if cur := d.snapshots.Snapshot(); cur != nil && snap.Version() <= cur.Version() {
				return res
			}
			d.snapshots.SetSnapshot(snap)
			res.SnapshotUpdated = true
			res.Version = snap.Version()
		}
	}
	return res
}
