package state

import "github.com/atomicstack/disasm-shell/internal/document"

// SnapshotStore holds the latest document snapshot seen by the coordination
// loop.
type SnapshotStore interface {
	Snapshot() *document.Snapshot
	SetSnapshot(*document.Snapshot)
	Version() uint64
}

type snapshotStore struct {
	snap *document.Snapshot
}

func NewSnapshotStore(initial *document.Snapshot) SnapshotStore {
	return &snapshotStore{snap: initial}
}

func (s *snapshotStore) Snapshot() *document.Snapshot {
	return s.snap
}

func (s *snapshotStore) SetSnapshot(snap *document.Snapshot) {
	s.snap = snap
}

func (s *snapshotStore) Version() uint64 {
	if s.snap == nil {
		return 0
	}
	return s.snap.Version()
}
