package dispatcher

import (
	"context"
	"errors"
	"testing"

	"github.com/atomicstack/disasm-shell/internal/backend"
	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/state"
)

func snapshotAt(t *testing.T, doc *document.Memory) *document.Snapshot {
	t.Helper()
	snap, err := doc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap
}

func TestHandleAppliesNewerSnapshots(t *testing.T) {
	doc := document.Sample()
	first := snapshotAt(t, doc)
	store := state.NewSnapshotStore(first)
	d := New(store)

	doc.AddSymbol(document.Symbol{Name: "x", Address: 0x401120, Kind: document.SymbolLabel})
	second := snapshotAt(t, doc)

	res := d.Handle(backend.Event{Kind: backend.KindSnapshot, Version: second.Version(), Data: second})
	if !res.SnapshotUpdated || res.Version != 2 {
		t.Fatalf("result = %+v", res)
	}
	if store.Snapshot() != second {
		t.Fatalf("store not updated")
	}

	res = d.Handle(backend.Event{Kind: backend.KindSnapshot, Version: first.Version(), Data: first})
	if res.SnapshotUpdated {
		t.Fatalf("stale snapshot applied")
	}
	if store.Version() != 2 {
		t.Fatalf("store version = %d", store.Version())
	}
}

func TestHandleErrorLeavesStore(t *testing.T) {
	doc := document.Sample()
	first := snapshotAt(t, doc)
	store := state.NewSnapshotStore(first)
	res := New(store).Handle(backend.Event{Kind: backend.KindSnapshot, Err: errors.New("locked")})
	if res.SnapshotUpdated || res.Err == nil {
		t.Fatalf("result = %+v", res)
	}
	if store.Snapshot() != first {
		t.Fatalf("store changed on error")
	}
}

func TestHandleIntoEmptyStore(t *testing.T) {
	doc := document.Sample()
	store := state.NewSnapshotStore(nil)
	snap := snapshotAt(t, doc)
	if res := New(store).Handle(backend.Event{Kind: backend.KindSnapshot, Data: snap}); !res.SnapshotUpdated {
		t.Fatalf("result = %+v", res)
	}
}
