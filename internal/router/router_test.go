package router

import (
	"testing"

	"github.com/atomicstack/disasm-shell/internal/command"
	"github.com/atomicstack/disasm-shell/internal/eventbus"
	"github.com/atomicstack/disasm-shell/internal/shell"
	"github.com/atomicstack/disasm-shell/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestRefreshWithoutActiveTabDisablesEverything(t *testing.T) {
	bus := eventbus.New()
	sc := shell.NewContext(bus)
	rec := eventbus.Record(bus)

	states := New(sc, bus).Refresh(nil, nil)
	if len(states) != len(command.Catalog()) {
		t.Fatalf("expected a state per catalog entry, got %d", len(states))
	}
	if got := sc.EnabledCommands(); len(got) != 0 {
		t.Fatalf("expected no enabled commands, got %v", got)
	}
	events := rec.Events()
	if len(events) != 1 {
		t.Fatalf("expected one refresh event, got %d", len(events))
	}
	if ev := events[0].(Refreshed); len(ev.Enabled) != 0 {
		t.Fatalf("refresh event should list nothing, got %v", ev.Enabled)
	}
}

func TestRefreshEnablesDeclaredCommands(t *testing.T) {
	bus := eventbus.New()
	sc := shell.NewContext(bus)
	view := testutil.NewCommandView("listing", command.GoBack, command.Goto)
	view.Tab.Labels[command.Goto] = "Go to address"
	view.Tab.Unavailable[command.GoBack] = true

	New(sc, bus).Refresh(view.Tab, view)

	if diff := cmp.Diff([]command.ID{command.GoBack, command.Goto}, sc.EnabledCommands()); diff != "" {
		t.Fatalf("enabled mismatch (-want +got):\n%s", diff)
	}
	st, ok := sc.State(command.Goto)
	if !ok || st.Label != "Go to address" || !st.Available {
		t.Fatalf("goto state = %+v ok=%v", st, ok)
	}
	st, _ = sc.State(command.GoBack)
	if !st.Enabled || st.Available {
		t.Fatalf("go-back should be enabled but unavailable, got %+v", st)
	}
	st, _ = sc.State(command.HexDump)
	if st.Enabled {
		t.Fatalf("hex-dump must be disabled, got %+v", st)
	}
	if sc.View() != view {
		t.Fatalf("shell should record the context view")
	}
}

func TestComputeIsPure(t *testing.T) {
	view := testutil.NewCommandView("x", command.References)
	a, sa := Compute(view.Tab)
	b, sb := Compute(view.Tab)
	if !cmp.Equal(a, b) || !cmp.Equal(sa, sb) {
		t.Fatalf("Compute must be deterministic")
	}
	if view.Tab.Executed() != 0 {
		t.Fatalf("Compute must not execute commands")
	}
}

func TestUpdateStatesKeepsEnablement(t *testing.T) {
	bus := eventbus.New()
	sc := shell.NewContext(bus)
	r := New(sc, bus)
	view := testutil.NewCommandView("x", command.GoForward)
	r.Refresh(view.Tab, view)

	view.Tab.Unavailable[command.GoForward] = true
	r.UpdateStates(view.Tab, view)
	if !sc.IsEnabled(command.GoForward) {
		t.Fatalf("UpdateStates must not change enablement")
	}
	if st, _ := sc.State(command.GoForward); st.Available {
		t.Fatalf("state should reflect new availability")
	}
}
