package tabs

import (
	"testing"

	"github.com/atomicstack/disasm-shell/internal/capability"
	"github.com/atomicstack/disasm-shell/internal/command"
	"github.com/atomicstack/disasm-shell/internal/eventbus"
	"github.com/atomicstack/disasm-shell/internal/router"
	"github.com/atomicstack/disasm-shell/internal/shell"
	"github.com/atomicstack/disasm-shell/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

type fixture struct {
	bus *eventbus.Bus
	sc  *shell.Context
	mgr *Manager
	rec *eventbus.Recorder
}

func newFixture() *fixture {
	bus := eventbus.New()
	sc := shell.NewContext(bus)
	return &fixture{
		bus: bus,
		sc:  sc,
		mgr: NewManager(sc, router.New(sc, bus), bus),
		rec: eventbus.Record(bus),
	}
}

func TestOpenActivateCloseScenario(t *testing.T) {
	f := newFixture()

	a := f.mgr.Open(&testutil.PlainView{Name: "A"})
	f.mgr.Activate(a)
	if f.sc.ActiveCommandTab() != nil {
		t.Fatalf("plain tab must not become the active command tab")
	}
	if got := f.sc.EnabledCommands(); len(got) != 0 {
		t.Fatalf("expected zero enabled commands, got %v", got)
	}

	bView := testutil.NewCommandView("B", command.GoBack, command.GoForward, command.ToggleView)
	b := f.mgr.Open(bView)
	f.mgr.Activate(b)
	if f.sc.ActiveCommandTab() != bView.Tab {
		t.Fatalf("B should be the active command tab")
	}
	want := []command.ID{command.GoBack, command.GoForward, command.ToggleView}
	if diff := cmp.Diff(want, f.sc.EnabledCommands()); diff != "" {
		t.Fatalf("enabled mismatch (-want +got):\n%s", diff)
	}

	next, ok := f.mgr.Close(b)
	if !ok {
		t.Fatalf("close B failed")
	}
	if f.sc.ActiveCommandTab() != nil {
		t.Fatalf("closing the active tab must clear the active command tab")
	}
	if _, _, ok := f.mgr.ActiveCommandTab(); ok {
		t.Fatalf("manager still reports an active command tab")
	}
	if got := f.sc.EnabledCommands(); len(got) != 0 {
		t.Fatalf("expected zero enabled commands after close, got %v", got)
	}
	if next != a {
		t.Fatalf("next selection should be A, got %q", next)
	}
	tabs := f.mgr.Tabs()
	if len(tabs) != 1 || tabs[0].ID != a {
		t.Fatalf("only A should remain, got %+v", tabs)
	}
}

func TestCloseClearsActiveBeforeRemoval(t *testing.T) {
	f := newFixture()
	view := testutil.NewCommandView("x", command.Goto)
	id := f.mgr.Open(view)
	f.mgr.Activate(id)

	var sawTabWhileClearing bool
	f.bus.Subscribe(shell.TopicActiveChanged, func(e eventbus.Event) {
		if e.(shell.ActiveChanged).Active == nil {
			_, sawTabWhileClearing = f.mgr.Get(id)
		}
	})
	f.mgr.Close(id)
	if !sawTabWhileClearing {
		t.Fatalf("active reference must be cleared while the tab is still in the collection")
	}
}

func TestCloseUnknownOrTwiceIsSilent(t *testing.T) {
	f := newFixture()
	id := f.mgr.Open(&testutil.PlainView{Name: "A"})
	if _, ok := f.mgr.Close("missing"); ok {
		t.Fatalf("unknown id must be ignored")
	}
	if _, ok := f.mgr.Close(id); !ok {
		t.Fatalf("first close should succeed")
	}
	if _, ok := f.mgr.Close(id); ok {
		t.Fatalf("second close must be a no-op")
	}
	if f.mgr.Activate(id) {
		t.Fatalf("activating a closed tab must be a no-op")
	}
}

func TestPinnedTabIgnoresClose(t *testing.T) {
	f := newFixture()
	id := f.mgr.OpenPinned(&testutil.PlainView{Name: "segments"})
	if _, ok := f.mgr.Close(id); ok {
		t.Fatalf("pinned tab must not close")
	}
	if _, ok := f.mgr.CloseButton(id); ok {
		t.Fatalf("pinned tab has no close affordance")
	}
}

func TestIDsAreNeverReused(t *testing.T) {
	f := newFixture()
	seen := map[ID]bool{}
	for i := 0; i < 50; i++ {
		id := f.mgr.Open(&testutil.PlainView{Name: "t"})
		if seen[id] {
			t.Fatalf("id %q reused", id)
		}
		seen[id] = true
		if i%2 == 0 {
			f.mgr.Close(id)
		}
	}
}

func TestCloseButtonsResolveByTabID(t *testing.T) {
	f := newFixture()
	a := f.mgr.Open(&testutil.PlainView{Name: "A"})
	b := f.mgr.Open(&testutil.PlainView{Name: "B"})

	stale, _ := f.mgr.CloseButton(b)
	rebuilt, _ := f.mgr.RebuildCloseButton(b)
	if stale == rebuilt || rebuilt.Generation() != stale.Generation()+1 {
		t.Fatalf("rebuild should produce a new affordance")
	}
	aButton, _ := f.mgr.CloseButton(a)
	if _, ok := f.mgr.CloseFrom(stale); !ok {
		t.Fatalf("stale button for B should still close B")
	}
	if _, ok := f.mgr.Get(a); !ok {
		t.Fatalf("closing B must never close A")
	}
	if _, ok := f.mgr.CloseFrom(rebuilt); ok {
		t.Fatalf("B is already closed")
	}
	if _, ok := f.mgr.CloseFrom(aButton); !ok {
		t.Fatalf("A's button should close A")
	}
}

func TestNextSelectionAfterClose(t *testing.T) {
	f := newFixture()
	a := f.mgr.Open(&testutil.PlainView{Name: "A"})
	b := f.mgr.Open(&testutil.PlainView{Name: "B"})
	c := f.mgr.Open(&testutil.PlainView{Name: "C"})

	f.mgr.Activate(b)
	if next, _ := f.mgr.Close(b); next != c {
		t.Fatalf("closing the middle tab should select its right neighbour")
	}
	f.mgr.Activate(c)
	if next, _ := f.mgr.Close(c); next != a {
		t.Fatalf("closing the last tab should select its left neighbour")
	}
	f.mgr.Activate(a)
	d := f.mgr.Open(&testutil.PlainView{Name: "D"})
	if next, _ := f.mgr.Close(d); next != a {
		t.Fatalf("closing an unselected tab keeps the selection, got %q", next)
	}
}

func TestMoveAndNeighbor(t *testing.T) {
	f := newFixture()
	a := f.mgr.Open(&testutil.PlainView{Name: "A"})
	b := f.mgr.Open(&testutil.PlainView{Name: "B"})
	c := f.mgr.Open(&testutil.PlainView{Name: "C"})
	if !f.mgr.Move(c, 0) {
		t.Fatalf("move failed")
	}
	var order []ID
	for _, tab := range f.mgr.Tabs() {
		order = append(order, tab.ID)
	}
	if diff := cmp.Diff([]ID{c, a, b}, order); diff != "" {
		t.Fatalf("order mismatch:\n%s", diff)
	}
	if n, _ := f.mgr.Neighbor(c, -1); n != b {
		t.Fatalf("neighbor should wrap to the end")
	}
	if n, _ := f.mgr.Neighbor(b, 1); n != c {
		t.Fatalf("neighbor should wrap to the start")
	}
}

func TestTabBarAutoHide(t *testing.T) {
	f := newFixture()
	a := f.mgr.Open(&testutil.PlainView{Name: "A"})
	if f.mgr.TabBarVisible() {
		t.Fatalf("single tab hides the bar")
	}
	f.mgr.Open(&testutil.PlainView{Name: "B"})
	if !f.mgr.TabBarVisible() {
		t.Fatalf("two tabs show the bar")
	}
	f.mgr.Close(a)
	if f.mgr.TabBarVisible() {
		t.Fatalf("bar hides again after close")
	}
}

func TestActivatePublishesAfterRouterRefresh(t *testing.T) {
	f := newFixture()
	id := f.mgr.Open(testutil.NewCommandView("x", command.Goto))
	f.rec.Reset()
	f.mgr.Activate(id)
	want := []eventbus.Topic{shell.TopicActiveChanged, router.TopicRefreshed, TopicActivated}
	if diff := cmp.Diff(want, f.rec.Topics()); diff != "" {
		t.Fatalf("event order (-want +got):\n%s", diff)
	}
}

func TestRouterObservesActiveValueSetInSameStep(t *testing.T) {
	f := newFixture()
	views := []*testutil.CommandView{
		testutil.NewCommandView("a", command.GoBack),
		testutil.NewCommandView("b", command.Goto),
	}
	ids := []ID{f.mgr.Open(views[0]), f.mgr.Open(views[1])}
	var observed []capability.CommandTab
	f.bus.Subscribe(router.TopicRefreshed, func(eventbus.Event) {
		observed = append(observed, f.sc.ActiveCommandTab())
	})
	f.mgr.Activate(ids[0])
	f.mgr.Activate(ids[1])
	if len(observed) != 2 || observed[0] != views[0].Tab || observed[1] != views[1].Tab {
		t.Fatalf("router observed stale active tabs: %v", observed)
	}
}

func TestAtMostOneActiveCommandTab(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := newFixture()
		var open []ID
		steps := rapid.IntRange(1, 80).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch op := rapid.IntRange(0, 3).Draw(t, "op"); {
			case op == 0 || len(open) == 0:
				var content Content
				if rapid.Bool().Draw(t, "capable") {
					content = testutil.NewCommandView("c", command.GoBack)
				} else {
					content = &testutil.PlainView{Name: "p"}
				}
				open = append(open, f.mgr.Open(content))
			case op == 1:
				i := rapid.IntRange(0, len(open)-1).Draw(t, "close")
				f.mgr.Close(open[i])
				open = append(open[:i], open[i+1:]...)
			case op == 2:
				i := rapid.IntRange(0, len(open)-1).Draw(t, "activate")
				f.mgr.Activate(open[i])
			default:
				f.mgr.Activate(ID("unknown"))
			}

			activeID, ct, ok := f.mgr.ActiveCommandTab()
			if f.sc.ActiveCommandTab() != ct {
				t.Fatalf("shell and manager disagree on the active command tab")
			}
			if !ok {
				if f.sc.ActiveCommandTab() != nil {
					t.Fatalf("shell holds a dangling active tab")
				}
				continue
			}
			count := 0
			for _, tab := range f.mgr.Tabs() {
				if tab.ID == activeID {
					count++
				}
			}
			if count != 1 {
				t.Fatalf("active tab must be exactly one open tab, found %d", count)
			}
		}
	})
}
