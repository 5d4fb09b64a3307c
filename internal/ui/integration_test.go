package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/disasm-shell/internal/backend"
	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/minimap"
	"github.com/atomicstack/disasm-shell/internal/tabs"
	"github.com/atomicstack/disasm-shell/internal/view"
	tea "github.com/charmbracelet/bubbletea"
)

const waitTimeout = 5 * time.Second

func waitForBitmap(t *testing.T, h *Harness, id tabs.ID, version uint64) {
	t.Helper()
	ok := h.WaitFor(func(m *Model) bool {
		s := m.surfaces[id]
		return s != nil && s.bmp != nil && s.bmp.Version >= version
	}, waitTimeout)
	if !ok {
		t.Fatalf("minimap for %s never reached version %d", id, version)
	}
}

func TestMinimapRendersAndNavigatesOnClick(t *testing.T) {
	h, _ := newTestHarness(t, Options{ShowMinimap: true, MinimapWidth: 10})
	m := h.Model()
	cur, _ := m.tabs.Current()
	waitForBitmap(t, h, cur.ID, 1)

	bmp := m.surfaces[cur.ID].bmp
	x, y, ok := bmp.Layout.AddressToPixel(0x401100)
	if !ok {
		t.Fatalf("helper has no minimap pixel")
	}
	l := m.layout()
	h.Send(tea.MouseMsg{X: l.mapX + x, Y: l.top + y/2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	d := currentView(t, h)
	if d.CursorAddress() == 0x401000 {
		t.Fatalf("expected click to move the cursor")
	}
	if back := d.History().Back(); len(back) != 1 {
		t.Fatalf("expected click to record history, got %+v", back)
	}
	if !containsLine(h.View(), "◆") {
		t.Fatalf("expected cursor marker in minimap")
	}
}

func TestMinimapToggleDetaches(t *testing.T) {
	h, _ := newTestHarness(t, Options{ShowMinimap: true, MinimapWidth: 10})
	m := h.Model()
	cur, _ := m.tabs.Current()
	waitForBitmap(t, h, cur.ID, 1)
	h.Send(keyRunes("m"))
	if m.renderers[cur.ID].Attached() {
		t.Fatalf("expected m to detach the minimap")
	}
	if l := m.layout(); l.mapX >= 0 {
		t.Fatalf("expected minimap column hidden")
	}
	h.Send(keyRunes("m"))
	if !m.renderers[cur.ID].Attached() {
		t.Fatalf("expected m to attach the minimap again")
	}
}

func TestOnlyCurrentTabMinimapIsAttached(t *testing.T) {
	h, _ := newTestHarness(t, Options{ShowMinimap: true})
	m := h.Model()
	first, _ := m.tabs.Current()
	h.Send(keyRunes("n"))
	second, _ := m.tabs.Current()
	if m.renderers[first.ID].Attached() {
		t.Fatalf("expected background tab minimap to be detached")
	}
	if !m.renderers[second.ID].Attached() {
		t.Fatalf("expected current tab minimap to be attached")
	}
}

func TestBackendEventRefreshesTabsAndMinimap(t *testing.T) {
	h, doc := newTestHarness(t, Options{ShowMinimap: true})
	m := h.Model()
	cur, _ := m.tabs.Current()
	waitForBitmap(t, h, cur.ID, 1)

	version := doc.AddSymbol(document.Symbol{Name: "tail", Address: 0x40106b, Kind: document.SymbolLabel})
	snap, err := doc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindSnapshot, Version: version, Data: snap}})

	if got := m.snapshots.Version(); got != version {
		t.Fatalf("expected store at v%d, got v%d", version, got)
	}
	d := currentView(t, h)
	if d.Snapshot().Version() != version {
		t.Fatalf("expected tab to see the new snapshot")
	}
	if _, ok := d.Snapshot().SymbolByName("tail"); !ok {
		t.Fatalf("expected new symbol in tab snapshot")
	}
	waitForBitmap(t, h, cur.ID, version)
}

func TestBackendErrorKeepsSnapshot(t *testing.T) {
	h, _ := newTestHarness(t, Options{})
	m := h.Model()
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindSnapshot, Err: errors.New("db locked")}})
	if m.backendErr == "" {
		t.Fatalf("expected backend error to be recorded")
	}
	if m.snapshots.Version() != 1 {
		t.Fatalf("expected snapshot kept, got v%d", m.snapshots.Version())
	}
	if !containsLine(h.View(), "backend: db locked") {
		t.Fatalf("expected backend error in status line")
	}
}

func TestFirstSnapshotOpensTab(t *testing.T) {
	doc := document.Sample()
	h := NewHarness(NewModel(Options{Document: doc, Width: 100, Height: 30}))
	t.Cleanup(h.Close)
	snap, err := doc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindSnapshot, Version: snap.Version(), Data: snap}})
	m := h.Model()
	if m.tabs.Len() != 1 || m.shell.ActiveCommandTab() == nil {
		t.Fatalf("expected first snapshot to open an active disassembly tab")
	}
}

func TestTabBarClickActivatesAndCloses(t *testing.T) {
	h, _ := newTestHarness(t, Options{})
	m := h.Model()
	first, _ := m.tabs.Current()
	h.Send(keyRunes("s"))
	_, hits := m.tabBar()
	if len(hits) != 2 {
		t.Fatalf("expected two tab hits, got %d", len(hits))
	}

	h.Send(tea.MouseMsg{X: hits[0].start, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if cur, _ := m.tabs.Current(); cur.ID != first.ID {
		t.Fatalf("expected click to select the first tab")
	}
	if m.shell.ActiveCommandTab() == nil {
		t.Fatalf("expected disassembly to be the active command tab")
	}

	_, hits = m.tabBar()
	if hits[1].closeAt < 0 {
		t.Fatalf("expected segments tab to be closeable")
	}
	h.Send(tea.MouseMsg{X: hits[1].closeAt, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.tabs.Len() != 1 {
		t.Fatalf("expected close button to close the segments tab, %d tabs left", m.tabs.Len())
	}
}

func TestWindowResizeReschedulesMinimap(t *testing.T) {
	h, _ := newTestHarness(t, Options{ShowMinimap: true, Height: -1})
	m := h.Model()
	cur, _ := m.tabs.Current()
	h.Send(tea.WindowSizeMsg{Width: 120, Height: 40})
	r := m.renderers[cur.ID]
	if _, height := r.Size(); height != 2*m.layout().mapRows {
		t.Fatalf("expected minimap height %d, got %d", 2*m.layout().mapRows, height)
	}
	ok := h.WaitFor(func(m *Model) bool {
		s := m.surfaces[cur.ID]
		return s.bmp != nil && s.bmp.Image.Bounds().Dy() == 2*m.layout().mapRows
	}, waitTimeout)
	if !ok {
		t.Fatalf("expected a bitmap at the new size")
	}
}

func TestClosingTabDoesNotWaitForMinimapWorker(t *testing.T) {
	started := make(chan struct{}, 8)
	hold := make(chan struct{})
	slow := func(context.Context, *minimap.Job, *document.Snapshot) (*minimap.Bitmap, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-hold
		return nil, minimap.ErrCancelled
	}
	h, _ := newTestHarness(t, Options{ShowMinimap: true, Rasterizer: slow})
	t.Cleanup(func() { close(hold) })

	h.Send(keyRunes("n"))
	m := h.Model()
	if m.tabs.Len() != 2 {
		t.Fatalf("expected two tabs, got %d", m.tabs.Len())
	}
	select {
	case <-started:
	case <-time.After(waitTimeout):
		t.Fatalf("minimap raster never started")
	}

	cur, _ := m.tabs.Current()
	r := m.renderers[cur.ID]
	begin := time.Now()
	if !m.closeTab(cur.ID) {
		t.Fatalf("expected tab to close")
	}
	if elapsed := time.Since(begin); elapsed > 200*time.Millisecond {
		t.Fatalf("closing the tab blocked for %s", elapsed)
	}
	if running := r.Running(); running != nil && running.Status() != minimap.StatusCancelled {
		t.Fatalf("expected running job cancelled, got %s", running.Status())
	}
}

func TestMinimapClickOutsideFunctionFallsBackToListing(t *testing.T) {
	h, _ := newTestHarness(t, Options{ShowMinimap: true, MinimapWidth: 10})
	m := h.Model()
	cur, _ := m.tabs.Current()
	waitForBitmap(t, h, cur.ID, 1)

	h.Send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	d := currentView(t, h)
	if d.Mode() != view.ModeGraph {
		t.Fatalf("expected graph mode before the click, got %s", d.Mode())
	}

	bmp := m.surfaces[cur.ID].bmp
	x, y, ok := bmp.Layout.AddressToPixel(0x402000)
	if !ok {
		t.Fatalf("banner string has no minimap pixel")
	}
	l := m.layout()
	h.Send(tea.MouseMsg{X: l.mapX + x, Y: l.top + y/2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	if m.errMsg != "" {
		t.Fatalf("click outside a function reported %q", m.errMsg)
	}
	if d.Mode() != view.ModeListing {
		t.Fatalf("expected listing fallback, got %s", d.Mode())
	}
	if d.CursorAddress() == 0x401000 {
		t.Fatalf("expected click to move the cursor")
	}
	if back := d.History().Back(); len(back) != 1 {
		t.Fatalf("expected click to record history, got %+v", back)
	}
}
