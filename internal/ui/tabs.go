package ui

import (
	"fmt"

	"github.com/atomicstack/disasm-shell/internal/minimap"
	"github.com/atomicstack/disasm-shell/internal/tabs"
	"github.com/atomicstack/disasm-shell/internal/view"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

const tabCloseGlyph = "×"

// openDisassembly adds a disassembly tab on the latest snapshot. The
// returned command waits for the tab's first minimap completion.
func (m *Model) openDisassembly() (tabs.ID, tea.Cmd) {
	snap := m.snapshots.Snapshot()
	if snap == nil {
		return "", nil
	}
	d := view.NewDisassembly(m.nextTitle("disassembly"), snap, view.Options{
		HistoryDepth: m.historyDepth,
		Bus:          m.bus,
		Switcher:     m.switcher,
	})
	id := m.tabs.Open(d)
	if m.doc == nil {
		return id, nil
	}
	w, h := m.minimapSize()
	var opts []minimap.Option
	if m.rasterizer != nil {
		opts = append(opts, minimap.WithRasterizer(m.rasterizer))
	}
	r := minimap.NewRenderer(m.shell, m.doc, minimap.Config{
		Width:        w,
		Height:       h,
		RowsPerCheck: m.rowsPerCheck,
	}, opts...)
	m.renderers[id] = r
	m.surfaces[id] = &mapSurface{}
	return id, waitForCompletion(id, r)
}

func (m *Model) openSegments() tabs.ID {
	snap := m.snapshots.Snapshot()
	if snap == nil {
		return ""
	}
	return m.tabs.Open(view.NewSegments(snap))
}

// activate selects id and moves the visible minimap to it.
func (m *Model) activate(id tabs.ID) {
	if cur, ok := m.tabs.Current(); ok && cur.ID != id {
		if r, ok := m.renderers[cur.ID]; ok && r.Attached() {
			r.Detach()
		}
	}
	if !m.tabs.Activate(id) {
		return
	}
	m.attachMinimap(id)
}

func (m *Model) attachMinimap(id tabs.ID) {
	r, ok := m.renderers[id]
	if !ok || !m.showMinimap || r.Attached() {
		return
	}
	r.Attach(m.surfaces[id])
}

// closeTab closes id and then selects whatever the manager nominates, as
// a separate step.
func (m *Model) closeTab(id tabs.ID) bool {
	next, ok := m.tabs.Close(id)
	if !ok {
		return false
	}
	m.dropRenderer(id)
	if next != "" {
		m.activate(next)
	}
	return true
}

func (m *Model) closeFromButton(b *tabs.CloseButton) bool {
	if b == nil {
		return false
	}
	id := b.TabID()
	next, ok := m.tabs.CloseFrom(b)
	if !ok {
		return false
	}
	m.dropRenderer(id)
	if next != "" {
		m.activate(next)
	}
	return true
}

// dropRenderer stops id's worker without joining it; the worker closes its
// completions channel on exit and the parked waiter reports rendererDoneMsg.
func (m *Model) dropRenderer(id tabs.ID) {
	if r, ok := m.renderers[id]; ok {
		r.Stop()
		delete(m.renderers, id)
	}
	delete(m.surfaces, id)
}

func (m *Model) cycleTab(delta int) {
	cur, ok := m.tabs.Current()
	if !ok {
		return
	}
	if next, ok := m.tabs.Neighbor(cur.ID, delta); ok && next != cur.ID {
		m.activate(next)
	}
}

func (m *Model) moveTab(delta int) {
	cur, ok := m.tabs.Current()
	if !ok {
		return
	}
	m.tabs.Move(cur.ID, m.tabs.IndexOf(cur.ID)+delta)
}

// tabHit is the clickable extent of one tab in the tab bar.
type tabHit struct {
	id         tabs.ID
	start, end int
	closeAt    int
}

// tabBar lays out the tab row. It returns the plain labels with their hit
// regions; styling is applied by the view.
func (m *Model) tabBar() ([]string, []tabHit) {
	list := m.tabs.Tabs()
	labels := make([]string, 0, len(list))
	hits := make([]tabHit, 0, len(list))
	x := 0
	for i, tab := range list {
		label := fmt.Sprintf(" %d:%s ", i+1, tab.Content.Title())
		closeAt := -1
		if tab.Closeable {
			closeAt = x + ansi.StringWidth(label)
			label += tabCloseGlyph + " "
		}
		w := ansi.StringWidth(label)
		labels = append(labels, label)
		hits = append(hits, tabHit{id: tab.ID, start: x, end: x + w, closeAt: closeAt})
		x += w + 1
	}
	return labels, hits
}

// rebuildCloseButtons refreshes every close affordance after a re-layout.
func (m *Model) rebuildCloseButtons() {
	for _, tab := range m.tabs.Tabs() {
		if tab.Closeable {
			m.tabs.RebuildCloseButton(tab.ID)
		}
	}
}

// clickTabBar resolves a click on the tab row.
func (m *Model) clickTabBar(x int) bool {
	_, hits := m.tabBar()
	for _, hit := range hits {
		if x < hit.start || x >= hit.end {
			continue
		}
		if hit.closeAt >= 0 && x == hit.closeAt {
			b, ok := m.tabs.CloseButton(hit.id)
			if !ok {
				return false
			}
			return m.closeFromButton(b)
		}
		m.activate(hit.id)
		return true
	}
	return false
}
