// Package tabs owns the ordered collection of open tabs and the single
// active command tab reference.
package tabs

import (
	"github.com/atomicstack/disasm-shell/internal/capability"
	"github.com/atomicstack/disasm-shell/internal/command"
	"github.com/atomicstack/disasm-shell/internal/eventbus"
	"github.com/atomicstack/disasm-shell/internal/logging/events"
	"github.com/atomicstack/disasm-shell/internal/shell"
	"github.com/google/uuid"
)

// ID identifies a tab for its whole lifetime. IDs are never reused.
type ID string

// Content is what a tab hosts.
type Content interface {
	capability.View
	Title() string
}

type Tab struct {
	ID        ID
	Content   Content
	Closeable bool
}

// Refresher recomputes command enablement after an active-tab change.
type Refresher interface {
	Refresh(active capability.CommandTab, view capability.View) []command.State
	UpdateStates(active capability.CommandTab, view capability.View) []command.State
}

// Manager is driven from the coordination loop only.
type Manager struct {
	tabs    []*Tab
	current ID
	active  ID
	buttons map[ID]*CloseButton

	shell  shell.Notifier
	router Refresher
	bus    *eventbus.Bus
}

func NewManager(n shell.Notifier, r Refresher, bus *eventbus.Bus) *Manager {
	return &Manager{
		buttons: make(map[ID]*CloseButton),
		shell:   n,
		router:  r,
		bus:     bus,
	}
}

// Open appends a closeable tab and returns its fresh identity.
func (m *Manager) Open(content Content) ID {
	return m.open(content, true)
}

// OpenPinned appends a tab that ignores close requests.
func (m *Manager) OpenPinned(content Content) ID {
	return m.open(content, false)
}

func (m *Manager) open(content Content, closeable bool) ID {
	id := ID(uuid.NewString())
	m.tabs = append(m.tabs, &Tab{ID: id, Content: content, Closeable: closeable})
	if closeable {
		m.buttons[id] = &CloseButton{tab: id}
	}
	events.Tabs.Open(string(id), content.Title(), closeable)
	m.bus.Publish(Opened{ID: id})
	return id
}

// Close removes a tab. Unknown IDs and pinned tabs are ignored. When the tab
// is the active command tab the reference is cleared and the router
// refreshed before the tab leaves the collection. The returned ID is the tab
// that should be selected next; Close never activates it.
func (m *Manager) Close(id ID) (ID, bool) {
	idx := m.indexOf(id)
	if idx < 0 || !m.tabs[idx].Closeable {
		return "", false
	}

	wasActive := m.active == id
	if wasActive {
		m.active = ""
		m.shell.SetActiveCommandTab(nil)
		m.router.Refresh(nil, nil)
	}

	m.tabs = append(m.tabs[:idx:idx], m.tabs[idx+1:]...)
	delete(m.buttons, id)

	next := ID("")
	if m.current == id {
		m.current = ""
		if len(m.tabs) > 0 {
			if idx >= len(m.tabs) {
				idx = len(m.tabs) - 1
			}
			next = m.tabs[idx].ID
		}
	} else {
		next = m.current
	}

	events.Tabs.Close(string(id), string(next), wasActive)
	m.bus.Publish(Closed{ID: id, Next: next, WasActive: wasActive})
	return next, true
}

// Activate selects a tab. The command-tab facet is queried once: present, it
// becomes the active command tab; absent, the reference is cleared. The
// router always refreshes afterwards. Unknown IDs are ignored.
func (m *Manager) Activate(id ID) bool {
	tab, ok := m.Get(id)
	if !ok {
		return false
	}
	m.current = id

	ct, has := capability.Query(tab.Content)
	if has {
		m.active = id
		m.shell.SetActiveCommandTab(ct)
	} else {
		m.active = ""
		m.shell.SetActiveCommandTab(nil)
	}
	m.router.Refresh(ct, tab.Content)

	events.Tabs.Activate(string(id), has)
	m.bus.Publish(Activated{ID: id, CommandTab: has})
	return true
}

// RefreshStates re-reads command states from the active command tab without
// changing enablement.
func (m *Manager) RefreshStates() {
	tab, ok := m.Get(m.active)
	if !ok {
		m.router.UpdateStates(nil, nil)
		return
	}
	ct, _ := capability.Query(tab.Content)
	m.router.UpdateStates(ct, tab.Content)
}

// Move reorders a tab to index, clamped to the valid range.
func (m *Manager) Move(id ID, index int) bool {
	idx := m.indexOf(id)
	if idx < 0 {
		return false
	}
	if index < 0 {
		index = 0
	}
	if index >= len(m.tabs) {
		index = len(m.tabs) - 1
	}
	tab := m.tabs[idx]
	m.tabs = append(m.tabs[:idx], m.tabs[idx+1:]...)
	m.tabs = append(m.tabs[:index], append([]*Tab{tab}, m.tabs[index:]...)...)
	events.Tabs.Move(string(id), index)
	m.bus.Publish(Moved{ID: id, Index: index})
	return true
}

// Neighbor returns the tab delta positions away from id, wrapping around.
func (m *Manager) Neighbor(id ID, delta int) (ID, bool) {
	idx := m.indexOf(id)
	if idx < 0 || len(m.tabs) == 0 {
		return "", false
	}
	n := len(m.tabs)
	return m.tabs[((idx+delta)%n+n)%n].ID, true
}

// ActiveCommandTab returns the active command tab, if any.
func (m *Manager) ActiveCommandTab() (ID, capability.CommandTab, bool) {
	tab, ok := m.Get(m.active)
	if !ok {
		return "", nil, false
	}
	ct, ok := capability.Query(tab.Content)
	return tab.ID, ct, ok
}

func (m *Manager) ActiveID() ID { return m.active }

// Current returns the selected tab.
func (m *Manager) Current() (*Tab, bool) { return m.Get(m.current) }

func (m *Manager) Get(id ID) (*Tab, bool) {
	if id == "" {
		return nil, false
	}
	if idx := m.indexOf(id); idx >= 0 {
		return m.tabs[idx], true
	}
	return nil, false
}

// Tabs returns the open tabs in display order.
func (m *Manager) Tabs() []*Tab {
	return append([]*Tab(nil), m.tabs...)
}

func (m *Manager) Len() int { return len(m.tabs) }

func (m *Manager) IndexOf(id ID) int { return m.indexOf(id) }

// TabBarVisible hides the bar when a single tab (or none) is open.
func (m *Manager) TabBarVisible() bool { return len(m.tabs) > 1 }

func (m *Manager) indexOf(id ID) int {
	for i, t := range m.tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}
