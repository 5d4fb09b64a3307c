package tabs

// CloseButton is the close affordance drawn for a tab. It carries the tab's
// ID; closes are resolved through that ID and never through the button's
// own identity, so stale or duplicated buttons cannot close the wrong tab.
type CloseButton struct {
	tab        ID
	generation int
}

func (b *CloseButton) TabID() ID { return b.tab }

func (b *CloseButton) Generation() int { return b.generation }

// CloseButton returns the current affordance for a closeable tab.
func (m *Manager) CloseButton(id ID) (*CloseButton, bool) {
	b, ok := m.buttons[id]
	return b, ok
}

// RebuildCloseButton replaces the affordance for id, as a tab bar does when it
// re-lays out. Older buttons stay valid because they hold the same ID.
func (m *Manager) RebuildCloseButton(id ID) (*CloseButton, bool) {
	old, ok := m.buttons[id]
	if !ok {
		return nil, false
	}
	b := &CloseButton{tab: id, generation: old.generation + 1}
	m.buttons[id] = b
	return b, true
}

// CloseFrom handles a click on a close affordance.
func (m *Manager) CloseFrom(b *CloseButton) (ID, bool) {
	if b == nil {
		return "", false
	}
	return m.Close(b.tab)
}
