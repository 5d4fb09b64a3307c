package ui

import (
	"github.com/atomicstack/disasm-shell/internal/backend"
	"github.com/atomicstack/disasm-shell/internal/document"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		waitCmd := waitForBackendEvent(m.backend)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

type snapshotTarget interface {
	SetSnapshot(*document.Snapshot)
}

// applyBackendEvent stores a newer snapshot, hands it to every tab and tells
// each minimap about the new version. Errors only mark the status line.
func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	res := m.dispatcher.Handle(evt)
	if res.Err != nil {
		m.backendErr = res.Err.Error()
		return nil
	}
	m.backendErr = ""
	if !res.SnapshotUpdated {
		return nil
	}
	snap := m.snapshots.Snapshot()
	var cmd tea.Cmd
	if m.tabs.Len() == 0 {
		// the first snapshot of a document that was empty at startup
		id, wait := m.openDisassembly()
		if id != "" {
			m.activate(id)
		}
		cmd = wait
	}
	for _, tab := range m.tabs.Tabs() {
		if target, ok := tab.Content.(snapshotTarget); ok {
			target.SetSnapshot(snap)
		}
		if r, ok := m.renderers[tab.ID]; ok {
			r.OnDocumentChanged(res.Version)
		}
	}
	m.tabs.RefreshStates()
	return cmd
}
