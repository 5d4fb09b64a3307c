package ui

import (
	"github.com/atomicstack/disasm-shell/internal/command"
	"github.com/atomicstack/disasm-shell/internal/logging/events"
	"github.com/atomicstack/disasm-shell/internal/state"
	tea "github.com/charmbracelet/bubbletea"
)

// handleActiveInput gives the goto prompt or symbol search first refusal
// on a message. Messages the registry knows about still reach it.
func (m *Model) handleActiveInput(msg tea.Msg) (bool, tea.Cmd) {
	if m.mode != ModeGoto && m.mode != ModeSearch {
		return false, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.handlerFor(msg) != nil {
			return false, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return true, cmd
	}
	events.UI.Key(keyMsg.String(), m.mode.String())
	switch keyMsg.String() {
	case "esc", "ctrl+c":
		if m.mode == ModeSearch {
			events.Search.Cleared()
		}
		m.closeInput()
		return true, nil
	case "enter":
		if m.mode == ModeGoto {
			return true, m.submitGoto()
		}
		return true, m.submitSearch()
	case "up", "ctrl+p":
		if m.mode == ModeSearch && m.search != nil {
			m.search.Move(-1)
			return true, nil
		}
	case "down", "ctrl+n":
		if m.mode == ModeSearch && m.search != nil {
			m.search.Move(1)
			return true, nil
		}
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(keyMsg)
	if m.mode == ModeSearch && m.search != nil && m.input.Value() != before {
		m.search.SetQuery(m.input.Value())
		events.Search.Query(m.search.Query(), len(m.search.Matches()))
	}
	return true, cmd
}

func (m *Model) openGoto() tea.Cmd {
	if !m.shell.IsEnabled(command.Goto) {
		m.setInfo("goto is not available here")
		return nil
	}
	m.mode = ModeGoto
	m.input.Reset()
	m.input.Placeholder = "address or symbol"
	m.clearStatus()
	return m.input.Focus()
}

func (m *Model) openSearch() tea.Cmd {
	d, _, ok := m.currentDisassembly()
	if !ok || !m.shell.IsEnabled(command.FindSymbol) {
		m.setInfo("symbol search is not available here")
		return nil
	}
	m.mode = ModeSearch
	m.input.Reset()
	m.input.Placeholder = "symbol name"
	m.search = state.NewSymbolFilter(d.Snapshot().Symbols())
	m.clearStatus()
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.mode = ModeNormal
	m.input.Blur()
	m.input.Reset()
	m.search = nil
}
