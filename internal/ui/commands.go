package ui

import (
	"github.com/atomicstack/disasm-shell/internal/command"
	"github.com/atomicstack/disasm-shell/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// runCommand routes id to the active command tab through the bus. The
// shell's enabled set decides whether it runs at all.
func (m *Model) runCommand(id command.ID, arg string) tea.Cmd {
	var target command.Target
	if _, ct, ok := m.tabs.ActiveCommandTab(); ok {
		target = ct
	}
	req := command.Request{ID: id, Label: string(id), Arg: arg}
	if spec, ok := command.Lookup(id); ok {
		req.Label = spec.Label
	}
	return m.commands.Execute(target, m.shell.IsEnabled(id), req)
}

func (m *Model) handleCommandResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	m.tabs.RefreshStates()
	if res.Err != nil {
		events.UI.Error(res.Err)
		m.setError(res.Err)
		return nil
	}
	if len(res.Lines) > 0 {
		m.refs = res.Lines
		m.refsTop = 0
		m.mode = ModeReferences
	}
	if res.Info != "" {
		m.setInfo(res.Info)
	}
	return nil
}

func (m *Model) closeReferences() {
	m.mode = ModeNormal
	m.refs = nil
	m.refsTop = 0
}

func (m *Model) scrollReferences(delta int) {
	top := m.refsTop + delta
	if limit := len(m.refs) - 1; top > limit {
		top = limit
	}
	if top < 0 {
		top = 0
	}
	m.refsTop = top
}
