package ui

import (
	"errors"
	"strings"

	"github.com/atomicstack/disasm-shell/internal/command"
	tea "github.com/charmbracelet/bubbletea"
)

type promptResult struct {
	Cmd  tea.Cmd
	Info string
	Err  error
}

// withPrompt centralises the common prompt flow: close the input, reset
// status, and execute the provided action. The action can return a
// promptResult to control follow-up behaviour (command to run,
// informational message, or error).
func (m *Model) withPrompt(action func() promptResult) tea.Cmd {
	m.closeInput()
	m.clearStatus()
	if action == nil {
		return nil
	}
	result := action()
	if result.Err != nil {
		m.setError(result.Err)
		return nil
	}
	if result.Info != "" {
		m.setInfo(result.Info)
	}
	return result.Cmd
}

func (m *Model) submitGoto() tea.Cmd {
	target := strings.TrimSpace(m.input.Value())
	return m.withPrompt(func() promptResult {
		if target == "" {
			return promptResult{}
		}
		return promptResult{Cmd: m.runCommand(command.Goto, target)}
	})
}

func (m *Model) submitSearch() tea.Cmd {
	var (
		name  string
		found bool
	)
	if m.search != nil {
		if sym, ok := m.search.Selected(); ok {
			name, found = sym.Name, true
		}
	}
	query := m.input.Value()
	return m.withPrompt(func() promptResult {
		if !found {
			if query == "" {
				return promptResult{}
			}
			return promptResult{Err: errors.New("no symbol matches " + query)}
		}
		return promptResult{Cmd: m.runCommand(command.FindSymbol, name)}
	})
}
