package ui

import (
	"github.com/atomicstack/disasm-shell/internal/command"
	"github.com/atomicstack/disasm-shell/internal/logging/events"
	"github.com/atomicstack/disasm-shell/internal/view"
	tea "github.com/charmbracelet/bubbletea"
)

const wheelStep = 3

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	key := keyMsg.String()
	events.UI.Key(key, m.mode.String())

	if m.mode == ModeReferences {
		switch key {
		case "esc", "q":
			m.closeReferences()
			return nil
		case "up", "k":
			m.scrollReferences(-1)
			return nil
		case "down", "j":
			m.scrollReferences(1)
			return nil
		}
		m.closeReferences()
	}

	cmd := m.handleNormalKey(key)
	m.resizeMinimaps()
	return cmd
}

func (m *Model) handleNormalKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "esc":
		m.clearStatus()
		return nil
	case "[":
		m.cycleTab(-1)
		return nil
	case "]":
		m.cycleTab(1)
		return nil
	case "<":
		m.moveTab(-1)
		return nil
	case ">":
		m.moveTab(1)
		return nil
	case "n":
		id, cmd := m.openDisassembly()
		if id != "" {
			m.activate(id)
		}
		return cmd
	case "s":
		if id := m.openSegments(); id != "" {
			m.activate(id)
		}
		return nil
	case "w":
		if cur, ok := m.tabs.Current(); ok {
			if !m.closeTab(cur.ID) {
				m.setInfo("tab is pinned")
			}
		}
		return nil
	case "m":
		m.toggleMinimap()
		return nil
	case "up", "k":
		m.moveCursor(func(c cursorMover) bool { return c.MoveCursor(-1) })
		return nil
	case "down", "j":
		m.moveCursor(func(c cursorMover) bool { return c.MoveCursor(1) })
		return nil
	case "pgup":
		m.moveDisassembly((*view.Disassembly).PageUp)
		return nil
	case "pgdown":
		m.moveDisassembly((*view.Disassembly).PageDown)
		return nil
	case "home":
		m.moveDisassembly((*view.Disassembly).Home)
		return nil
	case "end":
		m.moveDisassembly((*view.Disassembly).End)
		return nil
	case "g":
		return m.openGoto()
	case "/":
		return m.openSearch()
	}
	if spec, ok := command.ForKey(key); ok {
		return m.runCommand(spec.ID, "")
	}
	return nil
}

type cursorMover interface {
	MoveCursor(delta int) bool
}

func (m *Model) moveCursor(move func(cursorMover) bool) {
	content, _, ok := m.currentContent()
	if !ok {
		return
	}
	c, ok := content.(cursorMover)
	if !ok {
		return
	}
	if move(c) {
		m.tabs.RefreshStates()
	}
}

func (m *Model) moveDisassembly(move func(*view.Disassembly) bool) {
	d, _, ok := m.currentDisassembly()
	if !ok {
		return
	}
	if move(d) {
		m.tabs.RefreshStates()
	}
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	switch mouse.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(func(c cursorMover) bool { return c.MoveCursor(-wheelStep) })
		return nil
	case tea.MouseButtonWheelDown:
		m.moveCursor(func(c cursorMover) bool { return c.MoveCursor(wheelStep) })
		return nil
	}
	if mouse.Action != tea.MouseActionPress || mouse.Button != tea.MouseButtonLeft {
		return nil
	}
	l := m.layout()
	if l.tabBar && mouse.Y == 0 {
		m.clickTabBar(mouse.X)
		m.resizeMinimaps()
		return nil
	}
	if l.mapX >= 0 && mouse.X >= l.mapX && mouse.Y >= l.top && mouse.Y < l.top+l.mapRows {
		m.clickMinimap(mouse.X-l.mapX, mouse.Y-l.top)
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	events.UI.Resize(m.width, m.height)
	m.rebuildCloseButtons()
	m.resizeMinimaps()
	return nil
}
