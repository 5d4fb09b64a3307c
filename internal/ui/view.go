package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/disasm-shell/internal/command"
	"github.com/atomicstack/disasm-shell/internal/view"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	searchPanelRows = 8
	refsPanelRows   = 8
	cursorMarker    = "▶ "
	plainMarker     = "  "
)

// screenLayout is computed the same way for drawing and for mouse hits.
type screenLayout struct {
	width     int
	height    int
	tabBar    bool
	top       int
	mapRows   int
	bodyRows  int
	panelRows int
	bodyWidth int
	mapX      int
}

func (m *Model) layout() screenLayout {
	w, h := m.dims()
	l := screenLayout{width: w, height: h, tabBar: m.tabs.TabBarVisible(), mapX: -1}
	chrome := 2 // header and status
	if l.tabBar {
		chrome++
	}
	if m.showFooter {
		chrome++
	}
	l.top = 1
	if l.tabBar {
		l.top = 2
	}
	l.mapRows = h - chrome
	if l.mapRows < 1 {
		l.mapRows = 1
	}
	switch m.mode {
	case ModeGoto:
		l.panelRows = 1
	case ModeSearch:
		l.panelRows = 1 + searchPanelRows
	case ModeReferences:
		n := len(m.refs)
		if n > refsPanelRows {
			n = refsPanelRows
		}
		l.panelRows = 1 + n
	}
	if l.panelRows > l.mapRows-1 {
		l.panelRows = l.mapRows - 1
	}
	if l.panelRows < 0 {
		l.panelRows = 0
	}
	l.bodyRows = l.mapRows - l.panelRows
	l.bodyWidth = w
	if m.minimapVisible() {
		l.bodyWidth = w - m.minimapCells - 1
		l.mapX = l.bodyWidth + 1
	}
	return l
}

func (m *Model) minimapVisible() bool {
	if !m.showMinimap {
		return false
	}
	cur, ok := m.tabs.Current()
	if !ok {
		return false
	}
	_, ok = m.renderers[cur.ID]
	return ok
}

// View implements tea.Model.
func (m *Model) View() string {
	l := m.layout()
	lines := make([]string, 0, l.height)
	if l.tabBar {
		lines = append(lines, m.viewTabBar(l.width))
	}
	lines = append(lines, fit(styles.Header, m.headerText(), l.width))

	left := append(m.viewBody(l), m.viewPanel(l)...)
	for len(left) < l.mapRows {
		left = append(left, strings.Repeat(" ", l.bodyWidth))
	}
	if l.mapX >= 0 {
		cur, _ := m.tabs.Current()
		right := m.renderMinimap(cur.ID, l.mapRows)
		sep := render(styles.Separator, "│")
		for i := 0; i < l.mapRows; i++ {
			lines = append(lines, left[i]+sep+right[i])
		}
	} else {
		lines = append(lines, left[:l.mapRows]...)
	}

	lines = append(lines, m.viewStatus(l.width))
	if m.showFooter {
		lines = append(lines, m.viewFooter(l.width))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewTabBar(width int) string {
	labels, _ := m.tabBar()
	cur, _ := m.tabs.Current()
	parts := make([]string, 0, len(labels))
	for i, tab := range m.tabs.Tabs() {
		style := styles.Tab
		if tab.ID == cur.ID {
			style = styles.ActiveTab
		}
		parts = append(parts, render(style, labels[i]))
	}
	bar := strings.Join(parts, " ")
	if ansi.StringWidth(bar) > width {
		bar = ansi.Truncate(bar, width, "…")
	}
	return bar
}

func (m *Model) headerText() string {
	content, _, ok := m.currentContent()
	if !ok {
		return "disasm-shell"
	}
	version := m.snapshots.Version()
	if d, ok := content.(*view.Disassembly); ok {
		return fmt.Sprintf("%s · %s · %s · v%d", d.Title(), d.Mode(), d.Location(), version)
	}
	return fmt.Sprintf("%s · v%d", content.Title(), version)
}

type lineRenderer interface {
	Render(height int) []view.Line
}

func (m *Model) viewBody(l screenLayout) []string {
	out := make([]string, 0, l.bodyRows)
	content, _, ok := m.currentContent()
	if !ok {
		out = append(out, fit(styles.Info, "(no open tabs: press n for a disassembly tab)", l.bodyWidth))
		return out
	}
	r, ok := content.(lineRenderer)
	if !ok {
		return out
	}
	for _, line := range r.Render(l.bodyRows) {
		marker := plainMarker
		style := lineStyle(line.Kind)
		switch {
		case line.Cursor:
			marker = cursorMarker
			style = styles.CursorLine
		case line.Selected:
			style = styles.Selected
		}
		out = append(out, fit(style, marker+line.Text, l.bodyWidth))
	}
	return out
}

func (m *Model) viewPanel(l screenLayout) []string {
	if l.panelRows == 0 {
		return nil
	}
	out := make([]string, 0, l.panelRows)
	switch m.mode {
	case ModeGoto:
		out = append(out, fitRaw("goto "+m.input.View(), l.bodyWidth))
	case ModeSearch:
		out = append(out, fitRaw("find "+m.input.View(), l.bodyWidth))
		if m.search == nil {
			break
		}
		matches := m.search.Matches()
		start, end := m.search.Window(l.panelRows - 1)
		for i := start; i < end; i++ {
			sym := matches[i]
			text := fmt.Sprintf("%s  %s  %s", sym.Address, sym.Kind, sym.Name)
			if i == m.search.Cursor() {
				out = append(out, fit(styles.CursorLine, cursorMarker+text, l.bodyWidth))
				continue
			}
			out = append(out, fit(styles.PanelBody, plainMarker+text, l.bodyWidth))
		}
		if len(matches) == 0 {
			out = append(out, fit(styles.Info, plainMarker+"(no matches)", l.bodyWidth))
		}
	case ModeReferences:
		out = append(out, fit(styles.PanelTitle, "references (esc to close)", l.bodyWidth))
		end := m.refsTop + l.panelRows - 1
		if end > len(m.refs) {
			end = len(m.refs)
		}
		for _, line := range m.refs[m.refsTop:end] {
			out = append(out, fit(styles.PanelBody, plainMarker+line, l.bodyWidth))
		}
	}
	for len(out) < l.panelRows {
		out = append(out, strings.Repeat(" ", l.bodyWidth))
	}
	return out[:l.panelRows]
}

func (m *Model) viewStatus(width int) string {
	switch {
	case m.errMsg != "":
		return fit(styles.Error, m.errMsg, width)
	case m.backendErr != "":
		return fit(styles.Error, "backend: "+m.backendErr, width)
	case m.infoMsg != "":
		return fit(styles.Info, m.infoMsg, width)
	}
	return strings.Repeat(" ", width)
}

func (m *Model) viewFooter(width int) string {
	parts := make([]string, 0, len(command.Catalog())+1)
	for _, spec := range command.Catalog() {
		label := spec.Label
		available := false
		if st, ok := m.shell.State(spec.ID); ok {
			if st.Label != "" {
				label = st.Label
			}
			available = st.Enabled && st.Available
		}
		key := spec.Key
		if key == " " {
			key = "space"
		}
		if available {
			parts = append(parts, render(styles.FooterKey, key)+" "+render(styles.Footer, label))
			continue
		}
		parts = append(parts, render(styles.FooterDisabled, key+" "+label))
	}
	parts = append(parts, render(styles.FooterKey, "q")+" "+render(styles.Footer, "quit"))
	footer := strings.Join(parts, "  ")
	if ansi.StringWidth(footer) > width {
		footer = ansi.Truncate(footer, width, "…")
	}
	return footer
}

func lineStyle(kind view.LineKind) *lipgloss.Style {
	switch kind {
	case view.LineHeader:
		return styles.Header
	case view.LineLabel:
		return styles.Label
	case view.LineCode:
		return styles.Code
	case view.LineData:
		return styles.Data
	case view.LineBorder:
		return styles.Border
	case view.LineHex:
		return styles.Hex
	default:
		return styles.Text
	}
}

// fit truncates plain text to width, pads it and applies style.
func fit(style *lipgloss.Style, text string, width int) string {
	if width <= 0 {
		return ""
	}
	text = truncate.StringWithTail(text, uint(width), "…")
	if pad := width - ansi.StringWidth(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return render(style, text)
}

// fitRaw is fit for text that already carries escape sequences.
func fitRaw(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(text) > width {
		text = ansi.Truncate(text, width, "…")
	}
	if pad := width - ansi.StringWidth(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return text
}

func render(style *lipgloss.Style, value string) string {
	if style == nil || value == "" {
		return value
	}
	return style.Render(value)
}
