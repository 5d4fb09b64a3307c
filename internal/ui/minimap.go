package ui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/atomicstack/disasm-shell/internal/logging/events"
	"github.com/atomicstack/disasm-shell/internal/minimap"
	"github.com/atomicstack/disasm-shell/internal/tabs"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// mapSurface is what the terminal shows for one tab's minimap.
type mapSurface struct {
	bmp *minimap.Bitmap
}

func (s *mapSurface) Display(b *minimap.Bitmap) { s.bmp = b }

type completionMsg struct {
	tab        tabs.ID
	completion minimap.Completion
}

type rendererDoneMsg struct {
	tab tabs.ID
}

func waitForCompletion(id tabs.ID, r *minimap.Renderer) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-r.Completions()
		if !ok {
			return rendererDoneMsg{tab: id}
		}
		return completionMsg{tab: id, completion: c}
	}
}

func (m *Model) handleCompletionMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(completionMsg)
	if !ok {
		return nil
	}
	r, ok := m.renderers[done.tab]
	if !ok {
		return nil
	}
	r.Deliver(done.completion)
	return waitForCompletion(done.tab, r)
}

func (m *Model) handleRendererDoneMsg(msg tea.Msg) tea.Cmd {
	return nil
}

// minimapSize is the bitmap size in pixels: one pixel per column and two
// per row.
func (m *Model) minimapSize() (int, int) {
	l := m.layout()
	return m.minimapCells, l.mapRows * 2
}

func (m *Model) resizeMinimaps() {
	w, h := m.minimapSize()
	for _, r := range m.renderers {
		r.Resize(w, h)
	}
}

func (m *Model) toggleMinimap() {
	m.showMinimap = !m.showMinimap
	cur, ok := m.tabs.Current()
	if !ok {
		return
	}
	r, ok := m.renderers[cur.ID]
	if !ok {
		return
	}
	if m.showMinimap {
		m.attachMinimap(cur.ID)
		return
	}
	r.Detach()
}

// clickMinimap navigates the current tab to the address under a minimap
// cell. The top half of the cell is used.
func (m *Model) clickMinimap(cx, cy int) bool {
	d, id, ok := m.currentDisassembly()
	if !ok {
		return false
	}
	r, ok := m.renderers[id]
	if !ok {
		return false
	}
	a, ok := r.Click(cx, cy*2)
	if !ok {
		return false
	}
	events.UI.MinimapClick(cx, cy*2, a.String())
	if err := d.NavigatePrimary(a); err != nil {
		m.setError(err)
		return false
	}
	m.tabs.RefreshStates()
	m.setInfo("at " + d.Location())
	return true
}

// renderMinimap draws the bitmap with upper half blocks, two pixel rows per
// cell, and marks the cell holding the cursor address.
func (m *Model) renderMinimap(id tabs.ID, rows int) []string {
	out := make([]string, rows)
	surface := m.surfaces[id]
	if surface == nil || surface.bmp == nil || surface.bmp.Image == nil {
		blank := strings.Repeat("░", m.minimapCells)
		for i := range out {
			out[i] = render(styles.MinimapEmpty, blank)
		}
		return out
	}
	bmp := surface.bmp
	cursorX, cursorY := -1, -1
	if d, cur, ok := m.currentDisassembly(); ok && cur == id {
		if x, y, ok := bmp.Layout.AddressToPixel(d.CursorAddress()); ok {
			cursorX, cursorY = x, y/2
		}
	}
	cache := map[[2]string]lipgloss.Style{}
	b := bmp.Image.Bounds()
	for cy := 0; cy < rows; cy++ {
		var sb strings.Builder
		for cx := 0; cx < m.minimapCells; cx++ {
			if cx == cursorX && cy == cursorY {
				sb.WriteString(render(styles.MinimapCursor, "◆"))
				continue
			}
			top, bottom := 2*cy, 2*cy+1
			if cx >= b.Dx() || top >= b.Dy() {
				sb.WriteByte(' ')
				continue
			}
			fg := hexColor(bmp.Image.At(b.Min.X+cx, b.Min.Y+top))
			bg := fg
			if bottom < b.Dy() {
				bg = hexColor(bmp.Image.At(b.Min.X+cx, b.Min.Y+bottom))
			}
			key := [2]string{fg, bg}
			st, ok := cache[key]
			if !ok {
				st = lipgloss.NewStyle().Foreground(lipgloss.Color(fg)).Background(lipgloss.Color(bg))
				cache[key] = st
			}
			sb.WriteString(st.Render("▀"))
		}
		out[cy] = sb.String()
	}
	return out
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
