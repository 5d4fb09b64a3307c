// Package history implements per-tab back/forward navigation.
package history

import (
	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/logging/events"
)

// Representation is the primary way a tab renders its cursor location.
type Representation int

const (
	Listing Representation = iota
	Graph
)

func (r Representation) String() string {
	switch r {
	case Listing:
		return "listing"
	case Graph:
		return "graph"
	default:
		return "unknown"
	}
}

// Other returns the representation a toggle switches to.
func (r Representation) Other() Representation {
	if r == Graph {
		return Listing
	}
	return Graph
}

// Entry is one navigation location.
type Entry struct {
	Address        document.Address
	Representation Representation
}

// History holds a back stack, a forward stack and the current entry. Stacks
// are ordered oldest first; the top is the last element.
type History struct {
	back     []Entry
	forward  []Entry
	current  Entry
	started  bool
	maxDepth int
}

// New returns an empty history. maxDepth bounds the back stack; zero means
// unbounded.
func New(maxDepth int) *History {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &History{maxDepth: maxDepth}
}

// NavigateTo records a new location. The previous current entry, if any, is
// pushed onto the back stack and the forward stack is cleared.
func (h *History) NavigateTo(e Entry) {
	if h.started {
		h.back = append(h.back, h.current)
		if h.maxDepth > 0 && len(h.back) > h.maxDepth {
			h.back = append(h.back[:0:0], h.back[len(h.back)-h.maxDepth:]...)
		}
	}
	h.forward = nil
	h.current = e
	h.started = true
	events.History.Navigate(e.Address.String(), e.Representation.String(), len(h.back))
}

// GoBack steps back one entry. It reports false, changing nothing, when the
// back stack is empty.
func (h *History) GoBack() bool {
	if len(h.back) == 0 {
		return false
	}
	h.forward = append(h.forward, h.current)
	h.current = h.back[len(h.back)-1]
	h.back = h.back[:len(h.back)-1]
	events.History.Step("back", h.current.Address.String())
	return true
}

// GoForward steps forward one entry. It reports false, changing nothing,
// when the forward stack is empty.
func (h *History) GoForward() bool {
	if len(h.forward) == 0 {
		return false
	}
	h.back = append(h.back, h.current)
	h.current = h.forward[len(h.forward)-1]
	h.forward = h.forward[:len(h.forward)-1]
	events.History.Step("forward", h.current.Address.String())
	return true
}

// UpdateCurrent replaces the current entry in place without touching either
// stack. Cursor moves and representation toggles use it.
func (h *History) UpdateCurrent(e Entry) {
	h.current = e
	h.started = true
}

func (h *History) Current() (Entry, bool) { return h.current, h.started }

func (h *History) CanGoBack() bool { return len(h.back) > 0 }

func (h *History) CanGoForward() bool { return len(h.forward) > 0 }

func (h *History) Back() []Entry { return append([]Entry(nil), h.back...) }

func (h *History) Forward() []Entry { return append([]Entry(nil), h.forward...) }

func (h *History) MaxDepth() int { return h.maxDepth }
