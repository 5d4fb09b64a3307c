// Package shell holds the application context that the tab manager, router
// and minimap share. It is passed explicitly at construction; there is no
// process-wide instance.
package shell

import (
	"github.com/atomicstack/disasm-shell/internal/capability"
	"github.com/atomicstack/disasm-shell/internal/command"
	"github.com/atomicstack/disasm-shell/internal/eventbus"
)

// Notifier is the shell surface that tab and command routing report into.
type Notifier interface {
	SetActiveCommandTab(tab capability.CommandTab)
	EnableCommands(view capability.View, enabled map[command.ID]bool)
	UpdateCommandStates(view capability.View, states []command.State)
}

const TopicActiveChanged eventbus.Topic = "shell.active-changed"

// ActiveChanged is published whenever the active command tab is replaced or
// cleared.
type ActiveChanged struct {
	Active capability.CommandTab
}

func (ActiveChanged) Topic() eventbus.Topic { return TopicActiveChanged }

// Context is the default Notifier. It is owned by the coordination loop and
// is not safe for concurrent use.
type Context struct {
	bus     *eventbus.Bus
	active  capability.CommandTab
	view    capability.View
	enabled map[command.ID]bool
	states  map[command.ID]command.State
}

func NewContext(bus *eventbus.Bus) *Context {
	return &Context{
		bus:     bus,
		enabled: make(map[command.ID]bool),
		states:  make(map[command.ID]command.State),
	}
}

func (c *Context) Bus() *eventbus.Bus { return c.bus }

func (c *Context) SetActiveCommandTab(tab capability.CommandTab) {
	c.active = tab
	c.bus.Publish(ActiveChanged{Active: tab})
}

func (c *Context) ActiveCommandTab() capability.CommandTab { return c.active }

// EnableCommands replaces the enabled set for every catalog command.
func (c *Context) EnableCommands(view capability.View, enabled map[command.ID]bool) {
	c.view = view
	c.enabled = make(map[command.ID]bool, len(enabled))
	for id, on := range enabled {
		c.enabled[id] = on
	}
}

func (c *Context) UpdateCommandStates(view capability.View, states []command.State) {
	c.view = view
	c.states = make(map[command.ID]command.State, len(states))
	for _, st := range states {
		c.states[st.ID] = st
	}
}

// View returns the view the last enablement applied to.
func (c *Context) View() capability.View { return c.view }

func (c *Context) IsEnabled(id command.ID) bool { return c.enabled[id] }

// EnabledCommands lists the enabled commands in catalog order.
func (c *Context) EnabledCommands() []command.ID {
	var out []command.ID
	for _, spec := range command.Catalog() {
		if c.enabled[spec.ID] {
			out = append(out, spec.ID)
		}
	}
	return out
}

func (c *Context) State(id command.ID) (command.State, bool) {
	st, ok := c.states[id]
	return st, ok
}

// States returns every known command state in catalog order.
func (c *Context) States() []command.State {
	out := make([]command.State, 0, len(c.states))
	for _, spec := range command.Catalog() {
		if st, ok := c.states[spec.ID]; ok {
			out = append(out, st)
		}
	}
	return out
}
