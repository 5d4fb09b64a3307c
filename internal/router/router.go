// Package router recomputes command enablement whenever the active command
// tab changes.
package router

import (
	"github.com/atomicstack/disasm-shell/internal/capability"
	"github.com/atomicstack/disasm-shell/internal/command"
	"github.com/atomicstack/disasm-shell/internal/eventbus"
	"github.com/atomicstack/disasm-shell/internal/logging/events"
	"github.com/atomicstack/disasm-shell/internal/shell"
)

const TopicRefreshed eventbus.Topic = "router.refreshed"

// Refreshed is published after every enablement refresh.
type Refreshed struct {
	Enabled []command.ID
}

func (Refreshed) Topic() eventbus.Topic { return TopicRefreshed }

type Router struct {
	shell shell.Notifier
	bus   *eventbus.Bus
}

func New(n shell.Notifier, bus *eventbus.Bus) *Router {
	return &Router{shell: n, bus: bus}
}

// Compute derives enablement and states for every catalog command from the
// active command tab alone. A nil tab disables everything.
func Compute(active capability.CommandTab) (map[command.ID]bool, []command.State) {
	catalog := command.Catalog()
	enabled := make(map[command.ID]bool, len(catalog))
	states := make([]command.State, 0, len(catalog))
	for _, spec := range catalog {
		on := capability.Supports(active, spec.ID)
		enabled[spec.ID] = on
		st := command.State{ID: spec.ID, Label: spec.Label}
		if on {
			st = active.CommandState(spec.ID)
			st.ID = spec.ID
			st.Enabled = true
			if st.Label == "" {
				st.Label = spec.Label
			}
		}
		states = append(states, st)
	}
	return enabled, states
}

// Refresh pushes enablement and states for active to the shell. It must run
// after the shell's active command tab has been updated.
func (r *Router) Refresh(active capability.CommandTab, view capability.View) []command.State {
	enabled, states := Compute(active)
	r.shell.EnableCommands(view, enabled)
	r.shell.UpdateCommandStates(view, states)

	var ids []command.ID
	var names []string
	for _, st := range states {
		if st.Enabled {
			ids = append(ids, st.ID)
			names = append(names, string(st.ID))
		}
	}
	events.Router.Refresh(names)
	r.bus.Publish(Refreshed{Enabled: ids})
	return states
}

// UpdateStates refreshes per-command states (availability, labels) without
// touching enablement, e.g. after a command changed the tab's history.
func (r *Router) UpdateStates(active capability.CommandTab, view capability.View) []command.State {
	_, states := Compute(active)
	r.shell.UpdateCommandStates(view, states)
	return states
}
