// Package capability declares the optional command-tab facet that tab
// contents may expose. Contents are queried for the facet; the shell never
// assumes a concrete type.
package capability

import "github.com/atomicstack/disasm-shell/internal/command"

// CommandTab is implemented by contents that can receive routed commands.
type CommandTab interface {
	command.Target
	// Commands lists the command IDs this tab supports.
	Commands() []command.ID
	// CommandState reports the current state of a supported command.
	CommandState(id command.ID) command.State
}

// View is implemented by every tab content.
type View interface {
	CommandTab() (CommandTab, bool)
}

// Query returns the command-tab facet of v, if any.
func Query(v View) (CommandTab, bool) {
	if v == nil {
		return nil, false
	}
	tab, ok := v.CommandTab()
	if !ok || tab == nil {
		return nil, false
	}
	return tab, true
}

// Has reports whether v exposes the command-tab facet.
func Has(v View) bool {
	_, ok := Query(v)
	return ok
}

// Supports reports whether tab lists id among its commands.
func Supports(tab CommandTab, id command.ID) bool {
	if tab == nil {
		return false
	}
	for _, cid := range tab.Commands() {
		if cid == id {
			return true
		}
	}
	return false
}
