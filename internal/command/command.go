// Package command defines the workbench command catalog and the bus that
// delivers routed commands to the active command tab.
package command

import "errors"

// ID names a routable command.
type ID string

const (
	GoBack     ID = "go-back"
	GoForward  ID = "go-forward"
	Goto       ID = "goto"
	ToggleView ID = "toggle-view"
	HexDump    ID = "hex-dump"
	FollowXRef ID = "follow-xref"
	References ID = "references"
	FindSymbol ID = "find-symbol"
)

// ErrDisabled is returned when a command is invoked while it is not enabled
// for the active command tab.
var ErrDisabled = errors.New("command disabled")

// Spec describes a catalog entry.
type Spec struct {
	ID    ID
	Label string
	Key   string
}

var catalog = []Spec{
	{ID: GoBack, Label: "Back", Key: "b"},
	{ID: GoForward, Label: "Forward", Key: "f"},
	{ID: Goto, Label: "Go to", Key: "g"},
	{ID: ToggleView, Label: "Toggle view", Key: " "},
	{ID: HexDump, Label: "Hex dump", Key: "h"},
	{ID: FollowXRef, Label: "Follow xref", Key: "enter"},
	{ID: References, Label: "References", Key: "r"},
	{ID: FindSymbol, Label: "Find symbol", Key: "/"},
}

// Catalog returns every routable command in display order.
func Catalog() []Spec {
	out := make([]Spec, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(id ID) (Spec, bool) {
	for _, spec := range catalog {
		if spec.ID == id {
			return spec, true
		}
	}
	return Spec{}, false
}

// ForKey maps a key press to its command.
func ForKey(key string) (Spec, bool) {
	if key == "space" {
		key = " "
	}
	for _, spec := range catalog {
		if spec.Key == key {
			return spec, true
		}
	}
	return Spec{}, false
}

// State is the per-command state pushed to the shell. Enabled follows the
// active command tab's declared commands; Available reflects whether the
// command can run right now; Label may be refined by the tab.
type State struct {
	ID        ID
	Label     string
	Enabled   bool
	Available bool
}

// Request is a command invocation.
type Request struct {
	ID    ID
	Label string
	Arg   string
}

// Result carries what a command produced back to the UI.
type Result struct {
	ID    ID
	Label string
	Info  string
	Lines []string
	Err   error
}
