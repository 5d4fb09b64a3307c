package capability

import (
	"testing"

	"github.com/atomicstack/disasm-shell/internal/command"
)

type plainView struct{}

func (plainView) CommandTab() (CommandTab, bool) { return nil, false }

type lyingView struct{}

func (lyingView) CommandTab() (CommandTab, bool) { return nil, true }

type routedView struct{}

func (v routedView) CommandTab() (CommandTab, bool) { return v, true }
func (routedView) Commands() []command.ID           { return []command.ID{command.GoBack} }
func (routedView) CommandState(id command.ID) command.State {
	return command.State{ID: id, Enabled: true}
}
func (routedView) Execute(req command.Request) (command.Result, error) {
	return command.Result{}, nil
}

func TestQuery(t *testing.T) {
	if Has(nil) {
		t.Fatalf("nil view must not have the facet")
	}
	if Has(plainView{}) {
		t.Fatalf("plain view must not have the facet")
	}
	if Has(lyingView{}) {
		t.Fatalf("a nil facet must be treated as absent")
	}
	tab, ok := Query(routedView{})
	if !ok {
		t.Fatalf("routed view should expose the facet")
	}
	if !Supports(tab, command.GoBack) || Supports(tab, command.HexDump) {
		t.Fatalf("Supports mismatch")
	}
}
