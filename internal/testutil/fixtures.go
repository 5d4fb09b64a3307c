package testutil

import (
	"context"
	"testing"

	"github.com/atomicstack/disasm-shell/internal/capability"
	"github.com/atomicstack/disasm-shell/internal/command"
	"github.com/atomicstack/disasm-shell/internal/document"
)

// SampleSnapshot returns the demo document and its first snapshot.
func SampleSnapshot(t testing.TB) (*document.Memory, *document.Snapshot) {
	t.Helper()
	doc := document.Sample()
	snap, err := doc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("sample snapshot: %v", err)
	}
	return doc, snap
}

// FakeCommandTab is a scriptable capability.CommandTab.
type FakeCommandTab struct {
	IDs         []command.ID
	Labels      map[command.ID]string
	Unavailable map[command.ID]bool
	Err         error
	calls       []command.Request
}

func (f *FakeCommandTab) Commands() []command.ID { return f.IDs }

func (f *FakeCommandTab) CommandState(id command.ID) command.State {
	return command.State{ID: id, Label: f.Labels[id], Available: !f.Unavailable[id]}
}

func (f *FakeCommandTab) Execute(req command.Request) (command.Result, error) {
	f.calls = append(f.calls, req)
	if f.Err != nil {
		return command.Result{}, f.Err
	}
	return command.Result{Info: string(req.ID)}, nil
}

func (f *FakeCommandTab) Executed() int { return len(f.calls) }

func (f *FakeCommandTab) Calls() []command.Request {
	return append([]command.Request(nil), f.calls...)
}

// CommandView is tab content exposing a FakeCommandTab.
type CommandView struct {
	Name string
	Tab  *FakeCommandTab
}

func NewCommandView(name string, ids ...command.ID) *CommandView {
	return &CommandView{Name: name, Tab: &FakeCommandTab{
		IDs:         ids,
		Labels:      map[command.ID]string{},
		Unavailable: map[command.ID]bool{},
	}}
}

func (v *CommandView) Title() string { return v.Name }

func (v *CommandView) CommandTab() (capability.CommandTab, bool) { return v.Tab, true }

// PlainView is tab content without the command-tab facet.
type PlainView struct {
	Name string
}

func (v *PlainView) Title() string { return v.Name }

func (v *PlainView) CommandTab() (capability.CommandTab, bool) { return nil, false }
