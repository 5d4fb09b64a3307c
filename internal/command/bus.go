package command

import (
	"fmt"

	"github.com/atomicstack/disasm-shell/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Target receives routed commands.
type Target interface {
	Execute(req Request) (Result, error)
}

// Bus coordinates command execution. The target runs on the caller's
// goroutine; the returned command only carries the result back into the
// update loop.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute runs req against target and wraps the outcome as a Bubble Tea
// command while emitting trace logs.
func (b *Bus) Execute(target Target, enabled bool, req Request) tea.Cmd {
	res := b.Run(target, enabled, req)
	return func() tea.Msg { return res }
}

// Run is the synchronous form of Execute.
func (b *Bus) Run(target Target, enabled bool, req Request) Result {
	if req.Label == "" {
		if spec, ok := Lookup(req.ID); ok {
			req.Label = spec.Label
		}
	}
	events.Command.Queue(string(req.ID), req.Label)
	if target == nil {
		events.Command.Skip(string(req.ID), "no active command tab")
		return Result{ID: req.ID, Label: req.Label, Err: fmt.Errorf("%s: %w", req.Label, ErrDisabled)}
	}
	if !enabled {
		events.Command.Skip(string(req.ID), "disabled")
		return Result{ID: req.ID, Label: req.Label, Err: fmt.Errorf("%s: %w", req.Label, ErrDisabled)}
	}
	res, err := target.Execute(req)
	res.ID, res.Label = req.ID, req.Label
	if err != nil {
		events.Command.Error(string(req.ID), err)
		res.Err = err
		return res
	}
	if res.Info == "" && len(res.Lines) == 0 {
		events.Command.NoOp(string(req.ID), req.Label)
		return res
	}
	events.Command.Result(string(req.ID), req.Label, res.Info)
	return res
}
