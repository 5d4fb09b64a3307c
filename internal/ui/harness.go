package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultSettle = 20 * time.Millisecond

// Harness drives the UI model programmatically for integration tests.
// Commands run on their own goroutines, as under a real program, and their
// messages are fed back through Update on the caller's goroutine. Commands
// that block, like the backend and minimap waits, simply stay parked until
// their source produces something or is stopped.
type Harness struct {
	model  *Model
	msgs   chan tea.Msg
	settle time.Duration
	quit   bool
}

// NewHarness creates a harness for the provided model and runs its Init
// command.
func NewHarness(model *Model) *Harness {
	h := &Harness{model: model, msgs: make(chan tea.Msg, 64), settle: defaultSettle}
	if model != nil {
		h.launch(model.Init())
	}
	return h
}

// Send routes a message through the model and processes follow-up messages
// until the model goes quiet.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	h.update(msg)
	h.drain(h.settle)
}

// WaitFor processes messages until cond holds or timeout passes.
func (h *Harness) WaitFor(cond func(*Model) bool, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for !cond(h.model) {
		select {
		case msg := <-h.msgs:
			h.update(msg)
		case <-deadline:
			return cond(h.model)
		}
	}
	return true
}

// Quit reports whether the model asked the program to exit.
func (h *Harness) Quit() bool { return h.quit }

// Close stops background workers and releases parked commands.
func (h *Harness) Close() {
	if h.model != nil {
		h.model.Shutdown()
	}
}

func (h *Harness) update(msg tea.Msg) {
	switch msg := msg.(type) {
	case nil:
		return
	case tea.QuitMsg:
		h.quit = true
		return
	case tea.BatchMsg:
		for _, cmd := range msg {
			h.launch(cmd)
		}
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.launch(cmd)
}

func (h *Harness) launch(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		h.msgs <- cmd()
	}()
}

func (h *Harness) drain(idle time.Duration) {
	for {
		select {
		case msg := <-h.msgs:
			h.update(msg)
		case <-time.After(idle):
			return
		}
	}
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
