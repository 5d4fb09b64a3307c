package view

import (
	"fmt"

	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/eventbus"
	"github.com/atomicstack/disasm-shell/internal/history"
	"github.com/atomicstack/disasm-shell/internal/logging/events"
)

// Switcher changes the representation of a disassembly tab while keeping
// its logical cursor.
type Switcher struct {
	bus *eventbus.Bus
}

func NewSwitcher(bus *eventbus.Bus) *Switcher {
	return &Switcher{bus: bus}
}

// ToggleRepresentation swaps listing and graph, re-centred on the cursor
// address. It is not a navigation: history keeps its stacks and only the
// current entry's representation is rewritten. From hex mode it returns to
// the primary representation.
func (s *Switcher) ToggleRepresentation(d *Disassembly) error {
	from := d.mode
	if d.mode == ModeHex {
		d.apply(history.Entry{Address: d.cursor, Representation: d.primary})
		s.changed(d, from)
		return nil
	}

	target := d.primary.Other()
	if !d.locate(d.cursor, target) {
		return fmt.Errorf("%w: %s has no %s", ErrNotFound, d.cursor, target)
	}
	entry := history.Entry{Address: d.cursor, Representation: target}
	d.apply(entry)
	d.hist.UpdateCurrent(entry)
	s.changed(d, from)
	return nil
}

// JumpToHexDump focuses the hex representation with [a, a+length)
// selected. History records the jump only when it moves the primary cursor.
func (s *Switcher) JumpToHexDump(d *Disassembly, a document.Address, length uint64) error {
	if length == 0 {
		length = 1
	}
	r := document.Range{Start: a, End: a + document.Address(length)}
	if r.End < r.Start {
		return fmt.Errorf("%w: range overflows at %s", ErrNotFound, a)
	}
	if err := d.hex.Select(r); err != nil {
		return err
	}

	from := d.mode
	if a != d.cursor {
		switch {
		case d.locate(a, d.primary):
			entry := history.Entry{Address: a, Representation: d.primary}
			d.hist.NavigateTo(entry)
			d.apply(entry)
		case d.locate(a, history.Listing):
			entry := history.Entry{Address: a, Representation: history.Listing}
			d.hist.NavigateTo(entry)
			d.apply(entry)
		}
	}
	d.mode = ModeHex
	events.View.HexDump(d.title, r.String())
	s.changed(d, from)
	return nil
}

func (s *Switcher) changed(d *Disassembly, from Mode) {
	if from == d.mode {
		return
	}
	events.View.Representation(d.title, from.String(), d.mode.String())
	s.bus.Publish(RepresentationChanged{Title: d.title, From: from, To: d.mode})
}
