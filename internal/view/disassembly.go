package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atomicstack/disasm-shell/internal/capability"
	"github.com/atomicstack/disasm-shell/internal/command"
	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/eventbus"
	"github.com/atomicstack/disasm-shell/internal/format/table"
	"github.com/atomicstack/disasm-shell/internal/history"
	"github.com/atomicstack/disasm-shell/internal/logging/events"
	"github.com/atomicstack/disasm-shell/internal/state"
)

const defaultPage = 20

// Mode is what the tab is showing right now. Hex is a transient mode on top
// of the primary representation.
type Mode int

const (
	ModeListing Mode = iota
	ModeGraph
	ModeHex
)

func (m Mode) String() string {
	switch m {
	case ModeListing:
		return "listing"
	case ModeGraph:
		return "graph"
	case ModeHex:
		return "hex"
	default:
		return "unknown"
	}
}

func modeFor(rep history.Representation) Mode {
	if rep == history.Graph {
		return ModeGraph
	}
	return ModeListing
}

type Options struct {
	HistoryDepth int
	Bus          *eventbus.Bus
	Switcher     *Switcher
}

// Disassembly is the command-capable tab content. It owns its history and
// the three representations of the same cursor.
type Disassembly struct {
	title    string
	snap     *document.Snapshot
	hist     *history.History
	primary  history.Representation
	mode     Mode
	cursor   document.Address
	listing  *Listing
	graph    *Graph
	hex      *HexDump
	switcher *Switcher
	bus      *eventbus.Bus
	page     int
}

var (
	_ capability.View       = (*Disassembly)(nil)
	_ capability.CommandTab = (*Disassembly)(nil)
)

// NewDisassembly opens a view positioned at the entry point.
func NewDisassembly(title string, snap *document.Snapshot, opts Options) *Disassembly {
	sw := opts.Switcher
	if sw == nil {
		sw = NewSwitcher(opts.Bus)
	}
	d := &Disassembly{
		title:    title,
		hist:     history.New(opts.HistoryDepth),
		switcher: sw,
		bus:      opts.Bus,
		page:     defaultPage,
	}
	d.load(snap)
	if start, ok := EntryPoint(snap); ok {
		_ = d.NavigateTo(start, history.Listing)
	}
	return d
}

// EntryPoint picks the initial address: an exported "_start", else the
// first function, else the first item.
func EntryPoint(snap *document.Snapshot) (document.Address, bool) {
	if sym, ok := snap.SymbolByName("_start"); ok {
		return sym.Address, true
	}
	if fns := snap.SymbolsOfKind(document.SymbolFunction); len(fns) > 0 {
		return fns[0].Address, true
	}
	if items := snap.Items(); len(items) > 0 {
		return items[0].Address, true
	}
	return 0, false
}

func (d *Disassembly) load(snap *document.Snapshot) {
	d.snap = snap
	d.listing = newListing(snap)
	d.graph = newGraph(snap)
	d.hex = newHexDump(snap)
}

func (d *Disassembly) Title() string { return d.title }

func (d *Disassembly) CommandTab() (capability.CommandTab, bool) { return d, true }

func (d *Disassembly) Snapshot() *document.Snapshot { return d.snap }

func (d *Disassembly) History() *history.History { return d.hist }

func (d *Disassembly) Mode() Mode { return d.mode }

func (d *Disassembly) Primary() history.Representation { return d.primary }

// CursorAddress is the logical cursor shared by all representations.
func (d *Disassembly) CursorAddress() document.Address { return d.cursor }

// Location describes the cursor as "name+off (address)".
func (d *Disassembly) Location() string {
	return fmt.Sprintf("%s (%s)", describe(d.snap, d.cursor), d.cursor)
}

// HexSelection returns the selected hex range while in hex mode.
func (d *Disassembly) HexSelection() (document.Range, bool) {
	if d.mode != ModeHex {
		return document.Range{}, false
	}
	return d.hex.Selection()
}

func (d *Disassembly) locate(a document.Address, rep history.Representation) bool {
	if rep == history.Graph {
		_, ok := d.graph.Locate(a)
		return ok
	}
	_, ok := d.listing.Locate(a)
	return ok
}

// NavigateTo moves to a in rep and records the move in history. An address
// with no mapping in rep returns ErrNotFound and leaves history untouched.
func (d *Disassembly) NavigateTo(a document.Address, rep history.Representation) error {
	if !d.locate(a, rep) {
		return fmt.Errorf("%w: %s in %s", ErrNotFound, a, rep)
	}
	entry := history.Entry{Address: a, Representation: rep}
	d.hist.NavigateTo(entry)
	d.apply(entry)
	d.bus.Publish(Navigated{Title: d.title, Entry: entry})
	return nil
}

// NavigatePrimary navigates in the primary representation and falls back to
// the listing when the graph cannot show a.
func (d *Disassembly) NavigatePrimary(a document.Address) error {
	if d.primary == history.Graph && d.locate(a, history.Graph) {
		return d.NavigateTo(a, history.Graph)
	}
	return d.NavigateTo(a, history.Listing)
}

func (d *Disassembly) apply(e history.Entry) {
	rep := e.Representation
	if rep == history.Graph && !d.graph.MoveTo(e.Address) {
		rep = history.Listing
	}
	if rep == history.Listing {
		d.listing.MoveTo(e.Address)
	}
	d.cursor = e.Address
	d.primary = rep
	d.mode = modeFor(rep)
	d.viewport().Center(d.page)
}

func (d *Disassembly) GoBack() bool {
	if !d.hist.GoBack() {
		return false
	}
	cur, _ := d.hist.Current()
	d.apply(cur)
	return true
}

func (d *Disassembly) GoForward() bool {
	if !d.hist.GoForward() {
		return false
	}
	cur, _ := d.hist.Current()
	d.apply(cur)
	return true
}

// Resolve turns user input into an address: 0x-prefixed hex, decimal, an
// exact symbol name or the closest fuzzy symbol match.
func (d *Disassembly) Resolve(arg string) (document.Address, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 0, fmt.Errorf("%w: empty target", ErrNotFound)
	}
	lower := strings.ToLower(arg)
	if strings.HasPrefix(lower, "0x") {
		v, err := strconv.ParseUint(lower[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad address %q", ErrNotFound, arg)
		}
		return d.mapped(document.Address(v))
	}
	if v, err := strconv.ParseUint(arg, 10, 64); err == nil {
		return d.mapped(document.Address(v))
	}
	if sym, ok := d.snap.SymbolByName(arg); ok {
		return sym.Address, nil
	}
	if sym, ok := state.BestMatch(d.snap.Symbols(), arg); ok {
		return sym.Address, nil
	}
	return 0, fmt.Errorf("%w: no symbol matches %q", ErrNotFound, arg)
}

func (d *Disassembly) mapped(a document.Address) (document.Address, error) {
	if !d.snap.Mapped(a) {
		return 0, fmt.Errorf("%w: %s is not mapped", ErrNotFound, a)
	}
	return a, nil
}

// Goto resolves arg and navigates there.
func (d *Disassembly) Goto(arg string) error {
	a, err := d.Resolve(arg)
	if err != nil {
		return err
	}
	return d.NavigatePrimary(a)
}

func (d *Disassembly) cursorItem() (document.Item, bool) {
	return d.snap.ItemAt(d.cursor)
}

// FollowXRef navigates to the first target referenced by the cursor item.
func (d *Disassembly) FollowXRef() error {
	it, ok := d.cursorItem()
	if !ok {
		return fmt.Errorf("%w: no item at %s", ErrNotFound, d.cursor)
	}
	refs := d.snap.XRefsFrom(it.Address)
	if len(refs) == 0 {
		return fmt.Errorf("%w: no references from %s", ErrNotFound, it.Address)
	}
	if refs[0].Kind == document.XRefData {
		return d.NavigateTo(refs[0].To, history.Listing)
	}
	return d.NavigatePrimary(refs[0].To)
}

// References lists the cross references pointing at the cursor item.
func (d *Disassembly) References() []document.XRef {
	target := d.cursor
	if it, ok := d.cursorItem(); ok {
		target = it.Address
	}
	return d.snap.XRefsTo(target)
}

func (d *Disassembly) referenceLines() []string {
	refs := d.References()
	if len(refs) == 0 {
		return nil
	}
	rows := make([][]string, len(refs))
	for i, x := range refs {
		text := ""
		if it, ok := d.snap.ItemAt(x.From); ok {
			text = it.Text
		}
		rows[i] = []string{x.From.String(), x.Kind.String(), describe(d.snap, x.From), text}
	}
	return table.WithHeader([]string{"from", "kind", "where", "item"}, rows, nil)
}

// JumpToHexDump selects length bytes at a in the hex representation.
func (d *Disassembly) JumpToHexDump(a document.Address, length uint64) error {
	return d.switcher.JumpToHexDump(d, a, length)
}

// ToggleRepresentation switches between listing and graph, or leaves hex.
func (d *Disassembly) ToggleRepresentation() error {
	return d.switcher.ToggleRepresentation(d)
}

func (d *Disassembly) viewport() *state.Viewport {
	switch d.mode {
	case ModeGraph:
		return d.graph.Viewport()
	case ModeHex:
		return d.hex.Viewport()
	default:
		return d.listing.Viewport()
	}
}

// syncCursor copies the renderer cursor back into the logical cursor and the
// current history entry. Hex cursor moves do not change the logical cursor.
func (d *Disassembly) syncCursor() {
	var a document.Address
	var ok bool
	switch d.mode {
	case ModeGraph:
		a, ok = d.graph.CursorAddress()
	case ModeListing:
		a, ok = d.listing.CursorAddress()
	}
	if !ok {
		return
	}
	d.cursor = a
	d.hist.UpdateCurrent(history.Entry{Address: a, Representation: d.primary})
}

func (d *Disassembly) MoveCursor(delta int) bool {
	moved := d.viewport().MoveBy(delta)
	d.syncCursor()
	return moved
}

func (d *Disassembly) PageUp() bool {
	moved := d.viewport().PageUp(d.page)
	d.syncCursor()
	return moved
}

func (d *Disassembly) PageDown() bool {
	moved := d.viewport().PageDown(d.page)
	d.syncCursor()
	return moved
}

func (d *Disassembly) Home() bool {
	moved := d.viewport().MoveHome()
	d.syncCursor()
	return moved
}

func (d *Disassembly) End() bool {
	moved := d.viewport().MoveEnd()
	d.syncCursor()
	return moved
}

// Render returns the visible lines of the current mode.
func (d *Disassembly) Render(height int) []Line {
	if height > 0 {
		d.page = height
	}
	switch d.mode {
	case ModeGraph:
		return d.graph.Render(height)
	case ModeHex:
		return d.hex.Render(height)
	default:
		return d.listing.Render(height)
	}
}

// SetSnapshot swaps in a newer document snapshot and keeps the cursor where
// it can. When the cursor address vanished the view falls back to the entry
// point without recording history.
func (d *Disassembly) SetSnapshot(snap *document.Snapshot) {
	if snap == nil || snap == d.snap {
		return
	}
	sel, inHex := d.HexSelection()
	d.load(snap)
	events.View.Snapshot(d.title, snap.Version())

	entry := history.Entry{Address: d.cursor, Representation: d.primary}
	if !d.locate(entry.Address, history.Listing) {
		if start, ok := EntryPoint(snap); ok {
			entry.Address = start
		}
		d.hist.UpdateCurrent(entry)
	}
	d.apply(entry)
	if inHex && d.hex.Select(sel) == nil {
		d.mode = ModeHex
	}
}

// Commands lists every routed command the view understands.
func (d *Disassembly) Commands() []command.ID {
	return []command.ID{
		command.GoBack,
		command.GoForward,
		command.Goto,
		command.ToggleView,
		command.HexDump,
		command.FollowXRef,
		command.References,
		command.FindSymbol,
	}
}

func (d *Disassembly) CommandState(id command.ID) command.State {
	st := command.State{ID: id, Enabled: true, Available: true}
	switch id {
	case command.GoBack:
		st.Available = d.hist.CanGoBack()
	case command.GoForward:
		st.Available = d.hist.CanGoForward()
	case command.ToggleView:
		switch {
		case d.mode == ModeHex:
			st.Label = "Back to " + d.primary.String()
		case d.primary == history.Listing:
			st.Label = "Graph view"
			st.Available = d.graph.CanShow(d.cursor)
		default:
			st.Label = "Listing view"
		}
	case command.FollowXRef:
		it, ok := d.cursorItem()
		st.Available = ok && len(d.snap.XRefsFrom(it.Address)) > 0
	case command.References:
		st.Available = len(d.References()) > 0
	}
	return st
}

// Execute runs a routed command.
func (d *Disassembly) Execute(req command.Request) (command.Result, error) {
	switch req.ID {
	case command.GoBack:
		if !d.GoBack() {
			return command.Result{}, nil
		}
		return command.Result{Info: "back to " + d.Location()}, nil
	case command.GoForward:
		if !d.GoForward() {
			return command.Result{}, nil
		}
		return command.Result{Info: "forward to " + d.Location()}, nil
	case command.Goto, command.FindSymbol:
		if err := d.Goto(req.Arg); err != nil {
			return command.Result{}, err
		}
		return command.Result{Info: "at " + d.Location()}, nil
	case command.ToggleView:
		if err := d.ToggleRepresentation(); err != nil {
			return command.Result{}, err
		}
		return command.Result{Info: d.mode.String() + " view"}, nil
	case command.HexDump:
		a, length := d.cursor, uint64(hexRowBytes)
		if it, ok := d.cursorItem(); ok && it.Size > 0 {
			a, length = it.Address, uint64(it.Size)
		}
		if req.Arg != "" {
			n, err := strconv.ParseUint(strings.TrimSpace(req.Arg), 0, 64)
			if err != nil {
				return command.Result{}, fmt.Errorf("hex dump length %q: %w", req.Arg, err)
			}
			length = n
		}
		if err := d.JumpToHexDump(a, length); err != nil {
			return command.Result{}, err
		}
		sel, _ := d.hex.Selection()
		return command.Result{Info: "hex " + sel.String()}, nil
	case command.FollowXRef:
		if err := d.FollowXRef(); err != nil {
			return command.Result{}, err
		}
		return command.Result{Info: "at " + d.Location()}, nil
	case command.References:
		lines := d.referenceLines()
		if len(lines) == 0 {
			return command.Result{Info: "no references to " + d.Location()}, nil
		}
		return command.Result{Info: fmt.Sprintf("%d references to %s", len(lines)-2, describe(d.snap, d.cursor)), Lines: lines}, nil
	default:
		return command.Result{}, fmt.Errorf("%w: %s", command.ErrDisabled, req.ID)
	}
}
