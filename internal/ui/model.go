package ui

import (
	"fmt"
	"reflect"

	"github.com/atomicstack/disasm-shell/internal/backend"
	"github.com/atomicstack/disasm-shell/internal/command"
	"github.com/atomicstack/disasm-shell/internal/data/dispatcher"
	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/eventbus"
	"github.com/atomicstack/disasm-shell/internal/minimap"
	"github.com/atomicstack/disasm-shell/internal/router"
	"github.com/atomicstack/disasm-shell/internal/shell"
	"github.com/atomicstack/disasm-shell/internal/state"
	"github.com/atomicstack/disasm-shell/internal/tabs"
	"github.com/atomicstack/disasm-shell/internal/theme"
	"github.com/atomicstack/disasm-shell/internal/view"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeGoto
	ModeSearch
	ModeReferences
)

func (m Mode) String() string {
	switch m {
	case ModeGoto:
		return "goto"
	case ModeSearch:
		return "search"
	case ModeReferences:
		return "references"
	default:
		return "normal"
	}
}

const (
	defaultWidth        = 100
	defaultHeight       = 30
	defaultMinimapCells = 12
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Document     document.Document
	Snapshot     *document.Snapshot
	Watcher      *backend.Watcher
	Width        int
	Height       int
	ShowFooter   bool
	ShowMinimap  bool
	MinimapWidth int
	HistoryDepth int
	RowsPerCheck int
	Rasterizer   minimap.RasterFunc
	// Shell is the shared command context. NewModel creates one when nil.
	Shell *shell.Context
}

// Model implements the Bubble Tea model for the workbench.
type Model struct {
	width        int
	height       int
	fixedWidth   bool
	fixedHeight  bool
	showFooter   bool
	showMinimap  bool
	minimapCells int
	historyDepth int
	rowsPerCheck int
	rasterizer   minimap.RasterFunc

	mode    Mode
	input   textinput.Model
	search  *state.SymbolFilter
	refs    []string
	refsTop int
	errMsg  string
	infoMsg string

	bus      *eventbus.Bus
	shell    *shell.Context
	router   *router.Router
	tabs     *tabs.Manager
	commands *command.Bus
	switcher *view.Switcher

	doc        document.Document
	snapshots  state.SnapshotStore
	dispatcher *dispatcher.Dispatcher
	backend    *backend.Watcher
	backendErr string

	renderers map[tabs.ID]*minimap.Renderer
	surfaces  map[tabs.ID]*mapSurface
	tabHits   []tabHit
	opened    int

	handlers map[reflect.Type]msgHandler
}

// NewModel opens one disassembly tab on the initial snapshot and activates
// it.
func NewModel(opts Options) *Model {
	sc := opts.Shell
	if sc == nil {
		sc = shell.NewContext(eventbus.New())
	}
	bus := sc.Bus()
	rt := router.New(sc, bus)
	snaps := state.NewSnapshotStore(opts.Snapshot)

	input := textinput.New()
	input.Prompt = "» "
	if styles.FilterPrompt != nil {
		input.PromptStyle = *styles.FilterPrompt
	}
	if styles.Filter != nil {
		input.TextStyle = *styles.Filter
	}
	if styles.FilterPlaceholder != nil {
		input.PlaceholderStyle = *styles.FilterPlaceholder
	}

	m := &Model{
		showFooter:   opts.ShowFooter,
		showMinimap:  opts.ShowMinimap,
		minimapCells: opts.MinimapWidth,
		historyDepth: opts.HistoryDepth,
		rowsPerCheck: opts.RowsPerCheck,
		rasterizer:   opts.Rasterizer,
		input:        input,
		bus:          bus,
		shell:        sc,
		router:       rt,
		tabs:         tabs.NewManager(sc, rt, bus),
		commands:     command.New(),
		switcher:     view.NewSwitcher(bus),
		doc:          opts.Document,
		snapshots:    snaps,
		dispatcher:   dispatcher.New(snaps),
		backend:      opts.Watcher,
		renderers:    make(map[tabs.ID]*minimap.Renderer),
		surfaces:     make(map[tabs.ID]*mapSurface),
	}
	if m.minimapCells <= 0 {
		m.minimapCells = defaultMinimapCells
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.registerHandlers()
	if opts.Snapshot != nil {
		if id, _ := m.openDisassembly(); id != "" {
			m.activate(id)
		}
	}
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	for id, r := range m.renderers {
		cmds = append(cmds, waitForCompletion(id, r))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := m.handleActiveInput(msg); handled {
		return m, cmd
	}
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(command.Result{}):    m.handleCommandResultMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(completionMsg{}):     m.handleCompletionMsg,
		reflect.TypeOf(rendererDoneMsg{}):   m.handleRendererDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// Shutdown stops every minimap worker and joins them. It runs after the
// program loop has ended. The backend watcher belongs to the caller.
func (m *Model) Shutdown() {
	stopped := make([]*minimap.Renderer, 0, len(m.renderers))
	for id, r := range m.renderers {
		r.Stop()
		stopped = append(stopped, r)
		delete(m.renderers, id)
	}
	for _, r := range stopped {
		r.Wait()
	}
}

func (m *Model) setInfo(msg string) {
	m.infoMsg = msg
	m.errMsg = ""
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.errMsg = err.Error()
	m.infoMsg = ""
}

func (m *Model) clearStatus() {
	m.errMsg = ""
	m.infoMsg = ""
}

// currentContent returns the selected tab's content.
func (m *Model) currentContent() (tabs.Content, tabs.ID, bool) {
	tab, ok := m.tabs.Current()
	if !ok {
		return nil, "", false
	}
	return tab.Content, tab.ID, true
}

func (m *Model) currentDisassembly() (*view.Disassembly, tabs.ID, bool) {
	content, id, ok := m.currentContent()
	if !ok {
		return nil, "", false
	}
	d, ok := content.(*view.Disassembly)
	return d, id, ok
}

func (m *Model) nextTitle(kind string) string {
	m.opened++
	if m.opened == 1 {
		return kind
	}
	return fmt.Sprintf("%s %d", kind, m.opened)
}

func (m *Model) dims() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}
