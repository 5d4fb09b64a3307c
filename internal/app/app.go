package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/disasm-shell/internal/backend"
	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/eventbus"
	"github.com/atomicstack/disasm-shell/internal/logging"
	"github.com/atomicstack/disasm-shell/internal/logging/events"
	"github.com/atomicstack/disasm-shell/internal/minimap"
	"github.com/atomicstack/disasm-shell/internal/shell"
	"github.com/atomicstack/disasm-shell/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultExportWidth  = 64
	defaultExportHeight = 256
	demoStep            = 2 * time.Second
)

// Config describes user-provided application options.
type Config struct {
	DBPath        string
	Demo          bool
	SeedPath      string
	HistoryDepth  int
	ShowMinimap   bool
	MinimapWidth  int
	RowsPerCheck  int
	PollInterval  time.Duration
	ExportMinimap string
	Annotate      bool
	Width         int
	Height        int
	ShowFooter    bool
}

// Run bootstraps and executes the Bubble Tea program, or performs one of
// the one-shot modes (seed, export) and returns.
func Run(cfg Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SeedPath != "" {
		return Seed(ctx, cfg.SeedPath)
	}

	src, err := openDocument(cfg)
	if err != nil {
		return err
	}
	defer src.close()

	snap, err := src.doc.Snapshot(ctx)
	if err != nil {
		if cfg.ExportMinimap != "" {
			return fmt.Errorf("load %s: %w", src.name, err)
		}
		// the watcher delivers the first good snapshot later
		logging.Error(fmt.Errorf("initial snapshot of %s: %w", src.name, err))
		snap = nil
	}
	var version uint64
	if snap != nil {
		version = snap.Version()
	}
	events.App.Document(src.name, version)

	if cfg.ExportMinimap != "" {
		return ExportMinimap(snap, cfg.ExportMinimap, cfg.Width, cfg.Height, cfg.Annotate)
	}

	if src.memory != nil {
		go simulateAnalysis(ctx, src.memory, demoStep)
	}

	opts := []backend.Option{backend.WithInitialVersion(version)}
	if src.path != "" {
		opts = append(opts, backend.WithFile(src.path))
	}
	watcher := backend.NewWatcher(src.doc, cfg.PollInterval, opts...)
	defer watcher.Stop()

	model := ui.NewModel(ui.Options{
		Shell:        shell.NewContext(eventbus.New()),
		Document:     src.doc,
		Snapshot:     snap,
		Watcher:      watcher,
		Width:        cfg.Width,
		Height:       cfg.Height,
		ShowFooter:   cfg.ShowFooter,
		ShowMinimap:  cfg.ShowMinimap,
		MinimapWidth: cfg.MinimapWidth,
		HistoryDepth: cfg.HistoryDepth,
		RowsPerCheck: cfg.RowsPerCheck,
	})
	defer model.Shutdown()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

type source struct {
	name   string
	path   string
	doc    document.Document
	memory *document.Memory
	close  func()
}

func openDocument(cfg Config) (source, error) {
	if cfg.Demo {
		mem := document.Sample()
		return source{name: "demo", doc: mem, memory: mem, close: func() {}}, nil
	}
	db, err := document.OpenSQLite(cfg.DBPath)
	if err != nil {
		return source{}, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	return source{
		name: cfg.DBPath,
		path: db.Path(),
		doc:  db,
		close: func() {
			if err := db.Close(); err != nil {
				logging.Error(err)
			}
		},
	}, nil
}

// Seed writes the demo document to a database at path.
func Seed(ctx context.Context, path string) error {
	if err := document.WriteSQLite(ctx, path, 1, document.SampleContents()); err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	events.App.Document(path, 1)
	return nil
}

// ExportMinimap rasterizes snap at width x height pixels and writes it as a
// PNG. Zero dimensions use the export defaults.
func ExportMinimap(snap *document.Snapshot, path string, width, height int, annotate bool) error {
	if snap == nil {
		return errors.New("export: no snapshot")
	}
	if width <= 0 {
		width = defaultExportWidth
	}
	if height <= 0 {
		height = defaultExportHeight
	}
	job := minimap.NewJob(1, snap.Version(), width, height)
	bmp, err := minimap.Rasterize(job, snap, height, minimap.DefaultPalette())
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := minimap.ExportPNG(path, bmp, annotate); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	events.App.Export(path, width, height)
	return nil
}

type analysisStep struct {
	symbol *document.Symbol
	xref   *document.XRef
}

// demoAnalysis is what the simulated analyser discovers, in order.
var demoAnalysis = []analysisStep{
	{symbol: &document.Symbol{Name: "loc_40104c", Address: 0x40104c, Kind: document.SymbolLabel}},
	{symbol: &document.Symbol{Name: "loc_40105e", Address: 0x40105e, Kind: document.SymbolLabel}},
	{xref: &document.XRef{From: 0x40104a, To: 0x40104c, Kind: document.XRefJump}},
	{symbol: &document.Symbol{Name: "main_exit", Address: 0x401068, Kind: document.SymbolLabel}},
	{symbol: &document.Symbol{Name: "halt", Address: 0x401011, Kind: document.SymbolLabel}},
}

// simulateAnalysis applies demoAnalysis one step per tick, bumping the
// document version each time, until the steps run out or ctx ends.
func simulateAnalysis(ctx context.Context, doc *document.Memory, step time.Duration) {
	ticker := time.NewTicker(step)
	defer ticker.Stop()
	for _, s := range demoAnalysis {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		switch {
		case s.symbol != nil:
			doc.AddSymbol(*s.symbol)
		case s.xref != nil:
			doc.AddXRef(*s.xref)
		}
	}
}
