package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/disasm-shell/internal/app"
	"github.com/atomicstack/disasm-shell/internal/config"
	"github.com/atomicstack/disasm-shell/internal/logging"
	"github.com/atomicstack/disasm-shell/internal/logging/events"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 2
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)
	defer func() { _ = logging.Sync() }()

	payload := startupTracePayload(runtimeCfg)
	events.App.Start(payload)
	if tty := payload["tty"].(ttyDetails); modeOf(runtimeCfg.App) == modeInteractive && tty.Detected == nil {
		logging.Warn("no terminal on stdin, stdout or stderr", zap.String("document", documentOf(runtimeCfg.App)))
	}

	if err := app.Run(runtimeCfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

const (
	modeSeed        = "seed"
	modeExport      = "export"
	modeInteractive = "interactive"
)

// modeOf names what this invocation does, in the order app.Run checks it.
func modeOf(cfg app.Config) string {
	switch {
	case cfg.SeedPath != "":
		return modeSeed
	case cfg.ExportMinimap != "":
		return modeExport
	default:
		return modeInteractive
	}
}

// documentOf names the document source: the seed target, "demo" or the
// database path.
func documentOf(cfg app.Config) string {
	switch {
	case cfg.SeedPath != "":
		return cfg.SeedPath
	case cfg.Demo:
		return "demo"
	default:
		return cfg.DBPath
	}
}

// startupTracePayload bundles what was asked for and where it runs.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+1)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	payload := map[string]interface{}{
		"argv":       cfg.Args,
		"flags":      flags,
		"configFile": cfg.File,
		"mode":       modeOf(cfg.App),
		"document":   documentOf(cfg.App),
		"logFile":    logging.Path(),
		"minimap": map[string]interface{}{
			"enabled":      cfg.App.ShowMinimap,
			"width":        cfg.App.MinimapWidth,
			"rowsPerCheck": cfg.App.RowsPerCheck,
		},
	}
	if cfg.App.ExportMinimap != "" {
		payload["export"] = map[string]interface{}{
			"path":     cfg.App.ExportMinimap,
			"annotate": cfg.App.Annotate,
			"width":    cfg.App.Width,
			"height":   cfg.App.Height,
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttySize   `json:"detected,omitempty"`
	Checks   []ttyCheck `json:"checks"`
}

type ttySize struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyCheck struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
}

// collectTTYDetails reports which standard descriptors are terminals and
// the size of the first one, which is what the TUI will draw into.
func collectTTYDetails() ttyDetails {
	files := []*os.File{os.Stdin, os.Stdout, os.Stderr}
	names := []string{"stdin", "stdout", "stderr"}
	out := ttyDetails{Checks: make([]ttyCheck, 0, len(files))}
	for i, f := range files {
		fd := int(f.Fd())
		check := ttyCheck{Name: names[i], IsTerminal: fd >= 0 && term.IsTerminal(fd)}
		out.Checks = append(out.Checks, check)
		if !check.IsTerminal || out.Detected != nil {
			continue
		}
		if w, h, err := term.GetSize(fd); err == nil {
			out.Detected = &ttySize{Source: check.Name, Width: w, Height: h}
		}
	}
	return out
}
