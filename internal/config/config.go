package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/disasm-shell/internal/app"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	File    string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfig        = "DISASM_SHELL_CONFIG"
	envDB            = "DISASM_SHELL_DB"
	envDemo          = "DISASM_SHELL_DEMO"
	envSeed          = "DISASM_SHELL_SEED"
	envHistoryDepth  = "DISASM_SHELL_HISTORY_DEPTH"
	envMinimap       = "DISASM_SHELL_MINIMAP"
	envMinimapWidth  = "DISASM_SHELL_MINIMAP_WIDTH"
	envRowsPerCheck  = "DISASM_SHELL_ROWS_PER_CHECK"
	envPollInterval  = "DISASM_SHELL_POLL_INTERVAL"
	envExportMinimap = "DISASM_SHELL_EXPORT_MINIMAP"
	envAnnotate      = "DISASM_SHELL_ANNOTATE"
	envWidth         = "DISASM_SHELL_WIDTH"
	envHeight        = "DISASM_SHELL_HEIGHT"
	envShowFooter    = "DISASM_SHELL_FOOTER"
	envTrace         = "DISASM_SHELL_TRACE"
	envLogFile       = "DISASM_SHELL_LOG_FILE"
)

// fileConfig is the YAML layer. It sits below environment and flags.
type fileConfig struct {
	DB            string        `yaml:"db"`
	Demo          bool          `yaml:"demo"`
	HistoryDepth  int           `yaml:"history_depth"`
	Minimap       bool          `yaml:"minimap"`
	MinimapWidth  int           `yaml:"minimap_width"`
	RowsPerCheck  int           `yaml:"rows_per_check"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	ExportMinimap string        `yaml:"export_minimap"`
	Annotate      bool          `yaml:"annotate"`
	Width         int           `yaml:"width"`
	Height        int           `yaml:"height"`
	Footer        bool          `yaml:"footer"`
	Trace         bool          `yaml:"trace"`
	LogFile       string        `yaml:"log_file"`
}

func defaults() fileConfig {
	return fileConfig{
		Minimap:      true,
		MinimapWidth: 12,
		RowsPerCheck: 1,
		PollInterval: time.Second,
		Footer:       true,
	}
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	file := scanConfigPath(args, envOrDefault(env, envConfig, ""))
	base := defaults()
	if file != "" {
		if err := readFile(file, &base); err != nil {
			return Config{}, err
		}
	}

	fs := flag.NewFlagSet("disasm-shell", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", file, "path to a YAML config file")
	db := fs.String("db", envOrDefault(env, envDB, base.DB), "path to the analysis database")
	demo := fs.Bool("demo", envOrBool(env, envDemo, base.Demo), "open the built-in demo document and simulate analysis")
	seed := fs.String("seed", envOrDefault(env, envSeed, ""), "write the demo document to this database path and exit")
	historyDepth := fs.Int("history-depth", envOrInt(env, envHistoryDepth, base.HistoryDepth), "maximum back/forward entries per tab (0 is unbounded)")
	minimap := fs.Bool("minimap", envOrBool(env, envMinimap, base.Minimap), "show the minimap")
	minimapWidth := fs.Int("minimap-width", envOrInt(env, envMinimapWidth, base.MinimapWidth), "minimap width in cells")
	rowsPerCheck := fs.Int("rows-per-check", envOrInt(env, envRowsPerCheck, base.RowsPerCheck), "minimap rows drawn between cancellation checks")
	pollInterval := fs.Duration("poll-interval", envOrDuration(env, envPollInterval, base.PollInterval), "document version poll interval")
	exportMinimap := fs.String("export-minimap", envOrDefault(env, envExportMinimap, base.ExportMinimap), "render the minimap to this PNG path and exit")
	annotate := fs.Bool("annotate", envOrBool(env, envAnnotate, base.Annotate), "label segments on the exported minimap")
	width := fs.Int("width", envOrInt(env, envWidth, base.Width), "desired viewport width in cells, or exported minimap width in pixels (0 uses the default)")
	height := fs.Int("height", envOrInt(env, envHeight, base.Height), "desired viewport height in rows, or exported minimap height in pixels (0 uses the default)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, base.Footer), "show the command footer")
	trace := fs.Bool("trace", envOrBool(env, envTrace, base.Trace), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, base.LogFile), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			DBPath:        *db,
			Demo:          *demo,
			SeedPath:      *seed,
			HistoryDepth:  *historyDepth,
			ShowMinimap:   *minimap,
			MinimapWidth:  *minimapWidth,
			RowsPerCheck:  *rowsPerCheck,
			PollInterval:  *pollInterval,
			ExportMinimap: *exportMinimap,
			Annotate:      *annotate,
			Width:         *width,
			Height:        *height,
			ShowFooter:    *footer,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		File: file,
		Flags: map[string]string{
			"config":        file,
			"db":            *db,
			"demo":          strconv.FormatBool(*demo),
			"seed":          *seed,
			"historyDepth":  strconv.Itoa(*historyDepth),
			"minimap":       strconv.FormatBool(*minimap),
			"minimapWidth":  strconv.Itoa(*minimapWidth),
			"rowsPerCheck":  strconv.Itoa(*rowsPerCheck),
			"pollInterval":  pollInterval.String(),
			"exportMinimap": *exportMinimap,
			"annotate":      strconv.FormatBool(*annotate),
			"width":         strconv.Itoa(*width),
			"height":        strconv.Itoa(*height),
			"footer":        strconv.FormatBool(*footer),
			"trace":         strconv.FormatBool(*trace),
			"logFile":       *logFile,
		},
		Args: append([]string(nil), args...),
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// scanConfigPath finds --config before the full parse so that file values
// can seed the flag defaults.
func scanConfigPath(args []string, fallback string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return fallback
}

func readFile(path string, into *fileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects out-of-range knobs and a missing document source.
func Validate(cfg Config) error {
	a := cfg.App
	switch {
	case a.Width < 0:
		return fmt.Errorf("width must be >= 0 (got %d)", a.Width)
	case a.Height < 0:
		return fmt.Errorf("height must be >= 0 (got %d)", a.Height)
	case a.HistoryDepth < 0:
		return fmt.Errorf("history-depth must be >= 0 (got %d)", a.HistoryDepth)
	case a.MinimapWidth < 0:
		return fmt.Errorf("minimap-width must be >= 0 (got %d)", a.MinimapWidth)
	case a.RowsPerCheck < 1:
		return fmt.Errorf("rows-per-check must be >= 1 (got %d)", a.RowsPerCheck)
	case a.PollInterval <= 0:
		return fmt.Errorf("poll-interval must be positive (got %s)", a.PollInterval)
	case a.SeedPath == "" && a.DBPath == "" && !a.Demo:
		return fmt.Errorf("no document: pass --db PATH or --demo")
	case a.DBPath != "" && a.Demo:
		return fmt.Errorf("--db and --demo are mutually exclusive")
	}
	return nil
}
