// Command ls-retrograde finds the stationary points and retrograde intervals
// of one planet's apparent motion as seen from another.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-retrograde/internal/bodies"
	"github.com/litescript/ls-retrograde/internal/config"
	"github.com/litescript/ls-retrograde/internal/export"
	"github.com/litescript/ls-retrograde/internal/logging"
	"github.com/litescript/ls-retrograde/internal/retro"
	"github.com/litescript/ls-retrograde/internal/state"
	"github.com/litescript/ls-retrograde/internal/ui"
	"github.com/litescript/ls-retrograde/internal/version"
)

// options holds the flags that pick an output mode.
type options struct {
	configPath  string
	summaryMode bool
	jsonPath    string
	csvPath     string
	listMode    bool
	withSamples bool
	showVersion bool
}

// flagKeys maps flags that override config values to their config keys.
var flagKeys = map[string]string{
	"observer":  config.KeyObserver,
	"target":    config.KeyTarget,
	"start":     config.KeyStartDay,
	"length":    config.KeyLengthDays,
	"reference": config.KeyReferenceDay,
	"catalog":   config.KeyCatalog,
	"log-level": config.KeyLogLevel,
}

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, loads config and dispatches to headless output or the TUI.
// It returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(version.Name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "Config file (TOML, YAML or JSON)")
	fs.String("observer", "", "Observing body (e.g. earth)")
	fs.String("target", "", "Observed body (e.g. mars)")
	fs.Float64("start", 0, "Window start, model days")
	fs.Float64("length", 0, "Window length, days")
	fs.Float64("reference", 0, "Epoch of the reference mean longitudes, model days")
	fs.String("catalog", "", "Element source (jpl, meeus)")
	fs.String("log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.summaryMode, "summary", false, "Print text summary instead of TUI")
	fs.StringVar(&opts.jsonPath, "json", "", "Export JSON to file (use - for stdout)")
	fs.StringVar(&opts.csvPath, "csv", "", "Export samples as CSV to file (use - for stdout)")
	fs.BoolVar(&opts.withSamples, "samples", false, "Include samples in JSON export")
	fs.BoolVar(&opts.listMode, "list", false, "List catalog bodies and exit")
	fs.BoolVar(&opts.showVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.showVersion {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	// Only flags given on the command line override the config file.
	overrides := make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			overrides[key] = f.Value.(flag.Getter).Get()
		}
	})

	cfg, err := config.Load(opts.configPath, overrides)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	// Set up logging
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	logger.SetOutput(stderr)
	log := logger.Named("cli")

	cat, err := cfg.BuildCatalog()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	log.Debug("catalog %s with %d bodies", cat.Source(), cat.Len())

	if opts.listMode {
		export.WriteBodyList(stdout, cat)
		return 0
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	observer, err := cat.Lookup(cfg.Observer)
	if err != nil {
		fmt.Fprintf(stderr, "Error: observer: %v\n", err)
		return 1
	}
	target, err := cat.Lookup(cfg.Target)
	if err != nil {
		fmt.Fprintf(stderr, "Error: target: %v\n", err)
		return 1
	}
	log.Info("%s from %s, days %.1f..%.1f", target.Name, observer.Name, cfg.Window.StartDay, cfg.Window.EndDay())

	// Initialize components
	stateCfg := state.DefaultConfig()
	stateCfg.MaxEntries = cfg.CacheMaxEntries
	stateCfg.Detector = cfg.Detector()
	stateMgr := state.NewManager(stateCfg, logger.Named("cache"))

	// Headless mode: no TUI
	headless := opts.summaryMode || opts.jsonPath != "" || opts.csvPath != "" || !isTerminal(stdout)
	if headless {
		if !opts.summaryMode && opts.jsonPath == "" && opts.csvPath == "" {
			opts.summaryMode = true
		}
		if err := runHeadless(ctx, stateMgr, observer, target, cfg.Window, opts, stdout, log); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	// Create TUI model
	model, err := ui.New(stateMgr, cat, observer.Name, target.Name, cfg.Window)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	// Run TUI (blocks until quit or ctx is cancelled)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(stderr, "Error running TUI: %v\n", err)
		return 1
	}
	return 0
}

// runHeadless computes the series once and writes the requested outputs.
func runHeadless(ctx context.Context, stateMgr *state.Manager, observer, target bodies.Body,
	w retro.Window, opts options, stdout io.Writer, log *logging.Logger) error {

	stateMgr.Select(observer, target, w)
	s, err := stateMgr.Current()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	stats := stateMgr.Stats()
	log.Debug("computed %d samples, %d events in %v", s.Len(), len(s.Events), stats.LastCompute)
	if s.HasNaN() {
		log.Warn("series contains undefined samples")
	}

	// Export JSON if requested
	if opts.jsonPath != "" {
		exp := export.ExportSeries(observer, target, s, opts.withSamples)
		if err := writeTo(opts.jsonPath, stdout, exp.WriteJSON); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	}

	// Export CSV if requested
	if opts.csvPath != "" {
		if err := writeTo(opts.csvPath, stdout, func(out io.Writer) error {
			return export.WriteCSV(out, s)
		}); err != nil {
			return fmt.Errorf("write CSV: %w", err)
		}
	}

	// Print summary table if requested
	if opts.summaryMode {
		export.WriteSummaryTable(stdout, observer, target, s)
	}

	return nil
}

// writeTo calls write on stdout for "-" and on a newly created file otherwise.
func writeTo(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
