package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/rivo/tview"
)

// commandRunner executes a sub-command using the provided CLI arguments.
type commandRunner func([]string) error

// commandHandlers maps supported command names to their implementations.
var commandHandlers = map[string]commandRunner{
	"collect": runCollectCommand,
	"label":   runLabelCommand,
}

var defaultCommand = "collect"

const appTitle = "telemetry-collector"

func main() {
	cleanup, logPath, err := setupLogging()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: unable to initialize logging: %v\n", appTitle, err)
	} else {
		defer func() {
			if err := cleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", appTitle, err)
			}
		}()
		log.Printf("logging initialized; writing to %s", logPath)
	}

	if err := dispatch(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dispatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no arguments provided")
	}

	if len(args) > 1 {
		if isHelpFlag(args[1]) {
			printUsage(os.Stdout)
			return nil
		}
		if runner, ok := resolveCommand(args[1]); ok {
			return runner(args[2:])
		}
		if !strings.HasPrefix(args[1], "-") {
			printUsage(os.Stderr)
			return fmt.Errorf("unknown command %q", args[1])
		}
	}

	runner := commandHandlers[defaultCommand]
	return runner(args[1:])
}

func resolveCommand(name string) (commandRunner, bool) {
	handler, ok := commandHandlers[strings.ToLower(strings.TrimSpace(name))]
	return handler, ok
}

func isHelpFlag(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func printUsage(w *os.File) {
	fmt.Fprintf(w, "Usage: %s [command] [flags]\n\nAvailable commands:\n", appTitle)
	var names []string
	for name := range commandHandlers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintf(w, "\nThe default command is %q. Run %s collect -h for flags.\n", defaultCommand, appTitle)
}

// runLabelCommand prints the hardware label used to tag output rows.
func runLabelCommand(_ []string) error {
	fmt.Println(HardwareLabel(context.Background()))
	return nil
}

func runCollectCommand(args []string) error {
	fs := flag.NewFlagSet("collect", flag.ContinueOnError)
	configPath := fs.String("config", "telemetry.yaml", "path to YAML config file (optional)")
	duration := fs.Float64("duration", 0, "total collection duration in seconds")
	interval := fs.Float64("interval", 0, "sampling interval in seconds")
	outputDir := fs.String("output", "", "output directory (default: Desktop/Telemetry_Data)")
	label := fs.String("label", "", "hardware label override")
	live := fs.Bool("live", false, "show a live terminal view while collecting")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.DurationSeconds = *duration
		case "interval":
			cfg.IntervalSeconds = *interval
		case "output":
			cfg.OutputDir = *outputDir
		case "label":
			cfg.HardwareLabel = *label
		case "live":
			cfg.Live = *live
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hwLabel := cfg.HardwareLabel
	if hwLabel == "" {
		hwLabel = HardwareLabel(ctx)
	}

	dir, err := resolveStorageDir(cfg.OutputDir)
	if err != nil {
		return err
	}
	outPath := filepath.Join(dir, outputFileName(hwLabel, time.Now()))
	log.Printf("telemetry will be saved to %s", outPath)
	log.Printf("starting collection: %.0fs total, %.0fs interval", cfg.DurationSeconds, cfg.IntervalSeconds)

	collector := NewCollector(NewSystemSource(), cfg.CollectorConfig())

	var samples []Sample
	var runErr error
	if cfg.Live {
		samples, runErr = runWithLiveView(ctx, collector)
	} else {
		samples, runErr = runWithConsole(ctx, collector)
	}
	if runErr != nil {
		log.Printf("collection aborted: %v", runErr)
	}

	// Whatever was collected gets written, on the interrupted and aborted
	// paths included.
	if writeErr := WriteTable(outPath, hwLabel, samples); writeErr != nil {
		return errors.Join(runErr, writeErr)
	}
	log.Printf("CSV saved: %s (%d row(s))", outPath, len(samples))

	if runErr != nil {
		return fmt.Errorf("collection aborted after %d sample(s): %w", len(samples), runErr)
	}
	return nil
}

// runWithConsole runs the collector with plain progress lines on stderr.
func runWithConsole(ctx context.Context, collector *Collector) ([]Sample, error) {
	samples, err := collector.Run(ctx, func(env Envelope) error {
		if progress, ok := env.Payload.(Progress); ok {
			fmt.Fprintf(os.Stderr, "\rCollecting sample %d/%d...", progress.Completed, progress.Scheduled)
		}
		return nil
	})
	fmt.Fprintln(os.Stderr)
	return samples, err
}

// runWithLiveView runs the collector behind a tview application. Quitting the
// view cancels the run; the collector finishing stops the view.
func runWithLiveView(ctx context.Context, collector *Collector) ([]Sample, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := tview.NewApplication()
	ui := NewLiveView(app, appTitle)

	envCh := make(chan Envelope, 128)
	ui.Start(envCh)

	type runResult struct {
		samples []Sample
		err     error
	}
	resCh := make(chan runResult, 1)
	go func() {
		samples, err := collector.Run(ctx, func(env Envelope) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case envCh <- env:
				return nil
			}
		})
		close(envCh)
		resCh <- runResult{samples: samples, err: err}
		app.Stop()
	}()

	if err := app.SetRoot(ui.GetLayout(), true).Run(); err != nil && !errors.Is(err, context.Canceled) {
		cancel()
		res := <-resCh
		return res.samples, errors.Join(res.err, err)
	}

	// The view exited first when the user quit; cancel the run and keep what
	// it already collected.
	cancel()
	res := <-resCh
	return res.samples, res.err
}
