package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/ddhremover"
	"github.com/bft-labs/ddhremover/internal/adapters/console"
	logAdapter "github.com/bft-labs/ddhremover/internal/adapters/log"
	"github.com/bft-labs/ddhremover/internal/cliconfig"
	"github.com/bft-labs/ddhremover/internal/watch"
)

// Exit codes.
const (
	exitOK            = 0
	exitFailure       = 1
	exitInvalidReport = 2
)

const longHelp = `It removes files found by the ddh utility.
ddh has to be used with the json output to be parsed by ddhremover.
The report can be saved in a file or read from stdin with a pipe.

Every duplicate group keeps its first --duplicates files in byte order and the
rest are deleted, or moved to the --move directory. With --keep, files whose
path contains the substring are never touched and at most --duplicates of the
other files are removed.`

var exampleUsage = strings.TrimSpace(`
  ddh --output no --format json --directories ~/photos | ddhremover -n
  ddhremover -f dups.json --move /tmp/holding --report run.yaml
  ddhremover --watch /var/spool/ddh --duplicates 2
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(stderr, "Error:", ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitFailure
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "ddhremover",
		Short:         "Remove or move duplicate files listed in a ddh JSON report",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cliconfig.ApplyFileConfig(&cfg, fc, changed)
			}

			// DDHREMOVER_* override the file but not explicit flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.ValidateFlags(changed); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, stdin, stdout, stderr)
		},
	}

	f := root.Flags()
	f.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.ddhremover/config.toml)")
	f.BoolVarP(&cfg.DryRun, "dry-run", "n", cfg.DryRun, "don't do anything, no file is removed or moved")
	f.StringVarP(&cfg.File, "file", "f", cfg.File, "read the json report from a file instead of stdin")
	f.IntVarP(&cfg.KeepCount, "duplicates", "d", cfg.KeepCount, "how many duplicates to keep (1 means a single file, no duplicates)")
	f.StringVarP(&cfg.MoveTo, "move", "m", cfg.MoveTo, "move the files to this directory instead of deleting them")
	f.StringVarP(&cfg.Keep, "keep", "k", cfg.Keep, "never remove files whose path contains this substring")
	f.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "number of groups processed concurrently")
	f.StringVar(&cfg.Report, "report", cfg.Report, "write a run report to this file (.json, .yaml or .yml)")
	f.StringVar(&cfg.WatchDir, "watch", cfg.WatchDir, "process every *.json report dropped into this directory until interrupted")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	f.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "also print groups that are skipped")

	return root
}

// run processes a single report, or watches a directory, with a validated
// configuration.
func run(ctx context.Context, cfg cliconfig.Config, stdin io.Reader, stdout, stderr io.Writer) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	zl := logAdapter.NewConsoleLogger(stderr, level, cfg.NoColor)
	logger := logAdapter.NewZerologAdapterWithLogger(zl)

	zl.Debug().
		Str("file", cfg.File).
		Int("keep_count", cfg.KeepCount).
		Str("move_to", cfg.MoveTo).
		Str("keep", cfg.Keep).
		Bool("dry_run", cfg.DryRun).
		Int("workers", cfg.Workers).
		Msg("configuration")

	notifier := console.NewNotifier(stdout, cfg.NoColor, cfg.Verbose)

	opts := []ddhremover.Option{
		ddhremover.WithLogger(logger),
		ddhremover.WithEventHandler(notifier),
		ddhremover.WithWorkers(cfg.Workers),
	}
	if cfg.Report != "" {
		opts = append(opts, ddhremover.WithReportFile(cfg.Report))
	}

	remover, err := ddhremover.New(cfg.Policy(), opts...)
	if err != nil {
		return err
	}

	if cfg.WatchDir != "" {
		return watchDir(ctx, cfg.WatchDir, remover, notifier, logger)
	}

	var report ddhremover.RunReport
	if cfg.File != "" {
		report, err = remover.RunFile(ctx, cfg.File)
	} else {
		report, err = remover.RunReader(ctx, stdin)
	}
	if errors.Is(err, ddhremover.ErrInvalidReport) {
		fmt.Fprintf(stdout, "Error decoding the json file (%v)\n", err)
		return &exitError{code: exitInvalidReport}
	}
	if err != nil && report.RunID == "" {
		return err
	}

	notifier.PrintSummary(report)
	if err != nil {
		return err
	}
	if report.HasFailures() {
		return &exitError{code: exitFailure}
	}
	return nil
}

func watchDir(ctx context.Context, dir string, remover *ddhremover.Remover, notifier *console.Notifier, logger ddhremover.Logger) error {
	inbox := watch.New(dir, watch.DefaultConfig(), func(ctx context.Context, path string) error {
		report, err := remover.RunFile(ctx, path)
		if err != nil && report.RunID == "" {
			return err
		}
		notifier.PrintSummary(report)
		return err
	}, logger)

	if err := inbox.Run(ctx); err != nil {
		return err
	}
	logger.Info("received signal, stopping...")
	return nil
}
