// Package main provides the CLI entry point for storyboard.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/five82/storyboard"
	"github.com/five82/storyboard/internal/config"
	"github.com/five82/storyboard/internal/discovery"
	"github.com/five82/storyboard/internal/logging"
	"github.com/five82/storyboard/internal/reporter"
)

const appName = "storyboard"

var version = "dev"

// errFilesFailed is returned when at least one input could not be inspected;
// the failures themselves have already been printed.
var errFilesFailed = errors.New("one or more files failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(execute(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFilesFailed) {
			_, _ = color.New(color.FgRed, color.Bold).Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Extract video metadata with ffprobe",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newMetadataCmd(stdout, stderr))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, resolveVersion())
		},
		DisableFlagsInUseLine: true,
	})
	return root
}

func newMetadataCmd(stdout, stderr io.Writer) *cobra.Command {
	v := config.NewViper()
	var configFile string

	cmd := &cobra.Command{
		Use:   "metadata [flags] VIDEO...",
		Short: "Print metadata of video files",
		Long: `Print container and stream metadata of each VIDEO.

Directories are expanded to the video files they contain. Settings may also
come from a config file (--config) or STORYBOARD_* environment variables.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			return runMetadata(cmd.Context(), cfg, args, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "read settings from this config file")
	flags.BoolP("include-sha1sum", "s", false, "compute and print the SHA-1 digest of each file")
	flags.StringP("ffprobe-binary", "f", "ffprobe", "ffprobe binary name or path")
	flags.String("ffprobe-args", "", `extra arguments for every ffprobe call, e.g. "-probesize 50M"`)
	flags.String("hash-chunk-size", config.DefaultHashChunkSize, "read size used when hashing")
	flags.BoolP("quiet", "q", false, "do not print progress information")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.Bool("json", false, "print metadata as JSON, one object per line")
	flags.String("log-file", "", "append logs to this file instead of stderr")

	for key, flag := range map[string]string{
		config.KeyIncludeSHA1Sum: "include-sha1sum",
		config.KeyFFprobeBin:     "ffprobe-binary",
		config.KeyFFprobeArgs:    "ffprobe-args",
		config.KeyHashChunkSize:  "hash-chunk-size",
		config.KeyQuiet:          "quiet",
		config.KeyVerbose:        "verbose",
		config.KeyJSON:           "json",
		config.KeyLogFile:        "log-file",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}

func runMetadata(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	logger, err := logging.Setup(cfg.Verbose, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()
	logging.SetGlobal(logger)

	var progress reporter.Reporter = reporter.NewTerminalReporterWithWriter(stderr)
	if cfg.JSON {
		progress = reporter.NewJSONReporterWithWriter(stderr)
	}
	if cfg.Quiet {
		progress = errorsOnly{next: progress}
	}
	rep := reporter.NewCompositeReporter(progress, reporter.NewLogReporter(logger))

	files, expandErrs := discovery.ExpandArgs(args)
	for _, err := range expandErrs {
		rep.Error(reporter.ReporterError{Title: err.Error()})
	}

	inspector, err := storyboard.New(storyboard.WithConfig(cfg), storyboard.WithReporter(rep))
	if err != nil {
		return err
	}

	failed := len(expandErrs)
	printed := 0
	inspector.InspectEach(ctx, files, func(r storyboard.BatchResult) {
		if r.Err != nil {
			failed++
			return
		}
		if err := printVideo(ctx, stdout, r.Video, cfg, printed > 0); err != nil {
			rep.Error(reporter.ReporterError{Title: err.Error(), Context: r.Path})
			failed++
			return
		}
		printed++
	})

	if failed > 0 {
		return errFilesFailed
	}
	return nil
}

func printVideo(ctx context.Context, w io.Writer, v *storyboard.Video, cfg *config.Config, separate bool) error {
	if cfg.JSON {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	report, err := v.FormatReport(ctx, cfg.IncludeSHA1Sum)
	if err != nil {
		return err
	}
	if separate {
		_, _ = fmt.Fprintln(w)
	}
	_, err = fmt.Fprintln(w, report)
	return err
}

// errorsOnly forwards errors and warnings and drops progress.
type errorsOnly struct {
	reporter.NullReporter
	next reporter.Reporter
}

func (r errorsOnly) Warning(message string)          { r.next.Warning(message) }
func (r errorsOnly) Error(err reporter.ReporterError) { r.next.Error(err) }

func resolveVersion() string {
	if version != "" && version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}
