// Package storyboard extracts normalized metadata from video files with
// ffprobe.
//
// Basic usage:
//
//	inspector, err := storyboard.New(
//	    storyboard.WithSHA1Sum(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	video, err := inspector.Inspect(ctx, "input.mkv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, _ := video.FormatReport(ctx, true)
//	fmt.Println(report)
package storyboard

import (
	"context"

	"github.com/five82/storyboard/internal/config"
	coreerrors "github.com/five82/storyboard/internal/errors"
	"github.com/five82/storyboard/internal/ffprobe"
	"github.com/five82/storyboard/internal/logging"
	"github.com/five82/storyboard/internal/metadata"
	"github.com/five82/storyboard/internal/reporter"
)

// Re-exported metadata types.
type (
	Video    = metadata.Video
	Stream   = metadata.Stream
	ScanType = metadata.ScanType
	Prober   = metadata.Prober
	Reporter = reporter.Reporter
)

const (
	ScanUndetermined = metadata.ScanUndetermined
	ScanProgressive  = metadata.ScanProgressive
	ScanInterlaced   = metadata.ScanInterlaced
	ScanTelecined    = metadata.ScanTelecined
)

// Inspector probes video files into Video metadata.
type Inspector struct {
	config   *config.Config
	prober   Prober
	reporter Reporter
}

// BatchResult is the outcome of inspecting one file of a batch. Exactly one
// of Video and Err is set.
type BatchResult struct {
	Path  string
	Video *Video
	Err   error
}

// Option configures the inspector.
type Option func(*Inspector)

// New creates an Inspector. Unless a Prober is supplied, the configured
// ffprobe binary must be resolvable.
func New(opts ...Option) (*Inspector, error) {
	i := &Inspector{
		config:   config.NewConfig(),
		reporter: reporter.NullReporter{},
	}
	for _, opt := range opts {
		opt(i)
	}

	if err := i.config.Validate(); err != nil {
		return nil, coreerrors.NewConfigError("invalid configuration", err)
	}

	if i.prober == nil {
		runner := ffprobe.NewRunner(i.config.FFprobeBin, i.config.ExtraArgs...)
		path, err := runner.Locate()
		if err != nil {
			return nil, err
		}
		logging.Debug("using ffprobe", "path", path)
		i.prober = runner
	}

	return i, nil
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg *config.Config) Option {
	return func(i *Inspector) {
		c := *cfg
		i.config = &c
	}
}

// WithFFprobe sets the ffprobe binary name or path.
func WithFFprobe(bin string) Option {
	return func(i *Inspector) {
		i.config.FFprobeBin = bin
	}
}

// WithFFprobeArgs sets extra arguments passed to every ffprobe invocation,
// as a single shell-quoted string such as "-probesize 50M".
func WithFFprobeArgs(args string) Option {
	return func(i *Inspector) {
		i.config.FFprobeArgs = args
	}
}

// WithSHA1Sum computes the SHA-1 digest of every inspected file.
func WithSHA1Sum() Option {
	return func(i *Inspector) {
		i.config.IncludeSHA1Sum = true
	}
}

// WithHashChunkSize sets the read size used for hashing, e.g. "1MiB".
func WithHashChunkSize(size string) Option {
	return func(i *Inspector) {
		i.config.HashChunkSize = size
	}
}

// WithReporter sets the progress reporter.
func WithReporter(r Reporter) Option {
	return func(i *Inspector) {
		if r != nil {
			i.reporter = r
		}
	}
}

// WithProber replaces the ffprobe-backed prober.
func WithProber(p Prober) Option {
	return func(i *Inspector) {
		i.prober = p
	}
}

// Inspect probes a single file.
func (i *Inspector) Inspect(ctx context.Context, path string) (*Video, error) {
	i.reporter.FileStarted(path)

	v, err := metadata.New(ctx, path, i.prober,
		metadata.WithReporter(i.reporter),
		metadata.WithChunkSize(i.config.ChunkSize),
	)
	if err != nil {
		return nil, err
	}

	if i.config.IncludeSHA1Sum {
		if _, err := v.SHA1Sum(ctx); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// InspectBatch probes each file in order and collects the results.
func (i *Inspector) InspectBatch(ctx context.Context, paths []string) []BatchResult {
	results := make([]BatchResult, 0, len(paths))
	i.InspectEach(ctx, paths, func(r BatchResult) {
		results = append(results, r)
	})
	return results
}

// InspectEach probes each file in order and hands every result to fn as soon
// as that file is done. A failure is recorded in that file's result and does
// not stop the batch; only cancellation does, in which case fn receives the
// remaining files marked cancelled.
func (i *Inspector) InspectEach(ctx context.Context, paths []string, fn func(BatchResult)) {
	i.reporter.BatchStarted(reporter.BatchStartInfo{TotalFiles: len(paths), FileList: paths})

	summary := reporter.BatchSummary{TotalFiles: len(paths)}

	for n, path := range paths {
		if err := ctx.Err(); err != nil {
			cancelled := coreerrors.NewCancelledError(err)
			for _, rest := range paths[n:] {
				summary.Failed = append(summary.Failed, rest)
				fn(BatchResult{Path: rest, Err: cancelled})
			}
			break
		}

		i.reporter.FileProgress(reporter.FileProgressContext{CurrentFile: n + 1, TotalFiles: len(paths)})

		v, err := i.Inspect(ctx, path)
		if err != nil {
			logging.Error("inspection failed", "path", path, "error", err)
			i.reporter.Error(reporter.ReporterError{Title: err.Error(), Context: path})
			summary.Failed = append(summary.Failed, path)
			fn(BatchResult{Path: path, Err: err})
			continue
		}

		logging.Info("inspected", "path", v.Path, "streams", len(v.Streams), "scan_type", v.ScanType)
		summary.SuccessfulCount++
		summary.TotalBytes += v.Size
		fn(BatchResult{Path: path, Video: v})
	}

	i.reporter.BatchComplete(summary)
}
