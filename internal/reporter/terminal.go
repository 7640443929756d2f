package reporter

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// TerminalReporter outputs human-friendly progress text.
type TerminalReporter struct {
	mu       sync.Mutex
	out      io.Writer
	frames   *progressbar.ProgressBar
	checksum *progressbar.ProgressBar
	cyan     *color.Color
	green    *color.Color
	yellow   *color.Color
	red      *color.Color
	magenta  *color.Color
	bold     *color.Color
}

// NewTerminalReporterWithWriter creates a terminal reporter with a custom writer.
func NewTerminalReporterWithWriter(w io.Writer) *TerminalReporter {
	return &TerminalReporter{
		out:     w,
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
	}
}

func (r *TerminalReporter) FileStarted(path string) {
	_, _ = fmt.Fprintf(r.out, "%s %s\n", r.cyan.Sprint("Processing"), path)
}

func (r *TerminalReporter) StageProgress(update StageProgress) {
	r.finishFrames()
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.magenta.Sprint("›"), update.Message)
}

func (r *TerminalReporter) FrameInspected(count, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frames == nil {
		r.frames = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionSetDescription("  Inspecting frames"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(20),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetElapsedTime(false),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = r.frames.Set(count)
	if count >= total {
		_ = r.frames.Finish()
		r.frames = nil
	}
}

func (r *TerminalReporter) finishFrames() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frames != nil {
		_ = r.frames.Finish()
		r.frames = nil
	}
}

func (r *TerminalReporter) ChecksumStarted(totalBytes int64) {
	r.finishFrames()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.checksum = progressbar.NewOptions64(
		totalBytes,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription("  SHA-1"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) ChecksumProgress(doneBytes int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.checksum != nil {
		_ = r.checksum.Set64(doneBytes)
	}
}

func (r *TerminalReporter) ChecksumComplete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.checksum != nil {
		_ = r.checksum.Finish()
		r.checksum = nil
	}
}

func (r *TerminalReporter) Warning(message string) {
	_, _ = r.yellow.Fprintf(r.out, "WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	_, _ = r.red.Fprintf(r.out, "error: %s\n", err.Title)
	if err.Message != "" {
		_, _ = fmt.Fprintf(r.out, "  %s\n", err.Message)
	}
	if err.Context != "" {
		_, _ = fmt.Fprintf(r.out, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(r.out, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	if info.TotalFiles < 2 {
		return
	}
	_, _ = r.cyan.Fprintln(r.out, "BATCH")
	_, _ = fmt.Fprintf(r.out, "  Inspecting %d files\n", info.TotalFiles)
}

func (r *TerminalReporter) FileProgress(context FileProgressContext) {
	if context.TotalFiles < 2 {
		return
	}
	_, _ = fmt.Fprintf(r.out, "\nFile %s of %d\n", r.bold.Sprint(context.CurrentFile), context.TotalFiles)
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	if summary.TotalFiles < 2 {
		return
	}
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "BATCH SUMMARY")
	_, _ = fmt.Fprintf(r.out, "  %s (%s inspected)\n",
		r.bold.Sprintf("%d of %d succeeded", summary.SuccessfulCount, summary.TotalFiles),
		humanize.IBytes(uint64(summary.TotalBytes)))
	for _, name := range summary.Failed {
		_, _ = fmt.Fprintf(r.out, "  - %s %s\n", r.red.Sprint("failed:"), name)
	}
}
