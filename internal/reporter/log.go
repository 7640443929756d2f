package reporter

import (
	"github.com/five82/storyboard/internal/logging"
)

// LogReporter mirrors progress events into the structured log at debug level.
type LogReporter struct {
	logger *logging.Logger
}

// NewLogReporter creates a reporter backed by logger, or the global logger when nil.
func NewLogReporter(logger *logging.Logger) *LogReporter {
	if logger == nil {
		logger = logging.Global()
	}
	return &LogReporter{logger: logger}
}

func (r *LogReporter) FileStarted(path string) {
	r.logger.Info("processing file", "path", path)
}

func (r *LogReporter) StageProgress(update StageProgress) {
	r.logger.Debug("stage", "stage", update.Stage, "message", update.Message)
}

func (r *LogReporter) FrameInspected(count, total int) {
	if count == total {
		r.logger.Debug("frame sample complete", "frames", count)
	}
}

func (r *LogReporter) ChecksumStarted(totalBytes int64) {
	r.logger.Debug("checksum started", "bytes", totalBytes)
}

func (r *LogReporter) ChecksumProgress(int64) {}

func (r *LogReporter) ChecksumComplete() {
	r.logger.Debug("checksum complete")
}

func (r *LogReporter) Warning(message string) {
	r.logger.Warn(message)
}

func (r *LogReporter) Error(err ReporterError) {
	r.logger.Error(err.Title, "message", err.Message, "context", err.Context)
}

func (r *LogReporter) BatchStarted(info BatchStartInfo) {
	r.logger.Info("batch started", "files", info.TotalFiles)
}

func (r *LogReporter) FileProgress(FileProgressContext) {}

func (r *LogReporter) BatchComplete(summary BatchSummary) {
	r.logger.Info("batch complete", "succeeded", summary.SuccessfulCount, "total", summary.TotalFiles)
}
