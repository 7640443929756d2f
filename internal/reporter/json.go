package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// JSONReporter outputs NDJSON progress events.
type JSONReporter struct {
	writer io.Writer
	mu     sync.Mutex
	now    func() time.Time
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w, now: time.Now}
}

func (r *JSONReporter) write(event string, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fields == nil {
		fields = map[string]any{}
	}
	fields["type"] = event
	fields["timestamp"] = r.now().Unix()

	data, err := json.Marshal(fields)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) FileStarted(path string) {
	r.write("file_started", map[string]any{"path": path})
}

func (r *JSONReporter) StageProgress(update StageProgress) {
	r.write("stage_progress", map[string]any{"stage": update.Stage, "message": update.Message})
}

func (r *JSONReporter) FrameInspected(count, total int) {
	r.write("frame_inspected", map[string]any{"count": count, "total": total})
}

func (r *JSONReporter) ChecksumStarted(totalBytes int64) {
	r.write("checksum_started", map[string]any{"total_bytes": totalBytes})
}

// ChecksumProgress is not emitted; per-chunk events would flood the stream.
func (r *JSONReporter) ChecksumProgress(int64) {}

func (r *JSONReporter) ChecksumComplete() {
	r.write("checksum_complete", nil)
}

func (r *JSONReporter) Warning(message string) {
	r.write("warning", map[string]any{"message": message})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write("error", map[string]any{
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
	})
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write("batch_started", map[string]any{"total_files": info.TotalFiles, "files": info.FileList})
}

func (r *JSONReporter) FileProgress(context FileProgressContext) {
	r.write("file_progress", map[string]any{"current_file": context.CurrentFile, "total_files": context.TotalFiles})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	r.write("batch_complete", map[string]any{
		"successful_count": summary.SuccessfulCount,
		"total_files":      summary.TotalFiles,
		"total_bytes":      summary.TotalBytes,
		"failed":           summary.Failed,
	})
}
