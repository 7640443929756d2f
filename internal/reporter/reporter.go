package reporter

// Reporter defines the interface for progress reporting.
type Reporter interface {
	FileStarted(path string)
	StageProgress(update StageProgress)
	FrameInspected(count, total int)
	ChecksumStarted(totalBytes int64)
	ChecksumProgress(doneBytes int64)
	ChecksumComplete()
	Warning(message string)
	Error(err ReporterError)
	BatchStarted(info BatchStartInfo)
	FileProgress(context FileProgressContext)
	BatchComplete(summary BatchSummary)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) FileStarted(string)               {}
func (NullReporter) StageProgress(StageProgress)      {}
func (NullReporter) FrameInspected(int, int)          {}
func (NullReporter) ChecksumStarted(int64)            {}
func (NullReporter) ChecksumProgress(int64)           {}
func (NullReporter) ChecksumComplete()                {}
func (NullReporter) Warning(string)                   {}
func (NullReporter) Error(ReporterError)              {}
func (NullReporter) BatchStarted(BatchStartInfo)      {}
func (NullReporter) FileProgress(FileProgressContext) {}
func (NullReporter) BatchComplete(BatchSummary)       {}
