// Package reporter provides progress reporting interfaces and implementations.
package reporter

// Stage names reported while a file is inspected.
const (
	StageMetadata = "metadata"
	StageScanType = "scan type"
	StageChecksum = "checksum"
)

// StageProgress represents a generic stage update.
type StageProgress struct {
	Stage   string
	Message string
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	TotalFiles int
	FileList   []string
}

// FileProgressContext contains current file index within a batch.
type FileProgressContext struct {
	CurrentFile int
	TotalFiles  int
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	SuccessfulCount int
	TotalFiles      int
	TotalBytes      int64
	Failed          []string
}
