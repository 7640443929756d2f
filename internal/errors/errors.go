// Package errors provides structured error types for storyboard operations.
package errors

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindIO represents I/O errors.
	KindIO ErrorKind = iota
	// KindFileNotFound represents an input path that does not exist.
	KindFileNotFound
	// KindCommand represents external command execution errors.
	KindCommand
	// KindProbe represents a failed probe or unparseable probe output.
	KindProbe
	// KindMetadata represents probe output lacking structurally required fields.
	KindMetadata
	// KindConfig represents configuration validation errors.
	KindConfig
	// KindNoFilesFound represents no suitable video files found.
	KindNoFilesFound
	// KindCancelled represents cancelled operations.
	KindCancelled
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "I/O error"
	case KindFileNotFound:
		return "File not found"
	case KindCommand:
		return "Command error"
	case KindProbe:
		return "Probe error"
	case KindMetadata:
		return "Metadata error"
	case KindConfig:
		return "Configuration error"
	case KindNoFilesFound:
		return "No files found"
	case KindCancelled:
		return "Operation cancelled"
	default:
		return "Unknown error"
	}
}

// CommandErrorKind represents the type of command error.
type CommandErrorKind int

const (
	// CommandStart means the command failed to start.
	CommandStart CommandErrorKind = iota
	// CommandWait means waiting for the command failed.
	CommandWait
	// CommandFailed means the command returned non-zero exit status.
	CommandFailed
)

// CommandError represents an error from executing an external command.
type CommandError struct {
	Command    string
	Kind       CommandErrorKind
	ExitCode   int
	Stderr     string
	Underlying error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case CommandStart:
		return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Underlying)
	case CommandWait:
		return fmt.Sprintf("failed to wait for %s: %v", e.Command, e.Underlying)
	case CommandFailed:
		if e.Stderr != "" {
			return fmt.Sprintf("command %s failed with exit code %d: %s", e.Command, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("command %s failed with exit code %d", e.Command, e.ExitCode)
	default:
		return fmt.Sprintf("command %s error: %v", e.Command, e.Underlying)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Underlying
}

// CoreError is the main error type for storyboard operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels usable with errors.Is; matching is by kind only.
var (
	ErrFileNotFound = &CoreError{Kind: KindFileNotFound}
	ErrProbe        = &CoreError{Kind: KindProbe}
	ErrMetadata     = &CoreError{Kind: KindMetadata}
)

// NewIOError creates a new I/O error.
func NewIOError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindIO, Message: message, Underlying: underlying}
}

// NewFileNotFoundError creates an error for an input path that does not exist.
func NewFileNotFoundError(path string) *CoreError {
	return &CoreError{Kind: KindFileNotFound, Message: fmt.Sprintf("'%s' does not exist", path)}
}

// NewCommandError creates a new command execution error.
func NewCommandError(cmd string, kind CommandErrorKind, underlying error) *CoreError {
	cmdErr := &CommandError{
		Command:    cmd,
		Kind:       kind,
		Underlying: underlying,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewCommandStartError creates an error for when a command fails to start.
func NewCommandStartError(cmd string, err error) *CoreError {
	return NewCommandError(cmd, CommandStart, err)
}

// NewCommandWaitError creates an error for when waiting for a command fails.
func NewCommandWaitError(cmd string, err error) *CoreError {
	return NewCommandError(cmd, CommandWait, err)
}

// NewCommandFailedError creates an error for when a command returns non-zero exit status.
func NewCommandFailedError(cmd string, exitCode int, stderr string) *CoreError {
	cmdErr := &CommandError{
		Command:  cmd,
		Kind:     CommandFailed,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewProbeError creates an error for a failed probe of path.
func NewProbeError(path string, underlying error) *CoreError {
	return &CoreError{Kind: KindProbe, Message: fmt.Sprintf("ffprobe failed on '%s'", path), Underlying: underlying}
}

// NewMetadataError creates an error for probe output missing required fields.
func NewMetadataError(message string) *CoreError {
	return &CoreError{Kind: KindMetadata, Message: message}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindConfig, Message: message, Underlying: underlying}
}

// NewNoFilesFoundError creates an error for when no video files are found.
func NewNoFilesFoundError(dir string) *CoreError {
	return &CoreError{Kind: KindNoFilesFound, Message: fmt.Sprintf("no suitable video files found in %s", dir)}
}

// NewCancelledError creates an error for cancelled operations.
func NewCancelledError(underlying error) *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "operation was cancelled", Underlying: underlying}
}

// IsKind checks if the error has the specified kind.
func IsKind(err error, kind ErrorKind) bool {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind == kind
	}
	return false
}

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled)
}

// IsNoFilesFound checks if the error is a no-files-found error.
func IsNoFilesFound(err error) bool {
	return IsKind(err, KindNoFilesFound)
}

// WrapExecError wraps an exec.ExitError into a CoreError.
func WrapExecError(cmd string, err error, stderr string) *CoreError {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return NewCommandFailedError(cmd, exitErr.ExitCode(), stderr)
	}
	return NewCommandStartError(cmd, err)
}
