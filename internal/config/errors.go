// Package config loads and validates storyboard configuration.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidConfig indicates the configuration failed struct validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidFFprobeArgs indicates ffprobe_args could not be split into arguments.
	ErrInvalidFFprobeArgs = errors.New("invalid ffprobe arguments")

	// ErrInvalidChunkSize indicates hash_chunk_size is not a positive byte size.
	ErrInvalidChunkSize = errors.New("invalid hash chunk size")
)
