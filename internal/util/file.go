package util

import (
	"os"
	"path/filepath"
	"strings"
)

// VideoExtensions is the list of extensions picked up when a directory is
// expanded into video files.
var VideoExtensions = map[string]bool{
	".mkv":  true,
	".wmv":  true,
	".ts":   true,
	".avi":  true,
	".mp4":  true,
	".m4v":  true,
	".mpg":  true,
	".mpeg": true,
	".mov":  true,
	".qt":   true,
	".webm": true,
	".flv":  true,
	".m2ts": true,
	".ogv":  true,
	".vob":  true,
	".3gp":  true,
	".3g2":  true,
	".mj2":  true,
	".asf":  true,
}

// IsVideoFile checks if the given path is a regular file with a video extension.
func IsVideoFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	return VideoExtensions[ext]
}

// Extension returns the lower-cased extension of path without the period.
func Extension(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// DirectoryExists checks if a directory exists.
func DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
