// Package discovery expands command line arguments into video files.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	coreerrors "github.com/five82/storyboard/internal/errors"
	"github.com/five82/storyboard/internal/logging"
	"github.com/five82/storyboard/internal/util"
)

// FindVideoFiles finds video files in the given directory.
// Returns files sorted alphabetically by filename.
func FindVideoFiles(inputDir string) ([]string, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, coreerrors.NewFileNotFoundError(inputDir)
		}
		return nil, coreerrors.NewIOError("cannot stat "+inputDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", inputDir)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, coreerrors.NewIOError("cannot read directory "+inputDir, err)
	}

	var files []string
	skipped := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		// Skip hidden files
		if strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := filepath.Join(inputDir, name)
		if util.IsVideoFile(fullPath) {
			files = append(files, fullPath)
		} else {
			skipped++
		}
	}

	if len(files) == 0 {
		return nil, coreerrors.NewNoFilesFoundError(inputDir)
	}

	sortByName(files)
	logging.Debug("discovered video files", "dir", inputDir, "count", len(files), "skipped", skipped)
	return files, nil
}

func sortByName(files []string) {
	sort.SliceStable(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})
}

// ExpandArgs resolves each argument to files: directories expand to the
// video files they contain, anything else is passed through unchanged so
// that missing paths are reported when they are inspected. Directory errors
// are collected and do not stop expansion of the other arguments.
func ExpandArgs(args []string) ([]string, []error) {
	var (
		files []string
		errs  []error
	)
	for _, arg := range args {
		if !util.DirectoryExists(arg) {
			files = append(files, arg)
			continue
		}

		found, err := FindVideoFiles(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, found...)
	}
	return files, errs
}
