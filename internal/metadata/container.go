package metadata

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	coreerrors "github.com/five82/storyboard/internal/errors"
	"github.com/five82/storyboard/internal/ffprobe"
	"github.com/five82/storyboard/internal/util"
)

// Container holds the container-level fields of a probed file.
type Container struct {
	Title        *string
	Format       string
	Size         int64
	SizeText     string
	Duration     float64
	DurationText string
}

// FormatNamer renders a container format name given the file's extension,
// lower-cased and without the leading period.
type FormatNamer func(ext string) string

var (
	containerMu      sync.RWMutex
	containerFormats = map[string]FormatNamer{
		"mpegts": fixedFormat("MPEG transport stream"),
		"mpeg":   fixedFormat("MPEG program stream"),
		"mov,mp4,m4a,3gp,3g2,mj2": func(ext string) string {
			switch ext {
			case "mov", "qt":
				return "QuickTime movie"
			case "3gp":
				return "3GPP"
			case "3g2":
				return "3GPP2"
			case "mj2", "mjp2":
				return "Motion JPEG 2000"
			default:
				return fmt.Sprintf("MPEG-4 Part 14 (%s)", strings.ToUpper(ext))
			}
		},
		"mpegvideo": fixedFormat("MPEG video"),
		"matroska,webm": func(ext string) string {
			if ext == "webm" {
				return "WebM"
			}
			return "Matroska"
		},
		"flv": fixedFormat("Flash video"),
		"ogg": fixedFormat("Ogg"),
		"avi": fixedFormat("Audio Video Interleaved"),
		"asf": fixedFormat("Advanced Systems Format"),
	}
)

func fixedFormat(name string) FormatNamer {
	return func(string) string { return name }
}

// RegisterContainerFormat adds or replaces the namer for an ffprobe
// format_name value.
func RegisterContainerFormat(formatName string, namer FormatNamer) {
	containerMu.Lock()
	defer containerMu.Unlock()
	containerFormats[formatName] = namer
}

// ContainerFormatName resolves the display name of a container. Unknown
// format names fall back to the upper-cased extension.
func ContainerFormatName(formatName, path string) string {
	ext := util.Extension(path)

	containerMu.RLock()
	namer, ok := containerFormats[formatName]
	containerMu.RUnlock()
	if ok {
		return namer(ext)
	}
	return strings.ToUpper(ext)
}

// ExtractContainer normalizes the raw format record of the file at path.
// A record without a parseable size or duration is a metadata error.
func ExtractContainer(raw ffprobe.Format, path string) (Container, error) {
	if raw.Size == nil {
		return Container{}, coreerrors.NewMetadataError("format record lacks size")
	}
	size, err := strconv.ParseInt(strings.TrimSpace(*raw.Size), 10, 64)
	if err != nil || size < 0 {
		return Container{}, coreerrors.NewMetadataError(fmt.Sprintf("invalid size %q", *raw.Size))
	}

	if raw.Duration == nil {
		return Container{}, coreerrors.NewMetadataError("format record lacks duration")
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(*raw.Duration), 64)
	if err != nil || duration < 0 {
		return Container{}, coreerrors.NewMetadataError(fmt.Sprintf("invalid duration %q", *raw.Duration))
	}

	c := Container{
		Format:       ContainerFormatName(raw.FormatName, path),
		Size:         size,
		SizeText:     util.HumanSize(float64(size)),
		Duration:     duration,
		DurationText: util.HumanDuration(duration),
	}
	if title, ok := raw.Tags["title"]; ok {
		c.Title = &title
	}
	return c, nil
}
