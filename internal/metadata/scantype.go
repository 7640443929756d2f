package metadata

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/five82/storyboard/internal/ffprobe"
	"github.com/five82/storyboard/internal/logging"
)

// ScanType is the scan type of a video. The zero value means undetermined.
type ScanType string

const (
	ScanUndetermined ScanType = ""
	ScanProgressive  ScanType = "progressive"
	ScanInterlaced   ScanType = "interlaced"
	ScanTelecined    ScanType = "telecined"
)

// Label returns the report rendering of the scan type.
func (s ScanType) Label() string {
	switch s {
	case ScanProgressive:
		return "Progressive scan"
	case ScanInterlaced:
		return "Interlaced scan"
	case ScanTelecined:
		return "Telecined video"
	default:
		return ""
	}
}

// MarshalJSON renders an undetermined scan type as null.
func (s ScanType) MarshalJSON() ([]byte, error) {
	if s == ScanUndetermined {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

const (
	// SampleFrames is the number of leading video frames inspected.
	SampleFrames = 40
	// skippedFrames leading frames are ignored; they are often junk.
	skippedFrames = 20
	// telecineCount interlaced frames out of twenty is the 3:2 pulldown signature.
	telecineCount = 8
)

// ClassifyFrames decides the scan type from a sample of frames. Fewer than
// SampleFrames frames is undetermined. Only frames after the first twenty
// are counted; any count other than 0, 8 or 20 is treated as interlaced.
func ClassifyFrames(frames []ffprobe.Frame) ScanType {
	if len(frames) < SampleFrames {
		return ScanUndetermined
	}

	interlaced := 0
	for _, f := range frames[skippedFrames:SampleFrames] {
		if f.Interlaced() {
			interlaced++
		}
	}

	switch interlaced {
	case 0:
		return ScanProgressive
	case SampleFrames - skippedFrames:
		return ScanInterlaced
	case telecineCount:
		return ScanTelecined
	default:
		return ScanInterlaced
	}
}

// DetectScanType reads frame objects incrementally from the JSON output of
// `ffprobe -show_frames` and classifies the first SampleFrames of them. It
// stops reading as soon as the sample is complete; the caller closes r,
// which ends the producing process. A stream that ends early or is not
// well formed yields ScanUndetermined. progress, if set, is called after
// each frame.
func DetectScanType(r io.Reader, progress func(count, total int)) ScanType {
	dec := json.NewDecoder(r)

	if !skipToFrames(dec) {
		return ScanUndetermined
	}

	frames := make([]ffprobe.Frame, 0, SampleFrames)
	for len(frames) < SampleFrames && dec.More() {
		var f ffprobe.Frame
		if err := dec.Decode(&f); err != nil {
			logging.Debug("frame stream ended", "frames", len(frames), "error", err)
			return ScanUndetermined
		}
		frames = append(frames, f)
		if progress != nil {
			progress(len(frames), SampleFrames)
		}
	}

	scan := ClassifyFrames(frames)
	logging.Debug("scan type classified", "frames", len(frames), "scan_type", string(scan))
	return scan
}

// skipToFrames consumes the wrapper tokens up to the opening bracket of the
// frame array.
func skipToFrames(dec *json.Decoder) bool {
	for {
		tok, err := dec.Token()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logging.Debug("frame stream header unreadable", "error", err)
			}
			return false
		}
		if delim, ok := tok.(json.Delim); ok && delim == '[' {
			return true
		}
	}
}
