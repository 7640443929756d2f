package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// labelWidth is the column at which report values start.
const labelWidth = 24

// FormatReport renders the metadata as a fixed-field text report. Fields
// without a value are omitted. With includeChecksum the SHA-1 digest is
// computed if it has not been already.
func (v *Video) FormatReport(ctx context.Context, includeChecksum bool) (string, error) {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%-*s%s\n", labelWidth, label, value)
	}

	if v.Title != nil && *v.Title != "" {
		line("Title:", *v.Title)
	}
	line("Filename:", v.Filename)
	line("File size:", fmt.Sprintf("%d (%s)", v.Size, v.SizeText))
	if includeChecksum {
		sum, err := v.SHA1Sum(ctx)
		if err != nil {
			return "", err
		}
		line("SHA-1 digest:", sum)
	}
	line("Container format:", v.Format)
	line("Duration:", v.DurationText)
	if v.Dimension != nil {
		line("Pixel dimensions:", v.Dimension.String())
	}
	if v.DAR != nil {
		line("Display aspect ratio:", v.DAR.Text)
	}
	if v.ScanType != ScanUndetermined {
		line("Scan type:", v.ScanType.Label())
	}
	if v.FrameRate != nil {
		line("Frame rate:", v.FrameRate.Text)
	}
	b.WriteString("Streams:\n")
	for i := range v.Streams {
		fmt.Fprintf(&b, "    #%d: %s\n", v.Streams[i].Index, v.Streams[i].Info)
	}

	return strings.TrimRightFunc(b.String(), unicode.IsSpace), nil
}

type streamJSON struct {
	Index       int          `json:"index"`
	Type        StreamType   `json:"type"`
	Codec       string       `json:"codec"`
	Info        string       `json:"info"`
	BitRate     *BitRate     `json:"bit_rate,omitempty"`
	Dimension   *Dimension   `json:"dimension,omitempty"`
	DAR         *AspectRatio `json:"display_aspect_ratio,omitempty"`
	FrameRate   *FrameRate   `json:"frame_rate,omitempty"`
	Language    *string      `json:"language,omitempty"`
	LanguageTag string       `json:"language_tag,omitempty"`
}

// MarshalJSON renders the stream with its type-specific fields flattened.
func (s Stream) MarshalJSON() ([]byte, error) {
	out := streamJSON{
		Index:    s.Index,
		Type:     s.Type,
		Codec:    s.Codec,
		Info:     s.Info,
		BitRate:  s.BitRate,
		Language: s.Language(),
	}
	if d := s.Video(); d != nil {
		dim := d.Dimension
		out.Dimension = &dim
		out.DAR = d.DAR
		out.FrameRate = d.FrameRate
	}
	if tag, ok := s.LanguageTag(); ok {
		out.LanguageTag = tag.String()
	}
	return json.Marshal(out)
}

type videoJSON struct {
	Path         string       `json:"path"`
	Filename     string       `json:"filename"`
	Title        *string      `json:"title"`
	Format       string       `json:"format"`
	Size         int64        `json:"size"`
	SizeText     string       `json:"size_text"`
	Duration     float64      `json:"duration"`
	DurationText string       `json:"duration_text"`
	SHA1Sum      *string      `json:"sha1sum"`
	Dimension    *Dimension   `json:"dimension"`
	DAR          *AspectRatio `json:"display_aspect_ratio"`
	FrameRate    *FrameRate   `json:"frame_rate"`
	ScanType     ScanType     `json:"scan_type"`
	Streams      []Stream     `json:"streams"`
}

// MarshalJSON renders the video. The digest is null unless it has been
// computed.
func (v *Video) MarshalJSON() ([]byte, error) {
	v.mu.Lock()
	var sum *string
	if v.sha1sum != "" {
		s := v.sha1sum
		sum = &s
	}
	v.mu.Unlock()

	return json.Marshal(videoJSON{
		Path:         v.Path,
		Filename:     v.Filename,
		Title:        v.Title,
		Format:       v.Format,
		Size:         v.Size,
		SizeText:     v.SizeText,
		Duration:     v.Duration,
		DurationText: v.DurationText,
		SHA1Sum:      sum,
		Dimension:    v.Dimension,
		DAR:          v.DAR,
		FrameRate:    v.FrameRate,
		ScanType:     v.ScanType,
		Streams:      v.Streams,
	})
}
