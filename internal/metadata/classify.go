package metadata

import (
	"fmt"
	"strconv"
	"strings"

	coreerrors "github.com/five82/storyboard/internal/errors"
	"github.com/five82/storyboard/internal/ffprobe"
	"github.com/five82/storyboard/internal/util"
)

// ClassifyStream normalizes one raw stream record. Records lacking an index,
// or video records lacking width or height, are metadata errors.
func ClassifyStream(raw ffprobe.Stream) (Stream, error) {
	if raw.Index == nil {
		return Stream{}, coreerrors.NewMetadataError("stream record lacks index")
	}
	index := *raw.Index

	var (
		s   Stream
		err error
	)
	switch codecType(raw) {
	case StreamVideo:
		s, err = classifyVideo(raw)
	case StreamAudio:
		s = classifyAudio(raw)
	case StreamSubtitle:
		s = classifySubtitle(raw)
	default:
		s = Stream{Type: codecType(raw), Info: "Data", Details: &DataDetails{}}
	}
	if err != nil {
		return Stream{}, fmt.Errorf("stream #%d: %w", index, err)
	}

	s.Index = index
	return s, nil
}

func codecType(raw ffprobe.Stream) StreamType {
	if raw.CodecType == nil || *raw.CodecType == "" {
		return StreamUnknown
	}
	return StreamType(*raw.CodecType)
}

func classifyVideo(raw ffprobe.Stream) (Stream, error) {
	if raw.Width == nil || raw.Height == nil {
		return Stream{}, coreerrors.NewMetadataError("video stream lacks width or height")
	}

	d := &VideoDetails{
		Dimension: Dimension{Width: *raw.Width, Height: *raw.Height},
		DAR:       aspectRatio(raw),
		FrameRate: frameRate(raw),
	}
	s := Stream{
		Type:    StreamVideo,
		Codec:   videoCodecs.label(raw),
		BitRate: bitRate(raw),
		Details: d,
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Video, %s, %s", s.Codec, d.Dimension)
	if d.DAR != nil {
		fmt.Fprintf(&b, " (DAR %s)", d.DAR.Text)
	}
	if d.FrameRate != nil {
		b.WriteString(", " + d.FrameRate.Text)
	}
	if s.BitRate != nil {
		b.WriteString(", " + s.BitRate.Text)
	}
	s.Info = b.String()
	return s, nil
}

func classifyAudio(raw ffprobe.Stream) Stream {
	lang := languageCode(raw.Tags)
	s := Stream{
		Type:    StreamAudio,
		Codec:   audioCodecs.label(raw),
		BitRate: bitRate(raw),
		Details: &AudioDetails{Language: lang},
	}
	s.Info = withLanguage("Audio", lang) + ", " + s.Codec
	if s.BitRate != nil {
		s.Info += ", " + s.BitRate.Text
	}
	return s
}

func classifySubtitle(raw ffprobe.Stream) Stream {
	lang := languageCode(raw.Tags)
	s := Stream{
		Type:    StreamSubtitle,
		Codec:   subtitleCodecLabel(raw),
		Details: &SubtitleDetails{Language: lang},
	}
	s.Info = withLanguage("Subtitle", lang) + ", " + s.Codec
	return s
}

func withLanguage(kind string, lang *string) string {
	if lang == nil {
		return kind
	}
	return fmt.Sprintf("%s (%s)", kind, *lang)
}

// aspectRatio prefers the reported display_aspect_ratio, kept verbatim, and
// otherwise reduces width:height.
func aspectRatio(raw ffprobe.Stream) *AspectRatio {
	if raw.DisplayAspectRatio != nil {
		text := strings.TrimSpace(*raw.DisplayAspectRatio)
		if v, err := util.EvaluateRatio(text); err == nil {
			return &AspectRatio{Value: v, Text: text}
		}
	}

	w, h := util.ReduceRatio(*raw.Width, *raw.Height)
	if w <= 0 || h <= 0 {
		return nil
	}
	return &AspectRatio{Value: float64(w) / float64(h), Text: fmt.Sprintf("%d:%d", w, h)}
}

// frameRate evaluates r_frame_rate, or avg_frame_rate when the former is
// absent. Only the first present key is consulted; a value that does not
// evaluate to a positive rate leaves the frame rate null.
func frameRate(raw ffprobe.Stream) *FrameRate {
	candidate := raw.RFrameRate
	if candidate == nil {
		candidate = raw.AvgFrameRate
	}
	if candidate == nil {
		return nil
	}

	v, err := util.EvaluateRatio(*candidate)
	if err != nil || v <= 0 {
		return nil
	}
	return &FrameRate{Value: v, Text: util.FrameRateText(v)}
}

func bitRate(raw ffprobe.Stream) *BitRate {
	if raw.BitRate == nil {
		return nil
	}
	bps, err := strconv.ParseFloat(strings.TrimSpace(*raw.BitRate), 64)
	if err != nil || bps < 0 {
		return nil
	}
	return &BitRate{BitsPerSecond: bps, Text: util.BitRateText(bps)}
}

// languageCode reads the language tag, trying "language", then "LANGUAGE",
// then any other casing of the key. Empty values count as absent.
func languageCode(tags map[string]string) *string {
	for _, key := range []string{"language", "LANGUAGE"} {
		if v := strings.TrimSpace(tags[key]); v != "" {
			return &v
		}
	}
	for key, v := range tags {
		if strings.EqualFold(key, "language") {
			if v = strings.TrimSpace(v); v != "" {
				return &v
			}
		}
	}
	return nil
}
