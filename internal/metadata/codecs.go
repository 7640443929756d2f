package metadata

import (
	"fmt"
	"strings"
	"sync"

	"github.com/five82/storyboard/internal/ffprobe"
)

// CodecNamer renders the display label of a stream whose codec_name matched
// a table entry.
type CodecNamer func(raw ffprobe.Stream) string

const unknownCodec = "unknown codec"

// codecTable maps ffprobe codec_name values to display labels.
type codecTable struct {
	mu    sync.RWMutex
	names map[string]CodecNamer
}

func newCodecTable(entries map[string]CodecNamer) *codecTable {
	return &codecTable{names: entries}
}

func (t *codecTable) register(codecName string, namer CodecNamer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.names[codecName] = namer
}

// label resolves the codec label of raw. Codecs without an entry use the
// long name verbatim, or the upper-cased codec_name when that is missing too.
func (t *codecTable) label(raw ffprobe.Stream) string {
	if raw.CodecName == nil {
		return unknownCodec
	}

	t.mu.RLock()
	namer, ok := t.names[*raw.CodecName]
	t.mu.RUnlock()
	if ok {
		return namer(raw)
	}

	if raw.CodecLongName != nil && *raw.CodecLongName != "" {
		return *raw.CodecLongName
	}
	return strings.ToUpper(*raw.CodecName)
}

func fixed(label string) CodecNamer {
	return func(ffprobe.Stream) string { return label }
}

var videoCodecs = newCodecTable(map[string]CodecNamer{
	"h264": func(raw ffprobe.Stream) string {
		if raw.Profile != nil && raw.Level != nil {
			return fmt.Sprintf("H.264 (%s Profile level %.1f)", *raw.Profile, float64(*raw.Level)/10)
		}
		return "H.264"
	},
	"mpeg2video": func(raw ffprobe.Stream) string {
		if raw.Profile != nil {
			return fmt.Sprintf("MPEG-2 video (%s Profile)", *raw.Profile)
		}
		return "MPEG-2 video"
	},
	"mpeg4": func(raw ffprobe.Stream) string {
		if raw.Profile != nil {
			return fmt.Sprintf("MPEG-4 Part 2 (%s)", *raw.Profile)
		}
		return "MPEG-4 Part 2"
	},
	"mjpeg":  fixed("MJPEG"),
	"theora": fixed("Theora"),
})

var audioCodecs = newCodecTable(map[string]CodecNamer{
	"aac": func(raw ffprobe.Stream) string {
		if raw.Profile == nil {
			return "AAC"
		}
		profile := *raw.Profile
		if profile == "LC" {
			profile = "Low Complexity"
		}
		return fmt.Sprintf("AAC (%s)", profile)
	},
	"ac3":    fixed("Dolby AC-3"),
	"mp3":    fixed("MP3"),
	"vorbis": fixed("Vorbis"),
})

var subtitleCodecs = newCodecTable(map[string]CodecNamer{
	"srt":    fixed("SubRip"),
	"ass":    fixed("ASS"),
	"cc_dec": fixed("closed caption (EIA-608 / CEA-708)"),
})

// eia608Tag is the codec_tag_string ffprobe reports for embedded CEA-608
// captions it has no decoder name for.
const eia608Tag = "c608"

func subtitleCodecLabel(raw ffprobe.Stream) string {
	if raw.CodecName == nil && raw.CodecTagString != nil && *raw.CodecTagString == eia608Tag {
		return "EIA-608"
	}
	return subtitleCodecs.label(raw)
}

// RegisterVideoCodec adds or replaces the label for a video codec_name.
func RegisterVideoCodec(codecName string, namer CodecNamer) {
	videoCodecs.register(codecName, namer)
}

// RegisterAudioCodec adds or replaces the label for an audio codec_name.
func RegisterAudioCodec(codecName string, namer CodecNamer) {
	audioCodecs.register(codecName, namer)
}

// RegisterSubtitleCodec adds or replaces the label for a subtitle codec_name.
func RegisterSubtitleCodec(codecName string, namer CodecNamer) {
	subtitleCodecs.register(codecName, namer)
}
