// Package metadata turns raw ffprobe records into a normalized video
// metadata model.
package metadata

import (
	"fmt"

	"golang.org/x/text/language"
)

// StreamType is the codec_type of a stream. Types other than the constants
// below are passed through as reported.
type StreamType string

const (
	StreamVideo    StreamType = "video"
	StreamAudio    StreamType = "audio"
	StreamSubtitle StreamType = "subtitle"
	StreamData     StreamType = "data"
	StreamUnknown  StreamType = "unknown"
)

// Dimension is a pixel size.
type Dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (d Dimension) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// AspectRatio is a display aspect ratio and its "W:H" rendering.
type AspectRatio struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

// FrameRate is a frame rate in frames per second and its rendering.
type FrameRate struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

// BitRate is a bit rate in bits per second and its kb/s rendering.
type BitRate struct {
	BitsPerSecond float64 `json:"bits_per_second"`
	Text          string  `json:"text"`
}

// Details holds the fields specific to one stream type. It is one of
// *VideoDetails, *AudioDetails, *SubtitleDetails or *DataDetails.
type Details interface {
	streamDetails()
}

// VideoDetails are the fields of a video stream.
type VideoDetails struct {
	Dimension Dimension
	DAR       *AspectRatio
	FrameRate *FrameRate
}

// AudioDetails are the fields of an audio stream.
type AudioDetails struct {
	Language *string
}

// SubtitleDetails are the fields of a subtitle stream.
type SubtitleDetails struct {
	Language *string
}

// DataDetails marks a stream that is neither video, audio nor subtitle.
type DataDetails struct{}

func (*VideoDetails) streamDetails()    {}
func (*AudioDetails) streamDetails()    {}
func (*SubtitleDetails) streamDetails() {}
func (*DataDetails) streamDetails()     {}

// Stream is one normalized media stream.
type Stream struct {
	Index   int
	Type    StreamType
	Codec   string
	BitRate *BitRate
	Info    string
	Details Details
}

// Video returns the video details, or nil for other stream types.
func (s *Stream) Video() *VideoDetails {
	d, _ := s.Details.(*VideoDetails)
	return d
}

// Language returns the language tag of an audio or subtitle stream.
func (s *Stream) Language() *string {
	switch d := s.Details.(type) {
	case *AudioDetails:
		return d.Language
	case *SubtitleDetails:
		return d.Language
	}
	return nil
}

// LanguageTag parses the stream's language into a BCP 47 tag, so "eng" and
// "en" compare equal. ok is false when there is no language or it is not a
// recognized code.
func (s *Stream) LanguageTag() (tag language.Tag, ok bool) {
	lang := s.Language()
	if lang == nil {
		return language.Und, false
	}
	tag, err := language.Parse(*lang)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
