// Package ffprobe provides functions for extracting media information using ffprobe.
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	coreerrors "github.com/five82/storyboard/internal/errors"
	"github.com/five82/storyboard/internal/logging"
)

// DefaultBin is the ffprobe binary name used when none is configured.
const DefaultBin = "ffprobe"

// Result is the decoded output of `ffprobe -show_format -show_streams`.
type Result struct {
	Format  Format   `json:"format"`
	Streams []Stream `json:"streams"`
}

// Format is the raw per-container record. Optional fields are pointers so
// absence can be told apart from zero values.
type Format struct {
	Filename       string            `json:"filename"`
	FormatName     string            `json:"format_name"`
	FormatLongName string            `json:"format_long_name"`
	Size           *string           `json:"size"`
	Duration       *string           `json:"duration"`
	BitRate        *string           `json:"bit_rate"`
	Tags           map[string]string `json:"tags"`
}

// Stream is the raw per-stream record. Fields vary by codec type.
type Stream struct {
	Index              *int              `json:"index"`
	CodecType          *string           `json:"codec_type"`
	CodecName          *string           `json:"codec_name"`
	CodecLongName      *string           `json:"codec_long_name"`
	CodecTagString     *string           `json:"codec_tag_string"`
	Profile            *string           `json:"profile"`
	Level              *int              `json:"level"`
	Width              *int              `json:"width"`
	Height             *int              `json:"height"`
	DisplayAspectRatio *string           `json:"display_aspect_ratio"`
	RFrameRate         *string           `json:"r_frame_rate"`
	AvgFrameRate       *string           `json:"avg_frame_rate"`
	BitRate            *string           `json:"bit_rate"`
	Tags               map[string]string `json:"tags"`
}

// Frame is one record of `ffprobe -show_frames`. Only the fields needed for
// scan type detection are decoded.
type Frame struct {
	MediaType       string `json:"media_type"`
	InterlacedFrame *int   `json:"interlaced_frame"`
	TopFieldFirst   *int   `json:"top_field_first"`
}

// Interlaced reports whether the frame is flagged as interlaced.
func (f Frame) Interlaced() bool {
	return f.InterlacedFrame != nil && *f.InterlacedFrame != 0
}

// Runner probes files by running an ffprobe binary.
type Runner struct {
	// Bin is the name or path of the ffprobe binary.
	Bin string
	// ExtraArgs are prepended to every invocation, e.g. "-probesize 50M".
	ExtraArgs []string
}

// NewRunner creates a Runner for bin with optional extra arguments.
func NewRunner(bin string, extraArgs ...string) *Runner {
	if bin == "" {
		bin = DefaultBin
	}
	return &Runner{Bin: bin, ExtraArgs: extraArgs}
}

// Locate resolves the configured binary on PATH.
func (r *Runner) Locate() (string, error) {
	p, err := exec.LookPath(r.Bin)
	if err != nil {
		return "", coreerrors.NewConfigError(fmt.Sprintf("%s not found", r.Bin), err)
	}
	return p, nil
}

func (r *Runner) args(tail ...string) []string {
	args := make([]string, 0, len(r.ExtraArgs)+len(tail))
	args = append(args, r.ExtraArgs...)
	return append(args, tail...)
}

// ProbeFormatAndStreams runs ffprobe on path and returns the parsed format
// and stream records.
func (r *Runner) ProbeFormatAndStreams(ctx context.Context, path string) (*Result, error) {
	args := r.args(
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-hide_banner",
		path,
	)

	cmd := exec.CommandContext(ctx, r.Bin, args...)
	logging.Debug("running ffprobe", "cmd", cmd.String())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, coreerrors.NewCancelledError(ctx.Err())
		}
		return nil, coreerrors.NewProbeError(path, coreerrors.WrapExecError(r.Bin, err, strings.TrimSpace(stderr.String())))
	}

	result, err := ParseOutput(stdout.Bytes())
	if err != nil {
		return nil, coreerrors.NewProbeError(path, err)
	}
	return result, nil
}

// ParseOutput decodes ffprobe's -show_format -show_streams JSON output.
func ParseOutput(data []byte) (*Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &result, nil
}

// ProbeFrames starts ffprobe -show_frames on the video streams of path and
// returns its live stdout. Callers must Close the stream; closing before EOF
// terminates ffprobe.
func (r *Runner) ProbeFrames(ctx context.Context, path string) (io.ReadCloser, error) {
	args := r.args(
		"-select_streams", "v",
		"-show_frames",
		"-print_format", "json",
		path,
	)

	cmd := exec.CommandContext(ctx, r.Bin, args...)
	logging.Debug("running ffprobe", "cmd", cmd.String())

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		return nil, coreerrors.NewCommandStartError(r.Bin, err)
	}

	return &frameStream{cmd: cmd, stdout: stdout}, nil
}

// frameStream is the stdout of a running frame probe.
type frameStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser

	once sync.Once
}

func (s *frameStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

// Close stops ffprobe if it is still running and reaps it. The exit status
// is ignored since early termination is the expected path.
func (s *frameStream) Close() error {
	s.once.Do(func() {
		if s.cmd.ProcessState == nil && s.cmd.Process != nil {
			if err := terminate(s.cmd.Process); err != nil {
				logging.Debug("terminating ffprobe", "error", err)
			}
		}
		// Drain so Wait does not block on a full pipe.
		_, _ = io.Copy(io.Discard, s.stdout)
		if err := s.cmd.Wait(); err != nil {
			logging.Debug("ffprobe frame probe exited", "error", err)
		}
	})
	return nil
}
