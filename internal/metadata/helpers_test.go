package metadata

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/five82/storyboard/internal/ffprobe"
)

func loadProbe(t *testing.T, filename string) *ffprobe.Result {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	require.NoError(t, err, "failed to load test data %s", filename)
	result, err := ffprobe.ParseOutput(data)
	require.NoError(t, err)
	return result
}

// touch creates a file named name holding content and returns its path.
func touch(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// framesJSON renders ffprobe -show_frames output for frames whose
// interlaced_frame flags are given.
func framesJSON(flags ...int) string {
	var b strings.Builder
	b.WriteString("{\n    \"frames\": [\n")
	for i, flag := range flags {
		fmt.Fprintf(&b, "        {\n            \"media_type\": \"video\",\n            \"stream_index\": 0,\n            \"interlaced_frame\": %d,\n            \"top_field_first\": 1\n        }", flag)
		if i < len(flags)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("    ]\n}\n")
	return b.String()
}

// sample returns 40 frame flags: twenty leading interlaced frames, then
// interlaced trailing frames.
func sample(interlaced int) []int {
	flags := make([]int, SampleFrames)
	for i := 0; i < skippedFrames; i++ {
		flags[i] = 1
	}
	for i := 0; i < interlaced; i++ {
		flags[skippedFrames+i] = 1
	}
	return flags
}

type trackingReader struct {
	io.Reader
	closed int
}

func (r *trackingReader) Close() error {
	r.closed++
	return nil
}

type fakeProber struct {
	result    *ffprobe.Result
	err       error
	frames    string
	framesErr error

	frameCalls int
	stream     *trackingReader
}

func (p *fakeProber) ProbeFormatAndStreams(context.Context, string) (*ffprobe.Result, error) {
	return p.result, p.err
}

func (p *fakeProber) ProbeFrames(context.Context, string) (io.ReadCloser, error) {
	p.frameCalls++
	if p.framesErr != nil {
		return nil, p.framesErr
	}
	p.stream = &trackingReader{Reader: strings.NewReader(p.frames)}
	return p.stream, nil
}
