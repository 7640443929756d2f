//go:build unix

package ffprobe

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/five82/storyboard/internal/errors"
)

// writeFakeFFprobe writes an executable shell script standing in for ffprobe.
func writeFakeFFprobe(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffprobe")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	return path
}

func TestRunnerProbeFormatAndStreams(t *testing.T) {
	fixture, err := filepath.Abs(filepath.Join("testdata", "webm_vp8_vorbis.json"))
	require.NoError(t, err)
	bin := writeFakeFFprobe(t, "cat '"+fixture+"'\n")

	result, err := NewRunner(bin).ProbeFormatAndStreams(context.Background(), "/videos/FSF_30_240p.webm")
	require.NoError(t, err)
	assert.Equal(t, "matroska,webm", result.Format.FormatName)
	assert.Len(t, result.Streams, 2)
}

func TestRunnerProbeFormatAndStreamsPassesArgs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "args")
	bin := writeFakeFFprobe(t, "echo \"$@\" > '"+out+"'\necho '{\"format\":{},\"streams\":[]}'\n")

	_, err := NewRunner(bin, "-probesize", "50M").ProbeFormatAndStreams(context.Background(), "/v.mkv")
	require.NoError(t, err)

	args, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "-probesize 50M -print_format json -show_format -show_streams -hide_banner /v.mkv", strings.TrimSpace(string(args)))
}

func TestRunnerProbeFormatAndStreamsNonZeroExit(t *testing.T) {
	bin := writeFakeFFprobe(t, "echo 'Invalid data found when processing input' >&2\nexit 1\n")

	_, err := NewRunner(bin).ProbeFormatAndStreams(context.Background(), "/bad.bin")
	require.Error(t, err)
	assert.ErrorIs(t, err, coreerrors.ErrProbe)
	assert.Contains(t, err.Error(), "Invalid data found")

	var cmdErr *coreerrors.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, cmdErr.ExitCode)
}

func TestRunnerProbeFormatAndStreamsGarbageOutput(t *testing.T) {
	bin := writeFakeFFprobe(t, "echo 'not json'\n")

	_, err := NewRunner(bin).ProbeFormatAndStreams(context.Background(), "/v.mkv")
	assert.ErrorIs(t, err, coreerrors.ErrProbe)
}

func TestRunnerProbeFramesEarlyClose(t *testing.T) {
	// Emits frames forever; Close must stop it.
	bin := writeFakeFFprobe(t, `echo '{'
echo '    "frames": ['
while true; do
  echo '        {"media_type": "video", "interlaced_frame": 0},'
done
`)

	stream, err := NewRunner(bin).ProbeFrames(context.Background(), "/v.mkv")
	require.NoError(t, err)

	buf := make([]byte, 256)
	_, err = io.ReadFull(stream, buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf), "frames")

	done := make(chan struct{})
	go func() {
		_ = stream.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Close did not terminate ffprobe")
	}

	assert.NoError(t, stream.Close(), "second Close is a no-op")
}

func TestRunnerProbeFramesNaturalExit(t *testing.T) {
	bin := writeFakeFFprobe(t, "echo '{ \"frames\": [] }'\n")

	stream, err := NewRunner(bin).ProbeFrames(context.Background(), "/v.mkv")
	require.NoError(t, err)
	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Contains(t, string(data), "frames")
	assert.NoError(t, stream.Close())
}

func TestRunnerLocate(t *testing.T) {
	bin := writeFakeFFprobe(t, "exit 0\n")
	p, err := NewRunner(bin).Locate()
	require.NoError(t, err)
	assert.Equal(t, bin, p)

	_, err = NewRunner("definitely-not-a-real-ffprobe-binary").Locate()
	assert.True(t, coreerrors.IsKind(err, coreerrors.KindConfig))
}
