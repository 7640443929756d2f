package reporter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/storyboard/internal/logging"
)

var (
	_ Reporter = NullReporter{}
	_ Reporter = (*TerminalReporter)(nil)
	_ Reporter = (*JSONReporter)(nil)
	_ Reporter = (*LogReporter)(nil)
	_ Reporter = (*CompositeReporter)(nil)
)

func TestJSONReporterEvents(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporterWithWriter(&buf)
	r.now = func() time.Time { return time.Unix(1700000000, 0) }

	r.FileStarted("/v/a.mkv")
	r.FrameInspected(40, 40)
	r.ChecksumProgress(10)
	r.BatchComplete(BatchSummary{SuccessfulCount: 1, TotalFiles: 2, Failed: []string{"b.mkv"}})

	var events []map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var ev map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		events = append(events, ev)
	}

	require.Len(t, events, 3)
	assert.Equal(t, "file_started", events[0]["type"])
	assert.Equal(t, "/v/a.mkv", events[0]["path"])
	assert.Equal(t, float64(1700000000), events[0]["timestamp"])
	assert.Equal(t, "frame_inspected", events[1]["type"])
	assert.Equal(t, float64(40), events[1]["count"])
	assert.Equal(t, "batch_complete", events[2]["type"])
}

func TestTerminalReporterOutput(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	r := NewTerminalReporterWithWriter(&buf)

	r.FileStarted("clip.mkv")
	r.StageProgress(StageProgress{Stage: StageMetadata, Message: "Crunching metadata..."})
	r.Error(ReporterError{Title: "ffprobe failed", Message: "exit 1"})
	r.BatchComplete(BatchSummary{SuccessfulCount: 1, TotalFiles: 2, TotalBytes: 2048, Failed: []string{"b.mkv"}})

	out := buf.String()
	assert.Contains(t, out, "Processing clip.mkv")
	assert.Contains(t, out, "Crunching metadata...")
	assert.Contains(t, out, "error: ffprobe failed")
	assert.Contains(t, out, "1 of 2 succeeded (2.0 KiB inspected)")
	assert.Contains(t, out, "failed: b.mkv")
}

func TestTerminalReporterProgressBarsFinish(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminalReporterWithWriter(&buf)

	for i := 1; i <= 40; i++ {
		r.FrameInspected(i, 40)
	}
	assert.Nil(t, r.frames)

	r.ChecksumStarted(1 << 20)
	r.ChecksumProgress(1 << 19)
	r.ChecksumComplete()
	assert.Nil(t, r.checksum)
}

func TestCompositeReporterFansOut(t *testing.T) {
	var a, b bytes.Buffer
	c := NewCompositeReporter(NewJSONReporterWithWriter(&a), NewJSONReporterWithWriter(&b))
	c.Warning("odd stream")

	assert.Contains(t, a.String(), "odd stream")
	assert.Contains(t, b.String(), "odd stream")
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf, Enabled: true}))

	r.FileStarted("/v/a.mp4")
	r.StageProgress(StageProgress{Stage: StageScanType, Message: "Trying to determine scan type..."})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "path=/v/a.mp4")
	assert.Contains(t, lines[1], `stage="scan type"`)
}
