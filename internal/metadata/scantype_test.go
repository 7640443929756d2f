package metadata

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/storyboard/internal/ffprobe"
)

func TestDetectScanType(t *testing.T) {
	tests := []struct {
		name  string
		flags []int
		want  ScanType
	}{
		{"progressive", sample(0), ScanProgressive},
		{"interlaced", sample(20), ScanInterlaced},
		{"telecined", sample(8), ScanTelecined},
		{"ambiguous defaults to interlaced", sample(5), ScanInterlaced},
		{"nineteen of twenty", sample(19), ScanInterlaced},
		{"too short", make([]int, 10), ScanUndetermined},
		{"thirty nine frames", make([]int, 39), ScanUndetermined},
		{"no frames", nil, ScanUndetermined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectScanType(strings.NewReader(framesJSON(tt.flags...)), nil))
		})
	}
}

func TestDetectScanType_OnlyFirstFortyCount(t *testing.T) {
	flags := append(sample(0), 1, 1, 1, 1, 1)

	assert.Equal(t, ScanProgressive, DetectScanType(strings.NewReader(framesJSON(flags...)), nil))
}

func TestDetectScanType_StopsReadingAfterSample(t *testing.T) {
	// A producer that never finishes: the detector must return once it has
	// forty frames rather than wait for the end of the array.
	pr, pw := io.Pipe()
	go func() {
		_, _ = io.WriteString(pw, "{\n\"frames\": [\n")
		for i := 0; ; i++ {
			if i > 0 {
				if _, err := io.WriteString(pw, ",\n"); err != nil {
					return
				}
			}
			if _, err := io.WriteString(pw, `{"media_type": "video", "interlaced_frame": 0}`); err != nil {
				return
			}
		}
	}()
	t.Cleanup(func() { _ = pr.Close() })

	var counts []int
	scan := DetectScanType(pr, func(count, total int) {
		assert.Equal(t, SampleFrames, total)
		counts = append(counts, count)
	})

	assert.Equal(t, ScanProgressive, scan)
	require.Len(t, counts, SampleFrames)
	assert.Equal(t, 1, counts[0])
	assert.Equal(t, SampleFrames, counts[len(counts)-1])
}

func TestDetectScanType_ChunkBoundaries(t *testing.T) {
	// Objects split at arbitrary byte boundaries decode the same.
	r := oneByteReader(framesJSON(sample(8)...))
	assert.Equal(t, ScanTelecined, DetectScanType(r, nil))
}

func TestDetectScanType_Malformed(t *testing.T) {
	tests := []string{
		"",
		"not json at all",
		`{"frames": [{"interlaced_frame": 0}, {"interlaced_frame": `,
		`{"frames": [` + strings.Repeat(`{"interlaced_frame": 0},`, 25) + `garbage`,
	}

	for _, input := range tests {
		assert.Equal(t, ScanUndetermined, DetectScanType(strings.NewReader(input), nil))
	}
}

func TestClassifyFrames_MissingFlagCountsAsProgressive(t *testing.T) {
	frames := make([]ffprobe.Frame, SampleFrames)
	assert.Equal(t, ScanProgressive, ClassifyFrames(frames))
}

func TestScanTypeLabelAndJSON(t *testing.T) {
	assert.Equal(t, "Progressive scan", ScanProgressive.Label())
	assert.Equal(t, "Interlaced scan", ScanInterlaced.Label())
	assert.Equal(t, "Telecined video", ScanTelecined.Label())
	assert.Equal(t, "", ScanUndetermined.Label())

	data, err := json.Marshal(ScanUndetermined)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	data, err = json.Marshal(ScanTelecined)
	require.NoError(t, err)
	assert.Equal(t, `"telecined"`, string(data))
}

type byteReader struct {
	data []byte
}

func oneByteReader(s string) io.Reader {
	return &byteReader{data: []byte(s)}
}

func (r *byteReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	p[0] = r.data[0]
	r.data = r.data[1:]
	return 1, nil
}
