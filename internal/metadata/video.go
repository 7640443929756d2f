package metadata

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	coreerrors "github.com/five82/storyboard/internal/errors"
	"github.com/five82/storyboard/internal/ffprobe"
	"github.com/five82/storyboard/internal/logging"
	"github.com/five82/storyboard/internal/reporter"
)

// DefaultChunkSize is the read size used when hashing files.
const DefaultChunkSize = 64 * 1024

// Prober probes media files. *ffprobe.Runner implements it.
type Prober interface {
	ProbeFormatAndStreams(ctx context.Context, path string) (*ffprobe.Result, error)
	// ProbeFrames returns the live JSON output of a video frame probe.
	// Closing it before EOF stops the probe.
	ProbeFrames(ctx context.Context, path string) (io.ReadCloser, error)
}

// Opener opens a file for reading.
type Opener func(path string) (io.ReadCloser, error)

func openFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Video is the metadata of one probed file. It is fully populated by New;
// only the SHA-1 digest is filled in later, on first request.
type Video struct {
	Path     string
	Filename string
	Container

	// Mirrors of the first video stream that supplies each value.
	Dimension *Dimension
	DAR       *AspectRatio
	FrameRate *FrameRate

	ScanType ScanType
	Streams  []Stream

	reporter  reporter.Reporter
	opener    Opener
	chunkSize int

	mu      sync.Mutex
	sha1sum string
}

// Option configures a Video.
type Option func(*Video)

// WithReporter sets the progress reporter.
func WithReporter(r reporter.Reporter) Option {
	return func(v *Video) {
		if r != nil {
			v.reporter = r
		}
	}
}

// WithOpener replaces the function used to open the file for hashing.
func WithOpener(o Opener) Option {
	return func(v *Video) {
		if o != nil {
			v.opener = o
		}
	}
}

// WithChunkSize sets the read size used when hashing.
func WithChunkSize(n int) Option {
	return func(v *Video) {
		if n > 0 {
			v.chunkSize = n
		}
	}
}

// New probes the file at path and builds its metadata. The scan type is
// only probed when the file has a video stream.
func New(ctx context.Context, path string, prober Prober, opts ...Option) (*Video, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, coreerrors.NewIOError("failed to resolve path", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, coreerrors.NewFileNotFoundError(path)
		}
		return nil, coreerrors.NewIOError("failed to stat "+path, err)
	}

	v := &Video{
		Path:      absPath,
		Filename:  filepath.Base(absPath),
		reporter:  reporter.NullReporter{},
		opener:    openFile,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.reporter.StageProgress(reporter.StageProgress{
		Stage:   reporter.StageMetadata,
		Message: "Crunching metadata...",
	})
	result, err := prober.ProbeFormatAndStreams(ctx, absPath)
	if err != nil {
		return nil, err
	}

	if v.Container, err = ExtractContainer(result.Format, absPath); err != nil {
		return nil, err
	}

	hasVideo := false
	v.Streams = make([]Stream, 0, len(result.Streams))
	for _, raw := range result.Streams {
		s, err := ClassifyStream(raw)
		if err != nil {
			return nil, err
		}
		if d := s.Video(); d != nil {
			hasVideo = true
			v.adopt(d)
		}
		v.Streams = append(v.Streams, s)
	}

	if hasVideo {
		if v.ScanType, err = v.detectScanType(ctx, prober); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// adopt fills each container-level mirror that is still unset from d.
func (v *Video) adopt(d *VideoDetails) {
	if v.Dimension == nil {
		dim := d.Dimension
		v.Dimension = &dim
	}
	if v.DAR == nil && d.DAR != nil {
		dar := *d.DAR
		v.DAR = &dar
	}
	if v.FrameRate == nil && d.FrameRate != nil {
		fr := *d.FrameRate
		v.FrameRate = &fr
	}
}

// detectScanType runs the frame probe. Probe failures leave the scan type
// undetermined; only cancellation is an error.
func (v *Video) detectScanType(ctx context.Context, prober Prober) (ScanType, error) {
	v.reporter.StageProgress(reporter.StageProgress{
		Stage:   reporter.StageScanType,
		Message: "Trying to determine scan type...",
	})

	frames, err := prober.ProbeFrames(ctx, v.Path)
	if err != nil {
		if ctx.Err() != nil {
			return ScanUndetermined, coreerrors.NewCancelledError(ctx.Err())
		}
		logging.Warn("frame probe failed", "path", v.Path, "error", err)
		v.reporter.Warning("could not determine scan type: " + err.Error())
		return ScanUndetermined, nil
	}
	defer func() { _ = frames.Close() }()

	scan := DetectScanType(frames, v.reporter.FrameInspected)
	if ctx.Err() != nil {
		return ScanUndetermined, coreerrors.NewCancelledError(ctx.Err())
	}
	return scan, nil
}

// HasVideo reports whether any stream is a video stream.
func (v *Video) HasVideo() bool {
	for i := range v.Streams {
		if v.Streams[i].Type == StreamVideo {
			return true
		}
	}
	return false
}
