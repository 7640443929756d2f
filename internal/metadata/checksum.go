package metadata

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"

	coreerrors "github.com/five82/storyboard/internal/errors"
	"github.com/five82/storyboard/internal/logging"
	"github.com/five82/storyboard/internal/reporter"
)

// SHA1Sum returns the hex SHA-1 digest of the file. The file is read on the
// first successful call only; later calls return the cached digest.
func (v *Video) SHA1Sum(ctx context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.sha1sum != "" {
		return v.sha1sum, nil
	}

	v.reporter.StageProgress(reporter.StageProgress{
		Stage:   reporter.StageChecksum,
		Message: "Computing SHA-1 digest...",
	})
	f, err := v.opener(v.Path)
	if err != nil {
		return "", coreerrors.NewIOError("failed to open "+v.Path, err)
	}
	defer func() { _ = f.Close() }()

	v.reporter.ChecksumStarted(v.Size)
	defer v.reporter.ChecksumComplete()

	h := sha1.New()
	buf := make([]byte, v.chunkSize)
	var done int64
	for {
		if err := ctx.Err(); err != nil {
			return "", coreerrors.NewCancelledError(err)
		}
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			done += int64(n)
			v.reporter.ChecksumProgress(done)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", coreerrors.NewIOError("failed to read "+v.Path, err)
		}
	}

	v.sha1sum = hex.EncodeToString(h.Sum(nil))
	logging.Debug("checksum complete", "path", v.Path, "sha1", v.sha1sum, "bytes", done)
	return v.sha1sum, nil
}
