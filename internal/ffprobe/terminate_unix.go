//go:build unix

package ffprobe

import (
	"os"

	"golang.org/x/sys/unix"
)

// terminate asks ffprobe to exit with SIGTERM.
func terminate(p *os.Process) error {
	return p.Signal(unix.SIGTERM)
}
