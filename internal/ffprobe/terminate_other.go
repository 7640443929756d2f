//go:build !unix

package ffprobe

import "os"

func terminate(p *os.Process) error {
	return p.Kill()
}
