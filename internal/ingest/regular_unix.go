//go:build linux || darwin || freebsd

package ingest

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// checkRegularFile rejects FIFOs, sockets, and device nodes via Stat mode
// bits. Stat follows symlinks, so a source directive can still point at a
// symlinked config file.
func checkRegularFile(path string) error {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return err
	}
	if st.Mode&unix.S_IFMT != unix.S_IFREG {
		return fmt.Errorf("not a regular file (mode %#o)", st.Mode&unix.S_IFMT)
	}
	return nil
}
