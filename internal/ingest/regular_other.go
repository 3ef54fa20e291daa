//go:build !linux && !darwin && !freebsd

package ingest

import (
	"fmt"
	"os"
)

// checkRegularFile falls back to os.Stat's portable mode bits on platforms
// without golang.org/x/sys/unix (e.g. Windows).
func checkRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file (mode %s)", info.Mode())
	}
	return nil
}
