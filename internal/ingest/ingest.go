// Package ingest resolves `source = <path>` directives: path joining
// relative to a configured base directory, source-inclusion cycle
// detection, and a depth safety net, per spec §4.6/§5. Grounded in the
// teacher's loader package, which performs the analogous "resolve a
// path, guard against surprising filesystem objects before blocking on
// them" step for a hive file rather than a text config file.
package ingest

import (
	"os"
	"path/filepath"

	"github.com/hyprlang-go/hyprlang/pkg/herr"
)

// MaxDepth is the default source-inclusion depth safety net (spec §5:
// "implementations should also enforce a maximum recursion depth (e.g. 64)").
const MaxDepth = 64

// Stack tracks the chain of source files currently being included, so a
// cycle (A includes B includes A) can be detected before the binder
// recurses indefinitely.
type Stack struct {
	paths []string
	seen  map[string]bool
}

// NewStack constructs an empty inclusion stack.
func NewStack() *Stack {
	return &Stack{seen: make(map[string]bool)}
}

// Push records path as now being included. It returns a SourceCycle error
// if path is already on the stack, or SourceDepthExceeded if pushing would
// exceed MaxDepth.
func (s *Stack) Push(path string, loc herr.Location) error {
	if s.seen[path] {
		return herr.New(herr.KindSourceCycle, loc, "source cycle including %q", path)
	}
	if len(s.paths) >= MaxDepth {
		return herr.New(herr.KindSourceDepthExceeded, loc, "source inclusion depth exceeds %d", MaxDepth)
	}
	s.paths = append(s.paths, path)
	s.seen[path] = true
	return nil
}

// Pop removes the most recently pushed path.
func (s *Stack) Pop() {
	if len(s.paths) == 0 {
		return
	}
	last := s.paths[len(s.paths)-1]
	s.paths = s.paths[:len(s.paths)-1]
	delete(s.seen, last)
}

// Depth reports how many files are currently on the inclusion chain.
func (s *Stack) Depth() int { return len(s.paths) }

// ResolvePath joins raw against baseDir unless raw is already absolute,
// then cleans the result.
func ResolvePath(baseDir, raw string) string {
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(baseDir, raw))
}

// ReadSourceFile reads path after a platform regularity check (see
// regular_unix.go / regular_other.go): a source directive pointing at a
// named pipe or device node would otherwise block parsing indefinitely,
// which spec §5's "blocking" I/O model has no way to interrupt.
func ReadSourceFile(path string, loc herr.Location) ([]byte, error) {
	if err := checkRegularFile(path); err != nil {
		return nil, herr.Wrap(herr.KindSourceIO, loc, err, "source %q is not a readable regular file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, herr.Wrap(herr.KindSourceIO, loc, err, "reading source %q", path)
	}
	return data, nil
}
