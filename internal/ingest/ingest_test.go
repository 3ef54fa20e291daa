package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyprlang-go/hyprlang/pkg/herr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackDetectsCycle(t *testing.T) {
	s := NewStack()
	require.NoError(t, s.Push("/a.conf", herr.Location{}))
	require.NoError(t, s.Push("/b.conf", herr.Location{}))
	err := s.Push("/a.conf", herr.Location{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, herr.KindSentinel(herr.KindSourceCycle)))
}

func TestStackPopAllowsReentry(t *testing.T) {
	s := NewStack()
	require.NoError(t, s.Push("/a.conf", herr.Location{}))
	s.Pop()
	require.NoError(t, s.Push("/a.conf", herr.Location{}))
}

func TestStackDepthLimit(t *testing.T) {
	s := NewStack()
	for i := 0; i < MaxDepth; i++ {
		require.NoError(t, s.Push(filepath.Join("/", string(rune('a'+i%26)), string(rune(i))), herr.Location{}))
	}
	err := s.Push("/one-too-many", herr.Location{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, herr.KindSentinel(herr.KindSourceDepthExceeded)))
}

func TestResolvePathRelative(t *testing.T) {
	assert.Equal(t, filepath.Clean("/etc/hypr/other.conf"), ResolvePath("/etc/hypr", "other.conf"))
}

func TestResolvePathAbsolute(t *testing.T) {
	assert.Equal(t, "/abs/other.conf", ResolvePath("/etc/hypr", "/abs/other.conf"))
}

func TestReadSourceFileRejectsMissing(t *testing.T) {
	_, err := ReadSourceFile("/nonexistent/path/hopefully.conf", herr.Location{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, herr.KindSentinel(herr.KindSourceIO)))
}

func TestReadSourceFileReadsRegularFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "included.conf")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	data, err := ReadSourceFile(path, herr.Location{})
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))
}
