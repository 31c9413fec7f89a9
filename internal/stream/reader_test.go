package stream_test

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinling9/stacompare/internal/stream"
)

func TestOpen_PlainFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("line one\nline two\n"), 0o600))

	rc, err := stream.Open(path)
	require.NoError(t, err)

	defer rc.Close()

	scanner := stream.Lines(rc)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	assert.Equal(t, []string{"line one", "line two"}, lines)
}

func TestOpen_GzipFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt.gz")

	var buf bytes.Buffer

	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("Startpoint: A\nEndpoint: B\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	rc, err := stream.Open(path)
	require.NoError(t, err)

	defer rc.Close()

	scanner := stream.Lines(rc)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	assert.Equal(t, []string{"Startpoint: A", "Endpoint: B"}, lines)
}

func TestOpen_NonexistentPath(t *testing.T) {
	t.Parallel()

	_, err := stream.Open(filepath.Join(t.TempDir(), "missing.txt"))

	var ioErr *stream.IOError

	require.ErrorAs(t, err, &ioErr)
}

func TestOpen_CorruptGzip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.gz")
	require.NoError(t, os.WriteFile(path, []byte{0x1F, 0x8B, 0x00, 0x00}, 0o600))

	_, err := stream.Open(path)
	require.Error(t, err)
}
