package console

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportWritesCRLFTerminatedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.txt")

	require.NoError(t, Export(path, []string{"first", "second", ""}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\r\nsecond\r\n\r\n", string(data))
}

func TestExportEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")

	require.NoError(t, Export(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestExportGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.txt.gz")

	require.NoError(t, Export(path, []string{"compressed", "lines"}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, "compressed\r\nlines\r\n", string(data))
}

func TestExportFailureLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "console.txt")

	require.Error(t, Export(path, []string{"line"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp or partial files left behind")
}
