package archives

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// zipEntry is one member to put into a fixture archive.
// A name with a trailing slash produces a directory entry.
type zipEntry struct {
	name    string
	content string
}

func makeZip(t *testing.T, zipPath string, entries []zipEntry) {
	t.Helper()

	file, err := os.Create(zipPath)
	require.NoError(t, err)

	writer := zip.NewWriter(file)

	for _, entry := range entries {
		member, createErr := writer.Create(entry.name)
		require.NoError(t, createErr)

		if !strings.HasSuffix(entry.name, "/") {
			_, writeErr := member.Write([]byte(entry.content))
			require.NoError(t, writeErr)
		}
	}

	require.NoError(t, writer.Close())
	require.NoError(t, file.Close())
}

func makeTar(t *testing.T, tarPath string, gzipped bool, entries []zipEntry) {
	t.Helper()

	file, err := os.Create(tarPath)
	require.NoError(t, err)

	var sink io.WriteCloser = file

	var gzipWriter *gzip.Writer
	if gzipped {
		gzipWriter = gzip.NewWriter(file)
		sink = gzipWriter
	}

	writer := tar.NewWriter(sink)

	for _, entry := range entries {
		if strings.HasSuffix(entry.name, "/") {
			require.NoError(t, writer.WriteHeader(&tar.Header{
				Name:     entry.name,
				Typeflag: tar.TypeDir,
				Mode:     0o755,
			}))

			continue
		}

		require.NoError(t, writer.WriteHeader(&tar.Header{
			Name:     entry.name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(entry.content)),
		}))

		_, writeErr := writer.Write([]byte(entry.content))
		require.NoError(t, writeErr)
	}

	require.NoError(t, writer.Close())

	if gzipWriter != nil {
		require.NoError(t, gzipWriter.Close())
	}

	require.NoError(t, file.Close())
}

func makeFolder(t *testing.T, root string, filesByName map[string]string) {
	t.Helper()

	for name, content := range filesByName {
		target := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
		require.NoError(t, os.WriteFile(target, []byte(content), 0o644))
	}
}

// folderSnapshot returns relative path -> content for every file under root.
func folderSnapshot(t *testing.T, root string) map[string]string {
	t.Helper()

	snapshot := make(map[string]string)

	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, walkErr error) error {
		require.NoError(t, walkErr)

		if entry.IsDir() {
			return nil
		}

		relative, relErr := filepath.Rel(root, path)
		require.NoError(t, relErr)

		content, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		snapshot[filepath.ToSlash(relative)] = string(content)

		return nil
	})
	require.NoError(t, err)

	return snapshot
}
