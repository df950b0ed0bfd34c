package archives

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/ulikunitz/xz"

	"github.com/digimatspa/sertit-utils/internal/constants"
	"github.com/digimatspa/sertit-utils/logs"
)

// Create packs a folder recursively into a new archive and returns the
// produced archive path. The folder's own name is the top-level prefix
// inside the archive, so extracting the result reproduces the folder.
// archivePath may be given with or without extension; the format's
// suffix is appended when missing and the actual path is returned.
//
// A folder on a remote backend is first materialized into a scratch
// directory, which is discarded afterwards regardless of the outcome.
func (s *ServiceImpl) Create(ctx context.Context, folderPath, archivePath string, format Format) (string, error) {
	suffix := format.Suffix()
	if suffix == "" {
		return "", fmt.Errorf("%w: unknown archive format %d", ErrUnsupportedFormat, format)
	}

	if s.resolver.IsRemote(folderPath) {
		scratch, cleanup, err := s.newScratchDir()
		if err != nil {
			return "", err
		}

		defer cleanup(ctx)

		localFolder, err := s.resolver.DownloadTo(ctx, folderPath, scratch)
		if err != nil {
			return "", fmt.Errorf("failed to download '%s': %w", folderPath, err)
		}

		folderPath = localFolder
	}

	output := archivePath
	if !strings.HasSuffix(output, suffix) {
		output = strings.TrimSuffix(output, filepath.Ext(output)) + suffix
	}

	logs.Debugf(ctx, "Archiving '%s' into '%s'", folderPath, output)

	var err error
	if format == FormatZip {
		err = createZip(folderPath, output)
	} else {
		err = createTar(folderPath, output, format)
	}

	if err != nil {
		return "", err
	}

	return output, nil
}

func createZip(folderPath, zipPath string) error {
	file, err := os.OpenFile(filepath.Clean(zipPath),
		os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", zipPath, err)
	}

	writer := zip.NewWriter(file)

	if err = addFolderToZip(writer, folderPath); err != nil {
		_ = writer.Close()
		_ = file.Close()

		return err
	}

	if err = writer.Close(); err != nil {
		_ = file.Close()

		return fmt.Errorf("failed to finalize '%s': %w", zipPath, err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close '%s': %w", zipPath, err)
	}

	return nil
}

// addFolderToZip walks a folder and writes every entry into the zip,
// keeping the folder's own name as the top-level prefix.
func addFolderToZip(writer *zip.Writer, folderPath string) error {
	parent := filepath.Dir(folderPath)

	return filepath.WalkDir(folderPath, func(entryPath string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relative, err := filepath.Rel(parent, entryPath)
		if err != nil {
			return fmt.Errorf("failed to relativize '%s': %w", entryPath, err)
		}

		memberName := filepath.ToSlash(relative)

		if entry.IsDir() {
			// Directory entries carry a trailing separator so they show up
			// in the member list of the produced archive.
			if _, err = writer.Create(memberName + "/"); err != nil {
				return fmt.Errorf("failed to add directory '%s': %w", memberName, err)
			}

			return nil
		}

		source, err := os.Open(filepath.Clean(entryPath))
		if err != nil {
			return fmt.Errorf("failed to open '%s': %w", entryPath, err)
		}

		defer source.Close() //nolint:errcheck // Read-only handle.

		destination, err := writer.Create(memberName)
		if err != nil {
			return fmt.Errorf("failed to add member '%s': %w", memberName, err)
		}

		if _, err = io.Copy(destination, source); err != nil {
			return fmt.Errorf("failed to write member '%s': %w", memberName, err)
		}

		return nil
	})
}

//nolint:cyclop // The compression switch and the close chain are sequential, not complex.
func createTar(folderPath, tarPath string, format Format) error {
	file, err := os.OpenFile(filepath.Clean(tarPath),
		os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", tarPath, err)
	}

	var (
		compressor io.WriteCloser
		sink       io.Writer = file
	)

	switch format {
	case FormatTarGz:
		compressor = gzip.NewWriter(file)
	case FormatTarBz2:
		compressor, err = bzip2.NewWriter(file, nil)
	case FormatTarXz:
		compressor, err = xz.NewWriter(file)
	case FormatZip, FormatTar:
		// Plain tar writes straight to the file.
	}

	if err != nil {
		_ = file.Close()

		return fmt.Errorf("failed to initialize compression for '%s': %w", tarPath, err)
	}

	if compressor != nil {
		sink = compressor
	}

	tarWriter := tar.NewWriter(sink)

	if err = addFolderToTar(tarWriter, folderPath); err == nil {
		err = tarWriter.Close()
	} else {
		_ = tarWriter.Close()
	}

	if compressor != nil {
		if closeErr := compressor.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to finalize compression of '%s': %w", tarPath, closeErr)
		}
	}

	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close '%s': %w", tarPath, closeErr)
	}

	return err
}

func addFolderToTar(writer *tar.Writer, folderPath string) error {
	parent := filepath.Dir(folderPath)

	return filepath.WalkDir(folderPath, func(entryPath string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("failed to stat '%s': %w", entryPath, err)
		}

		relative, err := filepath.Rel(parent, entryPath)
		if err != nil {
			return fmt.Errorf("failed to relativize '%s': %w", entryPath, err)
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("failed to build header for '%s': %w", entryPath, err)
		}

		header.Name = filepath.ToSlash(relative)
		if entry.IsDir() {
			header.Name += "/"
		}

		if err = writer.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to add member '%s': %w", header.Name, err)
		}

		if entry.IsDir() {
			return nil
		}

		source, err := os.Open(filepath.Clean(entryPath))
		if err != nil {
			return fmt.Errorf("failed to open '%s': %w", entryPath, err)
		}

		defer source.Close() //nolint:errcheck // Read-only handle.

		if _, err = io.Copy(writer, source); err != nil {
			return fmt.Errorf("failed to write member '%s': %w", header.Name, err)
		}

		return nil
	})
}
