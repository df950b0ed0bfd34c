package archives

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/digimatspa/sertit-utils/files"
	"github.com/digimatspa/sertit-utils/internal/constants"
	"github.com/digimatspa/sertit-utils/internal/sysinfo"
	"github.com/digimatspa/sertit-utils/logs"
	"github.com/digimatspa/sertit-utils/paths"
)

type archiveKind uint8

const (
	kindZip archiveKind = iota + 1
	kindTar
	kindTarGz
)

// kindOf derives the archive kind from the path suffix.
func kindOf(archivePath string) (archiveKind, error) {
	switch {
	case strings.HasSuffix(archivePath, constants.SuffixZip):
		return kindZip, nil
	case strings.HasSuffix(archivePath, constants.SuffixTarGz):
		return kindTarGz, nil
	case strings.HasSuffix(archivePath, constants.SuffixTar):
		return kindTar, nil
	default:
		return 0, fmt.Errorf("%w: only .zip, .tar and .tar.gz files can be extracted, not '%s'",
			ErrUnsupportedFormat, archivePath)
	}
}

// Extract extracts an archive into an output directory, one extraction
// target per top-level entry, and returns the target directories.
//
// A zip archive produces one target per unique top-level entry. Tar
// archives do not guarantee a directory-tree root, so they get a single
// synthetic target named after the archive's base filename. An already
// existing target is skipped unless overwrite is set. Passing a directory
// instead of an archive returns it unchanged.
func (s *ServiceImpl) Extract(ctx context.Context, archivePath, outputDir string, overwrite bool) ([]string, error) {
	// A folder means the archive was already extracted.
	if s.resolver.IsDir(archivePath) {
		return []string{archivePath}, nil
	}

	if !s.resolver.Exists(archivePath) {
		return nil, fmt.Errorf("%w: non existing '%s'", ErrNotFound, archivePath)
	}

	kind, err := kindOf(archivePath)
	if err != nil {
		return nil, err
	}

	localArchive := archivePath
	if s.resolver.IsRemote(archivePath) {
		scratch, cleanup, scratchErr := s.newScratchDir()
		if scratchErr != nil {
			return nil, scratchErr
		}

		defer cleanup(ctx)

		localArchive, err = s.resolver.DownloadTo(ctx, archivePath, scratch)
		if err != nil {
			return nil, fmt.Errorf("failed to download '%s': %w", archivePath, err)
		}
	}

	targetNames, err := topLevelNames(localArchive, kind)
	if err != nil {
		return nil, err
	}

	targets := make([]string, 0, len(targetNames))

	for _, name := range targetNames {
		target := filepath.Join(outputDir, name)
		targets = append(targets, target)

		if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
			if !overwrite {
				logs.Debugf(ctx, "Already existing extracted '%s'. It won't be overwritten.", name)

				continue
			}

			logs.Debugf(ctx, "Already existing extracted '%s'. It will be overwritten as asked.", name)

			if removeErr := files.Remove(target); removeErr != nil {
				logs.Debugf(ctx, "Failed to remove extraction target: %v", removeErr)
			}
		} else {
			logs.Infof(ctx, "Extracting '%s'", name)
		}

		if err = s.extractTarget(ctx, localArchive, kind, name, outputDir); err != nil {
			return nil, err
		}
	}

	return targets, nil
}

// extractTarget extracts one top-level entry. Inside docker, extracting
// straight onto mounted storage is measured to be prohibitively slow, so
// the work goes through a local scratch directory and the result is
// copied back afterwards.
func (s *ServiceImpl) extractTarget(ctx context.Context, archivePath string, kind archiveKind, name, outputDir string) error {
	if !sysinfo.InDocker() {
		return extractEntry(archivePath, kind, name, outputDir)
	}

	scratch, cleanup, err := s.newScratchDir()
	if err != nil {
		return err
	}

	defer cleanup(ctx)

	stagedArchive, err := files.Copy(archivePath, scratch)
	if err != nil {
		return fmt.Errorf("failed to stage '%s': %w", archivePath, err)
	}

	if err = extractEntry(stagedArchive, kind, name, scratch); err != nil {
		return err
	}

	if _, err = files.Copy(filepath.Join(scratch, name), filepath.Join(outputDir, name)); err != nil {
		return fmt.Errorf("failed to copy extracted '%s' back to '%s': %w", name, outputDir, err)
	}

	return nil
}

// extractEntry extracts the members belonging to one top-level entry
// into destRoot. Zip members keep their own paths under destRoot; tar
// members all land beneath the synthetic entry directory.
func extractEntry(archivePath string, kind archiveKind, name, destRoot string) error {
	if kind == kindZip {
		if err := os.MkdirAll(destRoot, constants.DefaultFolderPermissions); err != nil {
			return fmt.Errorf("failed to create '%s': %w", destRoot, err)
		}

		return extractZipEntry(archivePath, destRoot, name)
	}

	entryDir := filepath.Join(destRoot, name)
	if err := os.MkdirAll(entryDir, constants.DefaultFolderPermissions); err != nil {
		return fmt.Errorf("failed to create '%s': %w", entryDir, err)
	}

	return extractTar(archivePath, entryDir, kind == kindTarGz)
}

// topLevelNames lists the extraction target names of an archive.
func topLevelNames(archivePath string, kind archiveKind) ([]string, error) {
	if kind != kindZip {
		// Tar files have no guaranteed root directory, so use a single
		// synthetic one named after the archive.
		return []string{paths.Filename(archivePath)}, nil
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: impossible to list '%s': %w", ErrCorruptArchive, archivePath, err)
	}

	defer reader.Close() //nolint:errcheck // Read-only handle.

	seen := make(map[string]struct{})

	var names []string

	for _, member := range reader.File {
		segment, _, _ := strings.Cut(member.Name, "/")
		if segment == "" {
			// An absolute member name would escape the output folder.
			return nil, fmt.Errorf("%w: member '%s' in '%s' has an absolute name",
				ErrCorruptArchive, member.Name, archivePath)
		}

		if _, ok := seen[segment]; !ok {
			seen[segment] = struct{}{}

			names = append(names, segment)
		}
	}

	return names, nil
}

// extractZipEntry extracts every member whose top-level segment equals name.
func extractZipEntry(zipPath, destRoot, name string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("%w: impossible to extract '%s': %w", ErrCorruptArchive, zipPath, err)
	}

	defer reader.Close() //nolint:errcheck // Read-only handle.

	for _, member := range reader.File {
		segment, _, _ := strings.Cut(member.Name, "/")
		if segment != name {
			continue
		}

		if err = writeZipMember(member, destRoot); err != nil {
			return err
		}
	}

	return nil
}

func writeZipMember(member *zip.File, destRoot string) error {
	target, err := safeJoin(destRoot, member.Name)
	if err != nil {
		return err
	}

	if member.FileInfo().IsDir() {
		if err = os.MkdirAll(target, constants.DefaultFolderPermissions); err != nil {
			return fmt.Errorf("failed to create '%s': %w", target, err)
		}

		return nil
	}

	if err = os.MkdirAll(filepath.Dir(target), constants.DefaultFolderPermissions); err != nil {
		return fmt.Errorf("failed to create parent of '%s': %w", target, err)
	}

	source, err := member.Open()
	if err != nil {
		return fmt.Errorf("%w: impossible to read member '%s': %w", ErrCorruptArchive, member.Name, err)
	}

	defer source.Close() //nolint:errcheck // Read-only handle.

	if err = writeRegularFile(target, source, member.Mode()); err != nil {
		return err
	}

	return nil
}

// extractTar extracts every member of a tar (optionally gzipped) archive into destDir.
func extractTar(tarPath, destDir string, gzipped bool) error {
	file, err := os.Open(filepath.Clean(tarPath))
	if err != nil {
		return fmt.Errorf("failed to open '%s': %w", tarPath, err)
	}

	defer file.Close() //nolint:errcheck // Read-only handle.

	var source io.Reader = file

	if gzipped {
		gzipReader, gzipErr := gzip.NewReader(file)
		if gzipErr != nil {
			return fmt.Errorf("%w: impossible to extract '%s': %w", ErrCorruptArchive, tarPath, gzipErr)
		}

		defer gzipReader.Close() //nolint:errcheck // Read-only handle.

		source = gzipReader
	}

	tarReader := tar.NewReader(source)

	for {
		header, nextErr := tarReader.Next()
		if errors.Is(nextErr, io.EOF) {
			return nil
		}

		if nextErr != nil {
			return fmt.Errorf("%w: impossible to extract '%s': %w", ErrCorruptArchive, tarPath, nextErr)
		}

		target, joinErr := safeJoin(destDir, header.Name)
		if joinErr != nil {
			return joinErr
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err = os.MkdirAll(target, constants.DefaultFolderPermissions); err != nil {
				return fmt.Errorf("failed to create '%s': %w", target, err)
			}
		case tar.TypeReg:
			if err = os.MkdirAll(filepath.Dir(target), constants.DefaultFolderPermissions); err != nil {
				return fmt.Errorf("failed to create parent of '%s': %w", target, err)
			}

			if err = writeRegularFile(target, tarReader, header.FileInfo().Mode()); err != nil {
				return err
			}
		default:
			// Links and special files are not part of the supported surface.
		}
	}
}

func writeRegularFile(target string, source io.Reader, mode os.FileMode) error {
	perm := mode.Perm()
	if perm == 0 {
		perm = constants.DefaultFilePermissions
	}

	out, err := os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", target, err)
	}

	if _, err = io.Copy(out, source); err != nil {
		_ = out.Close()

		return fmt.Errorf("%w: impossible to extract member to '%s': %w", ErrCorruptArchive, target, err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("failed to close '%s': %w", target, err)
	}

	return nil
}

// safeJoin joins a member name below root, rejecting traversal outside it.
func safeJoin(root, memberName string) (string, error) {
	cleaned := filepath.Join(root, filepath.FromSlash(memberName))
	if cleaned != root && !strings.HasPrefix(cleaned, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: member '%s' escapes the extraction directory", ErrCorruptArchive, memberName)
	}

	return cleaned, nil
}

// ExtractAll extracts several archives sequentially, reporting progress
// per item. Results, including targets skipped because they were already
// extracted, come back in input order. The first failure aborts the
// remaining batch.
func (s *ServiceImpl) ExtractAll(ctx context.Context, archivePaths []string, outputDir string, overwrite bool) ([]string, error) {
	logs.Infof(ctx, "Extracting products in '%s'", outputDir)

	bar := progressbar.Default(int64(len(archivePaths)), "Extracting")

	var results []string

	for _, archivePath := range archivePaths {
		bar.Describe(fmt.Sprintf("Extracting product %s", filepath.Base(archivePath)))

		extracted, err := s.Extract(ctx, archivePath, outputDir, overwrite)
		if err != nil {
			return nil, err
		}

		results = append(results, extracted...)

		_ = bar.Add(1)
	}

	return results, nil
}
