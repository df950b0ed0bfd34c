package archives

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"

	"github.com/digimatspa/sertit-utils/internal/constants"
	"github.com/digimatspa/sertit-utils/paths"
)

// compileAnchored compiles a member-name regex anchored at the start of
// the name, matching how member lookups are specified: a pattern matches
// a member when it matches from position 0, not anywhere inside the name.
func compileAnchored(pattern string) (*regexp.Regexp, error) {
	compiled, err := regexp.Compile(`\A(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid member pattern '%s': %w", pattern, err)
	}

	return compiled, nil
}

// ListMembers returns all member names contained in a zip, tar or tar.gz archive.
func (s *ServiceImpl) ListMembers(archivePath string) ([]string, error) {
	kind, err := kindOf(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: impossible to list members of '%s'", ErrUnsupportedFormat, archivePath)
	}

	if kind == kindZip {
		return listZipMembers(archivePath)
	}

	return listTarMembers(archivePath, kind == kindTarGz)
}

func listZipMembers(zipPath string) ([]string, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("%w: impossible to list '%s': %w", ErrCorruptArchive, zipPath, err)
	}

	defer reader.Close() //nolint:errcheck // Read-only handle.

	names := make([]string, 0, len(reader.File))
	for _, member := range reader.File {
		names = append(names, member.Name)
	}

	return names, nil
}

func listTarMembers(tarPath string, gzipped bool) ([]string, error) {
	file, err := os.Open(filepath.Clean(tarPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", tarPath, err)
	}

	defer file.Close() //nolint:errcheck // Read-only handle.

	var source io.Reader = file

	if gzipped {
		gzipReader, gzipErr := gzip.NewReader(file)
		if gzipErr != nil {
			return nil, fmt.Errorf("%w: impossible to list '%s': %w", ErrCorruptArchive, tarPath, gzipErr)
		}

		defer gzipReader.Close() //nolint:errcheck // Read-only handle.

		source = gzipReader
	}

	var names []string

	tarReader := tar.NewReader(source)

	for {
		header, nextErr := tarReader.Next()
		if errors.Is(nextErr, io.EOF) {
			return names, nil
		}

		if nextErr != nil {
			return nil, fmt.Errorf("%w: impossible to list '%s': %w", ErrCorruptArchive, tarPath, nextErr)
		}

		names = append(names, header.Name)
	}
}

// FindMemberPath returns member names matching a regex anchored at the
// start of the name, in listing order. Unless all is set, only the first
// match is returned. Member order inside an archive is not guaranteed,
// so with several candidates the single-result form is a defined-but-
// unordered selection.
func (s *ServiceImpl) FindMemberPath(archivePath, pattern string, all bool) ([]string, error) {
	compiled, err := compileAnchored(pattern)
	if err != nil {
		return nil, err
	}

	names, err := s.ListMembers(archivePath)
	if err != nil {
		return nil, err
	}

	var matches []string

	for _, name := range names {
		if !compiled.MatchString(name) {
			continue
		}

		matches = append(matches, name)

		if !all {
			return matches, nil
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: impossible to find pattern '%s' in '%s'",
			ErrNotFound, pattern, paths.Filename(archivePath))
	}

	return matches, nil
}

// ReadMember returns the raw bytes of the first member matching a regex
// anchored at the start of the name. Only zip and plain tar archives are
// supported: tar.gz offers streaming-only access, which makes repeated
// random-access reads too slow, so it must be extracted instead.
//
// Nothing is cached; every call re-opens and re-scans the archive.
func (s *ServiceImpl) ReadMember(archivePath, pattern string) ([]byte, error) {
	compiled, err := compileAnchored(pattern)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(archivePath, constants.SuffixTarGz):
		return nil, fmt.Errorf(
			"%w: .tar.gz files are too slow to read from inside the archive, extract '%s' instead",
			ErrUnsupportedFormat, archivePath)
	case strings.HasSuffix(archivePath, constants.SuffixZip):
		return readZipMember(archivePath, compiled, pattern)
	case strings.HasSuffix(archivePath, constants.SuffixTar):
		return readTarMember(archivePath, compiled, pattern)
	default:
		return nil, fmt.Errorf("%w: only .zip and .tar files can be read from inside the archive, not '%s'",
			ErrUnsupportedFormat, archivePath)
	}
}

func readZipMember(zipPath string, compiled *regexp.Regexp, pattern string) ([]byte, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("%w: impossible to open '%s': %w", ErrCorruptArchive, zipPath, err)
	}

	defer reader.Close() //nolint:errcheck // Read-only handle.

	for _, member := range reader.File {
		if !compiled.MatchString(member.Name) {
			continue
		}

		source, openErr := member.Open()
		if openErr != nil {
			return nil, fmt.Errorf("%w: impossible to read member '%s': %w", ErrCorruptArchive, member.Name, openErr)
		}

		defer source.Close() //nolint:errcheck // Read-only handle.

		content, readErr := io.ReadAll(source)
		if readErr != nil {
			return nil, fmt.Errorf("%w: impossible to read member '%s': %w", ErrCorruptArchive, member.Name, readErr)
		}

		return content, nil
	}

	return nil, fmt.Errorf("%w: impossible to find pattern '%s' in '%s'",
		ErrNotFound, pattern, paths.Filename(zipPath))
}

func readTarMember(tarPath string, compiled *regexp.Regexp, pattern string) ([]byte, error) {
	file, err := os.Open(filepath.Clean(tarPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", tarPath, err)
	}

	defer file.Close() //nolint:errcheck // Read-only handle.

	tarReader := tar.NewReader(file)

	for {
		header, nextErr := tarReader.Next()
		if errors.Is(nextErr, io.EOF) {
			return nil, fmt.Errorf("%w: impossible to find pattern '%s' in '%s'",
				ErrNotFound, pattern, paths.Filename(tarPath))
		}

		if nextErr != nil {
			return nil, fmt.Errorf("%w: impossible to read '%s': %w", ErrCorruptArchive, tarPath, nextErr)
		}

		if header.Typeflag != tar.TypeReg || !compiled.MatchString(header.Name) {
			continue
		}

		content, readErr := io.ReadAll(tarReader)
		if readErr != nil {
			return nil, fmt.Errorf("%w: impossible to read member '%s': %w", ErrCorruptArchive, header.Name, readErr)
		}

		return content, nil
	}
}

// ReadMemberXML parses the first member matching the pattern as an XML document.
func (s *ServiceImpl) ReadMemberXML(archivePath, pattern string) (*etree.Document, error) {
	content, err := s.ReadMember(archivePath, pattern)
	if err != nil {
		return nil, err
	}

	document := etree.NewDocument()
	if err = document.ReadFromBytes(content); err != nil {
		return nil, fmt.Errorf("%w: impossible to parse '%s' as XML: %w", ErrMalformedMarkup, pattern, err)
	}

	if document.Root() == nil {
		return nil, fmt.Errorf("%w: no XML root element behind '%s'", ErrMalformedMarkup, pattern)
	}

	return document, nil
}

// ReadMemberHTML parses the first member matching the pattern as an HTML document.
func (s *ServiceImpl) ReadMemberHTML(archivePath, pattern string) (*html.Node, error) {
	content, err := s.ReadMember(archivePath, pattern)
	if err != nil {
		return nil, err
	}

	document, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: impossible to parse '%s' as HTML: %w", ErrMalformedMarkup, pattern, err)
	}

	return document, nil
}
