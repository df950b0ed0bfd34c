package archives

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"

	"github.com/digimatspa/sertit-utils/paths"
)

// Service provides archive extraction, packing and member access.
type Service interface {
	// Extract extracts an archive into an output directory, one extraction
	// target per top-level entry, and returns the target directories.
	Extract(ctx context.Context, archivePath, outputDir string, overwrite bool) ([]string, error)
	// ExtractAll extracts several archives sequentially, reporting progress per item.
	ExtractAll(ctx context.Context, archivePaths []string, outputDir string, overwrite bool) ([]string, error)
	// Create packs a folder into a new archive and returns the produced archive path.
	Create(ctx context.Context, folderPath, archivePath string, format Format) (string, error)
	// AppendToZip adds folders (or archives, extracted first) to an existing zip file.
	AppendToZip(ctx context.Context, zipPath string, inputs []string) (string, error)
	// ListMembers returns all member names contained in an archive.
	ListMembers(archivePath string) ([]string, error)
	// FindMemberPath returns member names matching a regex anchored at the
	// start of the name. Unless all is set, only the first match is returned.
	FindMemberPath(archivePath, pattern string, all bool) ([]string, error)
	// ReadMember returns the raw bytes of the first member matching a regex.
	ReadMember(archivePath, pattern string) ([]byte, error)
	// ReadMemberXML parses the first matching member as an XML document.
	ReadMemberXML(archivePath, pattern string) (*etree.Document, error)
	// ReadMemberHTML parses the first matching member as an HTML document.
	ReadMemberHTML(archivePath, pattern string) (*html.Node, error)
}

// ServiceImpl implements Service on top of a path resolver.
type ServiceImpl struct {
	// resolver abstracts local versus remote-backed paths.
	resolver paths.Resolver
	// scratchRoot is where per-call scratch directories are created.
	scratchRoot string
}

// NewService creates an archive service. scratchDir is the root for
// per-call scratch directories; the system default is used when empty.
func NewService(resolver paths.Resolver, scratchDir string) Service {
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}

	return &ServiceImpl{
		resolver:    resolver,
		scratchRoot: scratchDir,
	}
}

// Format identifies a supported archive container and compression.
type Format uint8

// Supported archive formats.
const (
	FormatZip Format = iota + 1
	FormatTar
	FormatTarGz
	FormatTarBz2
	FormatTarXz
)

// ParseFormat converts a textual format name into a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "zip":
		return FormatZip, nil
	case "tar":
		return FormatTar, nil
	case "tar.gz", "gztar", "tgz":
		return FormatTarGz, nil
	case "tar.bz2", "bztar":
		return FormatTarBz2, nil
	case "tar.xz", "xztar":
		return FormatTarXz, nil
	default:
		return 0, fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, name)
	}
}

// Suffix returns the file suffix of the format, including the leading dot.
func (f Format) Suffix() string {
	switch f {
	case FormatZip:
		return ".zip"
	case FormatTar:
		return ".tar"
	case FormatTarGz:
		return ".tar.gz"
	case FormatTarBz2:
		return ".tar.bz2"
	case FormatTarXz:
		return ".tar.xz"
	default:
		return ""
	}
}

// String returns the textual name of the format.
func (f Format) String() string {
	return strings.TrimPrefix(f.Suffix(), ".")
}

// Single returns the only element of an extraction result.
// It fails when the result does not contain exactly one path, so callers
// never have to inspect the shape of the returned sequence.
func Single(results []string) (string, error) {
	if len(results) != 1 {
		return "", fmt.Errorf("%w: expected a single path, got %d", ErrAmbiguousResult, len(results))
	}

	return results[0], nil
}
