package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/digimatspa/sertit-utils/internal/constants"
)

// ErrFileNotFound indicates that a path expected to be an existing file is missing.
var ErrFileNotFound = errors.New("file not found")

// compoundSuffixes are double extensions treated as a single extension
// by Filename and Ext.
//
//nolint:gochecknoglobals // Immutable lookup table.
var compoundSuffixes = []string{
	constants.SuffixTarGz,
	constants.SuffixTarBz2,
	constants.SuffixTarXz,
}

// Filename returns the file name without its extension.
// Compound archive extensions are stripped whole, so
// "bundle.tar.gz" yields "bundle", not "bundle.tar".
func Filename(path string) string {
	base := filepath.Base(path)

	for _, suffix := range compoundSuffixes {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ext returns the file extension without the leading dot.
// Compound archive extensions are returned whole, e.g. "tar.gz".
func Ext(path string) string {
	base := filepath.Base(path)

	for _, suffix := range compoundSuffixes {
		if strings.HasSuffix(base, suffix) {
			return suffix[1:]
		}
	}

	return strings.TrimPrefix(filepath.Ext(base), ".")
}

// ListDirAbs returns the absolute path of every entry in the given directory.
func ListDirAbs(directory string) ([]string, error) {
	absDir, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve '%s': %w", directory, err)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list '%s': %w", absDir, err)
	}

	result := make([]string, 0, len(entries))
	for _, entry := range entries {
		result = append(result, filepath.Join(absDir, entry.Name()))
	}

	return result, nil
}

// ToAbs returns the absolute form of the given path and checks that it exists.
// A path with an extension is treated as a file and must already exist.
// A path without an extension is treated as a folder and is created when
// create is true.
func ToAbs(path string, create bool) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve '%s': %w", path, err)
	}

	if _, statErr := os.Stat(absPath); statErr == nil {
		return absPath, nil
	}

	if filepath.Ext(absPath) != "" {
		return "", fmt.Errorf("%w: '%s'", ErrFileNotFound, absPath)
	}

	if create {
		if err = os.MkdirAll(absPath, constants.DefaultFolderPermissions); err != nil {
			return "", fmt.Errorf("failed to create '%s': %w", absPath, err)
		}
	}

	return absPath, nil
}

// RealRelPath returns the path of target relative to the start folder,
// resolving both sides to absolute paths first.
func RealRelPath(target, start string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve '%s': %w", target, err)
	}

	absStart, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve '%s': %w", start, err)
	}

	relative, err := filepath.Rel(absStart, absTarget)
	if err != nil {
		return "", fmt.Errorf("failed to relativize '%s' against '%s': %w", absTarget, absStart, err)
	}

	return relative, nil
}

// FindFiles returns files matching any of the given base names,
// searched recursively under every root path.
// maxCount limits the number of results; set it to -1 for no limit.
func FindFiles(names []string, rootPaths []string, maxCount int) ([]string, error) {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}

	var found []string

	for _, root := range rootPaths {
		err := filepath.WalkDir(root, func(path string, _ os.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			if _, ok := wanted[filepath.Base(path)]; ok {
				found = append(found, path)

				if maxCount > 0 && len(found) >= maxCount {
					return filepath.SkipAll
				}
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk '%s': %w", root, err)
		}

		if maxCount > 0 && len(found) >= maxCount {
			break
		}
	}

	return found, nil
}

// FileInDir returns files inside a directory matching a pattern and an
// optional extension. Unless exactName is set, the pattern is wrapped
// in wildcards, i.e. "*pattern*.ext".
func FileInDir(directory, pattern, extension string, exactName bool) ([]string, error) {
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	globPattern := pattern
	if !exactName {
		globPattern = "*" + pattern + "*"
	}

	if extension != "" {
		globPattern += extension
	}

	matches, err := filepath.Glob(filepath.Join(directory, globPattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern '%s': %w", globPattern, err)
	}

	return matches, nil
}

// IsWritable reports whether the given directory can be written to.
func IsWritable(directory string) bool {
	probe, err := os.CreateTemp(directory, ".writable-*")
	if err != nil {
		return false
	}

	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return true
}
