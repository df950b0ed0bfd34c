package files

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/digimatspa/sertit-utils/internal/constants"
)

// DefaultHashLength is the default length parameter for HashContent.
// The resulting hex digest is twice this many characters.
const DefaultHashLength = 5

// Copy copies a file or a directory tree. When dst is an existing
// directory, src is copied inside it under its own base name.
// It returns the path of the created copy.
func Copy(src, dst string) (string, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("failed to stat '%s': %w", src, err)
	}

	if dstInfo, statErr := os.Stat(dst); statErr == nil && dstInfo.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	if srcInfo.IsDir() {
		if err = os.CopyFS(dst, os.DirFS(src)); err != nil {
			return "", fmt.Errorf("failed to copy directory '%s': %w", src, err)
		}

		return dst, nil
	}

	if err = copyFile(src, dst, srcInfo.Mode()); err != nil {
		return "", err
	}

	return dst, nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("failed to open '%s': %w", src, err)
	}

	defer in.Close() //nolint:errcheck // Read-only handle.

	out, err := os.OpenFile(filepath.Clean(dst), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm())
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", dst, err)
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return fmt.Errorf("failed to copy '%s' to '%s': %w", src, dst, err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("failed to close '%s': %w", dst, err)
	}

	return nil
}

// Remove deletes a file or a directory tree.
// A non-existing path is not an error. The returned error is informative:
// callers running cleanup may log it at debug level and move on.
func Remove(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("failed to stat '%s': %w", path, err)
	}

	if stat.IsDir() {
		if err = os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove directory '%s': %w", path, err)
		}

		return nil
	}

	if err = os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove file '%s': %w", path, err)
	}

	return nil
}

// RemoveByPattern removes all entries of a directory matching a glob
// pattern and an optional extension (with or without the leading point).
func RemoveByPattern(directory, pattern, extension string) error {
	if pattern == "" {
		pattern = "*"
	}

	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	matches, err := filepath.Glob(filepath.Join(directory, pattern+extension))
	if err != nil {
		return fmt.Errorf("invalid pattern '%s': %w", pattern+extension, err)
	}

	var removeErrs []error
	for _, match := range matches {
		removeErrs = append(removeErrs, Remove(match))
	}

	return errors.Join(removeErrs...)
}

// HashContent hashes file content into a short unique string using
// SHAKE-256. The digest is 2*length hex characters long.
func HashContent(content string, length int) string {
	if length <= 0 {
		length = DefaultHashLength
	}

	digest := make([]byte, length)
	sha3.ShakeSum256(digest, []byte(content))

	return hex.EncodeToString(digest)
}

// ReadUniqueLines reads a text file and returns its unique non-empty
// lines, trimmed, in first-seen order.
func ReadUniqueLines(path string) ([]string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", path, err)
	}

	defer file.Close() //nolint:errcheck // Error on close is not critical here.

	var (
		uniqueLines = make(map[string]struct{})
		lines       []string
		scanner     = bufio.NewScanner(file)
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if _, exists := uniqueLines[line]; !exists {
			uniqueLines[line] = struct{}{}

			lines = append(lines, line)
		}
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", path, err)
	}

	return lines, nil
}

// WriteFile writes data to a file with the module's default permissions,
// creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DefaultFolderPermissions); err != nil {
		return fmt.Errorf("failed to create parent of '%s': %w", path, err)
	}

	if err := os.WriteFile(path, data, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}

	return nil
}
