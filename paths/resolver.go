package paths

import (
	"context"
	"os"
	"path/filepath"
)

// Resolver abstracts over local and remote-backed paths.
// The archive components only ever touch paths through this interface,
// so a cloud-storage implementation can be plugged in by callers without
// this module depending on any cloud SDK.
type Resolver interface {
	// Exists reports whether the path exists.
	Exists(path string) bool
	// IsDir reports whether the path is an existing directory.
	IsDir(path string) bool
	// IsFile reports whether the path is an existing regular file.
	IsFile(path string) bool
	// Join joins path elements using the backend's separator.
	Join(elements ...string) string
	// Glob returns paths matching the given pattern.
	Glob(pattern string) ([]string, error)
	// IsRemote reports whether the path lives on a remote backend.
	IsRemote(path string) bool
	// DownloadTo materializes the path inside a local directory and
	// returns the resulting local path. For paths that are already
	// local this is a no-op returning the input.
	DownloadTo(ctx context.Context, path, localDir string) (string, error)
}

// Local resolves paths against the local filesystem.
type Local struct{}

// NewLocal returns a Resolver for the local filesystem.
func NewLocal() Resolver { return Local{} }

// Exists reports whether the path exists.
func (Local) Exists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

// IsDir reports whether the path is an existing directory.
func (Local) IsDir(path string) bool {
	stat, err := os.Stat(path)

	return err == nil && stat.IsDir()
}

// IsFile reports whether the path is an existing regular file.
func (Local) IsFile(path string) bool {
	stat, err := os.Stat(path)

	return err == nil && stat.Mode().IsRegular()
}

// Join joins path elements with the OS separator.
func (Local) Join(elements ...string) string {
	return filepath.Join(elements...)
}

// Glob returns paths matching the given pattern.
func (Local) Glob(pattern string) ([]string, error) {
	//nolint:wrapcheck // Glob passthrough, the pattern is already in the error.
	return filepath.Glob(pattern)
}

// IsRemote always reports false for local paths.
func (Local) IsRemote(string) bool { return false }

// DownloadTo returns the path unchanged: local paths need no staging.
func (Local) DownloadTo(_ context.Context, path, _ string) (string, error) {
	return path, nil
}
