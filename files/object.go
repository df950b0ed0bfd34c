package files

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/digimatspa/sertit-utils/internal/constants"
)

// SaveObject persists an arbitrary value to a binary file using gob
// encoding. The format is opaque and not guaranteed across versions;
// use SaveJSON for documents that must stay readable.
func SaveObject(value any, outputPath string) error {
	file, err := os.OpenFile(filepath.Clean(outputPath),
		os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", outputPath, err)
	}

	if err = gob.NewEncoder(file).Encode(value); err != nil {
		_ = file.Close()

		return fmt.Errorf("failed to encode object into '%s': %w", outputPath, err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close '%s': %w", outputPath, err)
	}

	return nil
}

// LoadObject reads a value persisted by SaveObject into out,
// which must be a non-nil pointer.
func LoadObject(objectPath string, out any) error {
	file, err := os.Open(filepath.Clean(objectPath))
	if err != nil {
		return fmt.Errorf("failed to open '%s': %w", objectPath, err)
	}

	defer file.Close() //nolint:errcheck // Read-only handle.

	if err = gob.NewDecoder(file).Decode(out); err != nil {
		return fmt.Errorf("failed to decode object from '%s': %w", objectPath, err)
	}

	return nil
}
