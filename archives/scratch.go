package archives

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/digimatspa/sertit-utils/files"
	"github.com/digimatspa/sertit-utils/internal/constants"
	"github.com/digimatspa/sertit-utils/logs"
)

// newScratchDir creates a private scratch directory for the current call.
// The returned cleanup is best-effort: removal failures are logged at
// debug level and swallowed, the operation itself is never rolled back.
func (s *ServiceImpl) newScratchDir() (string, func(context.Context), error) {
	dir := filepath.Join(s.scratchRoot, "sertit-"+uuid.NewString())

	if err := os.MkdirAll(dir, constants.DefaultFolderPermissions); err != nil {
		return "", nil, fmt.Errorf("failed to create scratch directory '%s': %w", dir, err)
	}

	cleanup := func(ctx context.Context) {
		if err := files.Remove(dir); err != nil {
			logs.Debugf(ctx, "Failed to clean scratch directory: %v", err)
		}
	}

	return dir, cleanup, nil
}
