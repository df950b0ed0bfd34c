package app

import (
	"context"
	"path/filepath"

	"github.com/digimatspa/sertit-utils/internal/config"
	"github.com/digimatspa/sertit-utils/logs"
	"github.com/digimatspa/sertit-utils/paths"
)

// ExecuteCreateCommand packs each folder into an archive named after the
// folder, placed in the output directory.
func ExecuteCreateCommand(ctx context.Context, cfg *config.Config, folderPaths []string) {
	ctx, service, teardown := setup(ctx, cfg)
	defer teardown()

	outputDir := ensureOutputDir(ctx, cfg)

	for _, folderPath := range folderPaths {
		archivePath := filepath.Join(outputDir, paths.Filename(folderPath))

		created, err := service.Create(ctx, folderPath, archivePath, cfg.ParsedArchiveFormat)
		if err != nil {
			logs.Fatalf(ctx, "Failed to archive '%s': %v", folderPath, err)
		}

		logs.Infof(ctx, "Created: %s", created)
	}
}
