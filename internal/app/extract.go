package app

import (
	"context"

	"github.com/digimatspa/sertit-utils/files"
	"github.com/digimatspa/sertit-utils/internal/config"
	"github.com/digimatspa/sertit-utils/logs"
)

// ExecuteExtractCommand extracts the given archives into the output
// directory. When listFile is set, archive paths listed in it (one per
// line, duplicates ignored) are extracted as well.
func ExecuteExtractCommand(ctx context.Context, cfg *config.Config, archivePaths []string, listFile string) {
	ctx, service, teardown := setup(ctx, cfg)
	defer teardown()

	if listFile != "" {
		listed, err := files.ReadUniqueLines(listFile)
		if err != nil {
			logs.Fatalf(ctx, "Failed to read archive list: %v", err)
		}

		archivePaths = append(archivePaths, listed...)
	}

	if len(archivePaths) == 0 {
		logs.Fatal(ctx, "No archives to extract")
	}

	outputDir := ensureOutputDir(ctx, cfg)

	extracted, err := service.ExtractAll(ctx, archivePaths, outputDir, cfg.Overwrite)
	if err != nil {
		logs.Fatalf(ctx, "Extraction failed: %v", err)
	}

	for _, folder := range extracted {
		logs.Infof(ctx, "Extracted: %s", folder)
	}
}
