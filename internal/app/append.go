package app

import (
	"context"

	"github.com/digimatspa/sertit-utils/internal/config"
	"github.com/digimatspa/sertit-utils/logs"
)

// ExecuteAppendCommand adds inputs to an existing zip file.
func ExecuteAppendCommand(ctx context.Context, cfg *config.Config, zipPath string, inputs []string) {
	ctx, service, teardown := setup(ctx, cfg)
	defer teardown()

	updated, err := service.AppendToZip(ctx, zipPath, inputs)
	if err != nil {
		logs.Fatalf(ctx, "Failed to append to '%s': %v", zipPath, err)
	}

	logs.Infof(ctx, "Updated: %s", updated)
}
