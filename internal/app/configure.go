package app

import (
	"context"

	"github.com/digimatspa/sertit-utils/internal/config"
	"github.com/digimatspa/sertit-utils/logs"
)

// ExecuteConfigSetOutputCommand persists a new output directory in the
// configuration file, leaving the rest of the file untouched.
func ExecuteConfigSetOutputCommand(ctx context.Context, cfg *config.Config, outputPath string) {
	cfg.OutputPath = outputPath

	if err := config.SaveConfig(cfg); err != nil {
		logs.Fatalf(ctx, "Failed to save configuration: %v", err)
	}

	logs.Infof(ctx, "Output directory set to '%s'", outputPath)
}
