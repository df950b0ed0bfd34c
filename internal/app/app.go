package app

import (
	"context"

	"github.com/digimatspa/sertit-utils/archives"
	"github.com/digimatspa/sertit-utils/internal/config"
	"github.com/digimatspa/sertit-utils/logs"
	"github.com/digimatspa/sertit-utils/paths"
)

// setup builds the archive service and, when a log folder is configured,
// swaps the console-only logger for one that also writes a rotated log
// file. The returned context carries the effective logger; the teardown
// flushes it and must be deferred by the caller.
func setup(ctx context.Context, cfg *config.Config) (context.Context, archives.Service, func()) {
	teardown := func() {}

	if cfg.LogFolder != "" {
		logger, loggerTeardown, err := logs.Setup(logs.Options{
			Name:         "sertit-utils",
			Folder:       cfg.LogFolder,
			ConsoleLevel: cfg.ParsedLogLevel,
			FileLevel:    cfg.ParsedFileLogLevel,
			MaxSizeMB:    int(cfg.ParsedMaxLogSizeMB),
			MaxBackups:   int(cfg.MaxLogBackups),
		})
		if err != nil {
			logs.Fatalf(ctx, "Failed to set up file logging: %v", err)
		}

		ctx = logs.ToContext(ctx, logger)
		teardown = loggerTeardown
	}

	service := archives.NewService(paths.NewLocal(), cfg.ScratchDir)

	return ctx, service, teardown
}

// ensureOutputDir resolves the configured output directory, creating it if missing.
func ensureOutputDir(ctx context.Context, cfg *config.Config) string {
	outputDir, err := paths.ToAbs(cfg.OutputPath, true)
	if err != nil {
		logs.Fatalf(ctx, "Failed to prepare output directory: %v", err)
	}

	return outputDir
}
