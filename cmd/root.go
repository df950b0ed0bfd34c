package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/digimatspa/sertit-utils/internal/config"
	"github.com/digimatspa/sertit-utils/logs"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "sertit-utils",
		Short: "Extract, create and inspect product archives.",
		Long: `sertit-utils is a CLI tool for working with product archives.
It supports:
- Extracting zip, tar and tar.gz archives, one folder per product
- Creating zip, tar, tar.gz, tar.bz2 and tar.xz archives
- Appending folders or other archives to an existing zip
- Listing and reading archive members without extraction`,
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logs.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmd.PersistentFlags().StringP(
		"output",
		"o",
		"",
		"directory where results are placed (the path will be created if it doesn't exist).")

	rootCmd.PersistentFlags().StringP(
		"log-level",
		"l",
		"",
		"console logging verbosity: debug, info, warn, error or fatal.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logs.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	if err = bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
		logs.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
	}

	logs.SetLevel(appConfig.ParsedLogLevel)
}

// initConfigAllowMissing loads the configuration for `config set-output`,
// tolerating a missing file so the command can create one from scratch.
// Validation is skipped: the command itself supplies the output path.
func initConfigAllowMissing(cmd *cobra.Command, _ []string) {
	loaded, err := config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logs.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
		}

		loaded = &config.Config{}
	}

	appConfig = loaded
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flag := flags.Lookup("overwrite"); flag != nil && flag.Changed {
		cfg.Overwrite, _ = flags.GetBool("overwrite")
	}

	if flag := flags.Lookup("format"); flag != nil && flag.Changed {
		cfg.ArchiveFormat, _ = flags.GetString("format")
	}

	return config.ValidateConfig(cfg)
}
