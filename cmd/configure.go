package cmd

import (
	"github.com/spf13/cobra"

	"github.com/digimatspa/sertit-utils/internal/app"
)

var (
	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
		Long:  "Inspect and update the configuration file.",
	}

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	configSetOutputCmd = &cobra.Command{
		Use:   "set-output {path}",
		Short: "Persist a new output directory in the configuration file",
		Long: `Update the output_path setting in the configuration file.

The rest of the file, including key order and comments, is left untouched.
A missing configuration file is created with the given path.`,
		Args:             cobra.ExactArgs(1),
		PersistentPreRun: initConfigAllowMissing,
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteConfigSetOutputCommand(cmd.Context(), appConfig, args[0])
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	configCmd.AddCommand(configSetOutputCmd)
	rootCmd.AddCommand(configCmd)
}
