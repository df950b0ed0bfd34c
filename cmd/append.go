package cmd

import (
	"github.com/spf13/cobra"

	"github.com/digimatspa/sertit-utils/internal/app"
)

//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
var appendCmd = &cobra.Command{
	Use:   "append [flags] {zip} {inputs}",
	Short: "Add folders or archives to an existing zip",
	Long: `Add inputs to an existing zip file.

Folder inputs are added as-is. Archive inputs are extracted first and their
contents are added, so the target zip never nests archives.`,
	Args:             cobra.MinimumNArgs(2),
	PersistentPreRun: initConfig,
	Run: func(cmd *cobra.Command, args []string) {
		app.ExecuteAppendCommand(cmd.Context(), appConfig, args[0], args[1:])
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(appendCmd)
}
