package cmd

import (
	"github.com/spf13/cobra"

	"github.com/digimatspa/sertit-utils/internal/app"
)

//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
var createCmd = &cobra.Command{
	Use:   "create [flags] {folders}",
	Short: "Pack folders into archives",
	Long: `Pack one or more folders into archives placed in the output directory.

Each folder becomes one archive named after the folder, with the folder
itself as the single root entry. The format is taken from --format or the
configuration, one of: zip, tar, tar.gz, tar.bz2, tar.xz.`,
	Args:             cobra.MinimumNArgs(1),
	PersistentPreRun: initConfig,
	Run: func(cmd *cobra.Command, folderPaths []string) {
		app.ExecuteCreateCommand(cmd.Context(), appConfig, folderPaths)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	createCmd.Flags().StringP(
		"format",
		"f",
		"",
		"archive format: zip, tar, tar.gz, tar.bz2 or tar.xz.")

	rootCmd.AddCommand(createCmd)
}
