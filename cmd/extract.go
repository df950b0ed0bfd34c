package cmd

import (
	"github.com/spf13/cobra"

	"github.com/digimatspa/sertit-utils/internal/app"
)

var (
	//nolint:gochecknoglobals // It is required for flag parsing before the command is executed.
	extractListFile string

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	extractCmd = &cobra.Command{
		Use:   "extract [flags] {archives}",
		Short: "Extract archives into the output directory",
		Long: `Extract one or more archives into the output directory.

Zip archives may contain several products: each top-level entry is extracted
into its own folder. Tar and tar.gz archives are extracted into a folder
named after the archive. Already extracted folders are kept unless
--overwrite is set.

Archive paths can be given as arguments or collected from a text file
(one path per line) with --from-file.`,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, archivePaths []string) {
			app.ExecuteExtractCommand(cmd.Context(), appConfig, archivePaths, extractListFile)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	extractCmd.Flags().Bool(
		"overwrite",
		false,
		"replace already extracted folders instead of keeping them.")

	extractCmd.Flags().StringVar(
		&extractListFile,
		"from-file",
		"",
		"text file listing archive paths to extract, one per line.")

	rootCmd.AddCommand(extractCmd)
}
