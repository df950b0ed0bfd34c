package cmd

import (
	"github.com/spf13/cobra"

	"github.com/digimatspa/sertit-utils/internal/app"
)

var (
	//nolint:gochecknoglobals // It is required for flag parsing before the command is executed.
	readOptions app.ReadOptions

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	readCmd = &cobra.Command{
		Use:   "read [flags] {archive} {pattern}",
		Short: "Read an archive member without extracting",
		Long: `Read the first archive member whose name matches a regular expression
anchored at the start of the member name, and print it to standard output.

With --xml or --html the member is parsed and re-rendered, which fails on
malformed documents. Compressed tarballs are not supported: extract them
first.`,
		Args:             cobra.ExactArgs(2),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteReadCommand(cmd.Context(), appConfig, args[0], args[1], readOptions)
		},
	}

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	membersCmd = &cobra.Command{
		Use:   "members [flags] {archive} [pattern]",
		Short: "List archive member names",
		Long: `List member names contained in an archive, optionally filtered by a
regular expression anchored at the start of the member name.`,
		Args:             cobra.RangeArgs(1, 2),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			pattern := ""
			if len(args) > 1 {
				pattern = args[1]
			}

			all, _ := cmd.Flags().GetBool("all")
			app.ExecuteMembersCommand(cmd.Context(), appConfig, args[0], pattern, all)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	readCmd.Flags().BoolVar(&readOptions.AsXML, "xml", false, "parse the member as XML.")
	readCmd.Flags().BoolVar(&readOptions.AsHTML, "html", false, "parse the member as HTML.")

	membersCmd.Flags().Bool("all", false, "list every match instead of only the first.")

	rootCmd.AddCommand(readCmd, membersCmd)
}
