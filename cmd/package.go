package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relgate-io/relgate/pipeline"
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "run the full gate sequence and assemble the release archive",
	Long: `package runs every gate in order (fmt, lint, vet, sec, build, smoke,
test, cover, docs) and, once all fatal gates have passed, bundles the
distribution artifacts, reports, test results, coverage output, and
rendered docs into a versioned tar.gz with a manifest and a sibling
checksum file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var names []string
		for _, stage := range pipeline.Stages() {
			names = append(names, stage.Name)
		}

		ws, err := runStages(cmd.Context(), names...)
		if err != nil {
			return err
		}

		archive, err := pipeline.BuildRelease(cmd.Context(), ws)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), archive)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packageCmd)
}
