package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relgate-io/relgate/primes"
)

// versionCmd doubles as the smoke-test contract: a freshly built binary
// must answer `version` with a readable version string.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the bundled payload version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), primes.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
