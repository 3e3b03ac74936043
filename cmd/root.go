/*
Package cmd contains the command line interface for the relgate release
orchestrator.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/relgate-io/relgate/pkg"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "relgate",
	Short: "a release-gate pipeline orchestrator",
	Long: `relgate runs a fixed sequence of quality gates against a source tree
(format, lint, vet, security scan, build, smoke test, unit test, coverage,
docs) and packages the results into a versioned, checksummed release
archive. Each gate invokes an external tool and writes its report into a
dedicated output directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("pipeline failed")
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .relgate.yaml)")
	rootCmd.PersistentFlags().String("source", ".", "source tree the gates run against")
	rootCmd.PersistentFlags().String("output", "build", "root directory for reports and artifacts")
	rootCmd.PersistentFlags().String("name", "primes", "artifact base name")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		log.Panic().Err(err).Msg("failed to bind flags")
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".relgate")
	}

	viper.SetEnvPrefix("RELGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func loadConfig() (*pkg.Config, error) {
	return pkg.FromViper(viper.GetViper())
}
