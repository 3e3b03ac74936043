package cmd

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "delete the output tree, release archives included",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log.Info().Str("output", cfg.Output).Msg("removing output tree")
		return os.RemoveAll(cfg.Output)
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
