package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/innovation-earth/iepsite/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize iepsite configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the site and writes the config file (default .iepsite.yml).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s (data in %s). Start the site with `iepsite server`.\n", cfgFile, cfg.DataDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
