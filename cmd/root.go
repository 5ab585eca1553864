package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "iepsite",
	Short: "Innovation Earth Projects site server",
	Long: `iepsite serves the Innovation Earth Projects website: a single page with
section navigation, a projects list backed by Firestore with a local
fallback store, an admin panel for adding projects, and contact and event
registration forms. It also administers projects from the terminal.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".iepsite.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
