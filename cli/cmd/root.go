package cmd

import (
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "twowaysql",
		Short:        "twowaysql",
		SilenceUsage: true,
		Long:         `CLI tool for rendering and checking two-way SQL templates.`,
	}

	directory string
	dialectID string
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&directory, "directory", "d", ".", "path to directory and subtree which will be scanned for *.sql templates")
	rootCmd.PersistentFlags().StringVar(&dialectID, "dialect", "sqlite", "target dialect: sqlite, postgresql, mysql, oracle")
	return rootCmd.Execute()
}
