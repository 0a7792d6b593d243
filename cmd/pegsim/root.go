package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var rootPath string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pegsim",
	Short: "A deterministic pegged-token market simulation",
}

// Execute is the main entry point, called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func defaultRootPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pegsim"
	}
	return filepath.Join(home, ".pegsim")
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootPath, "root-path", "r", defaultRootPath(),
		"Path of the root directory holding the configuration")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
}
