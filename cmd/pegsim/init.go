package main

import (
	"fmt"
	"os"
	"path/filepath"

	"code.pegsim.io/pegsim/config"

	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a simulation root",
	Long:  "Generate the default configuration file under the root path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(rootPath, "config.toml")
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("configuration already exists at `%v`, remove it first or re-run using -f", path)
		}
		cfg := config.NewDefaultConfig()
		if err := config.Save(&cfg, rootPath); err != nil {
			return err
		}
		fmt.Printf("configuration generated at %v\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false,
		"Overwrite an existing configuration at the specified path")
}
