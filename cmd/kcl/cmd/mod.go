package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// modCmd and its subcommands are stubs: the package-metadata subprocess
// and registry client (spec §1 Non-goals, explicit "kcl mod package-
// metadata subprocess driver") are external collaborators this core
// never implements.
var modCmd = &cobra.Command{
	Use:   "mod",
	Short: "(stub) package metadata commands",
}

var modMetadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "(stub) print package metadata",
	RunE: func(c *cobra.Command, args []string) error {
		return fmt.Errorf("mod metadata: package-metadata resolution is not implemented by this core")
	},
}

var modUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "(stub) update dependency lock",
	RunE: func(c *cobra.Command, args []string) error {
		return fmt.Errorf("mod update: dependency-lock resolution is not implemented by this core")
	},
}

func init() {
	modCmd.AddCommand(modMetadataCmd, modUpdateCmd)
	rootCmd.AddCommand(modCmd)
}
