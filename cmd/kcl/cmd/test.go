package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// testCmd is a stub: a KCL test-file discovery/assertion runner is a
// front-end this core does not implement (spec §1 Non-goals); the
// subcommand exists so `kcl test` fails predictably rather than being an
// unknown command to scripts that already invoke it.
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "(stub) run KCL test files",
	RunE: func(c *cobra.Command, args []string) error {
		fmt.Fprintln(c.ErrOrStderr(), "kcl test: test-file discovery and assertion running are not implemented by this core")
		return fmt.Errorf("test subcommand not implemented")
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}
