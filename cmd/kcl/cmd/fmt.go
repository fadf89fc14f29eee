package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kcl-lang/kclcore/api"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file> [file...]",
	Short: "Format KCL source files in place",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			return newUsageError("fmt takes at least one file argument")
		}
		for _, path := range args {
			changed, err := api.FormatPath(path)
			if err != nil {
				if fe, ok := err.(*api.FormatError); ok {
					for _, d := range fe.Diagnostics {
						fmt.Fprintln(c.ErrOrStderr(), d.Message)
					}
					return fmt.Errorf("%s: parse error", path)
				}
				return err
			}
			if changed {
				fmt.Fprintf(c.OutOrStdout(), "%s\n", path)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}
