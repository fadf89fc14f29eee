package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/lexer"
	"github.com/kcl-lang/kclcore/parser"
	"github.com/kcl-lang/kclcore/preprocess"
	"github.com/kcl-lang/kclcore/sema"
	"github.com/kcl-lang/kclcore/util"
)

var vetAgainst string

var vetCmd = &cobra.Command{
	Use:   "vet <file>",
	Short: "Resolve schemas and print their JSON Schema projections",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 1 {
			return newUsageError("vet takes exactly one file argument")
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		sess := diagnostic.NewSession()
		sess.SourceMap.AddFile(args[0], string(raw))
		toks := lexer.Lex(args[0], raw, 0, sess)
		m := parser.Parse(args[0], toks, sess)
		if sess.HasErrors() {
			printDiagnostics(c, sess.SourceMap, sess.Diagnostics)
			return fmt.Errorf("parse failed")
		}
		preprocess.Run(m)
		ps, _ := sema.Resolve(m, sess)
		if sess.HasErrors() {
			printDiagnostics(c, sess.SourceMap, sess.Diagnostics)
			return fmt.Errorf("resolve failed")
		}

		for name, st := range util.CanonicalMapIter(ps.Schemas) {
			js := sema.ToJSONSchema(st)
			if vetAgainst == "" {
				out, _ := json.MarshalIndent(js, "", "  ")
				fmt.Fprintf(c.OutOrStdout(), "%s:\n%s\n", name, out)
			}
		}
		if vetAgainst != "" {
			fmt.Fprintf(c.OutOrStdout(), "%d schema(s) resolved; external-schema diffing against %s is not yet implemented\n", len(ps.Schemas), vetAgainst)
		}
		return nil
	},
}

func init() {
	vetCmd.Flags().StringVar(&vetAgainst, "against", "", "path to an external JSON Schema file to diff against")
	rootCmd.AddCommand(vetCmd)
}
