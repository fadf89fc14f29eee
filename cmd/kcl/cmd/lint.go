package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/lexer"
	"github.com/kcl-lang/kclcore/parser"
	"github.com/kcl-lang/kclcore/preprocess"
	"github.com/kcl-lang/kclcore/sema"
)

// lintCmd reports the diagnostics the lexer/parser/resolver already
// produce. A dedicated lint-rule engine (style checks beyond what the
// resolver itself catches) is out of scope here; this is the "stub" the
// expanded spec calls for, not the full front-end.
var lintCmd = &cobra.Command{
	Use:   "lint <file>",
	Short: "Report compile-time diagnostics for a KCL file",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 1 {
			return newUsageError("lint takes exactly one file argument")
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		sess := diagnostic.NewSession()
		sess.SourceMap.AddFile(args[0], string(raw))
		toks := lexer.Lex(args[0], raw, 0, sess)
		m := parser.Parse(args[0], toks, sess)
		if !sess.HasErrors() {
			preprocess.Run(m)
			sema.Resolve(m, sess)
		}
		if len(sess.Diagnostics) == 0 {
			return nil
		}
		printDiagnostics(c, sess.SourceMap, sess.Diagnostics)
		if sess.HasErrors() {
			return fmt.Errorf("lint found errors")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
