package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kcl-lang/kclcore/api"
	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/internal/config"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/lexer"
	"github.com/kcl-lang/kclcore/parser"
	"github.com/kcl-lang/kclcore/plan"
)

var (
	runSortKeys         bool
	runIncludeTypePath  bool
	runShowHidden       bool
	runDisableNone      bool
	runDisableEmptyList bool
	runQueryPaths       []string
	runFormat           string
	runTraceAST         bool
)

// traceAST re-parses path independently of the main exec pipeline and
// dumps its AST to stderr via ast.Dump, for --trace-ast debugging.
func traceAST(c *cobra.Command, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sess := diagnostic.NewSession()
	sess.SourceMap.AddFile(path, string(raw))
	toks := lexer.Lex(path, raw, 0, sess)
	m := parser.Parse(path, toks, sess)
	fmt.Fprintln(c.ErrOrStderr(), ast.Dump(m))
	return nil
}

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Compile a KCL file and print its JSON/YAML result",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 1 {
			return newUsageError("run takes exactly one file argument")
		}
		defaults, err := config.Load("kcl.yaml")
		if err != nil {
			return err
		}
		if runTraceAST {
			if err := traceAST(c, args[0]); err != nil {
				return err
			}
		}
		opts := plan.Options{
			SortKeys:              orDefault(c, "sort-keys", runSortKeys, defaults.SortKeys),
			IncludeSchemaTypePath: orDefault(c, "include-schema-type-path", runIncludeTypePath, defaults.IncludeSchemaTypePath),
			ShowHidden:            orDefault(c, "show-hidden", runShowHidden, defaults.ShowHidden),
			DisableNone:           orDefault(c, "disable-none", runDisableNone, defaults.DisableNone),
			DisableEmptyList:      orDefault(c, "disable-empty-list", runDisableEmptyList, defaults.DisableEmptyList),
			QueryPaths:            runQueryPaths,
		}
		res, err := api.ExecProgram(api.ExecProgramArgs{
			Path:             args[0],
			AppArgs:          config.MergeAppArgs(defaults.AppArgs, parseAppArgs(appArgs)),
			DebugMode:        debugMode,
			StrictRangeCheck: strictMode,
			Plan:             opts,
		})
		if err != nil {
			return err
		}
		if len(res.Diagnostics) > 0 {
			printDiagnostics(c, res.SourceMap, res.Diagnostics)
		}
		if len(res.Diagnostics) > 0 && res.JSONResult == "" {
			return fmt.Errorf("compilation failed")
		}
		switch runFormat {
		case "yaml":
			fmt.Fprintln(c.OutOrStdout(), res.YAMLResult)
		default:
			fmt.Fprintln(c.OutOrStdout(), res.JSONResult)
		}
		return nil
	},
}

// orDefault returns the flag's explicitly-set value when the user passed
// it on the command line, otherwise falls back to kcl.yaml's default.
func orDefault(c *cobra.Command, flag string, flagVal, fileDefault bool) bool {
	if c.Flags().Changed(flag) {
		return flagVal
	}
	return fileDefault
}

// printDiagnostics renders accumulated diagnostics to stderr, colorized
// only when stderr is actually a terminal (sqldef's teacher dependency on
// golang.org/x/term, repurposed from password-prompt TTY detection to
// diagnostic-rendering TTY detection).
func printDiagnostics(c *cobra.Command, sm *diagnostic.SourceMap, diags []diagnostic.Diagnostic) {
	isTTY := term.IsTerminal(2)
	out := diagnostic.RenderAll(sm, diags)
	if isTTY {
		fmt.Fprint(c.ErrOrStderr(), "\x1b[31m"+out+"\x1b[0m")
	} else {
		fmt.Fprint(c.ErrOrStderr(), out)
	}
}

func init() {
	runCmd.Flags().BoolVar(&runSortKeys, "sort-keys", false, "sort map keys in the output")
	runCmd.Flags().BoolVar(&runIncludeTypePath, "include-schema-type-path", false, "tag schema instances with a _type attribute")
	runCmd.Flags().BoolVar(&runShowHidden, "show-hidden", false, "include attributes prefixed with _")
	runCmd.Flags().BoolVar(&runDisableNone, "disable-none", false, "drop None-valued attributes")
	runCmd.Flags().BoolVar(&runDisableEmptyList, "disable-empty-list", false, "drop empty-list-valued attributes")
	runCmd.Flags().StringArrayVar(&runQueryPaths, "path-selector", nil, "narrow the result to one or more dotted paths, may be repeated")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "json", "output format: json or yaml")
	runCmd.Flags().BoolVar(&runTraceAST, "trace-ast", false, "dump the parsed AST to stderr before running")
	rootCmd.AddCommand(runCmd)
}
