// Package cmd implements the `kcl` CLI driver's subcommands: `run`, `fmt`,
// `lint`, `vet`, `test`, `mod {metadata|update}`. One file per subcommand,
// each registering itself onto rootCmd from init, grounded on
// vippsas-sqlcode/cli/cmd's root.go + build.go shape.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kcl-lang/kclcore/cmd/kcl/internal/optparse"
	"github.com/kcl-lang/kclcore/internal/klog"
)

var (
	rootCmd = &cobra.Command{
		Use:           "kcl",
		Short:         "kcl",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long:          "Compiler driver for the KCL configuration language.",
	}

	appArgs     []string
	debugMode   bool
	strictMode  bool
	legacyFlags string
)

// Execute runs the selected subcommand and returns the process exit code
// per §6: 0 success, 1 compile error, 2 argument misuse.
func Execute() int {
	klog.Init()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		if _, ok := err.(usageError); ok {
			return 2
		}
		return 1
	}
	return 0
}

// usageError marks a RunE failure as argument misuse (exit 2) rather than
// a compile error (exit 1).
type usageError struct{ error }

func newUsageError(msg string) error { return usageError{errorString(msg)} }

type errorString string

func (e errorString) Error() string { return string(e) }

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&appArgs, "arg", "D", nil, "set an app argument as key=value, may be repeated")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable evaluator debug mode")
	rootCmd.PersistentFlags().BoolVar(&strictMode, "strict-range-check", false, "enable strict numeric range checking")
	rootCmd.PersistentFlags().StringVar(&legacyFlags, "legacy-args", "", "a pre-joined '-D key=value ...' string some CI wrappers still pass, decoded via optparse instead of pflag")
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
}

// parseAppArgs merges pflag-collected `-D`/`--arg` values with whatever
// --legacy-args carries, the legacy form taking precedence since it is
// the more specific, explicitly-opted-into surface.
func parseAppArgs(raw []string) map[string]string {
	out := make(map[string]string, len(raw))
	for _, kv := range raw {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				out[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	if legacyFlags != "" {
		if legacy, err := optparse.ParseLegacy(legacyFlags); err == nil {
			for k, v := range legacy {
				out[k] = v
			}
		}
	}
	return out
}
