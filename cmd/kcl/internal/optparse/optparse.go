// Package optparse decodes the legacy flag surface some CI wrappers still
// invoke `kcl` with: a single flattened argument string rather than
// cobra/pflag's normal argv, plus `KCL_FAST_EVAL`-style environment
// substitution inside `-D` values. Grounded on cmd/mysqldef/mysqldef.go's
// go-flags struct-tag decoding — kept as a secondary, opt-in parser per
// SPEC_FULL.md, not the primary flag path (that is cobra/pflag on
// rootCmd).
package optparse

import (
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
)

// LegacyOptions mirrors the handful of flags older CI wrappers pass as one
// pre-joined string instead of cobra's normal argv.
type LegacyOptions struct {
	Define  []string `short:"D" long:"define" description:"app argument as key=value, may be repeated"`
	Debug   bool     `long:"debug" description:"enable evaluator debug mode"`
	Verbose bool     `long:"verbose" description:"alias for KCL_LOG_LEVEL=debug"`
}

// ParseLegacy splits raw on whitespace and decodes it with go-flags,
// expanding `$VAR`/`${VAR}` references inside each `-D` value against the
// process environment before returning app_args.
func ParseLegacy(raw string) (map[string]string, error) {
	var opts LegacyOptions
	args := strings.Fields(raw)
	parser := flags.NewParser(&opts, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	appArgs := make(map[string]string, len(opts.Define))
	for _, kv := range opts.Define {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		appArgs[k] = os.Expand(v, os.Getenv)
	}
	return appArgs, nil
}
