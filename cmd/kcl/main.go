// Command kcl is the compiler driver: `run`, `fmt`, `lint`, `vet`, `test`,
// `mod {metadata|update}` subcommands over the api package, grounded on
// cmd/mysqldef/mysqldef.go's parseOptions-then-dispatch shape but
// restructured around cobra per SPEC_FULL.md's multi-subcommand driver.
package main

import (
	"os"

	"github.com/kcl-lang/kclcore/cmd/kcl/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
