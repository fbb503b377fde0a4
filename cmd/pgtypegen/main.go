// Command pgtypegen introspects annotated SQL queries against a live
// PostgreSQL database and emits typed query descriptions, or verifies
// that a previously generated manifest still matches the current schema.
package main

import (
	"github.com/pgtypegen/pgtypegen/cmd/pgtypegen/internal/cli"
)

func main() {
	cli.Execute()
}
