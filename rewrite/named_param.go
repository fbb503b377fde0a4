// Package rewrite transforms annotated SQL into the form sent to the
// server: named parameters (@name) become positional placeholders ($N),
// and alias-hint suffixes (!/?) on column names are quoted so PostgreSQL
// preserves them verbatim in RowDescription.
package rewrite

import (
	"strconv"
	"strings"

	"github.com/pgtypegen/pgtypegen/sqlscan"
)

// NamedParamResult is the outcome of rewriting @name parameters into
// positional $N placeholders.
type NamedParamResult struct {
	// SQL is the rewritten query text. Equal to the input when Changed is
	// false.
	SQL string
	// Changed reports whether any @name token was found and rewritten.
	Changed bool
	// Names holds the source name for each newly assigned slot, in
	// assignment order (Names[0] is the name bound to slot
	// PositionalCount+1).
	Names []string
	// PositionalCount is the highest pre-existing $K placeholder found in
	// the input, before any new slots were assigned.
	PositionalCount int
}

// RewriteNamedParams implements spec §4.6: a two-pass rewrite that numbers
// every @name above the highest pre-existing $K, reusing the same slot for
// repeated uses of the same name.
func RewriteNamedParams(sql string) NamedParamResult {
	positionalCount := scanPositionalCount(sql)

	slots := make(map[string]int)
	var names []string
	var out strings.Builder
	changed := false

	i := 0
	for i < len(sql) {
		if next, skipped := sqlscan.SkipRegion(sql, i); skipped {
			out.WriteString(sql[i:next])
			i = next
			continue
		}

		if sql[i] == '@' && i+1 < len(sql) && sqlscan.IsIdentStart(sql[i+1]) {
			name, end := sqlscan.ScanIdent(sql, i+1)
			slot, ok := slots[name]
			if !ok {
				slot = positionalCount + len(names) + 1
				slots[name] = slot
				names = append(names, name)
			}
			out.WriteString("$")
			out.WriteString(strconv.Itoa(slot))
			i = end
			changed = true
			continue
		}

		out.WriteByte(sql[i])
		i++
	}

	if !changed {
		return NamedParamResult{SQL: sql, PositionalCount: positionalCount}
	}

	return NamedParamResult{
		SQL:             out.String(),
		Changed:         true,
		Names:           names,
		PositionalCount: positionalCount,
	}
}

// scanPositionalCount finds the highest $K already present in sql, honoring
// lexical regions so a "$1" inside a string literal is never counted.
func scanPositionalCount(sql string) int {
	max := 0
	i := 0
	for i < len(sql) {
		if next, skipped := sqlscan.SkipRegion(sql, i); skipped {
			i = next
			continue
		}
		if sql[i] == '$' && i+1 < len(sql) && sqlscan.IsDigit(sql[i+1]) {
			j := i + 1
			for j < len(sql) && sqlscan.IsDigit(sql[j]) {
				j++
			}
			if n, err := strconv.Atoi(sql[i+1 : j]); err == nil && n > max {
				max = n
			}
			i = j
			continue
		}
		i++
	}
	return max
}
