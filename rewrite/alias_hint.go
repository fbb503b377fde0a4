package rewrite

import (
	"strings"

	"github.com/pgtypegen/pgtypegen/sqlscan"
)

// QuoteAliasHints implements spec §4.7: outside string/comment/quoted-
// identifier regions, any bare identifier immediately followed by ! or ?
// is rewritten as a double-quoted identifier carrying the suffix, so
// PostgreSQL returns the column name (suffix included) verbatim in
// RowDescription.
func QuoteAliasHints(sql string) string {
	var out strings.Builder
	i := 0
	for i < len(sql) {
		if next, skipped := sqlscan.SkipRegion(sql, i); skipped {
			out.WriteString(sql[i:next])
			i = next
			continue
		}

		if sqlscan.IsIdentStart(sql[i]) {
			ident, end := sqlscan.ScanIdent(sql, i)
			if end < len(sql) && (sql[end] == '!' || sql[end] == '?') {
				out.WriteByte('"')
				out.WriteString(ident)
				out.WriteByte(sql[end])
				out.WriteByte('"')
				i = end + 1
				continue
			}
			out.WriteString(ident)
			i = end
			continue
		}

		out.WriteByte(sql[i])
		i++
	}
	return out.String()
}
