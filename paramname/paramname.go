// Package paramname derives human-readable parameter names from raw SQL
// context, implementing spec §4.8: INSERT column-list position, the
// identifier on the left of a comparison operator, LIMIT/OFFSET keyword
// slots, and a param_N fallback — then deduplicates the result.
package paramname

import (
	"fmt"
	"strconv"

	"github.com/pgtypegen/pgtypegen/sqlscan"
)

var noiseWords = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "IS": true, "IN": true,
	"LIKE": true, "SET": true, "WHERE": true, "HAVING": true, "ON": true,
	"THEN": true, "WHEN": true, "ELSE": true, "NULL": true,
}

const maxInsertColumns = 64

// Infer produces count non-empty parameter names for the positional
// placeholders $1..$count found in sql, applying the rules of spec §4.8 in
// order and deduplicating the result.
func Infer(sql string, count int) []string {
	names := make([]string, count)

	insertCols := matchInsertColumnList(sql)
	for k := 1; k <= count; k++ {
		if name, ok := insertCols[k]; ok {
			names[k-1] = name
		}
	}

	positions := findPlaceholders(sql)
	for k := 1; k <= count; k++ {
		if names[k-1] != "" {
			continue
		}
		pos, ok := positions[k]
		if !ok {
			names[k-1] = fmt.Sprintf("param_%d", k)
			continue
		}
		names[k-1] = inferFromContext(sql, pos, k)
	}

	return dedupe(names)
}

// findPlaceholders returns, for each $K in sql, the byte offset of the
// '$' that begins it (the first occurrence wins, matching the rewriter's
// left-to-right semantics).
func findPlaceholders(sql string) map[int]int {
	out := make(map[int]int)
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
			if k, err := strconv.Atoi(sql[i+1 : j]); err == nil {
				if _, exists := out[k]; !exists {
					out[k] = i
				}
			}
			i = j
			continue
		}
		i++
	}
	return out
}

// inferFromContext applies rules 2 and 3, falling back to rule 4's
// param_N when neither context rule recognizes the placeholder's
// surroundings, so every slot always gets a non-empty name.
func inferFromContext(sql string, dollarPos int, k int) string {
	if name, ok := precedingOperandName(sql, dollarPos); ok {
		return name
	}
	if name, ok := precedingKeywordSlot(sql, dollarPos); ok {
		return name
	}
	return fmt.Sprintf("param_%d", k)
}

var operators = []string{"<=", ">=", "<>", "!=", "=", "<", ">"}

// precedingOperandName implements rule 2: walk backward over whitespace,
// consume a comparison operator (longest match), skip whitespace, and take
// the identifier before it.
func precedingOperandName(sql string, dollarPos int) (string, bool) {
	i := skipSpaceBackward(sql, dollarPos)

	var matched string
	for _, op := range operators {
		start := i - len(op)
		if start >= 0 && sql[start:i] == op {
			matched = op
			i = start
			break
		}
	}
	if matched == "" {
		return "", false
	}

	i = skipSpaceBackward(sql, i)
	ident, ok := scanIdentBackward(sql, i)
	if !ok {
		return "", false
	}
	if noiseWords[upper(ident)] {
		return "", false
	}
	return ident, true
}

// precedingKeywordSlot implements rule 3: LIMIT/OFFSET immediately before
// the placeholder (no operator in between).
func precedingKeywordSlot(sql string, dollarPos int) (string, bool) {
	i := skipSpaceBackward(sql, dollarPos)
	ident, ok := scanIdentBackward(sql, i)
	if !ok {
		return "", false
	}
	switch upper(ident) {
	case "LIMIT":
		return "limit", true
	case "OFFSET":
		return "offset", true
	}
	return "", false
}

func skipSpaceBackward(sql string, i int) int {
	for i > 0 && sqlscan.IsSpace(sql[i-1]) {
		i--
	}
	return i
}

func scanIdentBackward(sql string, end int) (string, bool) {
	i := end
	for i > 0 && sqlscan.IsIdentCont(sql[i-1]) {
		i--
	}
	if i == end || !sqlscan.IsIdentStart(sql[i]) {
		return "", false
	}
	return sql[i:end], true
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// matchInsertColumnList implements rule 1: INSERT INTO <table> (c1, c2,
// ...) VALUES (e1, e2, ...), pairing each $K expression with its column by
// position. Only simple bare $K value expressions are recognized; any
// other shape (expressions, defaults, literals) leaves that slot for later
// rules to fill in.
func matchInsertColumnList(sql string) map[int]string {
	i := findKeyword(sql, "INSERT")
	if i < 0 {
		return nil
	}
	i = sqlscan.SkipSpaceAndComments(sql, i+len("INSERT"))

	intoIdent, next := sqlscan.ScanIdent(sql, i)
	if upper(intoIdent) != "INTO" {
		return nil
	}
	i = sqlscan.SkipSpaceAndComments(sql, next)

	_, next = sqlscan.ScanIdent(sql, i)
	if next == i {
		return nil
	}
	i = sqlscan.SkipSpaceAndComments(sql, next)

	if i >= len(sql) || sql[i] != '(' {
		return nil
	}
	cols, i, ok := scanParenIdentList(sql, i)
	if !ok || len(cols) == 0 || len(cols) > maxInsertColumns {
		return nil
	}

	i = sqlscan.SkipSpaceAndComments(sql, i)
	valuesIdent, next := sqlscan.ScanIdent(sql, i)
	if upper(valuesIdent) != "VALUES" {
		return nil
	}
	i = sqlscan.SkipSpaceAndComments(sql, next)

	if i >= len(sql) || sql[i] != '(' {
		return nil
	}
	exprs, _, ok := scanParenExprList(sql, i)
	if !ok {
		return nil
	}

	out := make(map[int]string)
	for idx, expr := range exprs {
		if idx >= len(cols) {
			break
		}
		k, ok := parsePlaceholderExpr(expr)
		if !ok {
			continue
		}
		out[k] = cols[idx]
	}
	return out
}

func findKeyword(sql, kw string) int {
	i := sqlscan.SkipSpaceAndComments(sql, 0)
	ident, _ := sqlscan.ScanIdent(sql, i)
	if upper(ident) == kw {
		return i
	}
	return -1
}

// scanParenIdentList parses "( a, b, c )" starting at sql[open] == '(',
// returning the bare identifiers and the index just past the closing ')'.
func scanParenIdentList(sql string, open int) ([]string, int, bool) {
	i := open + 1
	var out []string
	for {
		i = sqlscan.SkipSpaceAndComments(sql, i)
		ident, next := sqlscan.ScanIdent(sql, i)
		if next == i {
			return nil, i, false
		}
		out = append(out, ident)
		i = sqlscan.SkipSpaceAndComments(sql, next)
		if i >= len(sql) {
			return nil, i, false
		}
		if sql[i] == ',' {
			i++
			continue
		}
		if sql[i] == ')' {
			return out, i + 1, true
		}
		return nil, i, false
	}
}

// scanParenExprList splits "( e1, e2, ... )" into its top-level
// comma-separated expressions (not descending into nested parens),
// returning the trimmed expression text for each.
func scanParenExprList(sql string, open int) ([]string, int, bool) {
	i := open + 1
	var out []string
	start := i
	depth := 0
	for i < len(sql) {
		if next, skipped := sqlscan.SkipRegion(sql, i); skipped {
			i = next
			continue
		}
		switch sql[i] {
		case '(':
			depth++
			i++
		case ')':
			if depth == 0 {
				out = append(out, trimSpace(sql[start:i]))
				return out, i + 1, true
			}
			depth--
			i++
		case ',':
			if depth == 0 {
				out = append(out, trimSpace(sql[start:i]))
				start = i + 1
			}
			i++
		default:
			i++
		}
	}
	return nil, i, false
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && sqlscan.IsSpace(s[start]) {
		start++
	}
	for end > start && sqlscan.IsSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

// parsePlaceholderExpr reports whether expr is exactly a bare $K
// placeholder (no casts, no surrounding expression), and if so returns K.
func parsePlaceholderExpr(expr string) (int, bool) {
	if len(expr) < 2 || expr[0] != '$' {
		return 0, false
	}
	for i := 1; i < len(expr); i++ {
		if !sqlscan.IsDigit(expr[i]) {
			return 0, false
		}
	}
	k, err := strconv.Atoi(expr[1:])
	if err != nil {
		return 0, false
	}
	return k, true
}

// Dedupe rewrites any repeated name in names so that the second
// occurrence becomes name_1, the third name_2, and so on. Exported so the
// introspector can reapply it after merging rewriter-produced names with
// inferencer-produced ones (spec §4.9 step 6).
func Dedupe(names []string) []string {
	return dedupe(names)
}

// dedupe rewrites any repeated name in names so that the second
// occurrence becomes name_1, the third name_2, and so on, per spec §4.8's
// closing deduplication pass.
func dedupe(names []string) []string {
	seen := make(map[string]int)
	out := make([]string, len(names))
	for i, n := range names {
		count, exists := seen[n]
		if !exists {
			out[i] = n
			seen[n] = 0
			continue
		}
		count++
		seen[n] = count
		out[i] = fmt.Sprintf("%s_%d", n, count)
	}
	return out
}
