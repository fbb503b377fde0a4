package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteAliasHintsForceNotNull(t *testing.T) {
	sql := "SELECT COUNT(*) AS total! FROM posts;"
	got := QuoteAliasHints(sql)
	assert.Equal(t, `SELECT COUNT(*) AS "total!" FROM posts;`, got)
}

func TestQuoteAliasHintsForceNullable(t *testing.T) {
	sql := "SELECT email AS email? FROM users;"
	got := QuoteAliasHints(sql)
	assert.Equal(t, `SELECT email AS "email?" FROM users;`, got)
}

func TestQuoteAliasHintsIgnoresOperators(t *testing.T) {
	sql := "SELECT * FROM t WHERE a != b"
	got := QuoteAliasHints(sql)
	assert.Equal(t, sql, got)
}

func TestQuoteAliasHintsSkipsStringsAndComments(t *testing.T) {
	sql := "SELECT 'literal?' , x! -- trailing? comment\nFROM t"
	got := QuoteAliasHints(sql)
	assert.Contains(t, got, "'literal?'")
	assert.Contains(t, got, `"x!"`)
	assert.Contains(t, got, "-- trailing? comment")
}
