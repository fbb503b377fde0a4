package sqlscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkipRegionQuotedStringWithEscape(t *testing.T) {
	s := `'it''s fine' rest`
	end, ok := SkipRegion(s, 0)
	assert.True(t, ok)
	assert.Equal(t, `'it''s fine'`, s[:end])
}

func TestSkipRegionQuotedIdentifier(t *testing.T) {
	s := `"weird""name" rest`
	end, ok := SkipRegion(s, 0)
	assert.True(t, ok)
	assert.Equal(t, `"weird""name"`, s[:end])
}

func TestSkipRegionLineComment(t *testing.T) {
	s := "-- a comment with @fake\nSELECT 1"
	end, ok := SkipRegion(s, 0)
	assert.True(t, ok)
	assert.Equal(t, "-- a comment with @fake", s[:end])
}

func TestSkipRegionLineCommentToEOF(t *testing.T) {
	s := "-- trailing comment, no newline"
	end, ok := SkipRegion(s, 0)
	assert.True(t, ok)
	assert.Equal(t, len(s), end)
}

func TestSkipRegionBlockComment(t *testing.T) {
	s := "/* @name is not a param in here */ SELECT 1"
	end, ok := SkipRegion(s, 0)
	assert.True(t, ok)
	assert.Equal(t, "/* @name is not a param in here */", s[:end])
}

func TestSkipRegionNotARegion(t *testing.T) {
	_, ok := SkipRegion("SELECT 1", 0)
	assert.False(t, ok)
}

func TestScanIdent(t *testing.T) {
	name, end := ScanIdent("author_id = $1", 0)
	assert.Equal(t, "author_id", name)
	assert.Equal(t, 9, end)
}

func TestScanIdentRejectsDigitStart(t *testing.T) {
	name, end := ScanIdent("1abc", 0)
	assert.Equal(t, "", name)
	assert.Equal(t, 0, end)
}
