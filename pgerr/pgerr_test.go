package pgerr

import (
	"testing"

	"github.com/pgtypegen/pgtypegen/pgerr/codes"
	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	err := Decode(Fields{
		FieldSeverity:       "ERROR",
		FieldSQLState:       string(codes.UndefinedColumn),
		FieldMessage:        `column "bogus" does not exist`,
		FieldHint:           `perhaps you meant "name"`,
		FieldDetail:         "detail text",
		FieldConstraintName: "users_pkey",
	})

	assert.Error(t, err)
	assert.Equal(t, `column "bogus" does not exist`, err.Error())
	assert.Equal(t, codes.UndefinedColumn, GetCode(err))
	assert.Equal(t, LevelError, GetSeverity(err))
	assert.Equal(t, `perhaps you meant "name"`, GetHint(err))
	assert.Equal(t, "detail text", GetDetail(err))
	assert.Equal(t, "users_pkey", GetConstraintName(err))
}

func TestDecodeMissingMessage(t *testing.T) {
	err := Decode(Fields{FieldSQLState: string(codes.Internal)})
	assert.Error(t, err)
	assert.Equal(t, codes.Internal, GetCode(err))
}

func TestGetCodeUncategorized(t *testing.T) {
	assert.Equal(t, codes.Uncategorized, GetCode(nil))
}
