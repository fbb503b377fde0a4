package annotate

import (
	"testing"

	"github.com/pgtypegen/pgtypegen/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleQuery(t *testing.T) {
	src := `-- name: GetUserByID :one
-- fetches a single user by primary key
SELECT id, name FROM users WHERE id = $1;
`
	got, err := Parse("users.sql", src)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GetUserByID", got[0].Name)
	assert.Equal(t, query.KindOne, got[0].Kind)
	assert.Equal(t, "fetches a single user by primary key", got[0].Comment)
	assert.Contains(t, got[0].SQL, "SELECT id, name FROM users WHERE id = $1;")
}

func TestParseMultipleQueries(t *testing.T) {
	src := `-- name: GetUser :one
SELECT * FROM users WHERE id = $1;

-- name: ListUsers :many
SELECT * FROM users;
`
	got, err := Parse("users.sql", src)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "GetUser", got[0].Name)
	assert.Equal(t, "ListUsers", got[1].Name)
	assert.Equal(t, query.KindMany, got[1].Kind)
}

func TestParseMissingNameLine(t *testing.T) {
	_, err := Parse("bad.sql", "SELECT 1;\n")
	require.Error(t, err)
	assert.IsType(t, &ErrInvalidAnnotation{}, err)
}

func TestParseOmittedKind(t *testing.T) {
	src := "-- name: FindUser\nSELECT * FROM users WHERE id = $1;\n"
	got, err := Parse("f.sql", src)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "FindUser", got[0].Name)
	assert.Equal(t, query.Kind(""), got[0].Kind)
}

func TestParseUnrecognizedKind(t *testing.T) {
	_, err := Parse("bad.sql", "-- name: Foo :bogus\nSELECT 1;\n")
	require.Error(t, err)
}

func TestParseMissingSemicolon(t *testing.T) {
	_, err := Parse("bad.sql", "-- name: Foo :exec\nSELECT 1\n")
	require.Error(t, err)
}

func TestParseNoCommentBlock(t *testing.T) {
	src := "-- name: Foo :exec\nDELETE FROM users WHERE id = $1;\n"
	got, err := Parse("f.sql", src)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Comment)
}
