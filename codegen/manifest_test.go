package codegen

import (
	"bytes"
	"testing"
	"time"

	"github.com/pgtypegen/pgtypegen/catalog"
	"github.com/pgtypegen/pgtypegen/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuery() query.TypedQuery {
	return query.TypedQuery{
		Name:     "GetUserByID",
		FilePath: "users.sql",
		SQL:      "SELECT id, name FROM users WHERE id = $1",
		Kind:     query.KindOne,
		Params: []query.Param{
			{Index: 0, Name: "id", Type: catalog.Scalar{TypeOID: 23, Name: "int4", GoType: "int32"}},
		},
		Columns: []query.Column{
			{Name: "id", Type: catalog.Scalar{TypeOID: 23, Name: "int4", GoType: "int32"}, Nullable: false},
			{Name: "name", Type: catalog.Scalar{TypeOID: 25, Name: "text", GoType: "string"}, Nullable: false},
		},
	}
}

func TestManifestRoundTrip(t *testing.T) {
	m := BuildManifest(time.Unix(0, 0).UTC(), []query.TypedQuery{sampleQuery()})

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, m))

	got, err := ReadManifest(&buf)
	require.NoError(t, err)
	require.Len(t, got.Queries, 1)
	assert.Equal(t, "GetUserByID", got.Queries[0].Name)
	assert.Equal(t, "int4", got.Queries[0].Params[0].Type)
	assert.Equal(t, "text", got.Queries[0].Columns[1].Type)
}

func TestDiffNoChanges(t *testing.T) {
	q := sampleQuery()
	m := BuildManifest(time.Unix(0, 0).UTC(), []query.TypedQuery{q})
	drifts := Diff(m, []query.TypedQuery{q})
	assert.Empty(t, drifts)
}

func TestDiffDetectsColumnNullabilityChange(t *testing.T) {
	prev := sampleQuery()
	m := BuildManifest(time.Unix(0, 0).UTC(), []query.TypedQuery{prev})

	fresh := sampleQuery()
	fresh.Columns[1].Nullable = true

	drifts := Diff(m, []query.TypedQuery{fresh})
	require.Len(t, drifts, 1)
	assert.Equal(t, "GetUserByID", drifts[0].Query)
	assert.Contains(t, drifts[0].Reason, "nullability changed")
}

func TestDiffDetectsParamTypeChange(t *testing.T) {
	prev := sampleQuery()
	m := BuildManifest(time.Unix(0, 0).UTC(), []query.TypedQuery{prev})

	fresh := sampleQuery()
	fresh.Params[0].Type = catalog.Scalar{TypeOID: 20, Name: "int8", GoType: "int64"}

	drifts := Diff(m, []query.TypedQuery{fresh})
	require.Len(t, drifts, 1)
	assert.Contains(t, drifts[0].Reason, "type changed from int4 to int8")
}

func TestDiffDetectsAddedAndRemovedQueries(t *testing.T) {
	prev := sampleQuery()
	m := BuildManifest(time.Unix(0, 0).UTC(), []query.TypedQuery{prev})

	other := sampleQuery()
	other.Name = "ListUsers"
	other.Kind = query.KindMany

	drifts := Diff(m, []query.TypedQuery{other})
	require.Len(t, drifts, 2)
	assert.Equal(t, "GetUserByID", drifts[0].Query)
	assert.Equal(t, "query removed", drifts[0].Reason)
	assert.Equal(t, "ListUsers", drifts[1].Query)
	assert.Equal(t, "query added", drifts[1].Reason)
}
