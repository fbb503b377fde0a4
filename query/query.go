// Package query defines the data model shared by SQL annotation parsing
// and introspection: the untyped query as read from a .sql file, and the
// typed query assembled once the server has reported parameter and column
// types.
package query

import "github.com/pgtypegen/pgtypegen/catalog"

// Kind is the return-shape annotation on a query, dictating how the
// generated binding presents its result.
type Kind string

const (
	KindOne      Kind = "one"
	KindMany     Kind = "many"
	KindExec     Kind = "exec"
	KindExecRows Kind = "execrows"
)

// UntypedQuery is a single annotated query as parsed from a .sql file,
// before any server round trip. It is immutable once constructed.
type UntypedQuery struct {
	Name     string
	FilePath string
	SQL      string
	Comment  string
	Kind     Kind
}

// Param is one positional parameter of a typed query. Index is 0-based
// and dense across a query's full parameter list.
type Param struct {
	Index int
	Name  string
	Type  catalog.TypeRef
}

// Column is one result column of a typed query, after alias-hint
// stripping and nullability resolution.
type Column struct {
	Name       string
	Type       catalog.TypeRef
	Nullable   bool
	TableOID   uint32
	ColumnAttr int16
}

// TypedQuery is the canonical artifact handed to code emission: an
// UntypedQuery whose SQL has been rewritten for the server and whose
// parameters and columns carry resolved types.
type TypedQuery struct {
	Name     string
	FilePath string
	SQL      string
	Comment  string
	Kind     Kind
	Params   []Param
	Columns  []Column
}
