// Package catalog models the subset of a PostgreSQL type catalog the code
// generator needs: OID-to-Go-type resolution, array/enum/domain handling,
// and column nullability. It leans on github.com/jackc/pgx/v5/pgtype for
// the well-known scalar OID constants rather than hand-rolling the table
// PostgreSQL ships in pg_type.dat.
package catalog

import "fmt"

// TypeRef is the tagged-union type produced by introspection for every
// column and parameter: it is one of Scalar, ArrayOf, Enum, or Unknown.
// Consumers type-switch on the concrete type rather than inspecting a
// "kind" field, following the same shape the wire package uses for
// BackendMsg.
type TypeRef interface {
	// OID returns the PostgreSQL type OID this reference resolves.
	OID() uint32
	// PGName returns the PostgreSQL type name (e.g. "int4", "text").
	PGName() string
	isTypeRef()
}

// Scalar is a non-array, non-enum base type with a known Go mapping
// (int4 -> int32, text -> string, numeric -> decimal.Decimal, etc).
type Scalar struct {
	TypeOID uint32
	Name    string
	// GoType is the fully qualified Go type this scalar maps to, e.g.
	// "int32" or "github.com/shopspring/decimal.Decimal".
	GoType string
}

func (s Scalar) OID() uint32    { return s.TypeOID }
func (s Scalar) PGName() string { return s.Name }
func (Scalar) isTypeRef()       {}

// ArrayOf is a PostgreSQL array type; Elem is the element TypeRef, which is
// itself never an ArrayOf (PostgreSQL does not have true nested array
// types at the catalog level — dimensionality is a runtime property).
type ArrayOf struct {
	TypeOID uint32
	Name    string
	Elem    TypeRef
}

func (a ArrayOf) OID() uint32    { return a.TypeOID }
func (a ArrayOf) PGName() string { return a.Name }
func (ArrayOf) isTypeRef()       {}

// Enum is a user-defined enum type; Labels holds its members in
// declaration order, which is also their sort order in PostgreSQL.
type Enum struct {
	TypeOID uint32
	Name    string
	Labels  []string
}

func (e Enum) OID() uint32    { return e.TypeOID }
func (e Enum) PGName() string { return e.Name }
func (Enum) isTypeRef()       {}

// Unknown represents an OID the catalog could not classify (a type this
// generator does not know how to map, or a lookup failure tolerated under
// a best-effort introspection pass). Generated code falls back to []byte
// for these.
type Unknown struct {
	TypeOID uint32
	Name    string
}

func (u Unknown) OID() uint32    { return u.TypeOID }
func (u Unknown) PGName() string { return u.Name }
func (Unknown) isTypeRef()       {}

// String renders a TypeRef for diagnostics and manifest output.
func String(t TypeRef) string {
	switch v := t.(type) {
	case Scalar:
		return v.Name
	case ArrayOf:
		return v.Name
	case Enum:
		return fmt.Sprintf("%s(enum:%d labels)", v.Name, len(v.Labels))
	case Unknown:
		return fmt.Sprintf("%s(unknown)", v.Name)
	default:
		return "?"
	}
}
