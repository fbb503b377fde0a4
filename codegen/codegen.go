// Package codegen is the thin, external code-emission collaborator: it
// turns a query.TypedQuery into whatever output format a consumer wants,
// and records a JSON manifest of a generate run so a later verify run can
// diff the live database against it. It deliberately does not attempt
// struct pretty-printing or Go-source templating — that is out of scope,
// matching the generator core's non-goal of shipping its own Go codegen
// templates.
package codegen

import (
	"github.com/pgtypegen/pgtypegen/catalog"
	"github.com/pgtypegen/pgtypegen/query"
)

// Emitter is the seam between the introspection core and wherever
// generated output actually goes. Implementations decide the output
// format and destination.
type Emitter interface {
	// Emit is called once per successfully typed query, in the order
	// queries were discovered.
	Emit(query.TypedQuery) error
	// EmitSchema takes a list of TypeRefs (for emitters that need to
	// declare enum or array types). The generate command does not call
	// it; only Emit is used there.
	EmitSchema([]catalog.TypeRef) error
}
