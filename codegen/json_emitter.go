package codegen

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pgtypegen/pgtypegen/catalog"
	"github.com/pgtypegen/pgtypegen/query"
)

// JSONEmitter is the reference Emitter: each Emit call writes one
// TypedQuery, and each EmitSchema call one array of type strings, to w as
// a separate indented JSON value. It is
// what the example queries/ directory and the CLI's default "generate"
// mode use when no other emitter is configured.
type JSONEmitter struct {
	w        io.Writer
	enc      *json.Encoder
	wroteAny bool
}

// NewJSONEmitter wraps w. Queries are written as they are emitted; the
// caller is responsible for closing w once done.
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSONEmitter{w: w, enc: enc}
}

func (e *JSONEmitter) Emit(q query.TypedQuery) error {
	if err := e.enc.Encode(toManifestQuery(q)); err != nil {
		return fmt.Errorf("codegen: emit query %q: %w", q.Name, err)
	}
	e.wroteAny = true
	return nil
}

func (e *JSONEmitter) EmitSchema(types []catalog.TypeRef) error {
	schema := make([]string, len(types))
	for i, t := range types {
		schema[i] = catalog.String(t)
	}
	if err := e.enc.Encode(schema); err != nil {
		return fmt.Errorf("codegen: emit schema: %w", err)
	}
	return nil
}
