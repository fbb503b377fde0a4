// Package pgerr models the PostgreSQL wire protocol's ErrorResponse and
// NoticeResponse field sets, decoding them into a single *Error so a
// caller can recover the SQLSTATE, severity, hint, detail, and constraint
// name of a failure with the Get* accessors without the rest of the call
// stack needing to know about the wire format.
package pgerr

import "github.com/pgtypegen/pgtypegen/pgerr/codes"

// Fields holds the raw field set of a parsed ErrorResponse or
// NoticeResponse ('E'/'N') message, keyed by the single-byte field codes
// from https://www.postgresql.org/docs/current/protocol-error-fields.html.
type Fields map[byte]string

// Field codes relevant to the introspection pipeline.
const (
	FieldSeverity       byte = 'S'
	FieldSQLState       byte = 'C'
	FieldMessage        byte = 'M'
	FieldDetail         byte = 'D'
	FieldHint           byte = 'H'
	FieldConstraintName byte = 'n'
)

// Decode converts a raw field set received from the server into an *Error
// so downstream callers can inspect it with the Get* accessors in this
// package. The primary message (field 'M') becomes the error's message.
func Decode(fields Fields) error {
	msg := fields[FieldMessage]
	if msg == "" {
		msg = "server returned an error response with no message"
	}

	e := &Error{Message: msg, Code: codes.Uncategorized}
	if code, ok := fields[FieldSQLState]; ok {
		e.Code = codes.Code(code)
	}
	if sev, ok := fields[FieldSeverity]; ok {
		e.Severity = Severity(sev)
	}
	if hint, ok := fields[FieldHint]; ok {
		e.Hint = hint
	}
	if detail, ok := fields[FieldDetail]; ok {
		e.Detail = detail
	}
	if constraint, ok := fields[FieldConstraintName]; ok {
		e.ConstraintName = constraint
	}

	return e
}
