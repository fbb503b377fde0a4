package pgerr

import (
	"errors"

	"github.com/pgtypegen/pgtypegen/pgerr/codes"
)

// Severity mirrors the wire protocol's error/notice severity field: ERROR,
// FATAL, or PANIC for an ErrorResponse, or WARNING, NOTICE, DEBUG, INFO, or
// LOG for a NoticeResponse.
type Severity string

const (
	LevelError   Severity = "ERROR"
	LevelFatal   Severity = "FATAL"
	LevelPanic   Severity = "PANIC"
	LevelWarning Severity = "WARNING"
	LevelNotice  Severity = "NOTICE"
	LevelDebug   Severity = "DEBUG"
	LevelInfo    Severity = "INFO"
	LevelLog     Severity = "LOG"
)

// Error is the decoded form of one ErrorResponse/NoticeResponse field set.
// A server composing an error from several unrelated call sites benefits
// from layering independent decorators onto a growing cause chain; a
// client decoding a single wire message has every field available at once,
// so Decode fills one Error directly instead of wrapping a chain of
// single-field decorator types.
type Error struct {
	Message        string
	Code           codes.Code
	Severity       Severity
	Hint           string
	Detail         string
	ConstraintName string
}

func (e *Error) Error() string { return e.Message }

// GetCode returns the Postgres error code carried by err, unwrapping
// through any fmt.Errorf("%w", ...) wrapping via errors.As. Uncategorized
// is returned if err is nil or carries no *Error.
func GetCode(err error) codes.Code {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return codes.Uncategorized
}

// GetSeverity returns the severity carried by err, or "" if none.
func GetSeverity(err error) Severity {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Severity
	}
	return ""
}

// GetHint returns the hint carried by err, or "" if none.
func GetHint(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Hint
	}
	return ""
}

// GetDetail returns the detail text carried by err, or "" if none.
func GetDetail(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Detail
	}
	return ""
}

// GetConstraintName returns the constraint name carried by err, or "" if
// none.
func GetConstraintName(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.ConstraintName
	}
	return ""
}

// DefaultSeverity returns the default severity (ERROR) if no valid
// severity has been defined.
func DefaultSeverity(severity Severity) Severity {
	if severity == "" {
		return LevelError
	}
	return severity
}
