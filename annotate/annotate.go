// Package annotate splits a sqlc-style annotated .sql file into the
// UntypedQuery records described by spec §6: each query is preceded by a
// mandatory "-- name: <Name> :<kind>" line and an optional run of
// "-- ..." doc comment lines, and is terminated by a semicolon.
package annotate

import (
	"fmt"
	"strings"

	"github.com/pgtypegen/pgtypegen/query"
)

// ErrInvalidAnnotation is returned when a query block is missing its
// "name:" line or carries an unrecognized kind.
type ErrInvalidAnnotation struct {
	FilePath string
	Reason   string
}

func (e *ErrInvalidAnnotation) Error() string {
	return fmt.Sprintf("annotate: %s: %s", e.FilePath, e.Reason)
}

var validKinds = map[string]query.Kind{
	"one":      query.KindOne,
	"many":     query.KindMany,
	"exec":     query.KindExec,
	"execrows": query.KindExecRows,
}

// Parse splits the contents of a .sql file at path into its annotated
// queries. Blank lines and "--" comment lines outside any annotation block
// are skipped; any other content before a "-- name:" line is an
// *ErrInvalidAnnotation.
func Parse(path, contents string) ([]query.UntypedQuery, error) {
	lines := strings.Split(contents, "\n")

	var out []query.UntypedQuery
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}

		name, kind, ok := parseNameLine(line)
		if !ok {
			if strings.HasPrefix(line, "--") {
				i++
				continue
			}
			return nil, &ErrInvalidAnnotation{FilePath: path, Reason: fmt.Sprintf("unexpected content before any \"-- name:\" line: %q", line)}
		}

		// kind is optional (spec §3's data model marks "kind?"); an
		// omitted suffix leaves k as the zero Kind, which introspect
		// later infers from the query's reported result shape.
		var k query.Kind
		if kind != "" {
			k, ok = validKinds[kind]
			if !ok {
				return nil, &ErrInvalidAnnotation{FilePath: path, Reason: fmt.Sprintf("query %q has unrecognized kind %q", name, kind)}
			}
		}

		i++
		var comments []string
		for i < len(lines) {
			l := strings.TrimSpace(lines[i])
			if !strings.HasPrefix(l, "--") {
				break
			}
			comments = append(comments, strings.TrimSpace(strings.TrimPrefix(l, "--")))
			i++
		}

		var body strings.Builder
		terminated := false
		for i < len(lines) {
			body.WriteString(lines[i])
			body.WriteString("\n")
			if strings.Contains(lines[i], ";") {
				terminated = true
				i++
				break
			}
			i++
		}
		if !terminated {
			return nil, &ErrInvalidAnnotation{FilePath: path, Reason: fmt.Sprintf("query %q has no terminating semicolon", name)}
		}

		out = append(out, query.UntypedQuery{
			Name:     name,
			FilePath: path,
			SQL:      strings.TrimSpace(body.String()),
			Comment:  strings.TrimSpace(strings.Join(comments, "\n")),
			Kind:     k,
		})
	}

	return out, nil
}

// parseNameLine recognizes "-- name: <Name> :<kind>" and returns the name
// and kind (without the leading colon). The ":<kind>" suffix is optional;
// a bare "-- name: <Name>" line returns kind == "".
func parseNameLine(line string) (name, kind string, ok bool) {
	if !strings.HasPrefix(line, "--") {
		return "", "", false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "--"))
	if !strings.HasPrefix(rest, "name:") {
		return "", "", false
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "name:"))

	fields := strings.Fields(rest)
	switch len(fields) {
	case 1:
		return fields[0], "", true
	case 2:
		if !strings.HasPrefix(fields[1], ":") {
			return "", "", false
		}
		return fields[0], strings.TrimPrefix(fields[1], ":"), true
	default:
		return "", "", false
	}
}
