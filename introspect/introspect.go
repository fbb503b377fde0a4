package introspect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pgtypegen/pgtypegen/catalog"
	"github.com/pgtypegen/pgtypegen/paramname"
	"github.com/pgtypegen/pgtypegen/query"
	"github.com/pgtypegen/pgtypegen/rewrite"
	"github.com/pgtypegen/pgtypegen/wire"
)

// ErrQueryIntrospectionFailed wraps a server ErrorResponse encountered
// while describing a query, carrying the query name for logging.
type ErrQueryIntrospectionFailed struct {
	QueryName string
	Message   string
}

func (e *ErrQueryIntrospectionFailed) Error() string {
	return fmt.Sprintf("introspection failed for query %q: %s", e.QueryName, e.Message)
}

// Introspector drives the pipeline of spec §4.9 for a batch of
// UntypedQuery records sharing one Connection, one TypeCache, and one
// NullabilityCache — deliberately sequential, per the "no speculative
// parallelism" design note.
type Introspector struct {
	conn     *Conn
	types    *catalog.TypeCache
	nullable *catalog.NullabilityCache
	logger   *slog.Logger
}

// New builds an Introspector over an already-authenticated connection.
func New(conn *Conn, logger *slog.Logger) *Introspector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Introspector{
		conn:     conn,
		types:    catalog.NewTypeCache(conn),
		nullable: catalog.NewNullabilityCache(conn),
		logger:   logger,
	}
}

// Describe runs steps 1-9 of spec §4.9 for a single query.
func (in *Introspector) Describe(ctx context.Context, q query.UntypedQuery) (query.TypedQuery, error) {
	named := rewrite.RewriteNamedParams(q.SQL)
	quoted := rewrite.QuoteAliasHints(named.SQL)

	result, err := in.conn.ParseDescribeSync(ctx, quoted)
	if err != nil {
		return query.TypedQuery{}, err
	}

	if result.ErrResp != nil {
		msg := result.ErrResp.Fields['M']
		in.logger.Error("query introspection failed", "query", q.Name, "message", msg)
		return query.TypedQuery{}, &ErrQueryIntrospectionFailed{QueryName: q.Name, Message: msg}
	}

	names, err := in.resolveParamNames(q.SQL, named)
	if err != nil {
		return query.TypedQuery{}, err
	}
	if len(names) != len(result.Params.OIDs) {
		return query.TypedQuery{}, fmt.Errorf(
			"introspect: query %q: server reported %d parameters but %d names were inferred",
			q.Name, len(result.Params.OIDs), len(names),
		)
	}

	params := make([]query.Param, len(result.Params.OIDs))
	for i, oid := range result.Params.OIDs {
		t, err := in.types.Resolve(ctx, oid)
		if err != nil {
			return query.TypedQuery{}, err
		}
		params[i] = query.Param{Index: i, Name: names[i], Type: t}
	}

	columns, err := in.resolveColumns(ctx, result.Row.Fields)
	if err != nil {
		return query.TypedQuery{}, err
	}

	kind := q.Kind
	if kind == "" {
		if len(columns) == 0 {
			kind = query.KindExec
		} else {
			kind = query.KindMany
		}
	}
	if result.NoData && (kind == query.KindOne || kind == query.KindMany) {
		return query.TypedQuery{}, fmt.Errorf(
			"introspect: query %q declared :%s but the server reported no columns: %w", q.Name, kind, ErrNoDataForTypedQuery,
		)
	}
	if kind == query.KindExecRows && len(columns) > 0 {
		in.logger.Warn("query declared :execrows but server reported columns; columns are ignored", "query", q.Name)
	}
	if kind == query.KindExec && len(columns) > 0 {
		in.logger.Warn("query declared :exec but server reported columns (e.g. a stray RETURNING); columns are ignored", "query", q.Name)
	}

	return query.TypedQuery{
		Name:     q.Name,
		FilePath: q.FilePath,
		SQL:      named.SQL,
		Comment:  q.Comment,
		Kind:     kind,
		Params:   params,
		Columns:  columns,
	}, nil
}

// resolveParamNames implements step 6: merge rewriter-produced names with
// inferencer-produced names, then deduplicate. The positional portion is
// inferred from the original, pre-rewrite SQL so that surrounding context
// (operators, keywords) is exactly what the user wrote.
func (in *Introspector) resolveParamNames(originalSQL string, named rewrite.NamedParamResult) ([]string, error) {
	total := named.PositionalCount + len(named.Names)
	if total == 0 {
		return nil, nil
	}

	inferred := paramname.Infer(originalSQL, named.PositionalCount)

	names := make([]string, 0, total)
	names = append(names, inferred...)
	names = append(names, named.Names...)

	return paramname.Dedupe(names), nil
}

// resolveColumns implements step 8: nullability first (hint suffix, then
// NullabilityCache, then a direct pg_attribute query), then type
// resolution, stripping the hint suffix from the column name.
func (in *Introspector) resolveColumns(ctx context.Context, fields []wire.RowField) ([]query.Column, error) {
	columns := make([]query.Column, len(fields))
	for i, f := range fields {
		name := f.Name
		var nullable bool
		var hinted bool

		switch {
		case strings.HasSuffix(name, "!"):
			name = strings.TrimSuffix(name, "!")
			nullable = false
			hinted = true
		case strings.HasSuffix(name, "?"):
			name = strings.TrimSuffix(name, "?")
			nullable = true
			hinted = true
		}

		if !hinted {
			if f.TableOID != 0 && f.ColumnAttr > 0 {
				notNull, err := in.nullable.NotNull(ctx, f.TableOID, f.ColumnAttr)
				if err != nil {
					return nil, err
				}
				nullable = !notNull
			} else {
				nullable = true
			}
		}

		t, err := in.types.Resolve(ctx, f.TypeOID)
		if err != nil {
			return nil, err
		}

		columns[i] = query.Column{
			Name:       name,
			Type:       t,
			Nullable:   nullable,
			TableOID:   f.TableOID,
			ColumnAttr: f.ColumnAttr,
		}
	}
	return columns, nil
}

// ErrNoDataForTypedQuery lets callers distinguish a no_data server
// response on a :one/:many query from other introspection failures via
// errors.Is. no_data is tolerated for :exec/:execrows, which simply
// yield zero columns, matching invariant (d).
var ErrNoDataForTypedQuery = errors.New("introspect: row description missing for one/many query")
