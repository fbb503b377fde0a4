// Package introspect drives the Extended Query exchange (Parse, Describe,
// Sync) for each annotated query and assembles the resulting TypedQuery,
// resolving parameter and column types through the type and nullability
// caches (spec §4.9).
package introspect

import (
	"context"
	"fmt"

	"github.com/pgtypegen/pgtypegen/wire"
)

// Conn wraps a *wire.Connection with the two query shapes introspection
// needs: the Extended Query trio for describing a statement, and a simple
// Query round trip for catalog follow-up lookups (pg_type, pg_enum,
// pg_attribute). It satisfies the unexported querier interface catalog's
// TypeCache and NullabilityCache depend on.
type Conn struct {
	wire *wire.Connection
}

// NewConn wraps an already-authenticated wire connection.
func NewConn(w *wire.Connection) *Conn {
	return &Conn{wire: w}
}

// describeResult collects everything the Extended Query trio can report
// for one statement.
type describeResult struct {
	Params  wire.ParameterDescription
	Row     wire.RowDescription
	NoData  bool
	ErrResp *wire.ErrorResponse
}

// ParseDescribeSync sends Parse("", sql), Describe('S', ""), Sync as a
// contiguous triple in a single write and collects messages until
// ReadyForQuery, per spec §4.9 step 3 and the ordering rule in the
// concurrency model.
func (c *Conn) ParseDescribeSync(ctx context.Context, sql string) (describeResult, error) {
	c.wire.Logger().Debug("parse/describe/sync round trip", "sql", sql)
	w := c.wire.Writer()

	// Each frame aliases the Writer's buffer, so it is copied out before
	// the next one is built.
	var batch []byte
	parseFrame, err := wire.EncodeParse(w, sql)
	if err != nil {
		return describeResult{}, err
	}
	batch = append(batch, parseFrame...)

	descFrame, err := wire.EncodeDescribe(w, wire.DescribeStatement)
	if err != nil {
		return describeResult{}, err
	}
	batch = append(batch, descFrame...)

	syncFrame, err := wire.EncodeSync(w)
	if err != nil {
		return describeResult{}, err
	}
	batch = append(batch, syncFrame...)

	if err := c.wire.Send(batch); err != nil {
		return describeResult{}, err
	}

	var result describeResult
	err = c.wire.RecvUntilReady(func(msg wire.BackendMsg) error {
		switch m := msg.(type) {
		case wire.ParameterDescription:
			result.Params = m
		case wire.RowDescription:
			result.Row = m
		case wire.NoData:
			result.NoData = true
		case wire.ErrorResponse:
			resp := m
			result.ErrResp = &resp
		}
		return nil
	})
	if err != nil {
		return describeResult{}, err
	}

	c.wire.Logger().Debug("parse/describe/sync complete", "params", len(result.Params.OIDs), "columns", len(result.Row.Fields), "no_data", result.NoData)
	return result, nil
}

// SimpleQuery issues a simple Query and collects its RowDescription (if
// any) together with every DataRow, decoded as text-format strings. It
// implements the querier interface catalog.TypeCache and
// catalog.NullabilityCache use for pg_type/pg_enum/pg_attribute lookups.
func (c *Conn) SimpleQuery(ctx context.Context, sql string) ([]wire.RowField, [][]string, error) {
	c.wire.Logger().Debug("simple query round trip", "sql", sql)
	w := c.wire.Writer()
	frame, err := wire.EncodeQuery(w, sql)
	if err != nil {
		return nil, nil, err
	}
	if err := c.wire.Send(frame); err != nil {
		return nil, nil, err
	}

	var fields []wire.RowField
	var rows [][]string
	var queryErr error

	err = c.wire.RecvUntilReady(func(msg wire.BackendMsg) error {
		switch m := msg.(type) {
		case wire.RowDescription:
			fields = m.Fields
		case wire.DataRow:
			row := make([]string, len(m.Columns))
			for i, col := range m.Columns {
				if col == nil {
					row[i] = ""
					continue
				}
				row[i] = string(col)
			}
			rows = append(rows, row)
		case wire.ErrorResponse:
			queryErr = fmt.Errorf("catalog query failed: %s", m.Fields['M'])
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if queryErr != nil {
		return nil, nil, queryErr
	}

	return fields, rows, nil
}
