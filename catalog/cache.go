package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pgtypegen/pgtypegen/wire"
)

// querier is the minimal surface catalog needs from a driven connection: a
// simple-query round trip that returns text-format rows. TypeCache and
// NullabilityCache depend on this rather than *wire.Connection directly
// (introspect.Conn satisfies it), so cache.go can be unit tested against a
// fake.
type querier interface {
	SimpleQuery(ctx context.Context, sql string) ([]wire.RowField, [][]string, error)
}

// TypeCache resolves PostgreSQL type OIDs to TypeRef values, memoizing
// catalog round trips across an introspection run. The well-known scalar
// and array OIDs never touch the database; everything else (enums,
// domains, unknown extension types) is looked up once and cached.
type TypeCache struct {
	q     querier
	byOID map[uint32]TypeRef
}

// NewTypeCache wraps a querier with an empty cache, preloaded implicitly
// with the well-known scalar/array OIDs via LookupWellKnown.
func NewTypeCache(q querier) *TypeCache {
	return &TypeCache{q: q, byOID: make(map[uint32]TypeRef)}
}

// Resolve returns the TypeRef for oid, querying pg_type/pg_enum on a cache
// miss. An OID the catalog has no row for at all (a stale reference,
// should not happen in practice) resolves to Unknown rather than
// erroring, matching the generator's best-effort stance on exotic types.
func (c *TypeCache) Resolve(ctx context.Context, oid uint32) (TypeRef, error) {
	if t, ok := LookupWellKnown(oid); ok {
		return t, nil
	}
	if t, ok := c.byOID[oid]; ok {
		return t, nil
	}

	t, err := c.lookup(ctx, oid)
	if err != nil {
		return nil, err
	}
	c.byOID[oid] = t
	return t, nil
}

func (c *TypeCache) lookup(ctx context.Context, oid uint32) (TypeRef, error) {
	sql := fmt.Sprintf(
		`select typname, typtype, typelem from pg_type where oid = %d`, oid,
	)
	_, rows, err := c.q.SimpleQuery(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("catalog: resolving oid %d: %w", oid, err)
	}
	if len(rows) == 0 {
		return Unknown{TypeOID: oid, Name: fmt.Sprintf("oid%d", oid)}, nil
	}

	row := rows[0]
	name, typtype := row[0], row[1]
	typelem, _ := strconv.ParseUint(row[2], 10, 32)

	switch typtype {
	case "e":
		labels, err := c.enumLabels(ctx, oid)
		if err != nil {
			return nil, err
		}
		return Enum{TypeOID: oid, Name: name, Labels: labels}, nil
	case "b":
		if typelem != 0 {
			elem, err := c.Resolve(ctx, uint32(typelem))
			if err != nil {
				return nil, err
			}
			return ArrayOf{TypeOID: oid, Name: name, Elem: elem}, nil
		}
		return Unknown{TypeOID: oid, Name: name}, nil
	default:
		return Unknown{TypeOID: oid, Name: name}, nil
	}
}

func (c *TypeCache) enumLabels(ctx context.Context, oid uint32) ([]string, error) {
	sql := fmt.Sprintf(
		`select enumlabel from pg_enum where enumtypid = %d order by enumsortorder`, oid,
	)
	_, rows, err := c.q.SimpleQuery(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("catalog: resolving enum labels for oid %d: %w", oid, err)
	}
	labels := make([]string, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, row[0])
	}
	return labels, nil
}

// NullabilityCache answers, per table column, whether pg_attribute marks
// it NOT NULL. Results are cached per table OID: describing N columns of
// the same table costs one query, not N.
type NullabilityCache struct {
	q        querier
	perTable map[uint32]map[int16]bool
}

// NewNullabilityCache wraps a querier with an empty cache.
func NewNullabilityCache(q querier) *NullabilityCache {
	return &NullabilityCache{q: q, perTable: make(map[uint32]map[int16]bool)}
}

// NotNull reports whether column attnum of table tableOID is declared NOT
// NULL. tableOID of 0 (a computed, non-table-backed column, e.g. an
// expression in the SELECT list) always reports false — such columns are
// treated as nullable since no catalog entry exists to say otherwise.
func (n *NullabilityCache) NotNull(ctx context.Context, tableOID uint32, attnum int16) (bool, error) {
	if tableOID == 0 {
		return false, nil
	}

	cols, ok := n.perTable[tableOID]
	if !ok {
		var err error
		cols, err = n.loadTable(ctx, tableOID)
		if err != nil {
			return false, err
		}
		n.perTable[tableOID] = cols
	}

	return cols[attnum], nil
}

func (n *NullabilityCache) loadTable(ctx context.Context, tableOID uint32) (map[int16]bool, error) {
	sql := fmt.Sprintf(
		`select attnum, attnotnull from pg_attribute where attrelid = %d and attnum > 0 and not attisdropped`,
		tableOID,
	)
	_, rows, err := n.q.SimpleQuery(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("catalog: loading nullability for table %d: %w", tableOID, err)
	}

	cols := make(map[int16]bool, len(rows))
	for _, row := range rows {
		attnum, err := strconv.ParseInt(row[0], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("catalog: parsing attnum: %w", err)
		}
		cols[int16(attnum)] = strings.TrimSpace(row[1]) == "t"
	}
	return cols, nil
}
