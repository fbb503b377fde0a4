package catalog

import "github.com/jackc/pgx/v5/pgtype"

// wellKnown maps the built-in scalar OIDs this generator understands
// directly to their Go mapping, without needing a catalog round trip.
// Sourced from the OID constants pgx/v5/pgtype already exports rather than
// hand-copying pg_type.dat.
var wellKnown = map[uint32]Scalar{
	pgtype.BoolOID:        {TypeOID: pgtype.BoolOID, Name: "bool", GoType: "bool"},
	pgtype.Int2OID:        {TypeOID: pgtype.Int2OID, Name: "int2", GoType: "int16"},
	pgtype.Int4OID:        {TypeOID: pgtype.Int4OID, Name: "int4", GoType: "int32"},
	pgtype.Int8OID:        {TypeOID: pgtype.Int8OID, Name: "int8", GoType: "int64"},
	pgtype.Float4OID:      {TypeOID: pgtype.Float4OID, Name: "float4", GoType: "float32"},
	pgtype.Float8OID:      {TypeOID: pgtype.Float8OID, Name: "float8", GoType: "float64"},
	pgtype.TextOID:        {TypeOID: pgtype.TextOID, Name: "text", GoType: "string"},
	pgtype.VarcharOID:     {TypeOID: pgtype.VarcharOID, Name: "varchar", GoType: "string"},
	pgtype.BPCharOID:      {TypeOID: pgtype.BPCharOID, Name: "bpchar", GoType: "string"},
	pgtype.NameOID:        {TypeOID: pgtype.NameOID, Name: "name", GoType: "string"},
	pgtype.UUIDOID:        {TypeOID: pgtype.UUIDOID, Name: "uuid", GoType: "github.com/google/uuid.UUID"},
	pgtype.DateOID:        {TypeOID: pgtype.DateOID, Name: "date", GoType: "time.Time"},
	pgtype.TimeOID:        {TypeOID: pgtype.TimeOID, Name: "time", GoType: "time.Time"},
	pgtype.TimestampOID:   {TypeOID: pgtype.TimestampOID, Name: "timestamp", GoType: "time.Time"},
	pgtype.TimestamptzOID: {TypeOID: pgtype.TimestamptzOID, Name: "timestamptz", GoType: "time.Time"},
	pgtype.IntervalOID:    {TypeOID: pgtype.IntervalOID, Name: "interval", GoType: "time.Duration"},
	pgtype.NumericOID:     {TypeOID: pgtype.NumericOID, Name: "numeric", GoType: "github.com/shopspring/decimal.Decimal"},
	pgtype.ByteaOID:       {TypeOID: pgtype.ByteaOID, Name: "bytea", GoType: "[]byte"},
	pgtype.JSONOID:        {TypeOID: pgtype.JSONOID, Name: "json", GoType: "json.RawMessage"},
	pgtype.JSONBOID:       {TypeOID: pgtype.JSONBOID, Name: "jsonb", GoType: "json.RawMessage"},
	pgtype.InetOID:        {TypeOID: pgtype.InetOID, Name: "inet", GoType: "netip.Addr"},
	pgtype.OIDOID:         {TypeOID: pgtype.OIDOID, Name: "oid", GoType: "uint32"},
}

// wellKnownArrays maps the built-in array OIDs to the element OID they
// wrap. PostgreSQL reserves a dedicated OID for "array of X" per scalar
// base type; pgx/v5/pgtype exposes these under an ArrayOID suffix.
var wellKnownArrays = map[uint32]uint32{
	pgtype.BoolArrayOID:        pgtype.BoolOID,
	pgtype.Int2ArrayOID:        pgtype.Int2OID,
	pgtype.Int4ArrayOID:        pgtype.Int4OID,
	pgtype.Int8ArrayOID:        pgtype.Int8OID,
	pgtype.Float4ArrayOID:      pgtype.Float4OID,
	pgtype.Float8ArrayOID:      pgtype.Float8OID,
	pgtype.TextArrayOID:        pgtype.TextOID,
	pgtype.VarcharArrayOID:     pgtype.VarcharOID,
	pgtype.UUIDArrayOID:        pgtype.UUIDOID,
	pgtype.NumericArrayOID:     pgtype.NumericOID,
	pgtype.TimestampArrayOID:   pgtype.TimestampOID,
	pgtype.TimestamptzArrayOID: pgtype.TimestamptzOID,
}

// LookupWellKnown reports whether oid is one of the built-in scalar or
// array types this generator recognizes without consulting pg_type.
func LookupWellKnown(oid uint32) (TypeRef, bool) {
	if scalar, ok := wellKnown[oid]; ok {
		return scalar, true
	}
	if elemOID, ok := wellKnownArrays[oid]; ok {
		elem, ok := wellKnown[elemOID]
		if !ok {
			return nil, false
		}
		return ArrayOf{TypeOID: oid, Name: elem.Name + "[]", Elem: elem}, true
	}
	return nil, false
}
