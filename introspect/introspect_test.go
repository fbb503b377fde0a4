package introspect

import (
	"context"
	"net"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/neilotoole/slogt"
	"github.com/pgtypegen/pgtypegen/query"
	"github.com/pgtypegen/pgtypegen/wire"
	"github.com/stretchr/testify/require"
)

func writeMsg(t *testing.T, conn net.Conn, typ byte, body []byte) {
	t.Helper()
	buf := make([]byte, 0, 5+len(body))
	buf = append(buf, typ)
	buf = append(buf, 0, 0, 0, 0)
	buf = append(buf, body...)
	length := uint32(len(body) + 4)
	buf[1] = byte(length >> 24)
	buf[2] = byte(length >> 16)
	buf[3] = byte(length >> 8)
	buf[4] = byte(length)
	_, err := conn.Write(buf)
	require.NoError(t, err)
}

func cstring(s string) []byte { return append([]byte(s), 0) }

func be16(v int16) []byte {
	return []byte{byte(uint16(v) >> 8), byte(uint16(v))}
}

func be32(v int32) []byte {
	u := uint32(v)
	return []byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)}
}

func textDataRow(values ...string) []byte {
	body := be16(int16(len(values)))
	for _, v := range values {
		body = append(body, be32(int32(len(v)))...)
		body = append(body, []byte(v)...)
	}
	return body
}

func rowDescriptionBody(names []string, typeOIDs []uint32) []byte {
	body := be16(int16(len(names)))
	for i, name := range names {
		body = append(body, cstring(name)...)
		body = append(body, be32(0)...)  // table OID, overwritten by caller if needed
		body = append(body, be16(0)...)  // column attr, overwritten by caller if needed
		body = append(body, be32(int32(typeOIDs[i]))...)
		body = append(body, be16(-1)...)
		body = append(body, be32(-1)...)
		body = append(body, be16(0)...)
	}
	return body
}

// runFindByIDServer plays the scenario 1 fixture: one Extended Query
// round trip for "SELECT id, name FROM users WHERE id = $1", answering
// with one int4 parameter and two NOT NULL columns on table OID 100, then
// one pg_attribute follow-up query covering both columns at once.
func runFindByIDServer(t *testing.T, conn net.Conn) {
	t.Helper()
	buf := make([]byte, 8192)
	_, err := conn.Read(buf)
	require.NoError(t, err)

	paramBody := append(be16(1), be32(int32(pgtype.Int4OID))...)
	writeMsg(t, conn, byte(wire.ServerParameterDescription), paramBody)

	var rowBody []byte
	rowBody = append(rowBody, be16(2)...)
	rowBody = append(rowBody, cstring("id")...)
	rowBody = append(rowBody, be32(100)...)
	rowBody = append(rowBody, be16(1)...)
	rowBody = append(rowBody, be32(int32(pgtype.Int4OID))...)
	rowBody = append(rowBody, be16(4)...)
	rowBody = append(rowBody, be32(-1)...)
	rowBody = append(rowBody, be16(0)...)
	rowBody = append(rowBody, cstring("name")...)
	rowBody = append(rowBody, be32(100)...)
	rowBody = append(rowBody, be16(2)...)
	rowBody = append(rowBody, be32(int32(pgtype.TextOID))...)
	rowBody = append(rowBody, be16(-1)...)
	rowBody = append(rowBody, be32(-1)...)
	rowBody = append(rowBody, be16(0)...)
	writeMsg(t, conn, byte(wire.ServerRowDescription), rowBody)

	writeMsg(t, conn, byte(wire.ServerParseComplete), nil)
	writeMsg(t, conn, byte(wire.ServerReady), []byte{'I'})

	// pg_attribute follow-up for table 100 (loaded once, covers both
	// columns via the NullabilityCache's per-table memoization).
	_, err = conn.Read(buf)
	require.NoError(t, err)

	colDescBody := rowDescriptionBody([]string{"attnum", "attnotnull"}, []uint32{pgtype.Int2OID, pgtype.BoolOID})
	writeMsg(t, conn, byte(wire.ServerRowDescription), colDescBody)
	writeMsg(t, conn, byte(wire.ServerDataRow), textDataRow("1", "t"))
	writeMsg(t, conn, byte(wire.ServerDataRow), textDataRow("2", "t"))
	writeMsg(t, conn, byte(wire.ServerCommandComplete), cstring("SELECT 2"))
	writeMsg(t, conn, byte(wire.ServerReady), []byte{'I'})
}

func TestIntrospectorFindByID(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		runFindByIDServer(t, server)
	}()

	conn := NewConn(wire.NewConnection(client))
	in := New(conn, nil)

	q := query.UntypedQuery{
		Name: "GetUserByID",
		SQL:  "SELECT id, name FROM users WHERE id = $1",
		Kind: query.KindOne,
	}

	typed, err := in.Describe(context.Background(), q)
	require.NoError(t, err)
	<-done

	require.Len(t, typed.Params, 1)
	require.Equal(t, "id", typed.Params[0].Name)

	require.Len(t, typed.Columns, 2)
	require.Equal(t, "id", typed.Columns[0].Name)
	require.False(t, typed.Columns[0].Nullable)
	require.Equal(t, "name", typed.Columns[1].Name)
	require.False(t, typed.Columns[1].Nullable)
}

func TestIntrospectorNullabilityHintOverridesComputedColumn(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 8192)
		_, err := server.Read(buf)
		require.NoError(t, err)

		writeMsg(t, server, byte(wire.ServerParameterDescription), be16(0))

		rowBody := rowDescriptionBodyComputed("total!", pgtype.Int8OID)
		writeMsg(t, server, byte(wire.ServerRowDescription), rowBody)
		writeMsg(t, server, byte(wire.ServerParseComplete), nil)
		writeMsg(t, server, byte(wire.ServerReady), []byte{'I'})
	}()

	conn := NewConn(wire.NewConnection(client))
	in := New(conn, nil)

	q := query.UntypedQuery{
		Name: "CountPosts",
		SQL:  `SELECT COUNT(*) AS "total!" FROM posts`,
		Kind: query.KindOne,
	}

	typed, err := in.Describe(context.Background(), q)
	require.NoError(t, err)
	<-done

	require.Len(t, typed.Columns, 1)
	require.Equal(t, "total", typed.Columns[0].Name)
	require.False(t, typed.Columns[0].Nullable)
}

// TestIntrospectorExecWithReturningLogsWarning plays scenario 2: a
// query declared :exec that carries a stray RETURNING clause. The
// server reports columns even though the declared kind discards them;
// Describe must keep Kind unchanged and log a Warn rather than fail,
// same as the teacher logs protocol anomalies via a real *slog.Logger
// instead of silently swallowing them.
func TestIntrospectorExecWithReturningLogsWarning(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 8192)
		_, err := server.Read(buf)
		require.NoError(t, err)

		paramBody := append(be16(2), be32(int32(pgtype.TimestamptzOID))...)
		paramBody = append(paramBody, be32(int32(pgtype.Int4OID))...)
		writeMsg(t, server, byte(wire.ServerParameterDescription), paramBody)

		rowBody := rowDescriptionBody([]string{"id", "locked_until_at"}, []uint32{pgtype.Int4OID, pgtype.TimestamptzOID})
		writeMsg(t, server, byte(wire.ServerRowDescription), rowBody)
		writeMsg(t, server, byte(wire.ServerParseComplete), nil)
		writeMsg(t, server, byte(wire.ServerReady), []byte{'I'})
	}()

	conn := NewConn(wire.NewConnection(client))
	logger := slogt.New(t)
	in := New(conn, logger)

	q := query.UntypedQuery{
		Name: "LockAccountUntil",
		SQL:  "UPDATE accounts SET locked_until_at = $1 WHERE id = $2 RETURNING id, locked_until_at",
		Kind: query.KindExec,
	}

	typed, err := in.Describe(context.Background(), q)
	require.NoError(t, err)
	<-done

	require.Equal(t, query.KindExec, typed.Kind)
	require.Len(t, typed.Columns, 2)
	require.True(t, strings.HasPrefix(typed.Columns[0].Name, "id"))
}

func rowDescriptionBodyComputed(name string, typeOID uint32) []byte {
	body := be16(1)
	body = append(body, cstring(name)...)
	body = append(body, be32(0)...)
	body = append(body, be16(0)...)
	body = append(body, be32(int32(typeOID))...)
	body = append(body, be16(-1)...)
	body = append(body, be32(-1)...)
	body = append(body, be16(0)...)
	return body
}
