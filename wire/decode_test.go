package wire

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawFrame builds a backend frame by hand: type byte, four-byte length
// (backpatched), then body.
func rawFrame(typ byte, body []byte) []byte {
	buf := make([]byte, 0, 5+len(body))
	buf = append(buf, typ)
	buf = append(buf, 0, 0, 0, 0)
	buf = append(buf, body...)
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(body)+4))
	return buf
}

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func int16be(v int16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	return b[:]
}

func int32be(v int32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return b[:]
}

func TestDecodeNeedMoreDataOnShortHeader(t *testing.T) {
	_, _, err := Decode([]byte{'Z', 0, 0})
	assert.ErrorIs(t, err, ErrNeedMoreData)
}

func TestDecodeNeedMoreDataOnPartialBody(t *testing.T) {
	var w Writer
	frame, err := EncodeQuery(&w, "select 1")
	require.NoError(t, err)

	_, _, err = Decode(frame[:len(frame)-2])
	assert.ErrorIs(t, err, ErrNeedMoreData)
}

func TestDecodeProtocolErrorOnBadLength(t *testing.T) {
	buf := []byte{'Z', 0, 0, 0, 1}
	_, _, err := Decode(buf)
	assert.ErrorIs(t, err, ErrProtocolError)
}

func TestDecodeUnknownMessageType(t *testing.T) {
	buf := []byte{'!', 0, 0, 0, 4}
	_, _, err := Decode(buf)
	assert.ErrorIs(t, err, ErrUnknownMessageType)
}

func TestDecodeReadyForQuery(t *testing.T) {
	buf := rawFrame(byte(ServerReady), []byte{'I'})
	msg, consumed, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), consumed)
	assert.Equal(t, ReadyForQuery{Status: 'I'}, msg)
}

func TestDecodeRowDescriptionRoundTrip(t *testing.T) {
	var body []byte
	body = append(body, int16be(2)...)

	body = append(body, cstr("id")...)
	body = append(body, int32be(0)...)
	body = append(body, int16be(1)...)
	body = append(body, int32be(23)...)
	body = append(body, int16be(4)...)
	body = append(body, int32be(-1)...)
	body = append(body, int16be(0)...)

	body = append(body, cstr("name")...)
	body = append(body, int32be(0)...)
	body = append(body, int16be(2)...)
	body = append(body, int32be(25)...)
	body = append(body, int16be(-1)...)
	body = append(body, int32be(-1)...)
	body = append(body, int16be(0)...)

	frame := rawFrame(byte(ServerRowDescription), body)

	msg, consumed, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, len(frame), consumed)

	rd, ok := msg.(RowDescription)
	require.True(t, ok)
	require.Len(t, rd.Fields, 2)
	assert.Equal(t, "id", rd.Fields[0].Name)
	assert.Equal(t, uint32(23), rd.Fields[0].TypeOID)
	assert.Equal(t, "name", rd.Fields[1].Name)
	assert.Equal(t, uint32(25), rd.Fields[1].TypeOID)
}

func TestDecodeBindComplete(t *testing.T) {
	buf := rawFrame(byte(ServerBindComplete), nil)
	msg, consumed, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), consumed)
	assert.Equal(t, BindComplete{}, msg)
}

func TestDecodeCloseComplete(t *testing.T) {
	buf := rawFrame(byte(ServerCloseComplete), nil)
	msg, consumed, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), consumed)
	assert.Equal(t, CloseComplete{}, msg)
}

func TestDecodeErrorResponse(t *testing.T) {
	var body []byte
	body = append(body, 'S')
	body = append(body, cstr("ERROR")...)
	body = append(body, 'M')
	body = append(body, cstr(`relation "x" does not exist`)...)
	body = append(body, 0)

	frame := rawFrame(byte(ServerErrorResponse), body)

	msg, _, err := Decode(frame)
	require.NoError(t, err)

	errResp, ok := msg.(ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, "ERROR", errResp.Fields['S'])
	assert.Equal(t, `relation "x" does not exist`, errResp.Fields['M'])
}

func TestDecodeDoesNotAliasInputBuffer(t *testing.T) {
	var body []byte
	body = append(body, cstr("server_version")...)
	body = append(body, cstr("16.2")...)
	frame := rawFrame(byte(ServerParameterStatus), body)

	buf := make([]byte, len(frame))
	copy(buf, frame)

	msg, _, err := Decode(buf)
	require.NoError(t, err)

	for i := range buf {
		buf[i] = 0
	}

	ps, ok := msg.(ParameterStatus)
	require.True(t, ok)
	assert.Equal(t, "server_version", ps.Name)
	assert.Equal(t, "16.2", ps.Value)
}

func TestDecodeAuthMD5(t *testing.T) {
	body := append(int32be(authMD5Password), []byte{1, 2, 3, 4}...)
	frame := rawFrame(byte(ServerAuth), body)

	msg, _, err := Decode(frame)
	require.NoError(t, err)

	md5Auth, ok := msg.(AuthMD5)
	require.True(t, ok)
	assert.Equal(t, [4]byte{1, 2, 3, 4}, md5Auth.Salt)
}

func TestDecodeAuthSASLMechanismList(t *testing.T) {
	var body []byte
	body = append(body, int32be(authSASL)...)
	body = append(body, cstr("SCRAM-SHA-256")...)
	body = append(body, 0)
	frame := rawFrame(byte(ServerAuth), body)

	msg, _, err := Decode(frame)
	require.NoError(t, err)

	sasl, ok := msg.(AuthSASL)
	require.True(t, ok)
	assert.Equal(t, []string{"SCRAM-SHA-256"}, sasl.Mechanisms)
}
