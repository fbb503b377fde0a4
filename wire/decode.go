package wire

import "encoding/binary"

// minMessageHeader is the type byte plus the four-byte length field every
// backend message (except the very first byte of a StartupMessage
// response, which never occurs) carries.
const minMessageHeader = 5

// Decode attempts to parse a single backend message from the front of buf.
// It returns (msg, consumed, nil) on success, where consumed is the number
// of bytes of buf the message occupied. If buf does not yet hold a
// complete message it returns (nil, 0, ErrNeedMoreData) and the caller
// should read more data and retry with a larger buf. A structurally
// invalid header (length < 4) yields ErrProtocolError; a well-formed
// header with an unrecognized type byte yields ErrUnknownMessageType.
//
// Decode never retains buf: RowDescription, ParameterDescription, and
// DataRow copy their variable-length contents into freshly allocated
// strings/slices, so the caller is free to compact or overwrite its
// receive buffer immediately after Decode returns (spec §4.2).
func Decode(buf []byte) (BackendMsg, int, error) {
	if len(buf) < minMessageHeader {
		return nil, 0, ErrNeedMoreData
	}

	typ := ServerMessage(buf[0])
	length := int32(binary.BigEndian.Uint32(buf[1:5]))
	if length < 4 {
		return nil, 0, ErrProtocolError
	}

	total := 1 + int(length)
	if len(buf) < total {
		return nil, 0, ErrNeedMoreData
	}

	body := buf[5:total]

	msg, err := decodeBody(typ, body)
	if err != nil {
		return nil, 0, err
	}

	return msg, total, nil
}

func decodeBody(typ ServerMessage, body []byte) (BackendMsg, error) {
	switch typ {
	case ServerAuth:
		return decodeAuth(body)
	case ServerParameterStatus:
		return decodeParameterStatus(body)
	case ServerBackendKeyData:
		return decodeBackendKeyData(body)
	case ServerReady:
		return decodeReadyForQuery(body)
	case ServerParseComplete:
		return ParseComplete{}, nil
	case ServerBindComplete:
		return BindComplete{}, nil
	case ServerCloseComplete:
		return CloseComplete{}, nil
	case ServerNoData:
		return NoData{}, nil
	case ServerParameterDescription:
		return decodeParameterDescription(body)
	case ServerRowDescription:
		return decodeRowDescription(body)
	case ServerDataRow:
		return decodeDataRow(body)
	case ServerCommandComplete:
		return decodeCommandComplete(body)
	case ServerErrorResponse:
		return decodeErrorResponse(body)
	case ServerNoticeResponse:
		return decodeNoticeResponse(body)
	case ServerEmptyQuery:
		return EmptyQueryResponse{}, nil
	default:
		return nil, ErrUnknownMessageType
	}
}

func decodeAuth(body []byte) (BackendMsg, error) {
	if len(body) < 4 {
		return nil, ErrProtocolError
	}
	sub := int32(binary.BigEndian.Uint32(body[0:4]))
	rest := body[4:]

	switch sub {
	case authOK:
		return AuthOK{}, nil
	case authCleartextPassword:
		return AuthCleartext{}, nil
	case authMD5Password:
		if len(rest) < 4 {
			return nil, ErrProtocolError
		}
		var salt [4]byte
		copy(salt[:], rest[:4])
		return AuthMD5{Salt: salt}, nil
	case authSASL:
		mechanisms := splitCStrings(rest)
		return AuthSASL{Mechanisms: mechanisms}, nil
	case authSASLContinue:
		data := make([]byte, len(rest))
		copy(data, rest)
		return AuthSASLContinue{Data: data}, nil
	case authSASLFinal:
		data := make([]byte, len(rest))
		copy(data, rest)
		return AuthSASLFinal{Data: data}, nil
	default:
		return nil, ErrUnsupportedAuthMethod
	}
}

// splitCStrings splits a run of NUL-terminated strings followed by a final
// empty string (double NUL terminator), as used by AuthenticationSASL's
// mechanism list.
func splitCStrings(b []byte) []string {
	var out []string
	start := 0
	for i, c := range b {
		if c == 0 {
			if i == start {
				break
			}
			out = append(out, string(b[start:i]))
			start = i + 1
		}
	}
	return out
}

func readCString(b []byte) (string, []byte, bool) {
	for i, c := range b {
		if c == 0 {
			return string(b[:i]), b[i+1:], true
		}
	}
	return "", nil, false
}

func decodeParameterStatus(body []byte) (BackendMsg, error) {
	name, rest, ok := readCString(body)
	if !ok {
		return nil, ErrProtocolError
	}
	value, _, ok := readCString(rest)
	if !ok {
		return nil, ErrProtocolError
	}
	return ParameterStatus{Name: name, Value: value}, nil
}

func decodeBackendKeyData(body []byte) (BackendMsg, error) {
	if len(body) < 8 {
		return nil, ErrProtocolError
	}
	return BackendKeyData{
		ProcessID: binary.BigEndian.Uint32(body[0:4]),
		SecretKey: binary.BigEndian.Uint32(body[4:8]),
	}, nil
}

func decodeReadyForQuery(body []byte) (BackendMsg, error) {
	if len(body) < 1 {
		return nil, ErrProtocolError
	}
	return ReadyForQuery{Status: body[0]}, nil
}

func decodeParameterDescription(body []byte) (BackendMsg, error) {
	if len(body) < 2 {
		return nil, ErrProtocolError
	}
	count := int(binary.BigEndian.Uint16(body[0:2]))
	body = body[2:]
	if len(body) < count*4 {
		return nil, ErrProtocolError
	}
	oids := make([]uint32, count)
	for i := 0; i < count; i++ {
		oids[i] = binary.BigEndian.Uint32(body[i*4 : i*4+4])
	}
	return ParameterDescription{OIDs: oids}, nil
}

func decodeRowDescription(body []byte) (BackendMsg, error) {
	if len(body) < 2 {
		return nil, ErrProtocolError
	}
	count := int(binary.BigEndian.Uint16(body[0:2]))
	body = body[2:]

	fields := make([]RowField, 0, count)
	for i := 0; i < count; i++ {
		name, rest, ok := readCString(body)
		if !ok {
			return nil, ErrProtocolError
		}
		if len(rest) < 18 {
			return nil, ErrProtocolError
		}
		field := RowField{
			Name:       name,
			TableOID:   binary.BigEndian.Uint32(rest[0:4]),
			ColumnAttr: int16(binary.BigEndian.Uint16(rest[4:6])),
			TypeOID:    binary.BigEndian.Uint32(rest[6:10]),
			TypeLen:    int16(binary.BigEndian.Uint16(rest[10:12])),
			TypeMod:    int32(binary.BigEndian.Uint32(rest[12:16])),
			FormatCode: int16(binary.BigEndian.Uint16(rest[16:18])),
		}
		fields = append(fields, field)
		body = rest[18:]
	}

	return RowDescription{Fields: fields}, nil
}

func decodeDataRow(body []byte) (BackendMsg, error) {
	if len(body) < 2 {
		return nil, ErrProtocolError
	}
	count := int(binary.BigEndian.Uint16(body[0:2]))
	body = body[2:]

	cols := make([][]byte, count)
	for i := 0; i < count; i++ {
		if len(body) < 4 {
			return nil, ErrProtocolError
		}
		n := int32(binary.BigEndian.Uint32(body[0:4]))
		body = body[4:]
		if n < 0 {
			cols[i] = nil
			continue
		}
		if len(body) < int(n) {
			return nil, ErrProtocolError
		}
		col := make([]byte, n)
		copy(col, body[:n])
		cols[i] = col
		body = body[n:]
	}

	return DataRow{Columns: cols}, nil
}

func decodeCommandComplete(body []byte) (BackendMsg, error) {
	tag, _, ok := readCString(body)
	if !ok {
		return nil, ErrProtocolError
	}
	return CommandComplete{Tag: tag}, nil
}

func decodeFieldSet(body []byte) (map[byte]string, error) {
	fields := make(map[byte]string)
	for len(body) > 0 {
		code := body[0]
		if code == 0 {
			break
		}
		value, rest, ok := readCString(body[1:])
		if !ok {
			return nil, ErrProtocolError
		}
		fields[code] = value
		body = rest
	}
	return fields, nil
}

func decodeErrorResponse(body []byte) (BackendMsg, error) {
	fields, err := decodeFieldSet(body)
	if err != nil {
		return nil, err
	}
	return ErrorResponse{Fields: fields}, nil
}

func decodeNoticeResponse(body []byte) (BackendMsg, error) {
	fields, err := decodeFieldSet(body)
	if err != nil {
		return nil, err
	}
	return NoticeResponse{Fields: fields}, nil
}
