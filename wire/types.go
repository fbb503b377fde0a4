// Package wire implements the subset of the PostgreSQL frontend/backend
// wire protocol (v3.0) needed to drive the Extended Query protocol as a
// client: Startup, authentication (cleartext/MD5/SCRAM-SHA-256), Parse,
// Describe, Sync, and simple Query. It deliberately does not implement
// Bind/Execute, COPY, LISTEN/NOTIFY, pipeline mode, or binary result
// decoding — see spec Non-goals.
package wire

// Version represents the protocol version (or pseudo-version, for cancel
// and SSL negotiation requests) carried in a StartupMessage.
//
// https://www.postgresql.org/docs/current/protocol-message-formats.html
type Version uint32

const (
	// Version30 is protocol version 3.0: (3 << 16) + 0.
	Version30 Version = 196608
)

// ClientMessage represents a frontend (client-to-server) message type byte.
type ClientMessage byte

// ServerMessage represents a backend (server-to-client) message type byte.
type ServerMessage byte

// DescribeTarget selects whether a Describe message targets a prepared
// statement or a portal. This client only ever describes statements (it
// never opens a portal via Bind), but the byte is part of the wire format.
type DescribeTarget byte

// http://www.postgresql.org/docs/current/static/protocol-message-formats.html
const (
	ClientPassword    ClientMessage = 'p'
	ClientParse       ClientMessage = 'P'
	ClientDescribe    ClientMessage = 'D'
	ClientSync        ClientMessage = 'S'
	ClientSimpleQuery ClientMessage = 'Q'
	ClientClose       ClientMessage = 'C'
	ClientTerminate   ClientMessage = 'X'

	ServerAuth                 ServerMessage = 'R'
	ServerParameterStatus      ServerMessage = 'S'
	ServerBackendKeyData       ServerMessage = 'K'
	ServerReady                ServerMessage = 'Z'
	ServerParseComplete        ServerMessage = '1'
	ServerBindComplete         ServerMessage = '2'
	ServerCloseComplete        ServerMessage = '3'
	ServerNoData               ServerMessage = 'n'
	ServerParameterDescription ServerMessage = 't'
	ServerRowDescription       ServerMessage = 'T'
	ServerDataRow              ServerMessage = 'D'
	ServerCommandComplete      ServerMessage = 'C'
	ServerErrorResponse        ServerMessage = 'E'
	ServerNoticeResponse       ServerMessage = 'N'
	ServerEmptyQuery           ServerMessage = 'I'

	DescribeStatement DescribeTarget = 'S'
	DescribePortal    DescribeTarget = 'P'
)

// Authentication subtypes carried as the first int32 of an 'R' message.
// https://www.postgresql.org/docs/current/protocol-message-formats.html
const (
	authOK                int32 = 0
	authCleartextPassword int32 = 3
	authMD5Password       int32 = 5
	authSASL              int32 = 10
	authSASLContinue      int32 = 11
	authSASLFinal         int32 = 12
)

func (m ClientMessage) String() string {
	switch m {
	case ClientPassword:
		return "Password"
	case ClientParse:
		return "Parse"
	case ClientDescribe:
		return "Describe"
	case ClientSync:
		return "Sync"
	case ClientSimpleQuery:
		return "SimpleQuery"
	case ClientClose:
		return "Close"
	case ClientTerminate:
		return "Terminate"
	default:
		return "Unknown"
	}
}

func (m ServerMessage) String() string {
	switch m {
	case ServerAuth:
		return "Auth"
	case ServerParameterStatus:
		return "ParameterStatus"
	case ServerBackendKeyData:
		return "BackendKeyData"
	case ServerReady:
		return "ReadyForQuery"
	case ServerParseComplete:
		return "ParseComplete"
	case ServerBindComplete:
		return "BindComplete"
	case ServerCloseComplete:
		return "CloseComplete"
	case ServerNoData:
		return "NoData"
	case ServerParameterDescription:
		return "ParameterDescription"
	case ServerRowDescription:
		return "RowDescription"
	case ServerDataRow:
		return "DataRow"
	case ServerCommandComplete:
		return "CommandComplete"
	case ServerErrorResponse:
		return "ErrorResponse"
	case ServerNoticeResponse:
		return "NoticeResponse"
	case ServerEmptyQuery:
		return "EmptyQueryResponse"
	default:
		return "Unknown"
	}
}
