package wire

import (
	"errors"

	"github.com/pgtypegen/pgtypegen/pgerr"
)

var (
	// ErrConnectionClosed is returned when the backend closes the connection
	// mid-message.
	ErrConnectionClosed = errors.New("wire: connection closed by backend")

	// ErrProtocolError is returned when a message header is structurally
	// invalid (e.g. a negative or implausibly large length).
	ErrProtocolError = errors.New("wire: protocol error")

	// ErrUnknownMessageType is returned when a backend message carries a
	// type byte this client does not recognize.
	ErrUnknownMessageType = errors.New("wire: unknown message type")

	// ErrUnsupportedAuthMethod is returned when the server requests an
	// authentication method other than trust, cleartext, MD5, or
	// SCRAM-SHA-256.
	ErrUnsupportedAuthMethod = errors.New("wire: unsupported authentication method")

	// ErrAuthenticationFailed is returned when the SCRAM server signature
	// does not match, indicating either a wrong password or a tampered
	// connection.
	ErrAuthenticationFailed = errors.New("wire: authentication failed")

	// ErrNeedMoreData signals that the receive buffer does not yet hold a
	// complete message. Decode returns it; Connection.RecvMsg treats it as
	// "read more and retry" and never returns it to its callers.
	ErrNeedMoreData = errors.New("wire: need more data")
)

// decodeErrorToErr turns a raw ErrorResponse field set into a decorated Go
// error via pgerr.Decode, giving callers errors.Is/As access to the
// SQLSTATE code, severity, hint, and detail.
func decodeErrorToErr(resp ErrorResponse) error {
	return pgerr.Decode(pgerr.Fields(resp.Fields))
}
