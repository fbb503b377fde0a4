package wire

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
)

// recvBufferSize is the fixed size of a Connection's receive buffer. A
// single message (e.g. one containing a long DataRow or a generous
// RowDescription) is never expected to exceed this; compaction makes the
// full buffer available to each read, not the slack beyond the current
// message (spec §4.2).
const recvBufferSize = 16 * 1024

// Connection wraps a net.Conn with a Writer for building outgoing frames
// and a fixed-size receive buffer for decoding incoming ones. It is not
// safe for concurrent use; the core this client drives is single-threaded
// end to end.
type Connection struct {
	conn   net.Conn
	w      Writer
	logger *slog.Logger

	recv  [recvBufferSize]byte
	start int
	len   int
}

// Connect dials addr and wraps the resulting connection.
func Connect(network, addr string) (*Connection, error) {
	c, err := net.Dial(network, addr)
	if err != nil {
		return nil, err
	}
	return &Connection{conn: c, logger: slog.Default()}, nil
}

// NewConnection wraps an already-established net.Conn, e.g. one upgraded
// to TLS.
func NewConnection(c net.Conn) *Connection {
	return &Connection{conn: c, logger: slog.Default()}
}

// SetLogger replaces the connection's logger. A nil logger is ignored, so
// callers can pass through an optional CLI-configured logger without a
// nil check of their own.
func (c *Connection) SetLogger(l *slog.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Logger returns the connection's current logger, never nil.
func (c *Connection) Logger() *slog.Logger {
	return c.logger
}

// Raw exposes the underlying net.Conn, e.g. so a caller can perform the SSL
// negotiation handshake before the Postgres protocol proper begins.
func (c *Connection) Raw() net.Conn {
	return c.conn
}

// Writer returns the connection's reusable frame Writer.
func (c *Connection) Writer() *Writer {
	return &c.w
}

// Send writes a pre-built frame to the connection.
func (c *Connection) Send(frame []byte) error {
	c.logger.Debug("-> outgoing message", "bytes", len(frame))
	_, err := c.conn.Write(frame)
	return err
}

// Close closes the underlying connection.
func (c *Connection) Close() error {
	return c.conn.Close()
}

// compact moves any unconsumed bytes to the start of the receive buffer,
// making the full buffer size available for the next read. It is a no-op
// once start is already 0.
func (c *Connection) compact() {
	if c.start == 0 {
		return
	}
	copy(c.recv[:c.len], c.recv[c.start:c.start+c.len])
	c.start = 0
}

// fill reads at least one more chunk from the connection into the receive
// buffer, compacting first if necessary to make room.
func (c *Connection) fill() error {
	if c.start+c.len == len(c.recv) {
		c.compact()
	}
	if c.start+c.len == len(c.recv) {
		// A single message has filled the entire fixed buffer without
		// completing; this client does not support messages that large.
		return ErrProtocolError
	}

	n, err := c.conn.Read(c.recv[c.start+c.len:])
	if n > 0 {
		c.len += n
	}
	if err != nil {
		if errors.Is(err, io.EOF) && n > 0 {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return ErrConnectionClosed
		}
		return err
	}
	return nil
}

// RecvMsg reads and decodes exactly one backend message, blocking on the
// underlying connection and growing/compacting the receive window as
// needed until a complete message is available.
func (c *Connection) RecvMsg() (BackendMsg, error) {
	for {
		window := c.recv[c.start : c.start+c.len]
		msg, consumed, err := Decode(window)
		if err == nil {
			c.start += consumed
			c.len -= consumed
			if c.len == 0 {
				c.start = 0
			}
			c.logger.Debug("<- recv_msg", "type", fmt.Sprintf("%T", msg))
			return msg, nil
		}
		if !errors.Is(err, ErrNeedMoreData) {
			return nil, err
		}
		if err := c.fill(); err != nil {
			return nil, err
		}
	}
}

// RecvUntilReady drains messages until a ReadyForQuery is seen, invoking fn
// for every message observed along the way (including the ReadyForQuery
// itself). It is the loop shape used after Sync: the backend may emit any
// number of NoticeResponse/ParameterStatus messages interleaved with the
// ones the caller is actually waiting for.
func (c *Connection) RecvUntilReady(fn func(BackendMsg) error) error {
	for {
		msg, err := c.RecvMsg()
		if err != nil {
			return err
		}
		if err := fn(msg); err != nil {
			return err
		}
		if _, ok := msg.(ReadyForQuery); ok {
			return nil
		}
	}
}
