package wire

import (
	"bytes"
	"encoding/binary"
)

// Writer builds a single framed frontend message into a reusable byte
// buffer. Start clears the buffer, writes the message type byte (if any)
// and reserves four bytes for the length; the Add* methods append the
// message body; End backpatches the length and returns the finished frame.
// A Writer is reused across every message sent on a Connection — it is
// never shared across concurrent sends because the core is single-threaded
// (see spec Concurrency & Resource Model).
type Writer struct {
	frame   bytes.Buffer
	err     error
	untyped bool
}

// Reset clears the writer so it can build a new message.
func (w *Writer) Reset() {
	w.frame.Reset()
	w.err = nil
	w.untyped = false
}

// Start begins a typed frontend message: the type byte followed by four
// reserved length bytes.
func (w *Writer) Start(t ClientMessage) {
	w.Reset()
	w.frame.WriteByte(byte(t))
	w.frame.Write([]byte{0, 0, 0, 0})
}

// StartUntyped begins an untyped message (StartupMessage has no leading
// type byte, only the four reserved length bytes).
func (w *Writer) StartUntyped() {
	w.Reset()
	w.untyped = true
	w.frame.Write([]byte{0, 0, 0, 0})
}

// AddInt16 appends a big-endian int16.
func (w *Writer) AddInt16(v int16) {
	if w.err != nil {
		return
	}
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(v))
	_, w.err = w.frame.Write(buf[:])
}

// AddInt32 appends a big-endian int32.
func (w *Writer) AddInt32(v int32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	_, w.err = w.frame.Write(buf[:])
}

// AddString appends a raw (non null-terminated) string.
func (w *Writer) AddString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.frame.WriteString(s)
}

// AddCString appends a string followed by a NUL terminator.
func (w *Writer) AddCString(s string) {
	w.AddString(s)
	w.AddNullTerminate()
}

// AddBytes appends a raw byte slice.
func (w *Writer) AddBytes(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.frame.Write(b)
}

// AddNullTerminate appends a single NUL byte.
func (w *Writer) AddNullTerminate() {
	if w.err != nil {
		return
	}
	w.err = w.frame.WriteByte(0)
}

// Error returns the first error encountered while building the frame.
func (w *Writer) Error() error {
	return w.err
}

// End backpatches the reserved length field (the length includes itself
// but excludes the leading type byte, exactly as the wire format requires)
// and returns the finished frame. The returned slice aliases the Writer's
// internal buffer and is only valid until the next Start/Reset call.
func (w *Writer) End() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}

	b := w.frame.Bytes()
	if len(b) == 0 {
		return nil, nil
	}

	// StartupMessage (and other untyped messages) have no type byte, so the
	// length field starts at offset 0; typed messages reserve it at offset 1.
	lengthOffset := 1
	if w.untyped {
		lengthOffset = 0
	}

	length := uint32(len(b) - lengthOffset)
	binary.BigEndian.PutUint32(b[lengthOffset:lengthOffset+4], length)

	return b, nil
}
