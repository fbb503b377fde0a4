package wire

// Frontend message encoders. Each takes a reusable *Writer (cleared
// internally by Start/StartUntyped) and returns the finished frame ready to
// write to the connection. See spec §4.1.

// EncodeStartup builds a StartupMessage: protocol version followed by
// alternating key/value NUL-terminated parameter strings, terminated by an
// extra NUL byte. No type byte and no Sync is associated with this message.
func EncodeStartup(w *Writer, user, database string) ([]byte, error) {
	w.StartUntyped()
	w.AddInt32(int32(Version30))
	w.AddCString("user")
	w.AddCString(user)
	w.AddCString("database")
	w.AddCString(database)
	w.AddNullTerminate()
	return w.End()
}

// EncodePassword builds a PasswordMessage carrying a cleartext or
// pre-hashed (md5*) password.
func EncodePassword(w *Writer, password string) ([]byte, error) {
	w.Start(ClientPassword)
	w.AddCString(password)
	return w.End()
}

// EncodeSASLInitialResponse builds the initial SASLInitialResponse message:
// the mechanism name, a NUL terminator, the length of the client-first
// message, then the client-first bytes themselves.
func EncodeSASLInitialResponse(w *Writer, mechanism string, clientFirst []byte) ([]byte, error) {
	w.Start(ClientPassword)
	w.AddCString(mechanism)
	w.AddInt32(int32(len(clientFirst)))
	w.AddBytes(clientFirst)
	return w.End()
}

// EncodeSASLResponse builds a follow-up SASLResponse message carrying the
// raw client-final bytes (no mechanism name, no length prefix).
func EncodeSASLResponse(w *Writer, data []byte) ([]byte, error) {
	w.Start(ClientPassword)
	w.AddBytes(data)
	return w.End()
}

// EncodeParse builds a Parse message. The statement name is always the
// unnamed statement (""), and the parameter type OID count is always 0,
// meaning "let the server infer parameter types" — exactly the contract
// the introspector relies on (spec §4.1).
func EncodeParse(w *Writer, sql string) ([]byte, error) {
	w.Start(ClientParse)
	w.AddCString("")
	w.AddCString(sql)
	w.AddInt16(0)
	return w.End()
}

// EncodeDescribe builds a Describe message for the unnamed prepared
// statement or the unnamed portal, as selected by target.
func EncodeDescribe(w *Writer, target DescribeTarget) ([]byte, error) {
	w.Start(ClientDescribe)
	w.frame.WriteByte(byte(target))
	w.AddNullTerminate()
	return w.End()
}

// EncodeSync builds a Sync message (no body).
func EncodeSync(w *Writer) ([]byte, error) {
	w.Start(ClientSync)
	return w.End()
}

// EncodeQuery builds a simple Query message.
func EncodeQuery(w *Writer, sql string) ([]byte, error) {
	w.Start(ClientSimpleQuery)
	w.AddCString(sql)
	return w.End()
}

// EncodeClose builds a Close message for the given target (statement or
// portal) and name.
func EncodeClose(w *Writer, target DescribeTarget, name string) ([]byte, error) {
	w.Start(ClientClose)
	w.frame.WriteByte(byte(target))
	w.AddCString(name)
	return w.End()
}

// EncodeTerminate builds a Terminate message (no body).
func EncodeTerminate(w *Writer) ([]byte, error) {
	w.Start(ClientTerminate)
	return w.End()
}
