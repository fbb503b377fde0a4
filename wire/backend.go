package wire

// BackendMsg is the sum type of every backend message this client
// understands. Concrete types below implement it as a marker; callers type
// switch on the concrete type returned by Decode.
type BackendMsg interface {
	isBackendMsg()
}

// AuthOK signals that authentication has completed successfully.
type AuthOK struct{}

// AuthCleartext requests a cleartext PasswordMessage in response.
type AuthCleartext struct{}

// AuthMD5 requests an MD5-hashed PasswordMessage, salted with Salt.
type AuthMD5 struct {
	Salt [4]byte
}

// AuthSASL requests a SASL negotiation, offering Mechanisms in server
// preference order. Only "SCRAM-SHA-256" is supported (spec §4.3).
type AuthSASL struct {
	Mechanisms []string
}

// AuthSASLContinue carries the server-first SCRAM message.
type AuthSASLContinue struct {
	Data []byte
}

// AuthSASLFinal carries the server's SCRAM verification signature.
type AuthSASLFinal struct {
	Data []byte
}

// ParameterStatus reports a runtime parameter (server_version, etc).
type ParameterStatus struct {
	Name  string
	Value string
}

// BackendKeyData carries the process ID and secret key used for query
// cancellation. Open discards it; this client never sends cancel requests.
type BackendKeyData struct {
	ProcessID uint32
	SecretKey uint32
}

// ReadyForQuery signals the backend is idle and ready for the next Query or
// Sync cycle. Status is one of 'I' (idle), 'T' (in transaction), 'E'
// (failed transaction).
type ReadyForQuery struct {
	Status byte
}

// ParseComplete acknowledges a successful Parse.
type ParseComplete struct{}

// BindComplete acknowledges a successful Bind.
type BindComplete struct{}

// CloseComplete acknowledges a successful Close of a prepared statement
// or portal.
type CloseComplete struct{}

// NoData indicates that the described statement or portal returns no rows.
type NoData struct{}

// ParameterDescription reports the inferred OID of each positional
// parameter, in order, for the most recently parsed statement.
type ParameterDescription struct {
	OIDs []uint32
}

// RowField describes a single result column from a RowDescription message.
type RowField struct {
	Name       string
	TableOID   uint32
	ColumnAttr int16
	TypeOID    uint32
	TypeLen    int16
	TypeMod    int32
	FormatCode int16
}

// RowDescription reports the shape of the result set for the most recently
// described statement.
type RowDescription struct {
	Fields []RowField
}

// DataRow carries one row of result data. This client never issues
// Bind/Execute, so DataRow only arrives on the simple Query path, which the
// catalog lookups (pg_type, pg_enum, pg_attribute) use.
type DataRow struct {
	Columns [][]byte
}

// CommandComplete reports the completion tag of a simple Query command.
type CommandComplete struct {
	Tag string
}

// ErrorResponse carries the raw field set of a server error. Use
// pgerr.Decode to turn it into a Go error.
type ErrorResponse struct {
	Fields map[byte]string
}

// NoticeResponse carries the raw field set of a server notice.
type NoticeResponse struct {
	Fields map[byte]string
}

// EmptyQueryResponse indicates an empty simple-query string was sent.
type EmptyQueryResponse struct{}

func (AuthOK) isBackendMsg()               {}
func (AuthCleartext) isBackendMsg()        {}
func (AuthMD5) isBackendMsg()              {}
func (AuthSASL) isBackendMsg()             {}
func (AuthSASLContinue) isBackendMsg()     {}
func (AuthSASLFinal) isBackendMsg()        {}
func (ParameterStatus) isBackendMsg()      {}
func (BackendKeyData) isBackendMsg()       {}
func (ReadyForQuery) isBackendMsg()        {}
func (ParseComplete) isBackendMsg()        {}
func (BindComplete) isBackendMsg()         {}
func (CloseComplete) isBackendMsg()        {}
func (NoData) isBackendMsg()               {}
func (ParameterDescription) isBackendMsg() {}
func (RowDescription) isBackendMsg()       {}
func (DataRow) isBackendMsg()              {}
func (CommandComplete) isBackendMsg()      {}
func (ErrorResponse) isBackendMsg()        {}
func (NoticeResponse) isBackendMsg()       {}
func (EmptyQueryResponse) isBackendMsg()   {}
