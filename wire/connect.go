package wire

import "log/slog"

// Open dials addr, sends the StartupMessage, drives authentication, and
// blocks until the backend reports ReadyForQuery — the full client-side
// handshake a caller needs before issuing any query. BackendKeyData and
// ParameterStatus messages seen along the way are discarded; this client
// has no use for cancel requests or reporting server GUCs back out. A nil
// logger falls back to slog.Default(), same as Connect/NewConnection.
func Open(network, addr, user, password, database string, logger *slog.Logger) (*Connection, error) {
	c, err := Connect(network, addr)
	if err != nil {
		return nil, err
	}
	c.SetLogger(logger)
	c.logger.Debug("opening connection", "addr", addr, "user", user, "database", database)

	frame, err := EncodeStartup(c.Writer(), user, database)
	if err != nil {
		c.Close()
		return nil, err
	}
	if err := c.Send(frame); err != nil {
		c.Close()
		return nil, err
	}

	first, err := c.RecvMsg()
	if err != nil {
		c.Close()
		return nil, err
	}

	if err := Authenticate(c, user, password, first); err != nil {
		c.Close()
		return nil, err
	}

	err = c.RecvUntilReady(func(msg BackendMsg) error {
		if resp, ok := msg.(ErrorResponse); ok {
			return decodeErrorToErr(resp)
		}
		return nil
	})
	if err != nil {
		c.Close()
		return nil, err
	}

	c.logger.Debug("connection ready", "addr", addr)
	return c, nil
}
