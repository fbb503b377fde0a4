// Package dsn parses the PostgreSQL connection URL the CLI accepts on its
// --database-url flag (or DATABASE_URL environment variable) into a
// struct the core connects with, independent of cobra flag parsing.
package dsn

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Info is a parsed PostgreSQL connection string.
type Info struct {
	Host     string
	Port     uint16
	User     string
	Password string
	Database string
	SSLMode  string
}

// ParseError reports a malformed connection string, with a short hint
// toward the expected format.
type ParseError struct {
	DSN    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dsn: invalid connection string: %s", e.Reason)
}

// Parse parses a postgres:// or postgresql:// connection URL.
func Parse(raw string) (Info, error) {
	if raw == "" {
		return Info{}, &ParseError{DSN: raw, Reason: "empty connection string"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Info{}, &ParseError{DSN: raw, Reason: err.Error()}
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return Info{}, &ParseError{DSN: raw, Reason: "scheme must be postgres:// or postgresql://"}
	}
	if u.User == nil || u.User.Username() == "" {
		return Info{}, &ParseError{DSN: raw, Reason: "missing username"}
	}
	if u.Hostname() == "" {
		return Info{}, &ParseError{DSN: raw, Reason: "missing host"}
	}

	database := strings.TrimPrefix(u.Path, "/")
	if database == "" {
		return Info{}, &ParseError{DSN: raw, Reason: "missing database name"}
	}

	port := uint16(5432)
	if p := u.Port(); p != "" {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return Info{}, &ParseError{DSN: raw, Reason: "invalid port: " + p}
		}
		port = uint16(n)
	}

	password, _ := u.User.Password()
	sslmode := u.Query().Get("sslmode")
	if sslmode == "" {
		sslmode = "prefer"
	}

	return Info{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		Database: database,
		SSLMode:  sslmode,
	}, nil
}

// Address returns "host:port", the form net.Dial expects.
func (i Info) Address() string {
	return fmt.Sprintf("%s:%d", i.Host, i.Port)
}
